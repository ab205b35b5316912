package converter

import (
	"fmt"
	"math"

	"github.com/binzume/fbxio/codec"
	"github.com/binzume/fbxio/coord"
	"github.com/binzume/fbxio/geom"
	"github.com/binzume/fbxio/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const unlitMaterialExt = "KHR_materials_unlit"

type SceneToGLTFOption struct {
	ForceUnlit bool
}

type sceneToGltf struct {
	*SceneToGLTFOption
	*gltf.Document
}

func NewSceneToGLTFConverter(options *SceneToGLTFOption) *sceneToGltf {
	if options == nil {
		options = &SceneToGLTFOption{}
	}
	return &sceneToGltf{
		SceneToGLTFOption: options,
		Document:          gltf.NewDocument(),
	}
}

func toFloat32Matrix(m *geom.Matrix4) [16]float32 {
	var r [16]float32
	for i, v := range m {
		r[i] = float32(v)
	}
	return r
}

func clamp01(v float64) float32 {
	return float32(math.Max(0, math.Min(v, 1)))
}

func (c *sceneToGltf) convertMaterial(mat *scene.Material) *gltf.Material {
	s := &mat.Surface
	base := s.BaseColor.Scale(s.Base)
	metallic := clamp01(s.Metalness)
	roughness := clamp01(s.SpecularRoughness)
	mm := &gltf.Material{
		Name: mat.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{clamp01(base.X), clamp01(base.Y), clamp01(base.Z), clamp01(s.Opacity)},
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
		DoubleSided: s.ThinWalled,
	}
	if s.Emission > 0 {
		e := s.EmissionColor.Scale(s.Emission)
		mm.EmissiveFactor = [3]float32{clamp01(e.X), clamp01(e.Y), clamp01(e.Z)}
	}
	if s.Opacity < 0.99 {
		mm.AlphaMode = gltf.AlphaBlend
	}
	if c.ForceUnlit {
		mm.Extensions = map[string]interface{}{unlitMaterialExt: map[string]string{}}
	}
	return mm
}

// convertMesh writes one primitive per material. Vertices are not shared
// between corners.
func (c *sceneToGltf) convertMesh(m *scene.Mesh, slots []int) (*gltf.Mesh, error) {
	polygons, err := codec.DecodePolygons(m)
	if err != nil {
		return nil, err
	}
	var positions, normals [][3]float32
	var texcoords [][2]float32
	var normal []geom.Vector4
	var uv []geom.Vector2
	if len(m.NormalSets) > 0 {
		normal = m.NormalSets[0].Normal
	}
	if len(m.UVSets) > 0 {
		uv = m.UVSets[0].UV
	}

	var materials []int
	indices := map[int][]uint32{}
	for p := range polygons {
		poly := make([]*geom.Vector3, len(p.Corners))
		base := uint32(len(positions))
		first := int(m.Polys[p.Index])
		for i, vi := range p.Corners {
			if int(vi) >= len(m.Vertices) {
				return nil, fmt.Errorf("mesh %q: vertex %d out of range: %w", m.Name, vi, scene.ErrMalformedTopology)
			}
			k := first + i
			v := m.Vertices[vi]
			poly[i] = v.XYZ()
			positions = append(positions, [3]float32{float32(v.X), float32(v.Y), float32(v.Z)})
			if k < len(normal) {
				n := normal[k]
				normals = append(normals, [3]float32{float32(n.X), float32(n.Y), float32(n.Z)})
			}
			if k < len(uv) {
				texcoords = append(texcoords, [2]float32{float32(uv[k].X), float32(1 - uv[k].Y)})
			}
		}
		mat := -1
		if p.Material >= 0 && p.Material < len(slots) {
			mat = slots[p.Material]
		}
		if _, exists := indices[mat]; !exists {
			materials = append(materials, mat)
		}
		for _, t := range geom.Triangulate(poly) {
			indices[mat] = append(indices[mat], base+uint32(t[0]), base+uint32(t[1]), base+uint32(t[2]))
		}
	}

	attributes := map[string]uint32{}
	attributes["POSITION"] = modeler.WritePosition(c.Document, positions)
	if len(normals) == len(positions) && !c.ForceUnlit {
		attributes["NORMAL"] = modeler.WriteNormal(c.Document, normals)
	}
	if len(texcoords) == len(positions) {
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(c.Document, texcoords)
	}

	var primitives []*gltf.Primitive
	for _, mat := range materials {
		prim := &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(c.Document, indices[mat])),
			Attributes: attributes,
		}
		if mat >= 0 {
			prim.Material = gltf.Index(uint32(mat))
		}
		primitives = append(primitives, prim)
	}
	return &gltf.Mesh{Name: m.Name, Primitives: primitives}, nil
}

func (c *sceneToGltf) convertNode(n *scene.Node, depth int) (uint32, error) {
	if n == nil {
		return 0, fmt.Errorf("nil node at depth %d: %w", depth, scene.ErrMalformedTree)
	}
	node := &gltf.Node{
		Name:        n.Name,
		Matrix:      toFloat32Matrix(n.Transform.Matrix4()),
		Rotation:    [4]float32{0, 0, 0, 1},
		Scale:       [3]float32{1, 1, 1},
		Translation: [3]float32{0, 0, 0},
	}
	if n.Mesh != nil && n.Mesh.PolyCount() > 0 {
		mesh, err := c.convertMesh(n.Mesh, n.MaterialSlots)
		if err != nil {
			return 0, err
		}
		c.Meshes = append(c.Meshes, mesh)
		node.Mesh = gltf.Index(uint32(len(c.Meshes) - 1))
	}
	index := uint32(len(c.Nodes))
	c.Nodes = append(c.Nodes, node)
	for _, child := range n.Children {
		ci, err := c.convertNode(child, depth+1)
		if err != nil {
			return 0, err
		}
		node.Children = append(node.Children, ci)
	}
	return index, nil
}

// Convert builds a glTF document. The scene root becomes a wrapper node
// that turns the Z-up document into Y-up meters.
func (c *sceneToGltf) Convert(doc *scene.Document) (*gltf.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	for _, mat := range doc.Materials {
		c.Materials = append(c.Materials, c.convertMaterial(mat))
	}

	q := coord.ZUpToYUp
	s := float32(doc.UnitScale)
	root := &gltf.Node{
		Matrix:      [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		Rotation:    [4]float32{float32(q.X), float32(q.Y), float32(q.Z), float32(q.W)},
		Scale:       [3]float32{s, s, s},
		Translation: [3]float32{0, 0, 0},
	}
	rootIndex := uint32(len(c.Nodes))
	c.Nodes = append(c.Nodes, root)
	c.Scenes[0].Nodes = append(c.Scenes[0].Nodes, rootIndex)
	ci, err := c.convertNode(doc.Root, 0)
	if err != nil {
		return nil, err
	}
	root.Children = append(root.Children, ci)
	return c.Document, nil
}
