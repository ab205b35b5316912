package converter

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/fbx"
	"github.com/binzume/fbxio/geom"
	"github.com/binzume/fbxio/material"
	"github.com/binzume/fbxio/scene"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(t *testing.T) *scene.Document {
	doc := scene.NewDocument()
	doc.UnitScale = 0.01
	red := scene.NewMaterial("red")
	red.Surface.BaseColor = geom.Vector3{X: 1}
	blue := scene.NewMaterial("blue")
	blue.Surface.BaseColor = geom.Vector3{Z: 1}
	blue.Surface.Opacity = 0.5
	doc.AddMaterial(red)
	doc.AddMaterial(blue)

	body := doc.Root.AddChild(scene.NewNode("body"))
	rot := geom.NewAxisAngleQuaternion(&geom.Vector3{Z: 1}, math.Pi/6)
	body.Transform = scene.MatrixFrom(geom.NewTRSMatrix4(&geom.Vector3{X: 1, Y: 2, Z: 3}, rot, &geom.Vector3{X: 2, Y: 2, Z: 2}))

	arm := body.AddChild(scene.NewNode("arm"))
	arm.Transform = scene.MatrixFrom(geom.NewTranslateMatrix4(0, 5, 0))
	require.NoError(t, arm.BindMaterial(doc, "blue"))
	require.NoError(t, arm.BindMaterial(doc, "red"))

	m := scene.NewMesh("armMesh")
	m.Vertices = []geom.Vector4{
		{X: 0, Y: 0, Z: 0, W: 1},
		{X: 1, Y: 0, Z: 0, W: 1},
		{X: 1, Y: 1, Z: 0, W: 1},
		{X: 0, Y: 1, Z: 0, W: 1},
		{X: 2, Y: 0, Z: 0, W: 1},
	}
	m.AddPolygon(0, 0, 1, 2, 3)
	m.AddPolygon(1, 1, 4, 2)
	_, err := m.AddPolygonNormals("normals", []geom.Vector4{{Z: 1}, {Z: 1}})
	require.NoError(t, err)
	m.AddUVSet("uv", []geom.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}})
	arm.Mesh = m

	arm.AddChild(scene.NewNode("hand"))
	body.AddChild(scene.NewNode("head"))
	return doc
}

type countingManager struct {
	engine.Manager
	destroyed int
	failInit  bool
}

func (m *countingManager) Destroy() error {
	m.destroyed++
	return m.Manager.Destroy()
}

func (m *countingManager) CreateExporter() engine.Exporter {
	e := m.Manager.CreateExporter()
	if m.failInit {
		return &failingExporter{e}
	}
	return e
}

type failingExporter struct {
	engine.Exporter
}

func (e *failingExporter) Initialize(path string, format int) error {
	return errors.New("license check failed")
}

func assertNoFile(t *testing.T, path string) {
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist", path)
	entries, _ := os.ReadDir(filepath.Dir(path))
	assert.Empty(t, entries)
}

func TestRoundTrip(t *testing.T) {
	for _, ascii := range []bool{false, true} {
		src := newTestDocument(t)
		src.ASCII = ascii
		path := filepath.Join(t.TempDir(), "scene.fbx")
		require.NoError(t, NewExporter(nil).Export(path, src))
		// export works on a copy of the geometry
		assert.Equal(t, geom.Vector4{X: 2, W: 1}, src.Root.Children[0].Children[0].Mesh.Vertices[4])

		dst, err := NewImporter(nil).Import(path)
		require.NoError(t, err)
		assert.Equal(t, ascii, dst.ASCII)
		assert.Equal(t, 0.01, dst.UnitScale)

		var srcNodes, dstNodes []*scene.Node
		var srcDepth, dstDepth []int
		for d, n := range src.Walk() {
			srcNodes, srcDepth = append(srcNodes, n), append(srcDepth, d)
		}
		for d, n := range dst.Walk() {
			dstNodes, dstDepth = append(dstNodes, n), append(dstDepth, d)
		}
		require.Len(t, dstNodes, len(srcNodes))
		assert.Equal(t, srcDepth, dstDepth)
		for i, a := range srcNodes[1:] {
			b := dstNodes[i+1]
			assert.Equal(t, a.Name, b.Name)
			for k := range a.Transform {
				assert.InDelta(t, a.Transform[k], b.Transform[k], 1e-9, "%s[%d]", a.Name, k)
			}
			require.Equal(t, len(a.MaterialSlots), len(b.MaterialSlots))
			for k := range a.MaterialSlots {
				assert.Equal(t, src.Materials[a.MaterialSlots[k]].Name, dst.Materials[b.MaterialSlots[k]].Name)
			}
			if a.Mesh == nil {
				assert.Nil(t, b.Mesh)
				continue
			}
			require.NotNil(t, b.Mesh)
			assert.Equal(t, a.Mesh.Name, b.Mesh.Name)
			assert.Equal(t, a.Mesh.Polys, b.Mesh.Polys)
			assert.Equal(t, a.Mesh.Indices, b.Mesh.Indices)
			assert.Equal(t, a.Mesh.MaterialIndices, b.Mesh.MaterialIndices)
			require.Len(t, b.Mesh.Vertices, len(a.Mesh.Vertices))
			for k, v := range a.Mesh.Vertices {
				assert.InDelta(t, 0, v.Sub(&b.Mesh.Vertices[k]).Len(), 1e-9)
			}
			require.Len(t, b.Mesh.NormalSets, 1)
			for k, n := range a.Mesh.NormalSets[0].Normal {
				got := b.Mesh.NormalSets[0].Normal[k]
				assert.InDelta(t, 0, n.XYZ().Sub(got.XYZ()).Len(), 1e-9)
			}
			require.Len(t, b.Mesh.UVSets, 1)
			assert.Equal(t, a.Mesh.UVSets[0].UV, b.Mesh.UVSets[0].UV)
		}

		require.Len(t, dst.Materials, 2)
		assert.Equal(t, src.Materials[0].Surface, dst.Materials[0].Surface)
		assert.Equal(t, src.Materials[1].Surface, dst.Materials[1].Surface)
	}
}

func TestExportInvalidPath(t *testing.T) {
	doc := newTestDocument(t)
	assert.ErrorIs(t, NewExporter(nil).Export("", doc), scene.ErrInvalidPath)
	missing := filepath.Join(t.TempDir(), "missing", "scene.fbx")
	assert.ErrorIs(t, NewExporter(nil).Export(missing, doc), scene.ErrInvalidPath)

	_, err := NewImporter(nil).Import(filepath.Join(t.TempDir(), "none.fbx"))
	assert.ErrorIs(t, err, scene.ErrInvalidPath)
	_, err = NewImporter(nil).Import(t.TempDir())
	assert.ErrorIs(t, err, scene.ErrInvalidPath)
}

func TestExportMalformedTree(t *testing.T) {
	doc := newTestDocument(t)
	arm := doc.Root.Children[0].Children[0]
	arm.Children = append(arm.Children, nil)

	path := filepath.Join(t.TempDir(), "scene.fbx")
	err := NewExporter(nil).Export(path, doc)
	assert.ErrorIs(t, err, scene.ErrMalformedTree)
	assertNoFile(t, path)

	// the walker reports the same without validation
	s := fbx.NewDocument("s", nil)
	mapper := material.NewMapper(material.Auto, nil)
	require.NoError(t, mapper.Register(s, doc.Materials))
	err = newSceneToEngine(s, doc, mapper, nil).Convert()
	assert.ErrorIs(t, err, scene.ErrMalformedTree)
	assert.Equal(t, 0, s.RootNode().ChildCount())
}

func TestManagerTeardown(t *testing.T) {
	t.Run("init failure", func(t *testing.T) {
		mgr := &countingManager{Manager: fbx.NewManager(nil), failInit: true}
		path := filepath.Join(t.TempDir(), "scene.fbx")
		err := NewExporter(&ExportOption{NewManager: func() engine.Manager { return mgr }}).Export(path, newTestDocument(t))
		assert.ErrorIs(t, err, scene.ErrEngineInit)
		assert.Equal(t, 1, mgr.destroyed)
		assertNoFile(t, path)
	})

	t.Run("material failure", func(t *testing.T) {
		mgr := &countingManager{Manager: fbx.NewManager(&fbx.ManagerOption{
			Document: fbx.DocumentOption{Shading: []engine.ShadingModel{engine.ShadingLambert}},
		})}
		path := filepath.Join(t.TempDir(), "scene.fbx")
		opt := &ExportOption{Strategy: material.Shader, NewManager: func() engine.Manager { return mgr }}
		err := NewExporter(opt).Export(path, newTestDocument(t))
		assert.ErrorIs(t, err, engine.ErrUnsupportedShading)
		assert.Equal(t, 1, mgr.destroyed)
		assertNoFile(t, path)
	})

	t.Run("success", func(t *testing.T) {
		mgr := &countingManager{Manager: fbx.NewManager(nil)}
		path := filepath.Join(t.TempDir(), "scene.fbx")
		err := NewExporter(&ExportOption{NewManager: func() engine.Manager { return mgr }}).Export(path, newTestDocument(t))
		assert.NoError(t, err)
		assert.Equal(t, 1, mgr.destroyed)
		assert.FileExists(t, path)
	})
}

func TestSceneToGLTF(t *testing.T) {
	doc := newTestDocument(t)
	conv := NewSceneToGLTFConverter(nil)
	out, err := conv.Convert(doc)
	require.NoError(t, err)

	// wrapper + Root, body, arm, hand, head
	require.Len(t, out.Nodes, 6)
	assert.Equal(t, [3]float32{0.01, 0.01, 0.01}, out.Nodes[0].Scale)
	require.Len(t, out.Materials, 2)
	assert.Equal(t, gltf.AlphaBlend, out.Materials[1].AlphaMode)

	require.Len(t, out.Meshes, 1)
	prims := out.Meshes[0].Primitives
	require.Len(t, prims, 2)
	// polygon 0 uses slot 0 -> "blue", polygon 1 uses slot 1 -> "red"
	assert.Equal(t, uint32(1), *prims[0].Material)
	assert.Equal(t, uint32(0), *prims[1].Material)
	assert.Equal(t, uint32(6), out.Accessors[*prims[0].Indices].Count)
	assert.Equal(t, uint32(3), out.Accessors[*prims[1].Indices].Count)
	assert.Equal(t, uint32(7), out.Accessors[prims[0].Attributes["POSITION"]].Count)
	assert.Contains(t, prims[0].Attributes, "NORMAL")
	assert.Contains(t, prims[0].Attributes, "TEXCOORD_0")

	path := filepath.Join(t.TempDir(), "scene.glb")
	require.NoError(t, gltf.SaveBinary(out, path))
	loaded, err := gltf.Open(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Meshes, 1)
}
