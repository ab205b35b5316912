package codec

import (
	"fmt"

	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/geom"
	"github.com/binzume/fbxio/scene"
)

// EncodeAttributeSet writes one value per polygon corner.
func EncodeAttributeSet(dst engine.Mesh, kind engine.ElementKind, name string, values []geom.Vector4, indexCount int) error {
	if len(values) != indexCount {
		return fmt.Errorf("%s: %d values for %d corners: %w", name, len(values), indexCount, scene.ErrAttributeLengthMismatch)
	}
	el := dst.CreateElement(kind, name)
	el.SetMappingMode(engine.MappingByPolygonVertex)
	el.SetReferenceMode(engine.ReferenceDirect)
	for _, v := range values {
		el.AppendDirect(v)
	}
	return nil
}

// EncodeMaterialBinding creates the per-polygon material element. The
// indices are filled by BeginPolygon. Returns nil when m has no bindings.
func EncodeMaterialBinding(dst engine.Mesh, m *scene.Mesh) engine.Element {
	if len(m.MaterialIndices) == 0 {
		return nil
	}
	el := dst.CreateElement(engine.ElementMaterial, "")
	el.SetMappingMode(engine.MappingByPolygon)
	el.SetReferenceMode(engine.ReferenceIndexToDirect)
	return el
}

// EncodeMesh writes control points, material binding, polygons, normals
// and UVs into dst, in that order.
func EncodeMesh(dst engine.Mesh, m *scene.Mesh) error {
	polygons, err := DecodePolygons(m)
	if err != nil {
		return err
	}
	for _, set := range m.NormalSets {
		if len(set.Normal) != m.IndexCount() {
			return fmt.Errorf("normal set %q: %d values for %d corners: %w", set.Name, len(set.Normal), m.IndexCount(), scene.ErrAttributeLengthMismatch)
		}
	}
	for _, set := range m.UVSets {
		if len(set.UV) != m.IndexCount() {
			return fmt.Errorf("uv set %q: %d values for %d corners: %w", set.Name, len(set.UV), m.IndexCount(), scene.ErrAttributeLengthMismatch)
		}
	}

	dst.InitControlPoints(len(m.Vertices))
	for i, v := range m.Vertices {
		dst.SetControlPoint(i, v)
	}
	EncodeMaterialBinding(dst, m)
	for p := range polygons {
		dst.BeginPolygon(p.Material)
		for _, c := range p.Corners {
			if int(c) >= len(m.Vertices) {
				return fmt.Errorf("mesh %q polygon %d: vertex %d out of range: %w", m.Name, p.Index, c, scene.ErrMalformedTopology)
			}
			dst.AddPolygon(int(c))
		}
		dst.EndPolygon()
	}
	for _, set := range m.NormalSets {
		if err := EncodeAttributeSet(dst, engine.ElementNormal, set.Name, set.Normal, m.IndexCount()); err != nil {
			return err
		}
	}
	for _, set := range m.UVSets {
		uv := make([]geom.Vector4, len(set.UV))
		for i, v := range set.UV {
			uv[i] = geom.Vector4{X: v.X, Y: v.Y}
		}
		if err := EncodeAttributeSet(dst, engine.ElementUV, set.Name, uv, m.IndexCount()); err != nil {
			return err
		}
	}
	return nil
}

// HarvestPolygons rebuilds the offset table by recording where each polygon
// starts in the corner list.
func HarvestPolygons(src engine.Mesh) (polys, indices []uint32) {
	cursor := 0
	for p := 0; p < src.PolygonCount(); p++ {
		polys = append(polys, uint32(cursor))
		size := src.PolygonSize(p)
		for c := 0; c < size; c++ {
			indices = append(indices, uint32(src.PolygonVertex(p, c)))
		}
		cursor += size
	}
	return polys, indices
}

// HarvestAttributeSet returns one value per corner. Elements mapped by
// control point, by polygon or all-same and indexed elements are expanded.
func HarvestAttributeSet(el engine.Element, indices, polys []uint32) ([]geom.Vector4, error) {
	lookup := func(j int) (geom.Vector4, error) {
		if el.ReferenceMode() == engine.ReferenceIndexToDirect {
			if j >= el.IndexCount() {
				return geom.Vector4{}, fmt.Errorf("%s: index %d of %d: %w", el.Name(), j, el.IndexCount(), scene.ErrAttributeLengthMismatch)
			}
			j = el.Index(j)
		}
		if j < 0 || j >= el.DirectCount() {
			return geom.Vector4{}, fmt.Errorf("%s: value %d of %d: %w", el.Name(), j, el.DirectCount(), scene.ErrAttributeLengthMismatch)
		}
		return el.Direct(j), nil
	}

	values := make([]geom.Vector4, len(indices))
	p := 0
	for k := range indices {
		for p+1 < len(polys) && int(polys[p+1]) <= k {
			p++
		}
		var j int
		switch el.MappingMode() {
		case engine.MappingByPolygonVertex:
			j = k
		case engine.MappingByControlPoint:
			j = int(indices[k])
		case engine.MappingByPolygon:
			j = p
		case engine.MappingAllSame:
			j = 0
		}
		v, err := lookup(j)
		if err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, nil
}

func harvestMaterialIndices(el engine.Element, polyCount int) ([]uint32, error) {
	if el.IndexCount() == 0 {
		return nil, nil
	}
	materials := make([]uint32, polyCount)
	for p := range materials {
		j := 0
		if el.MappingMode() != engine.MappingAllSame {
			j = p
		}
		if j >= el.IndexCount() {
			return nil, fmt.Errorf("material element: %d indices for %d polygons: %w", el.IndexCount(), polyCount, scene.ErrAttributeLengthMismatch)
		}
		materials[p] = uint32(max(el.Index(j), 0))
	}
	return materials, nil
}

// HarvestMesh reads src back into a scene mesh.
func HarvestMesh(src engine.Mesh) (*scene.Mesh, error) {
	m := scene.NewMesh(src.Name())
	m.Vertices = make([]geom.Vector4, src.ControlPointCount())
	for i := range m.Vertices {
		m.Vertices[i] = src.ControlPoint(i)
	}
	m.Polys, m.Indices = HarvestPolygons(src)

	if src.ElementCount(engine.ElementMaterial) > 0 {
		materials, err := harvestMaterialIndices(src.Element(engine.ElementMaterial, 0), len(m.Polys))
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		m.MaterialIndices = materials
	}
	for i := 0; i < src.ElementCount(engine.ElementNormal); i++ {
		el := src.Element(engine.ElementNormal, i)
		normals, err := HarvestAttributeSet(el, m.Indices, m.Polys)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		m.AddNormalSet(el.Name(), normals)
	}
	for i := 0; i < src.ElementCount(engine.ElementUV); i++ {
		el := src.Element(engine.ElementUV, i)
		values, err := HarvestAttributeSet(el, m.Indices, m.Polys)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		uv := make([]geom.Vector2, len(values))
		for k, v := range values {
			uv[k] = geom.Vector2{X: v.X, Y: v.Y}
		}
		m.AddUVSet(el.Name(), uv)
	}
	return m, nil
}
