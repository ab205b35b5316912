package scene

import (
	"fmt"

	"github.com/binzume/fbxio/geom"
)

type UVSet struct {
	Name string
	UV   []geom.Vector2
}

type NormalSet struct {
	Name   string
	Normal []geom.Vector4
}

// Mesh stores polygons as a flat corner list. Polys[i] is the offset of the
// first corner of polygon i in Indices.
type Mesh struct {
	Name            string
	Vertices        []geom.Vector4
	Indices         []uint32
	Polys           []uint32
	MaterialIndices []uint32
	UVSets          []*UVSet
	NormalSets      []*NormalSet
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

func (m *Mesh) PolyCount() int {
	return len(m.Polys)
}

func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// PolySize returns the corner count of polygon i.
func (m *Mesh) PolySize(i int) int {
	if i+1 < len(m.Polys) {
		return int(m.Polys[i+1]) - int(m.Polys[i])
	}
	return len(m.Indices) - int(m.Polys[i])
}

// AddPolygon appends a polygon. material is ignored when negative.
func (m *Mesh) AddPolygon(material int, corners ...uint32) {
	m.Polys = append(m.Polys, uint32(len(m.Indices)))
	m.Indices = append(m.Indices, corners...)
	if material >= 0 {
		m.MaterialIndices = append(m.MaterialIndices, uint32(material))
	}
}

func (m *Mesh) AddUVSet(name string, uv []geom.Vector2) *UVSet {
	s := &UVSet{Name: name, UV: uv}
	m.UVSets = append(m.UVSets, s)
	return s
}

func (m *Mesh) AddNormalSet(name string, n []geom.Vector4) *NormalSet {
	s := &NormalSet{Name: name, Normal: n}
	m.NormalSets = append(m.NormalSets, s)
	return s
}

// AddPolygonNormals expands one normal per polygon into a per-corner normal set.
func (m *Mesh) AddPolygonNormals(name string, perPolygon []geom.Vector4) (*NormalSet, error) {
	if len(perPolygon) != m.PolyCount() {
		return nil, fmt.Errorf("%d polygon normals for %d polygons: %w", len(perPolygon), m.PolyCount(), ErrAttributeLengthMismatch)
	}
	normals := make([]geom.Vector4, 0, m.IndexCount())
	for i, n := range perPolygon {
		size := m.PolySize(i)
		if size < 0 {
			return nil, fmt.Errorf("polygon %d: %w", i, ErrMalformedTopology)
		}
		for j := 0; j < size; j++ {
			normals = append(normals, n)
		}
	}
	if len(normals) != m.IndexCount() {
		return nil, fmt.Errorf("polygon offsets do not cover %d corners: %w", m.IndexCount(), ErrMalformedTopology)
	}
	return m.AddNormalSet(name, normals), nil
}
