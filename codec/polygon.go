// Package codec converts between the run-length polygon encoding of
// scene.Mesh and the begin/end polygon calls of an engine.Mesh.
package codec

import (
	"fmt"
	"iter"

	"github.com/binzume/fbxio/scene"
)

type Polygon struct {
	Index int
	// Material indexes the owning node's material slots. -1 if unbound.
	Material int
	Corners  []uint32
}

// ValidateTopology checks the offset table of m.
func ValidateTopology(m *scene.Mesh) error {
	n := uint32(len(m.Indices))
	if len(m.Polys) == 0 {
		if n > 0 {
			return fmt.Errorf("mesh %q: %d indices without polygons: %w", m.Name, n, scene.ErrMalformedTopology)
		}
		return nil
	}
	if m.Polys[0] != 0 {
		return fmt.Errorf("mesh %q: first offset is %d: %w", m.Name, m.Polys[0], scene.ErrMalformedTopology)
	}
	for i := 1; i < len(m.Polys); i++ {
		if m.Polys[i] <= m.Polys[i-1] {
			return fmt.Errorf("mesh %q: offsets not increasing at %d: %w", m.Name, i, scene.ErrMalformedTopology)
		}
	}
	if last := m.Polys[len(m.Polys)-1]; last >= n {
		return fmt.Errorf("mesh %q: offset %d exceeds %d indices: %w", m.Name, last, n, scene.ErrMalformedTopology)
	}
	if len(m.MaterialIndices) > 0 && len(m.MaterialIndices) != len(m.Polys) {
		return fmt.Errorf("mesh %q: %d material indices for %d polygons: %w", m.Name, len(m.MaterialIndices), len(m.Polys), scene.ErrMalformedTopology)
	}
	return nil
}

// DecodePolygons validates m and returns its polygons in order. The sequence
// may be iterated any number of times.
func DecodePolygons(m *scene.Mesh) (iter.Seq[Polygon], error) {
	if err := ValidateTopology(m); err != nil {
		return nil, err
	}
	polys, indices, materials := m.Polys, m.Indices, m.MaterialIndices
	return func(yield func(Polygon) bool) {
		for i, start := range polys {
			end := uint32(len(indices))
			if i+1 < len(polys) {
				end = polys[i+1]
			}
			p := Polygon{Index: i, Material: -1, Corners: indices[start:end:end]}
			if len(materials) > 0 {
				p.Material = int(materials[i])
			}
			if !yield(p) {
				return
			}
		}
	}, nil
}

// EncodePolygons is the inverse of DecodePolygons. materials is nil when no
// polygon carries a material.
func EncodePolygons(seq iter.Seq[Polygon]) (polys, indices, materials []uint32) {
	hasMaterial := false
	for p := range seq {
		polys = append(polys, uint32(len(indices)))
		indices = append(indices, p.Corners...)
		if p.Material >= 0 {
			hasMaterial = true
		}
		materials = append(materials, uint32(max(p.Material, 0)))
	}
	if !hasMaterial {
		materials = nil
	}
	return polys, indices, materials
}
