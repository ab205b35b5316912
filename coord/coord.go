// Package coord converts between Z-up documents in arbitrary units and the
// Y-up centimeter space of FBX scenes.
package coord

import (
	"math"

	"github.com/binzume/fbxio/geom"
	"github.com/binzume/fbxio/scene"
)

// ZUpToYUp rotates -90 degrees about X: (x, y, z) -> (x, z, -y).
var ZUpToYUp = geom.Quaternion{X: -math.Cos(math.Pi / 4), W: math.Cos(math.Pi / 4)}

// YUpToZUp is the inverse of ZUpToYUp.
var YUpToZUp = *ZUpToYUp.Inverse()

// Scale returns the position scale for a document whose unit is unitScale meters.
func Scale(unitScale float64) float64 {
	return unitScale * 100
}

func rotate(q *geom.Quaternion, v *geom.Vector4, s float64) {
	r := q.ApplyTo(v.XYZ())
	v.X, v.Y, v.Z = r.X*s, r.Y*s, r.Z*s
}

// NormalizePositions scales and rotates v in place. W is untouched.
func NormalizePositions(unitScale float64, v []geom.Vector4) {
	s := Scale(unitScale)
	for i := range v {
		rotate(&ZUpToYUp, &v[i], s)
	}
}

// DenormalizePositions undoes NormalizePositions.
func DenormalizePositions(unitScale float64, v []geom.Vector4) {
	s := 1 / Scale(unitScale)
	for i := range v {
		rotate(&YUpToZUp, &v[i], s)
	}
}

// NormalizeNormals rotates n in place without scaling.
func NormalizeNormals(n []geom.Vector4) {
	for i := range n {
		rotate(&ZUpToYUp, &n[i], 1)
	}
}

func DenormalizeNormals(n []geom.Vector4) {
	for i := range n {
		rotate(&YUpToZUp, &n[i], 1)
	}
}

// Normalizer applies the conversion to whole meshes.
type Normalizer struct {
	UnitScale float64
}

// Mesh returns a normalized copy of m. m is not modified.
func (n *Normalizer) Mesh(m *scene.Mesh) *scene.Mesh {
	c := *m
	c.Vertices = append([]geom.Vector4(nil), m.Vertices...)
	NormalizePositions(n.UnitScale, c.Vertices)
	c.NormalSets = make([]*scene.NormalSet, len(m.NormalSets))
	for i, s := range m.NormalSets {
		ns := &scene.NormalSet{Name: s.Name, Normal: append([]geom.Vector4(nil), s.Normal...)}
		NormalizeNormals(ns.Normal)
		c.NormalSets[i] = ns
	}
	return &c
}

// Restore undoes Mesh in place on a harvested mesh.
func (n *Normalizer) Restore(m *scene.Mesh) {
	DenormalizePositions(n.UnitScale, m.Vertices)
	for _, s := range m.NormalSets {
		DenormalizeNormals(s.Normal)
	}
}
