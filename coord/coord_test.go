package coord

import (
	"math/rand"
	"testing"

	"github.com/binzume/fbxio/geom"
	"github.com/binzume/fbxio/scene"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func assertVec(t *testing.T, want, got geom.Vector4) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps)
	assert.InDelta(t, want.Y, got.Y, eps)
	assert.InDelta(t, want.Z, got.Z, eps)
	assert.Equal(t, want.W, got.W)
}

func TestGolden(t *testing.T) {
	v := []geom.Vector4{{X: 1, Y: 2, Z: 3, W: 1}}
	NormalizePositions(0.01, v)
	assertVec(t, geom.Vector4{X: 1, Y: 3, Z: -2, W: 1}, v[0])
}

func TestInverseRotation(t *testing.T) {
	q := ZUpToYUp.Mul(&YUpToZUp)
	assert.InDelta(t, 1, q.W, eps)
	assert.InDelta(t, 0, q.XYZ().Len(), eps)
	assert.InDelta(t, 1, ZUpToYUp.Len(), eps)
}

func TestPositionRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, u := range []float64{1, 0.01, 0.0254, 1000, 1e-6} {
		orig := make([]geom.Vector4, 20)
		for i := range orig {
			orig[i] = geom.Vector4{X: r.Float64()*200 - 100, Y: r.Float64() * 10, Z: -r.Float64(), W: 1}
		}
		v := append([]geom.Vector4(nil), orig...)
		NormalizePositions(u, v)
		DenormalizePositions(u, v)
		for i := range v {
			assert.InDelta(t, orig[i].X, v[i].X, 1e-9*100)
			assert.InDelta(t, orig[i].Y, v[i].Y, 1e-9*100)
			assert.InDelta(t, orig[i].Z, v[i].Z, 1e-9*100)
		}
	}
}

func TestNormalLength(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		n := []geom.Vector4{{X: r.NormFloat64(), Y: r.NormFloat64(), Z: r.NormFloat64()}}
		l := n[0].XYZ().Len()
		NormalizeNormals(n)
		assert.InDelta(t, l, n[0].XYZ().Len(), eps)
	}

	n := []geom.Vector4{{Z: 1}}
	NormalizeNormals(n)
	assertVec(t, geom.Vector4{Y: 1}, n[0])
	DenormalizeNormals(n)
	assertVec(t, geom.Vector4{Z: 1}, n[0])
}

func TestNormalizerCopies(t *testing.T) {
	m := scene.NewMesh("m")
	m.Vertices = []geom.Vector4{{X: 1, Y: 2, Z: 3, W: 1}}
	m.AddNormalSet("n", []geom.Vector4{{Z: 1}})

	n := &Normalizer{UnitScale: 1}
	c := n.Mesh(m)
	assert.Equal(t, geom.Vector4{X: 1, Y: 2, Z: 3, W: 1}, m.Vertices[0])
	assert.Equal(t, geom.Vector4{Z: 1}, m.NormalSets[0].Normal[0])
	assertVec(t, geom.Vector4{X: 100, Y: 300, Z: -200, W: 1}, c.Vertices[0])
	assertVec(t, geom.Vector4{Y: 1}, c.NormalSets[0].Normal[0])

	n.Restore(c)
	assertVec(t, m.Vertices[0], c.Vertices[0])
	assertVec(t, m.NormalSets[0].Normal[0], c.NormalSets[0].Normal[0])
}
