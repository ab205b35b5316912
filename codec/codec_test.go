package codec

import (
	"testing"

	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/fbx"
	"github.com/binzume/fbxio/geom"
	"github.com/binzume/fbxio/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizes(t *testing.T, m *scene.Mesh) []int {
	t.Helper()
	seq, err := DecodePolygons(m)
	require.NoError(t, err)
	var r []int
	for p := range seq {
		r = append(r, len(p.Corners))
	}
	return r
}

func TestDecodePolygons(t *testing.T) {
	m := &scene.Mesh{Indices: make([]uint32, 9), Polys: []uint32{0, 3, 6}}
	assert.Equal(t, []int{3, 3, 3}, sizes(t, m))

	m.Polys = []uint32{0, 3, 7}
	assert.Equal(t, []int{3, 4, 2}, sizes(t, m))

	m = &scene.Mesh{}
	assert.Empty(t, sizes(t, m))
}

func TestDecodePolygonsErrors(t *testing.T) {
	for name, m := range map[string]*scene.Mesh{
		"not increasing":   {Indices: make([]uint32, 9), Polys: []uint32{0, 3, 3}},
		"decreasing":       {Indices: make([]uint32, 9), Polys: []uint32{0, 6, 3}},
		"out of range":     {Indices: make([]uint32, 9), Polys: []uint32{0, 3, 10}},
		"empty last":       {Indices: make([]uint32, 9), Polys: []uint32{0, 9}},
		"no polygons":      {Indices: make([]uint32, 3)},
		"first offset":     {Indices: make([]uint32, 9), Polys: []uint32{1, 3}},
		"material indices": {Indices: make([]uint32, 9), Polys: []uint32{0, 3}, MaterialIndices: []uint32{0}},
	} {
		_, err := DecodePolygons(m)
		assert.ErrorIs(t, err, scene.ErrMalformedTopology, name)
	}
}

func TestPolygonRoundTrip(t *testing.T) {
	m := &scene.Mesh{
		Indices:         []uint32{0, 1, 2, 2, 3, 0, 4, 1, 4, 5},
		Polys:           []uint32{0, 3, 7},
		MaterialIndices: []uint32{1, 0, 1},
	}
	seq, err := DecodePolygons(m)
	require.NoError(t, err)

	polys, indices, materials := EncodePolygons(seq)
	assert.Equal(t, m.Polys, polys)
	assert.Equal(t, m.Indices, indices)
	assert.Equal(t, m.MaterialIndices, materials)

	// restartable
	polys, _, _ = EncodePolygons(seq)
	assert.Equal(t, m.Polys, polys)

	m.MaterialIndices = nil
	seq, _ = DecodePolygons(m)
	for p := range seq {
		assert.Equal(t, -1, p.Material)
	}
	_, _, materials = EncodePolygons(seq)
	assert.Nil(t, materials)
}

func newEngineMesh() engine.Mesh {
	return fbx.NewDocument("test", nil).CreateMesh("mesh")
}

func TestEncodeAttributeSet(t *testing.T) {
	dst := newEngineMesh()
	err := EncodeAttributeSet(dst, engine.ElementUV, "uv", make([]geom.Vector4, 2), 3)
	assert.ErrorIs(t, err, scene.ErrAttributeLengthMismatch)
	assert.Equal(t, 0, dst.ElementCount(engine.ElementUV))

	require.NoError(t, EncodeAttributeSet(dst, engine.ElementNormal, "n", make([]geom.Vector4, 3), 3))
	el := dst.Element(engine.ElementNormal, 0)
	assert.Equal(t, engine.MappingByPolygonVertex, el.MappingMode())
	assert.Equal(t, engine.ReferenceDirect, el.ReferenceMode())
	assert.Equal(t, 3, el.DirectCount())
}

func testMesh() *scene.Mesh {
	m := scene.NewMesh("cube")
	m.Vertices = []geom.Vector4{{X: 0, W: 1}, {X: 1, W: 1}, {X: 1, Y: 1, W: 1}, {Y: 1, W: 1}, {Z: 1, W: 1}}
	m.AddPolygon(0, 0, 1, 2, 3)
	m.AddPolygon(1, 0, 1, 4)
	normals := make([]geom.Vector4, m.IndexCount())
	uv := make([]geom.Vector2, m.IndexCount())
	for i := range normals {
		normals[i] = geom.Vector4{Z: float64(i)}
		uv[i] = geom.Vector2{X: float64(i), Y: 1}
	}
	m.AddNormalSet("normals", normals)
	m.AddUVSet("map1", uv)
	m.AddUVSet("map2", uv)
	return m
}

func TestMeshRoundTrip(t *testing.T) {
	m := testMesh()
	dst := newEngineMesh()
	require.NoError(t, EncodeMesh(dst, m))

	mat := dst.Element(engine.ElementMaterial, 0)
	require.NotNil(t, mat)
	assert.Equal(t, engine.MappingByPolygon, mat.MappingMode())
	assert.Equal(t, engine.ReferenceIndexToDirect, mat.ReferenceMode())
	assert.Equal(t, 2, mat.IndexCount())

	got, err := HarvestMesh(dst)
	require.NoError(t, err)
	assert.Equal(t, "mesh", got.Name)
	assert.Equal(t, m.Vertices, got.Vertices)
	assert.Equal(t, m.Polys, got.Polys)
	assert.Equal(t, m.Indices, got.Indices)
	assert.Equal(t, m.MaterialIndices, got.MaterialIndices)
	require.Len(t, got.NormalSets, 1)
	assert.Equal(t, m.NormalSets[0], got.NormalSets[0])
	require.Len(t, got.UVSets, 2)
	assert.Equal(t, m.UVSets[1], got.UVSets[1])
}

func TestEncodeMeshErrors(t *testing.T) {
	m := testMesh()
	m.UVSets[0].UV = m.UVSets[0].UV[:3]
	assert.ErrorIs(t, EncodeMesh(newEngineMesh(), m), scene.ErrAttributeLengthMismatch)

	m = testMesh()
	m.Indices[1] = 10
	assert.ErrorIs(t, EncodeMesh(newEngineMesh(), m), scene.ErrMalformedTopology)
}

func TestHarvestAttributeSetMapping(t *testing.T) {
	// two triangles sharing an edge
	indices := []uint32{0, 1, 2, 2, 1, 3}
	polys := []uint32{0, 3}
	dst := newEngineMesh()

	byPoint := dst.CreateElement(engine.ElementNormal, "points")
	byPoint.SetMappingMode(engine.MappingByControlPoint)
	byPoint.SetReferenceMode(engine.ReferenceIndexToDirect)
	byPoint.AppendDirect(geom.Vector4{X: 10})
	byPoint.AppendDirect(geom.Vector4{X: 20})
	for _, i := range []int{0, 1, 0, 1} {
		byPoint.AppendIndex(i)
	}
	values, err := HarvestAttributeSet(byPoint, indices, polys)
	require.NoError(t, err)
	var xs []float64
	for _, v := range values {
		xs = append(xs, v.X)
	}
	assert.Equal(t, []float64{10, 20, 10, 10, 20, 20}, xs)

	byPolygon := dst.CreateElement(engine.ElementNormal, "polygons")
	byPolygon.SetMappingMode(engine.MappingByPolygon)
	byPolygon.AppendDirect(geom.Vector4{Z: 1})
	byPolygon.AppendDirect(geom.Vector4{Z: -1})
	values, err = HarvestAttributeSet(byPolygon, indices, polys)
	require.NoError(t, err)
	assert.Equal(t, geom.Vector4{Z: 1}, values[2])
	assert.Equal(t, geom.Vector4{Z: -1}, values[3])

	same := dst.CreateElement(engine.ElementUV, "same")
	same.SetMappingMode(engine.MappingAllSame)
	same.AppendDirect(geom.Vector4{X: 0.5})
	values, err = HarvestAttributeSet(same, indices, polys)
	require.NoError(t, err)
	assert.Len(t, values, 6)
	assert.Equal(t, 0.5, values[5].X)

	short := dst.CreateElement(engine.ElementUV, "short")
	short.SetMappingMode(engine.MappingByPolygonVertex)
	short.AppendDirect(geom.Vector4{})
	_, err = HarvestAttributeSet(short, indices, polys)
	assert.ErrorIs(t, err, scene.ErrAttributeLengthMismatch)
}
