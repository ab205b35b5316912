package material

import (
	"testing"

	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/fbx"
	"github.com/binzume/fbxio/geom"
	"github.com/binzume/fbxio/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testTable() []*scene.Material {
	red := scene.NewMaterial("red")
	red.Surface.BaseColor = geom.Vector3{X: 1}
	red.Surface.Opacity = 0.25
	red.Surface.Metalness = 0.75
	red.Surface.ThinWalled = true
	glow := scene.NewMaterial("glow")
	glow.Surface.Emission = 2
	glow.Surface.EmissionColor = geom.Vector3{X: 1, Y: 1}
	return []*scene.Material{red, glow}
}

func TestShaderRoundTrip(t *testing.T) {
	s := fbx.NewDocument("s", nil)
	m := NewMapper(Shader, nil)
	table := testTable()
	require.NoError(t, m.Register(s, table))
	require.Equal(t, 2, s.MaterialCount())

	red := s.Material(0)
	assert.Equal(t, engine.ShadingStandardSurface, red.ShadingModel())
	p, ok := red.Property("SpecularIOR")
	require.True(t, ok)
	assert.Equal(t, "specular_IOR", p.ShaderName)
	assert.Equal(t, 1.5, p.Value)

	got := m.Harvest(s)
	require.Len(t, got, 2)
	assert.Equal(t, table[0], got[0])
	assert.Equal(t, table[1], got[1])
}

func TestAutoFallback(t *testing.T) {
	s := fbx.NewDocument("s", &fbx.DocumentOption{Shading: []engine.ShadingModel{engine.ShadingLambert}})
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewMapper(Auto, zap.New(core))
	require.NoError(t, m.Register(s, testTable()))
	assert.Equal(t, 2, logs.FilterMessage("standard surface unavailable, using lambert").Len())

	red := s.Material(0)
	assert.Equal(t, engine.ShadingLambert, red.ShadingModel())
	p, _ := red.Property(DiffuseColor)
	assert.Equal(t, geom.Vector3{X: 1}, p.Value)
	p, _ = red.Property(TransparencyFactor)
	assert.Equal(t, 0.75, p.Value)

	got := m.Harvest(s)
	assert.Equal(t, geom.Vector3{X: 1}, got[0].Surface.BaseColor)
	assert.Equal(t, 0.25, got[0].Surface.Opacity)
	assert.Equal(t, 2.0, got[1].Surface.Emission)
	assert.Equal(t, geom.Vector3{X: 1, Y: 1}, got[1].Surface.EmissionColor)
	// not carried by the reduced mapping
	assert.Equal(t, 0.0, got[0].Surface.Metalness)

	assert.ErrorIs(t, m.Register(s, []*scene.Material{nil}), scene.ErrMaterialSlot)
	assert.ErrorIs(t, NewMapper(Shader, nil).Register(s, testTable()), engine.ErrUnsupportedShading)
}

// rejecting wraps an engine material and refuses one property.
type rejecting struct {
	engine.Material
	name string
}

func (r *rejecting) SetProperty(p engine.Property) error {
	if p.Name == r.name {
		return engine.ErrPropertyRejected
	}
	return r.Material.SetProperty(p)
}

type rejectingScene struct {
	*fbx.Document
}

func (s *rejectingScene) CreateMaterial(name string, shading engine.ShadingModel) (engine.Material, error) {
	m, err := s.Document.CreateMaterial(name, shading)
	if err != nil {
		return nil, err
	}
	return &rejecting{Material: m, name: "Sheen"}, nil
}

func TestPropertyRejectionIsSkipped(t *testing.T) {
	s := &rejectingScene{fbx.NewDocument("s", nil)}
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewMapper(Shader, zap.New(core))
	require.NoError(t, m.Register(s, testTable()[:1]))
	assert.Equal(t, 1, logs.FilterField(zap.String("property", "Sheen")).Len())

	mat := s.Material(0)
	_, ok := mat.Property("Sheen")
	assert.False(t, ok)
	_, ok = mat.Property("SheenColor")
	assert.True(t, ok)
}

func TestBindAndResolve(t *testing.T) {
	s := fbx.NewDocument("s", nil)
	doc := scene.NewDocument()
	doc.Materials = testTable()
	m := NewMapper(Reduced, nil)
	require.NoError(t, m.Register(s, doc.Materials))

	node := s.CreateNode("n")
	require.NoError(t, m.Bind(s, node, doc, []int{1, 0}))
	require.Equal(t, 2, node.MaterialCount())
	assert.Equal(t, "glow", node.Material(0).Name())
	assert.ErrorIs(t, m.Bind(s, node, doc, []int{2}), scene.ErrMaterialSlot)

	doc.Materials = append(doc.Materials, scene.NewMaterial("unregistered"))
	assert.ErrorIs(t, m.Bind(s, node, doc, []int{2}), scene.ErrMaterialSlot)

	imported := scene.NewDocument()
	imported.Materials = m.Harvest(s)
	assert.Equal(t, []int{1, 0}, m.ResolveSlots(node, imported))

	// names missing from the table are appended
	imported.Materials = imported.Materials[:1]
	assert.Equal(t, []int{1, 0}, m.ResolveSlots(node, imported))
	assert.Equal(t, "glow", imported.Materials[1].Name)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{Auto, Shader, Reduced} {
		got, err := ParseStrategy(s.String())
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("pbr")
	assert.Error(t, err)
}
