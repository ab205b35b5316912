// Package material maps scene materials onto engine materials and back.
package material

import (
	"errors"
	"fmt"
	"strings"

	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/geom"
	"github.com/binzume/fbxio/scene"
	"go.uber.org/zap"
)

type Strategy int

const (
	// Auto uses Shader and falls back to Reduced when the engine has no
	// standard surface shading.
	Auto Strategy = iota
	// Shader writes every surface parameter onto a standard surface material.
	Shader
	// Reduced writes diffuse, ambient, transparency and emissive onto lambert.
	Reduced
)

var strategyNames = map[Strategy]string{Auto: "auto", Shader: "shader", Reduced: "reduced"}

func (s Strategy) String() string {
	return strategyNames[s]
}

func ParseStrategy(s string) (Strategy, error) {
	for k, v := range strategyNames {
		if strings.EqualFold(s, v) {
			return k, nil
		}
	}
	return Auto, fmt.Errorf("unknown material strategy %q", s)
}

// Property names used by the reduced mapping.
const (
	DiffuseColor       = "DiffuseColor"
	DiffuseFactor      = "DiffuseFactor"
	AmbientColor       = "AmbientColor"
	TransparencyFactor = "TransparencyFactor"
	EmissiveColor      = "EmissiveColor"
	EmissiveFactor     = "EmissiveFactor"
)

type Mapper struct {
	Strategy Strategy
	Logger   *zap.Logger
}

func NewMapper(strategy Strategy, logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{Strategy: strategy, Logger: logger}
}

func (m *Mapper) setProperty(dst engine.Material, p engine.Property) {
	if err := dst.SetProperty(p); err != nil {
		m.Logger.Warn("material property skipped",
			zap.String("material", dst.Name()), zap.String("property", p.Name), zap.Error(err))
	}
}

func (m *Mapper) createShader(s engine.Scene, mat *scene.Material) (engine.Material, error) {
	dst, err := s.CreateMaterial(mat.Name, engine.ShadingStandardSurface)
	if err != nil {
		return nil, err
	}
	surface := mat.Surface
	for _, p := range surface.Params() {
		prop := engine.Property{Name: p.Name, ShaderName: p.ShaderName}
		switch {
		case p.Float != nil:
			prop.Value = *p.Float
		case p.Color != nil:
			prop.Value = *p.Color
		case p.Bool != nil:
			prop.Value = *p.Bool
		}
		m.setProperty(dst, prop)
	}
	return dst, nil
}

func (m *Mapper) createReduced(s engine.Scene, mat *scene.Material) (engine.Material, error) {
	dst, err := s.CreateMaterial(mat.Name, engine.ShadingLambert)
	if err != nil {
		return nil, err
	}
	surface := &mat.Surface
	m.setProperty(dst, engine.Property{Name: DiffuseColor, Value: surface.BaseColor})
	m.setProperty(dst, engine.Property{Name: DiffuseFactor, Value: surface.Base})
	m.setProperty(dst, engine.Property{Name: AmbientColor, Value: surface.BaseColor})
	m.setProperty(dst, engine.Property{Name: TransparencyFactor, Value: 1 - surface.Opacity})
	m.setProperty(dst, engine.Property{Name: EmissiveColor, Value: surface.EmissionColor})
	m.setProperty(dst, engine.Property{Name: EmissiveFactor, Value: surface.Emission})
	return dst, nil
}

// Register creates one engine material per table entry, in table order.
func (m *Mapper) Register(s engine.Scene, materials []*scene.Material) error {
	for i, mat := range materials {
		if mat == nil {
			return fmt.Errorf("material %d is nil: %w", i, scene.ErrMaterialSlot)
		}
		var err error
		switch m.Strategy {
		case Shader:
			_, err = m.createShader(s, mat)
		case Reduced:
			_, err = m.createReduced(s, mat)
		default:
			_, err = m.createShader(s, mat)
			if errors.Is(err, engine.ErrUnsupportedShading) {
				m.Logger.Debug("standard surface unavailable, using lambert", zap.String("material", mat.Name))
				_, err = m.createReduced(s, mat)
			}
		}
		if err != nil {
			return fmt.Errorf("material %q: %w", mat.Name, err)
		}
	}
	return nil
}

func findMaterial(s engine.Scene, name string) engine.Material {
	for i := 0; i < s.MaterialCount(); i++ {
		if mat := s.Material(i); mat.Name() == name {
			return mat
		}
	}
	return nil
}

// Bind attaches the materials named by slots to node, in slot order.
func (m *Mapper) Bind(s engine.Scene, node engine.Node, doc *scene.Document, slots []int) error {
	for _, slot := range slots {
		if slot < 0 || slot >= len(doc.Materials) || doc.Materials[slot] == nil {
			return fmt.Errorf("node %q slot %d: %w", node.Name(), slot, scene.ErrMaterialSlot)
		}
		name := doc.Materials[slot].Name
		mat := findMaterial(s, name)
		if mat == nil {
			return fmt.Errorf("node %q: material %q not registered: %w", node.Name(), name, scene.ErrMaterialSlot)
		}
		if err := node.AddMaterial(mat); err != nil {
			return fmt.Errorf("node %q: %w", node.Name(), err)
		}
	}
	return nil
}

func readFloat(src engine.Material, name string, dst *float64) {
	if p, ok := src.Property(name); ok {
		if v, ok := p.Value.(float64); ok {
			*dst = v
		}
	}
}

func readColor(src engine.Material, name string, dst *geom.Vector3) {
	if p, ok := src.Property(name); ok {
		if v, ok := p.Value.(geom.Vector3); ok {
			*dst = v
		}
	}
}

func harvestShader(src engine.Material, surface *scene.StandardSurface) {
	for _, p := range surface.Params() {
		switch {
		case p.Float != nil:
			readFloat(src, p.Name, p.Float)
		case p.Color != nil:
			readColor(src, p.Name, p.Color)
		case p.Bool != nil:
			if prop, ok := src.Property(p.Name); ok {
				if v, ok := prop.Value.(bool); ok {
					*p.Bool = v
				}
			}
		}
	}
}

func harvestReduced(src engine.Material, surface *scene.StandardSurface) {
	readColor(src, DiffuseColor, &surface.BaseColor)
	readFloat(src, DiffuseFactor, &surface.Base)
	transparency := 1 - surface.Opacity
	readFloat(src, TransparencyFactor, &transparency)
	surface.Opacity = 1 - transparency
	readColor(src, EmissiveColor, &surface.EmissionColor)
	readFloat(src, EmissiveFactor, &surface.Emission)
}

// Harvest builds the material table from the scene's materials.
func (m *Mapper) Harvest(s engine.Scene) []*scene.Material {
	table := make([]*scene.Material, s.MaterialCount())
	for i := range table {
		table[i] = scene.NewMaterial(s.Material(i).Name())
	}
	for i, mat := range table {
		src := s.Material(i)
		if src.ShadingModel() == engine.ShadingStandardSurface {
			harvestShader(src, &mat.Surface)
		} else {
			harvestReduced(src, &mat.Surface)
		}
	}
	return table
}

// ResolveSlots maps the node's materials to indices of doc.Materials by
// name. Unknown names are appended to the table.
func (m *Mapper) ResolveSlots(node engine.Node, doc *scene.Document) []int {
	var slots []int
	for i := 0; i < node.MaterialCount(); i++ {
		name := node.Material(i).Name()
		idx := doc.MaterialIndex(name)
		if idx < 0 {
			m.Logger.Debug("material not in table", zap.String("node", node.Name()), zap.String("material", name))
			idx = doc.AddMaterial(scene.NewMaterial(name))
		}
		slots = append(slots, idx)
	}
	return slots
}
