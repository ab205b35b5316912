package fbx

import (
	"fmt"

	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/geom"
)

// Material implements engine.Material. Shader parameter names are kept in a
// BindingTable child.
type Material struct {
	Obj
	doc *Document
}

func NewMaterial(id int64, name string, shading engine.ShadingModel) *Material {
	return &Material{
		Obj: *newObj(id, "Material", name, "",
			NewNode("Version", 102),
			NewNode("ShadingModel", string(shading)),
			NewNode("MultiLayer", 0),
		),
	}
}

func (m *Material) ShadingModel() engine.ShadingModel {
	return engine.ShadingModel(m.FindChild("ShadingModel").GetString())
}

func (m *Material) GetColor(name string, def *geom.Vector3) *geom.Vector3 {
	if def == nil {
		def = &geom.Vector3{}
	}
	return m.GetProperty(name).ToVector3(def.X, def.Y, def.Z)
}

func (m *Material) SetColor(name string, c *geom.Vector3) {
	m.SetColorProperty(name, c.X, c.Y, c.Z)
}

func (m *Material) GetFactor(name string, def float64) float64 {
	return m.GetProperty(name).Get(0).ToFloat64(def)
}

func propertyKind(typ string) string {
	switch typ {
	case "Color", "ColorRGB", "Vector3D", "Vector":
		return "color"
	case "bool":
		return "bool"
	case "":
		return ""
	}
	return "number"
}

func (m *Material) SetProperty(p engine.Property) error {
	if p.Name == "" {
		return fmt.Errorf("empty property name: %w", engine.ErrPropertyRejected)
	}
	var kind string
	switch p.Value.(type) {
	case float64:
		kind = "number"
	case geom.Vector3:
		kind = "color"
	case bool:
		kind = "bool"
	default:
		return fmt.Errorf("%s: unsupported value %T: %w", p.Name, p.Value, engine.ErrPropertyRejected)
	}
	if old := propertyKind(m.GetProperty(p.Name).Type); old != "" && old != kind {
		return fmt.Errorf("%s: %s property cannot hold %T: %w", p.Name, old, p.Value, engine.ErrPropertyRejected)
	}

	switch v := p.Value.(type) {
	case float64:
		m.SetProperty70(p.Name, &Property{Type: "Number", Flag: "A", AttributeList: []*Attribute{{Value: v}}})
	case geom.Vector3:
		m.SetColor(p.Name, &v)
	case bool:
		m.SetBoolProperty(p.Name, v)
	}
	if p.ShaderName != "" {
		m.bind(p.Name, p.ShaderName)
	}
	return nil
}

// SetProperty70 sets a raw Properties70 entry.
func (m *Material) SetProperty70(name string, prop *Property) *Property {
	return m.Obj.SetProperty(name, prop)
}

func (m *Material) bind(prop, shader string) {
	table := m.FindChild("BindingTable")
	if table == nil {
		table = m.Obj.Node.AddChild(NewNode("BindingTable", 100))
	}
	for _, e := range table.Children {
		if e.Attr(0).ToString() == prop && len(e.Attributes) > 2 {
			e.Attributes[2].Value = shader
			return
		}
	}
	table.AddChild(NewNode("Entry", prop, "FbxPropertyEntry", shader, "FbxSemanticEntry"))
}

func (m *Material) shaderName(prop string) string {
	for _, e := range m.FindChild("BindingTable").GetChildren() {
		if e.Attr(0).ToString() == prop {
			return e.Attr(2).ToString()
		}
	}
	return ""
}

func (m *Material) Property(name string) (engine.Property, bool) {
	p := m.GetProperty(name)
	prop := engine.Property{Name: name, ShaderName: m.shaderName(name)}
	switch propertyKind(p.Type) {
	case "color":
		prop.Value = *p.ToVector3(0, 0, 0)
	case "bool":
		prop.Value = p.Get(0).ToBool(false)
	case "number":
		prop.Value = p.Get(0).ToFloat64(0)
	default:
		return engine.Property{}, false
	}
	return prop, true
}
