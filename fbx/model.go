package fbx

import (
	"fmt"
	"math"

	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/geom"
)

// Model is a scene node. It implements engine.Node.
type Model struct {
	Obj
	Parent *Model
	doc    *Document
}

func NewModel(id int64, name, kind string) *Model {
	model := &Model{
		Obj: *newObj(id, "Model", name, kind,
			NewNode("Version", 232),
			NewNode("Shading", true),
			NewNode("Culling", "CullingOff"),
		),
	}
	model.SetIntProperty("RotationOrder", 0) // eEulerXYZ
	return model
}

func vectorProperty(typ string, v *geom.Vector3) *Property {
	return &Property{Type: typ, Flag: "A", AttributeList: []*Attribute{{Value: v.X}, {Value: v.Y}, {Value: v.Z}}}
}

func (m *Model) GetTranslation() *geom.Vector3 {
	return m.GetProperty("Lcl Translation").ToVector3(0, 0, 0)
}

func (m *Model) SetTranslation(v *geom.Vector3) {
	m.SetProperty("Lcl Translation", vectorProperty("Lcl Translation", v))
}

// GetRotation returns Euler XYZ angles in degrees.
func (m *Model) GetRotation() *geom.Vector3 {
	return m.GetProperty("Lcl Rotation").ToVector3(0, 0, 0)
}

func (m *Model) SetRotation(v *geom.Vector3) {
	m.SetProperty("Lcl Rotation", vectorProperty("Lcl Rotation", v))
}

func (m *Model) GetScaling() *geom.Vector3 {
	return m.GetProperty("Lcl Scaling").ToVector3(1, 1, 1)
}

func (m *Model) SetScaling(v *geom.Vector3) {
	m.SetProperty("Lcl Scaling", vectorProperty("Lcl Scaling", v))
}

// GetMatrix returns T * PreRotation * R * S in column-major order.
func (m *Model) GetMatrix() *geom.Matrix4 {
	prerotEuler := m.GetProperty("PreRotation").ToVector3(0, 0, 0).Scale(math.Pi / 180)
	prerot := geom.NewEulerRotationMatrix4(prerotEuler.X, prerotEuler.Y, prerotEuler.Z, 1)
	translation := m.GetTranslation()
	rotationEuler := m.GetRotation().Scale(math.Pi / 180)
	scale := m.GetScaling()
	tr := geom.NewTranslateMatrix4(translation.X, translation.Y, translation.Z)
	rot := geom.NewEulerRotationMatrix4(rotationEuler.X, rotationEuler.Y, rotationEuler.Z, 1)
	sc := geom.NewScaleMatrix4(scale.X, scale.Y, scale.Z)
	return tr.Mul(prerot).Mul(rot).Mul(sc)
}

func (m *Model) GetWorldMatrix() *geom.Matrix4 {
	if m.Parent == nil {
		return m.GetMatrix()
	}
	return m.Parent.GetWorldMatrix().Mul(m.GetMatrix())
}

func (m *Model) GetChildModels() []*Model {
	var r []*Model
	for _, o := range m.Refs {
		if c, ok := o.(*Model); ok {
			r = append(r, c)
		}
	}
	return r
}

func (m *Model) GetGeometry() *Geometry {
	for _, o := range m.Refs {
		if g, ok := o.(*Geometry); ok {
			return g
		}
	}
	return nil
}

func (m *Model) GetMaterials() []*Material {
	var r []*Material
	for _, o := range m.Refs {
		if mat, ok := o.(*Material); ok {
			r = append(r, mat)
		}
	}
	return r
}

func (m *Model) SetLocalTranslation(v geom.Vector3) { m.SetTranslation(&v) }
func (m *Model) SetLocalRotation(v geom.Vector3)    { m.SetRotation(&v) }
func (m *Model) SetLocalScaling(v geom.Vector3)     { m.SetScaling(&v) }
func (m *Model) LocalTranslation() geom.Vector3     { return *m.GetTranslation() }
func (m *Model) LocalRotation() geom.Vector3        { return *m.GetRotation() }
func (m *Model) LocalScaling() geom.Vector3         { return *m.GetScaling() }

func (m *Model) isAncestor(c *Model) bool {
	for p := m; p != nil; p = p.Parent {
		if p == c {
			return true
		}
	}
	return false
}

func (m *Model) AddChild(child engine.Node) error {
	c, ok := child.(*Model)
	if !ok || c == nil || c.doc != m.doc {
		return fmt.Errorf("fbx: %T is not a node of this scene", child)
	}
	if m.isAncestor(c) {
		return fmt.Errorf("fbx: %q cannot be parented under its descendant %q", c.Name(), m.Name())
	}
	if c.Parent != nil {
		c.Parent.RemoveRef(c)
	}
	c.Parent = m
	m.AddRef(c)
	return nil
}

func (m *Model) ChildCount() int {
	return len(m.GetChildModels())
}

func (m *Model) Child(i int) engine.Node {
	children := m.GetChildModels()
	if i < 0 || i >= len(children) {
		return nil
	}
	return children[i]
}

func (m *Model) AddMaterial(mat engine.Material) error {
	mm, ok := mat.(*Material)
	if !ok || mm == nil || mm.doc != m.doc {
		return fmt.Errorf("fbx: %T is not a material of this scene", mat)
	}
	m.AddRef(mm)
	return nil
}

func (m *Model) MaterialCount() int {
	return len(m.GetMaterials())
}

func (m *Model) Material(i int) engine.Material {
	materials := m.GetMaterials()
	if i < 0 || i >= len(materials) {
		return nil
	}
	return materials[i]
}

func (m *Model) SetMesh(mesh engine.Mesh) error {
	g, ok := mesh.(*Geometry)
	if !ok || g == nil || g.doc != m.doc {
		return fmt.Errorf("fbx: %T is not a mesh of this scene", mesh)
	}
	if old := m.GetGeometry(); old != nil {
		m.RemoveRef(old)
	}
	m.AddRef(g)
	m.setKind("Mesh")
	return nil
}

func (m *Model) Mesh() engine.Mesh {
	if g := m.GetGeometry(); g != nil {
		return g
	}
	return nil
}
