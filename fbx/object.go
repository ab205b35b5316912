package fbx

import (
	"strings"
)

// Property is one "P" entry of a Properties70 block.
type Property struct {
	AttributeList
	Type  string
	Label string
	Flag  string
}

type Connection struct {
	Type string
	To   int64
	From int64
	Prop string
}

type Object interface {
	GetNode() *Node
	NodeName() string
	ID() int64
	Name() string
	Kind() string
	GetProperty(name string) *Property
	FindRefs(name string) []Object
	AddRef(o Object)
	RemoveRef(o Object) bool
}

type Obj struct {
	*Node
	Template   *Obj
	Refs       []Object
	properties map[string]*Property // lazy initialize
}

func newObj(id int64, typ, name, kind string, nodes ...*Node) *Obj {
	children := append(nodes, &Node{Name: "Properties70"})
	obj := &Obj{Node: &Node{
		Name:       typ,
		Attributes: []*Attribute{{Value: id}, {Value: name + "\x00\x01" + typ}, {Value: kind}},
		Children:   children,
	}}
	return obj
}

func (o *Obj) GetNode() *Node {
	return o.Node
}

func (o *Obj) NodeName() string {
	return o.Node.Name
}

func (o *Obj) ID() int64 {
	return o.Attr(0).ToInt64(0)
}

// Name returns the object name without its class suffix.
func (o *Obj) Name() string {
	name, _, _ := strings.Cut(o.Attr(1).ToString(), "\x00\x01")
	return name
}

func (o *Obj) Kind() string {
	return o.Attr(2).ToString()
}

func (o *Obj) setKind(kind string) {
	if a := o.Attr(2); a != nil {
		a.Value = kind
	}
}

func (o *Obj) GetProperty(name string) *Property {
	if o.properties == nil {
		o.properties = map[string]*Property{}
		for _, node := range o.FindChild("Properties70").GetChildren() {
			if len(node.Attributes) < 4 {
				continue
			}
			o.properties[node.Attr(0).ToString()] = &Property{
				AttributeList: node.Attributes[4:],
				Type:          node.Attr(1).ToString(),
				Label:         node.Attr(2).ToString(),
				Flag:          node.Attr(3).ToString()}
		}
	}
	if p, ok := o.properties[name]; ok {
		return p
	} else if o.Template != nil {
		return o.Template.GetProperty(name)
	}
	return &Property{}
}

func (o *Obj) HasProperty(name string) bool {
	return o.GetProperty(name).Type != ""
}

func (o *Obj) SetProperty(name string, prop *Property) *Property {
	if o.properties != nil {
		o.properties[name] = prop
	}
	attrs := AttributeList{
		&Attribute{Value: name},
		&Attribute{Value: prop.Type},
		&Attribute{Value: prop.Label},
		&Attribute{Value: prop.Flag},
	}
	attrs = append(attrs, prop.AttributeList...)
	properties70 := o.FindChild("Properties70")
	if properties70 == nil {
		properties70 = o.AddChild(&Node{Name: "Properties70"})
	}
	for _, node := range properties70.GetChildren() {
		if node.Attr(0).ToString() == name {
			node.Attributes = attrs
			return prop
		}
	}
	properties70.Children = append(properties70.Children, &Node{Name: "P", Attributes: attrs})
	return prop
}

func (o *Obj) SetIntProperty(name string, v int) *Property {
	return o.SetProperty(name, &Property{Type: "int", Label: "Integer", AttributeList: []*Attribute{{Value: int32(v)}}})
}

func (o *Obj) SetFloatProperty(name string, v float64) *Property {
	return o.SetProperty(name, &Property{Type: "double", Label: "Number", AttributeList: []*Attribute{{Value: v}}})
}

func (o *Obj) SetBoolProperty(name string, v bool) *Property {
	i := int32(0)
	if v {
		i = 1
	}
	return o.SetProperty(name, &Property{Type: "bool", AttributeList: []*Attribute{{Value: i}}})
}

func (o *Obj) SetStringProperty(name string, v string) *Property {
	return o.SetProperty(name, &Property{Type: "KString", Label: "", AttributeList: []*Attribute{{Value: v}}})
}

func (o *Obj) SetColorProperty(name string, r, g, b float64) *Property {
	return o.SetProperty(name, &Property{Type: "Color", Flag: "A", AttributeList: []*Attribute{{Value: r}, {Value: g}, {Value: b}}})
}

func (o *Obj) FindRefs(typ string) []Object {
	var refs []Object
	for _, o := range o.Refs {
		if o.NodeName() == typ {
			refs = append(refs, o)
		}
	}
	return refs
}

func (o *Obj) AddRef(ref Object) {
	o.Refs = append(o.Refs, ref)
}

func (o *Obj) RemoveRef(ref Object) bool {
	for i, r := range o.Refs {
		if r == ref {
			o.Refs = append(o.Refs[:i], o.Refs[i+1:]...)
			return true
		}
	}
	return false
}

func (o *Obj) AddOrReplaceChild(node *Node) bool {
	for i, c := range o.Children {
		if c.Name == node.Name {
			o.Children[i] = node
			return false
		}
	}
	o.Children = append(o.Children, node)
	return true
}
