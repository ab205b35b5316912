package fbx

import (
	"github.com/binzume/fbxio/geom"
)

// Node is a raw FBX record. Object names are stored in binary form
// ("Name\x00\x01Class") regardless of the file format.
type Node struct {
	Name       string
	Attributes AttributeList
	Children   []*Node
}

// NewNode creates a node. Values must be one of the types the writers
// accept: bool, int16, int32, int64, int, float32, float64, string, []byte,
// []bool, []int32, []int64, []float32, []float64.
func NewNode(name string, values ...any) *Node {
	n := &Node{Name: name}
	for _, v := range values {
		if i, ok := v.(int); ok {
			v = int32(i)
		}
		a := &Attribute{Value: v}
		switch arr := v.(type) {
		case []bool:
			a.ArraySize = uint(len(arr))
		case []int32:
			a.ArraySize = uint(len(arr))
		case []int64:
			a.ArraySize = uint(len(arr))
		case []float32:
			a.ArraySize = uint(len(arr))
		case []float64:
			a.ArraySize = uint(len(arr))
		}
		n.Attributes = append(n.Attributes, a)
	}
	return n
}

func (n *Node) AddChild(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}

func (n *Node) FindChild(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) FindChildren(name string) []*Node {
	if n == nil {
		return nil
	}
	var r []*Node
	for _, c := range n.Children {
		if c.Name == name {
			r = append(r, c)
		}
	}
	return r
}

func (n *Node) GetChildren() []*Node {
	if n == nil {
		return nil
	}
	return n.Children
}

func (n *Node) Attr(i int) *Attribute {
	if n == nil {
		return nil
	}
	return n.Attributes.Get(i)
}

func (n *Node) GetInt() int {
	return n.Attr(0).ToInt(0)
}

func (n *Node) GetFloat64() float64 {
	return n.Attr(0).ToFloat64(0)
}

func (n *Node) GetString() string {
	return n.Attr(0).ToString()
}

func (n *Node) GetInt32Array() []int32 {
	return n.Attr(0).ToInt32Array()
}

func (n *Node) GetFloat64Array() []float64 {
	return n.Attr(0).ToFloat64Array()
}

type Attribute struct {
	Value     any
	ArraySize uint
}

type AttributeList []*Attribute

func (l AttributeList) Get(i int) *Attribute {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

func (a *Attribute) ToInt(defvalue int) int {
	return int(a.ToInt64(int64(defvalue)))
}

func (a *Attribute) ToInt64(defvalue int64) int64 {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case byte:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	}
	return defvalue
}

func (a *Attribute) ToFloat64(defvalue float64) float64 {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defvalue
}

func (a *Attribute) ToBool(defvalue bool) bool {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case bool:
		return v
	case string:
		return v == "T" || v == "Y"
	}
	return a.ToInt64(0) != 0
}

func (a *Attribute) ToString() string {
	if a == nil {
		return ""
	}
	if v, ok := a.Value.(string); ok {
		return v
	} else if v, ok := a.Value.([]byte); ok {
		return string(v)
	}
	return ""
}

func (a *Attribute) ToInt32Array() []int32 {
	if a == nil {
		return nil
	}
	var r []int32
	switch vv := a.Value.(type) {
	case []int32:
		return vv
	case []int64:
		for _, v := range vv {
			r = append(r, int32(v))
		}
	case []float64:
		for _, v := range vv {
			r = append(r, int32(v))
		}
	case []float32:
		for _, v := range vv {
			r = append(r, int32(v))
		}
	}
	return r
}

func (a *Attribute) ToFloat64Array() []float64 {
	if a == nil {
		return nil
	}
	var r []float64
	switch vv := a.Value.(type) {
	case []float64:
		return vv
	case []float32:
		for _, v := range vv {
			r = append(r, float64(v))
		}
	case []int32:
		for _, v := range vv {
			r = append(r, float64(v))
		}
	case []int64:
		for _, v := range vv {
			r = append(r, float64(v))
		}
	}
	return r
}

// AttributeList holding x, y, z
func (l AttributeList) ToVector3(x, y, z float64) *geom.Vector3 {
	return &geom.Vector3{X: l.Get(0).ToFloat64(x), Y: l.Get(1).ToFloat64(y), Z: l.Get(2).ToFloat64(z)}
}
