package fbx

import (
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/binzume/fbxio/engine"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const firstObjectID = 1000000

type DocumentOption struct {
	Creator string
	// Shading lists the shading models CreateMaterial accepts. Empty accepts all.
	Shading []engine.ShadingModel
	// NameEncoding decodes object names that are not valid UTF-8.
	NameEncoding encoding.Encoding
}

func DefaultDocumentOption() *DocumentOption {
	return &DocumentOption{
		Creator:      "fbxio",
		NameEncoding: japanese.ShiftJIS,
	}
}

// Document is an FBX scene. It implements engine.Scene.
type Document struct {
	FileId       []byte
	Creator      string
	CreationTime string

	GlobalSettings *Obj
	Objects        map[int64]Object
	Scene          *Model

	Materials []*Material

	RawNode *Node

	name   string
	nextID int64
	opt    DocumentOption
}

func NewDocument(name string, opt *DocumentOption) *Document {
	if opt == nil {
		opt = DefaultDocumentOption()
	}
	doc := &Document{
		FileId:       []byte("fbxio-generated!"),
		Creator:      opt.Creator,
		CreationTime: time.Now().Format("2006-01-02 15:04:05:000"),
		name:         name,
		nextID:       firstObjectID,
		opt:          *opt,
	}
	doc.GlobalSettings = newGlobalSettings()
	doc.Scene = NewModel(0, "RootNode", "Null")
	doc.Scene.doc = doc
	doc.Objects = map[int64]Object{0: doc.Scene}
	return doc
}

func newGlobalSettings() *Obj {
	gs := &Obj{Node: &Node{Name: "GlobalSettings", Children: []*Node{
		NewNode("Version", 1000),
		{Name: "Properties70"},
	}}}
	gs.SetIntProperty("UpAxis", 1)
	gs.SetIntProperty("UpAxisSign", 1)
	gs.SetIntProperty("FrontAxis", 2)
	gs.SetIntProperty("FrontAxisSign", 1)
	gs.SetIntProperty("CoordAxis", 0)
	gs.SetIntProperty("CoordAxisSign", 1)
	gs.SetFloatProperty("UnitScaleFactor", 1)
	return gs
}

func (doc *Document) newID() int64 {
	for doc.Objects[doc.nextID] != nil {
		doc.nextID++
	}
	id := doc.nextID
	doc.nextID++
	return id
}

func (doc *Document) AddObject(o Object) {
	doc.Objects[o.ID()] = o
}

func (doc *Document) Name() string {
	return doc.name
}

func (doc *Document) RootNode() engine.Node {
	return doc.Scene
}

func (doc *Document) CreateNode(name string) engine.Node {
	m := NewModel(doc.newID(), name, "Null")
	m.doc = doc
	doc.AddObject(m)
	return m
}

func (doc *Document) CreateMesh(name string) engine.Mesh {
	g := NewGeometry(doc.newID(), name)
	g.doc = doc
	doc.AddObject(g)
	return g
}

func (doc *Document) CreateMaterial(name string, shading engine.ShadingModel) (engine.Material, error) {
	if len(doc.opt.Shading) > 0 && !slices.Contains(doc.opt.Shading, shading) {
		return nil, fmt.Errorf("%s: %w", shading, engine.ErrUnsupportedShading)
	}
	m := NewMaterial(doc.newID(), name, shading)
	m.doc = doc
	doc.AddObject(m)
	doc.Materials = append(doc.Materials, m)
	return m, nil
}

func (doc *Document) MaterialCount() int {
	return len(doc.Materials)
}

func (doc *Document) Material(i int) engine.Material {
	if i < 0 || i >= len(doc.Materials) {
		return nil
	}
	return doc.Materials[i]
}

// UnitScaleFactor is the size of one file unit in centimeters.
func (doc *Document) UnitScaleFactor() float64 {
	return doc.GlobalSettings.GetProperty("UnitScaleFactor").Get(0).ToFloat64(1)
}

// ToNode builds the raw record tree. Only materials and objects reachable
// from the scene root are written.
func (doc *Document) ToNode() *Node {
	var objects []Object
	var connections []*Connection
	written := map[Object]bool{}
	add := func(o Object) {
		if !written[o] {
			written[o] = true
			objects = append(objects, o)
		}
	}
	for _, m := range doc.Materials {
		add(m)
	}
	var visit func(m *Model)
	visit = func(m *Model) {
		for _, ref := range m.Refs {
			switch o := ref.(type) {
			case *Model:
				add(o)
				connections = append(connections, &Connection{Type: "OO", From: o.ID(), To: m.ID()})
				visit(o)
			case *Geometry:
				o.updateNodes()
				add(o)
				connections = append(connections, &Connection{Type: "OO", From: o.ID(), To: m.ID()})
			case *Material:
				if written[o] {
					connections = append(connections, &Connection{Type: "OO", From: o.ID(), To: m.ID()})
				}
			}
		}
	}
	visit(doc.Scene)

	root := &Node{Name: "_FBX_ROOT"}
	header := root.AddChild(NewNode("FBXHeaderExtension"))
	header.AddChild(NewNode("FBXHeaderVersion", 1003))
	header.AddChild(NewNode("FBXVersion", binaryVersion))
	header.AddChild(NewNode("Creator", doc.Creator))
	root.AddChild(NewNode("FileId", doc.FileId))
	root.AddChild(NewNode("CreationTime", doc.CreationTime))
	root.AddChild(NewNode("Creator", doc.Creator))
	root.AddChild(doc.GlobalSettings.Node)

	counts := map[string]int{"GlobalSettings": 1}
	types := []string{"GlobalSettings"}
	for _, o := range objects {
		if counts[o.NodeName()] == 0 {
			types = append(types, o.NodeName())
		}
		counts[o.NodeName()]++
	}
	defs := root.AddChild(NewNode("Definitions"))
	defs.AddChild(NewNode("Version", 100))
	defs.AddChild(NewNode("Count", len(objects)+1))
	for _, t := range types {
		ot := defs.AddChild(NewNode("ObjectType", t))
		ot.AddChild(NewNode("Count", counts[t]))
	}

	objs := root.AddChild(NewNode("Objects"))
	for _, o := range objects {
		objs.AddChild(o.GetNode())
	}
	conns := root.AddChild(NewNode("Connections"))
	for _, c := range connections {
		conns.AddChild(NewNode("C", c.Type, c.From, c.To))
	}
	return root
}

func parseConnection(node *Node) *Connection {
	c := &Connection{
		Type: node.Attr(0).ToString(),
		From: node.Attr(1).ToInt64(0),
		To:   node.Attr(2).ToInt64(0),
	}
	if c.Type == "OP" {
		c.Prop = node.Attr(3).ToString()
	}
	return c
}

func decodeName(s string, enc encoding.Encoding) string {
	if enc == nil || utf8.ValidString(s) {
		return s
	}
	b, _, err := transform.Bytes(enc.NewDecoder(), []byte(s))
	if err != nil {
		return s
	}
	return string(b)
}

func BuildDocument(root *Node, opt *DocumentOption) (*Document, error) {
	doc := NewDocument("", opt)
	doc.RawNode = root

	doc.Creator = root.FindChild("Creator").GetString()
	doc.CreationTime = root.FindChild("CreationTime").GetString()
	if a := root.FindChild("FileId").Attr(0); a != nil {
		doc.FileId, _ = a.Value.([]byte)
	}

	templates := map[string]*Obj{}
	for _, node := range root.FindChild("Definitions").GetChildren() {
		if node.Name != "ObjectType" {
			continue
		}
		if t := node.FindChild("PropertyTemplate"); t != nil {
			templates[node.GetString()] = &Obj{Node: t}
		}
	}
	if gs := root.FindChild("GlobalSettings"); gs != nil {
		doc.GlobalSettings = &Obj{Node: gs, Template: templates["GlobalSettings"]}
	}

	for _, node := range root.FindChild("Objects").GetChildren() {
		if len(node.Attributes) < 3 {
			return nil, fmt.Errorf("fbx: object %q has %d attributes", node.Name, len(node.Attributes))
		}
		if name := node.Attr(1); name != nil {
			name.Value = decodeName(name.ToString(), doc.opt.NameEncoding)
		}
		base := &Obj{Node: node, Template: templates[node.Name]}
		var obj Object = base
		switch node.Name {
		case "Geometry":
			if base.Kind() == "Mesh" {
				g := parseGeometry(base)
				g.doc = doc
				obj = g
			}
		case "Material":
			m := &Material{Obj: *base, doc: doc}
			doc.Materials = append(doc.Materials, m)
			obj = m
		case "Model":
			obj = &Model{Obj: *base, doc: doc}
		}
		if obj.ID() == 0 {
			continue
		}
		doc.AddObject(obj)
	}

	for _, node := range root.FindChild("Connections").GetChildren() {
		if node.Name != "C" {
			continue
		}
		c := parseConnection(node)
		if c.Type != "OO" && c.Type != "OP" {
			continue
		}
		from := doc.Objects[c.From]
		to := doc.Objects[c.To]
		if to == nil || from == nil {
			continue
		}
		to.AddRef(from)
		if child, ok := from.(*Model); ok {
			if parent, ok := to.(*Model); ok {
				child.Parent = parent
			}
		}
	}

	return doc, nil
}
