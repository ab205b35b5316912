package fbx

import (
	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/geom"
)

type MappingType string

const (
	AllSame         MappingType = "AllSame"
	ByPolygon       MappingType = "ByPolygon"
	ByVertice       MappingType = "ByVertice"
	ByPolygonVertex MappingType = "ByPolygonVertex"
	ByControlPoint  MappingType = "ByControlPoint"
)

var mappingTypes = map[engine.MappingMode]MappingType{
	engine.MappingByControlPoint:  ByControlPoint,
	engine.MappingByPolygonVertex: ByPolygonVertex,
	engine.MappingByPolygon:       ByPolygon,
	engine.MappingAllSame:         AllSame,
}

func parseMappingType(s string) engine.MappingMode {
	switch MappingType(s) {
	case ByPolygonVertex:
		return engine.MappingByPolygonVertex
	case ByPolygon:
		return engine.MappingByPolygon
	case AllSame:
		return engine.MappingAllSame
	default: // ByVertice, ByVertex, ByControlPoint
		return engine.MappingByControlPoint
	}
}

func parseReferenceType(s string) engine.ReferenceMode {
	if s == "IndexToDirect" || s == "Index" {
		return engine.ReferenceIndexToDirect
	}
	return engine.ReferenceDirect
}

type layerSchema struct {
	node, values, index string
	components          int
}

var layerSchemas = map[engine.ElementKind]layerSchema{
	engine.ElementNormal:   {"LayerElementNormal", "Normals", "NormalsIndex", 3},
	engine.ElementUV:       {"LayerElementUV", "UV", "UVIndex", 2},
	engine.ElementMaterial: {"LayerElementMaterial", "", "Materials", 0},
}

// LayerElement is a per-geometry attribute channel. It implements engine.Element.
type LayerElement struct {
	kind      engine.ElementKind
	name      string
	mapping   engine.MappingMode
	reference engine.ReferenceMode
	values    []geom.Vector4
	indices   []int
}

func (e *LayerElement) Kind() engine.ElementKind                { return e.kind }
func (e *LayerElement) Name() string                            { return e.name }
func (e *LayerElement) SetMappingMode(m engine.MappingMode)     { e.mapping = m }
func (e *LayerElement) MappingMode() engine.MappingMode         { return e.mapping }
func (e *LayerElement) SetReferenceMode(m engine.ReferenceMode) { e.reference = m }
func (e *LayerElement) ReferenceMode() engine.ReferenceMode     { return e.reference }
func (e *LayerElement) AppendDirect(v geom.Vector4)             { e.values = append(e.values, v) }
func (e *LayerElement) DirectCount() int                        { return len(e.values) }
func (e *LayerElement) Direct(i int) geom.Vector4               { return e.values[i] }
func (e *LayerElement) AppendIndex(i int)                       { e.indices = append(e.indices, i) }
func (e *LayerElement) IndexCount() int                         { return len(e.indices) }
func (e *LayerElement) Index(i int) int                         { return e.indices[i] }

func (e *LayerElement) toNode(typedIndex int) *Node {
	schema := layerSchemas[e.kind]
	n := NewNode(schema.node, typedIndex)
	n.AddChild(NewNode("Version", 101))
	n.AddChild(NewNode("Name", e.name))
	n.AddChild(NewNode("MappingInformationType", string(mappingTypes[e.mapping])))
	if e.kind == engine.ElementMaterial {
		// material indices are always IndexToDirect into the node's materials
		n.AddChild(NewNode("ReferenceInformationType", "IndexToDirect"))
		n.AddChild(NewNode(schema.index, toInt32s(e.indices)))
		return n
	}
	ref := "Direct"
	if e.reference == engine.ReferenceIndexToDirect {
		ref = "IndexToDirect"
	}
	n.AddChild(NewNode("ReferenceInformationType", ref))
	values := make([]float64, 0, len(e.values)*schema.components)
	for _, v := range e.values {
		if schema.components == 2 {
			values = append(values, v.X, v.Y)
		} else {
			values = append(values, v.X, v.Y, v.Z)
		}
	}
	n.AddChild(NewNode(schema.values, values))
	if e.reference == engine.ReferenceIndexToDirect {
		n.AddChild(NewNode(schema.index, toInt32s(e.indices)))
	}
	return n
}

func parseLayerElement(kind engine.ElementKind, n *Node) *LayerElement {
	schema := layerSchemas[kind]
	e := &LayerElement{
		kind:      kind,
		name:      n.FindChild("Name").GetString(),
		mapping:   parseMappingType(n.FindChild("MappingInformationType").GetString()),
		reference: parseReferenceType(n.FindChild("ReferenceInformationType").GetString()),
	}
	for _, i := range n.FindChild(schema.index).GetInt32Array() {
		e.indices = append(e.indices, int(i))
	}
	if kind == engine.ElementMaterial {
		e.reference = engine.ReferenceIndexToDirect
		return e
	}
	values := n.FindChild(schema.values).GetFloat64Array()
	for i := 0; i+schema.components <= len(values); i += schema.components {
		var v [4]float64
		copy(v[:], values[i:i+schema.components])
		e.values = append(e.values, geom.Vector4{X: v[0], Y: v[1], Z: v[2], W: v[3]})
	}
	return e
}

func toInt32s(v []int) []int32 {
	r := make([]int32, len(v))
	for i, x := range v {
		r[i] = int32(x)
	}
	return r
}

// Geometry is a polygon mesh. It implements engine.Mesh.
type Geometry struct {
	Obj
	Vertices      []geom.Vector4
	Corners       []int // control point index per polygon corner
	PolygonStarts []int
	layers        []*LayerElement
	doc           *Document
}

func NewGeometry(id int64, name string) *Geometry {
	return &Geometry{
		Obj: *newObj(id, "Geometry", name, "Mesh",
			NewNode("GeometryVersion", 124),
		),
	}
}

func (g *Geometry) InitControlPoints(n int) {
	g.Vertices = make([]geom.Vector4, n)
}

func (g *Geometry) SetControlPoint(i int, v geom.Vector4) {
	g.Vertices[i] = v
}

func (g *Geometry) ControlPointCount() int {
	return len(g.Vertices)
}

func (g *Geometry) ControlPoint(i int) geom.Vector4 {
	return g.Vertices[i]
}

func (g *Geometry) BeginPolygon(material int) {
	g.PolygonStarts = append(g.PolygonStarts, len(g.Corners))
	if material < 0 {
		return
	}
	for _, e := range g.layers {
		if e.kind == engine.ElementMaterial {
			e.indices = append(e.indices, material)
			break
		}
	}
}

func (g *Geometry) AddPolygon(vertex int) {
	g.Corners = append(g.Corners, vertex)
}

func (g *Geometry) EndPolygon() {}

func (g *Geometry) PolygonCount() int {
	return len(g.PolygonStarts)
}

func (g *Geometry) PolygonSize(p int) int {
	if p+1 < len(g.PolygonStarts) {
		return g.PolygonStarts[p+1] - g.PolygonStarts[p]
	}
	return len(g.Corners) - g.PolygonStarts[p]
}

func (g *Geometry) PolygonVertex(p, corner int) int {
	return g.Corners[g.PolygonStarts[p]+corner]
}

func (g *Geometry) PolygonVertexCount() int {
	return len(g.Corners)
}

func (g *Geometry) CreateElement(kind engine.ElementKind, name string) engine.Element {
	e := &LayerElement{kind: kind, name: name}
	g.layers = append(g.layers, e)
	return e
}

func (g *Geometry) elements(kind engine.ElementKind) []*LayerElement {
	var r []*LayerElement
	for _, e := range g.layers {
		if e.kind == kind {
			r = append(r, e)
		}
	}
	return r
}

func (g *Geometry) ElementCount(kind engine.ElementKind) int {
	return len(g.elements(kind))
}

func (g *Geometry) Element(kind engine.ElementKind, i int) engine.Element {
	elements := g.elements(kind)
	if i < 0 || i >= len(elements) {
		return nil
	}
	return elements[i]
}

// updateNodes rewrites the raw geometry records from the mesh state.
// Polygon ends are stored as ^index.
func (g *Geometry) updateNodes() {
	verts := make([]float64, 0, len(g.Vertices)*3)
	for _, v := range g.Vertices {
		verts = append(verts, v.X, v.Y, v.Z)
	}
	indices := make([]int32, len(g.Corners))
	for p := range g.PolygonStarts {
		size := g.PolygonSize(p)
		for c := 0; c < size; c++ {
			i := int32(g.PolygonVertex(p, c))
			if c == size-1 {
				i = ^i
			}
			indices[g.PolygonStarts[p]+c] = i
		}
	}

	var children []*Node
	for _, name := range []string{"Properties70", "GeometryVersion"} {
		if n := g.FindChild(name); n != nil {
			children = append(children, n)
		}
	}
	children = append(children, NewNode("Vertices", verts), NewNode("PolygonVertexIndex", indices))
	typed := map[engine.ElementKind]int{}
	var layers []*Node
	for _, e := range g.layers {
		ti := typed[e.kind]
		typed[e.kind]++
		children = append(children, e.toNode(ti))
		for len(layers) <= ti {
			layer := NewNode("Layer", len(layers))
			layer.AddChild(NewNode("Version", 100))
			layers = append(layers, layer)
		}
		layers[ti].Children = append(layers[ti].Children, &Node{Name: "LayerElement", Children: []*Node{
			NewNode("Type", layerSchemas[e.kind].node),
			NewNode("TypedIndex", ti),
		}})
	}
	g.Children = append(children, layers...)
}

func parseGeometry(base *Obj) *Geometry {
	g := &Geometry{Obj: *base}
	verts := base.FindChild("Vertices").GetFloat64Array()
	for i := 0; i+3 <= len(verts); i += 3 {
		g.Vertices = append(g.Vertices, geom.Vector4{X: verts[i], Y: verts[i+1], Z: verts[i+2], W: 1})
	}
	start := true
	for _, index := range base.FindChild("PolygonVertexIndex").GetInt32Array() {
		if start {
			g.PolygonStarts = append(g.PolygonStarts, len(g.Corners))
			start = false
		}
		if index < 0 {
			index = ^index
			start = true
		}
		g.Corners = append(g.Corners, int(index))
	}
	for _, kind := range []engine.ElementKind{engine.ElementNormal, engine.ElementUV, engine.ElementMaterial} {
		for _, n := range base.FindChildren(layerSchemas[kind].node) {
			g.layers = append(g.layers, parseLayerElement(kind, n))
		}
	}
	return g
}
