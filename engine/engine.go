// Package engine declares the scene engine the converters drive. The fbx
// package provides the implementation used by default.
package engine

import (
	"errors"

	"github.com/binzume/fbxio/geom"
)

var (
	ErrPropertyRejected   = errors.New("property rejected")
	ErrUnsupportedShading = errors.New("unsupported shading model")
	ErrUnknownFormat      = errors.New("unknown file format")
)

const (
	FormatDescASCII  = "FBX ascii (*.fbx)"
	FormatDescBinary = "FBX binary (*.fbx)"
)

type ElementKind int

const (
	ElementNormal ElementKind = iota
	ElementUV
	ElementMaterial
)

type MappingMode int

const (
	MappingByControlPoint MappingMode = iota
	MappingByPolygonVertex
	MappingByPolygon
	MappingAllSame
)

type ReferenceMode int

const (
	ReferenceDirect ReferenceMode = iota
	ReferenceIndexToDirect
)

type ShadingModel string

const (
	ShadingLambert         ShadingModel = "lambert"
	ShadingPhong           ShadingModel = "phong"
	ShadingStandardSurface ShadingModel = "standardSurface"
)

// Property is a typed material property. Value is float64, bool or
// geom.Vector3 (RGB).
type Property struct {
	Name       string
	ShaderName string
	Value      any
}

type Manager interface {
	CreateScene(name string) Scene
	// WriterFormat returns the writer id registered for desc, or -1.
	WriterFormat(desc string) int
	CreateExporter() Exporter
	CreateImporter() Importer
	Destroy() error
}

type Exporter interface {
	Initialize(path string, format int) error
	Export(s Scene) error
	Destroy()
}

type Importer interface {
	Initialize(path string) error
	Import(s Scene) error
	// FileFormat returns the writer id matching the opened file.
	FileFormat() int
	Destroy()
}

type Scene interface {
	Name() string
	RootNode() Node
	CreateNode(name string) Node
	CreateMesh(name string) Mesh
	CreateMaterial(name string, shading ShadingModel) (Material, error)
	MaterialCount() int
	Material(i int) Material
}

type Node interface {
	Name() string
	SetLocalTranslation(v geom.Vector3)
	SetLocalRotation(v geom.Vector3)
	SetLocalScaling(v geom.Vector3)
	LocalTranslation() geom.Vector3
	// LocalRotation is Euler XYZ in degrees.
	LocalRotation() geom.Vector3
	LocalScaling() geom.Vector3
	// AddChild moves child under this node.
	AddChild(child Node) error
	ChildCount() int
	Child(i int) Node
	AddMaterial(m Material) error
	MaterialCount() int
	Material(i int) Material
	SetMesh(m Mesh) error
	// Mesh returns nil when the node has no geometry.
	Mesh() Mesh
}

type Mesh interface {
	Name() string
	InitControlPoints(n int)
	SetControlPoint(i int, v geom.Vector4)
	ControlPointCount() int
	ControlPoint(i int) geom.Vector4
	// BeginPolygon starts a polygon. A material index >= 0 is appended to
	// the material element when the mesh has one.
	BeginPolygon(material int)
	AddPolygon(vertex int)
	EndPolygon()
	PolygonCount() int
	PolygonSize(p int) int
	PolygonVertex(p, corner int) int
	PolygonVertexCount() int
	CreateElement(kind ElementKind, name string) Element
	ElementCount(kind ElementKind) int
	Element(kind ElementKind, i int) Element
}

type Element interface {
	Kind() ElementKind
	Name() string
	SetMappingMode(m MappingMode)
	MappingMode() MappingMode
	SetReferenceMode(m ReferenceMode)
	ReferenceMode() ReferenceMode
	AppendDirect(v geom.Vector4)
	DirectCount() int
	Direct(i int) geom.Vector4
	AppendIndex(i int)
	IndexCount() int
	Index(i int) int
}

type Material interface {
	Name() string
	ShadingModel() ShadingModel
	SetProperty(p Property) error
	Property(name string) (Property, bool)
}
