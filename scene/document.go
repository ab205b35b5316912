package scene

import (
	"fmt"
	"iter"

	"github.com/binzume/fbxio/geom"
)

// Matrix is a row-major 4x4 homogeneous transform. Translation is at 3, 7, 11.
type Matrix [16]float64

func IdentityMatrix() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// MatrixFrom converts a column-major geom matrix.
func MatrixFrom(m *geom.Matrix4) Matrix {
	return Matrix(*m.Transposed())
}

// Matrix4 returns the column-major form used by geom.
func (m *Matrix) Matrix4() *geom.Matrix4 {
	g := geom.Matrix4(*m)
	return g.Transposed()
}

type Node struct {
	Name          string
	Transform     Matrix
	Children      []*Node
	Mesh          *Mesh
	MaterialSlots []int
}

func NewNode(name string) *Node {
	return &Node{Name: name, Transform: IdentityMatrix()}
}

func (n *Node) AddChild(c *Node) *Node {
	n.Children = append(n.Children, c)
	return c
}

// BindMaterial appends a slot pointing at the first material named name.
func (n *Node) BindMaterial(doc *Document, name string) error {
	idx := doc.MaterialIndex(name)
	if idx < 0 {
		return fmt.Errorf("node %q: material %q: %w", n.Name, name, ErrMaterialSlot)
	}
	n.MaterialSlots = append(n.MaterialSlots, idx)
	return nil
}

type Document struct {
	Root      *Node
	Materials []*Material
	ASCII     bool
	// UnitScale is the size of one document unit in meters.
	UnitScale float64
}

func NewDocument() *Document {
	return &Document{Root: NewNode("Root"), UnitScale: 1}
}

func (doc *Document) AddMaterial(m *Material) int {
	doc.Materials = append(doc.Materials, m)
	return len(doc.Materials) - 1
}

// MaterialIndex returns the index of the first material named name, or -1.
func (doc *Document) MaterialIndex(name string) int {
	for i, m := range doc.Materials {
		if m != nil && m.Name == name {
			return i
		}
	}
	return -1
}

// Walk yields every node depth first with its depth (root is 0).
// Nil children are yielded as nil and not descended into.
func (doc *Document) Walk() iter.Seq2[int, *Node] {
	return func(yield func(int, *Node) bool) {
		walk(doc.Root, 0, yield)
	}
}

func walk(n *Node, depth int, yield func(int, *Node) bool) bool {
	if !yield(depth, n) {
		return false
	}
	if n == nil {
		return true
	}
	for _, c := range n.Children {
		if !walk(c, depth+1, yield) {
			return false
		}
	}
	return true
}

func (doc *Document) Validate() error {
	if doc.Root == nil {
		return fmt.Errorf("no root: %w", ErrMalformedTree)
	}
	if !(doc.UnitScale > 0) {
		return fmt.Errorf("unit scale %v must be positive", doc.UnitScale)
	}
	for depth, n := range doc.Walk() {
		if n == nil {
			return fmt.Errorf("nil node at depth %d: %w", depth, ErrMalformedTree)
		}
		for _, s := range n.MaterialSlots {
			if s < 0 || s >= len(doc.Materials) || doc.Materials[s] == nil {
				return fmt.Errorf("node %q slot %d: %w", n.Name, s, ErrMaterialSlot)
			}
		}
		if n.Mesh == nil {
			continue
		}
		for i, mi := range n.Mesh.MaterialIndices {
			if int(mi) >= len(n.MaterialSlots) {
				return fmt.Errorf("node %q polygon %d uses slot %d: %w", n.Name, i, mi, ErrMaterialSlot)
			}
		}
	}
	return nil
}
