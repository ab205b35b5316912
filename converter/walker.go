package converter

import (
	"fmt"

	"github.com/binzume/fbxio/codec"
	"github.com/binzume/fbxio/coord"
	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/geom"
	"github.com/binzume/fbxio/material"
	"github.com/binzume/fbxio/scene"
	"go.uber.org/zap"
)

// FBX "Lcl Rotation" is XYZ Euler in degrees, applied as Rz*Ry*Rx.
const rotationOrder = geom.RotationOrderZYX

type sceneToEngine struct {
	scene  engine.Scene
	doc    *scene.Document
	mapper *material.Mapper
	norm   coord.Normalizer
	logger *zap.Logger
}

func newSceneToEngine(s engine.Scene, doc *scene.Document, mapper *material.Mapper, logger *zap.Logger) *sceneToEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sceneToEngine{
		scene:  s,
		doc:    doc,
		mapper: mapper,
		norm:   coord.Normalizer{UnitScale: doc.UnitScale},
		logger: logger,
	}
}

func setTransform(dst engine.Node, m *scene.Matrix) {
	t, q, s := m.Matrix4().Decompose()
	dst.SetLocalTranslation(*t)
	dst.SetLocalRotation(*geom.NewEulerFromQuaternion(q, rotationOrder).Degrees())
	dst.SetLocalScaling(*s)
}

func (c *sceneToEngine) convertMesh(m *scene.Mesh, name string) (engine.Mesh, error) {
	if m.Name != "" {
		name = m.Name
	}
	dst := c.scene.CreateMesh(name)
	if err := codec.EncodeMesh(dst, c.norm.Mesh(m)); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	return dst, nil
}

func (c *sceneToEngine) convertNode(n *scene.Node, depth int) (engine.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("nil node at depth %d: %w", depth, scene.ErrMalformedTree)
	}
	dst := c.scene.CreateNode(n.Name)
	setTransform(dst, &n.Transform)
	if err := c.mapper.Bind(c.scene, dst, c.doc, n.MaterialSlots); err != nil {
		return nil, err
	}
	if n.Mesh != nil {
		mesh, err := c.convertMesh(n.Mesh, n.Name)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		if err := dst.SetMesh(mesh); err != nil {
			return nil, err
		}
	}
	for _, child := range n.Children {
		cn, err := c.convertNode(child, depth+1)
		if err != nil {
			return nil, err
		}
		if err := dst.AddChild(cn); err != nil {
			return nil, err
		}
	}
	c.logger.Debug("node converted", zap.String("name", n.Name), zap.Int("depth", depth), zap.Bool("mesh", n.Mesh != nil))
	return dst, nil
}

// Convert builds the engine tree for doc. The document root itself is not
// kept: its children are attached to the scene's root node.
func (c *sceneToEngine) Convert() error {
	root, err := c.convertNode(c.doc.Root, 0)
	if err != nil {
		return err
	}
	children := make([]engine.Node, root.ChildCount())
	for i := range children {
		children[i] = root.Child(i)
	}
	sceneRoot := c.scene.RootNode()
	for _, child := range children {
		if err := sceneRoot.AddChild(child); err != nil {
			return err
		}
	}
	return nil
}

type engineToScene struct {
	scene  engine.Scene
	doc    *scene.Document
	mapper *material.Mapper
	norm   coord.Normalizer
	logger *zap.Logger
}

func newEngineToScene(s engine.Scene, doc *scene.Document, mapper *material.Mapper, unitScale float64, logger *zap.Logger) *engineToScene {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &engineToScene{
		scene:  s,
		doc:    doc,
		mapper: mapper,
		norm:   coord.Normalizer{UnitScale: unitScale},
		logger: logger,
	}
}

func transformOf(src engine.Node) scene.Matrix {
	t, r, s := src.LocalTranslation(), src.LocalRotation(), src.LocalScaling()
	q := geom.NewEulerFromDegrees(&r, rotationOrder).ToQuaternion()
	return scene.MatrixFrom(geom.NewTRSMatrix4(&t, q, &s))
}

func (c *engineToScene) convertNode(src engine.Node) (*scene.Node, error) {
	n := scene.NewNode(src.Name())
	n.Transform = transformOf(src)
	n.MaterialSlots = c.mapper.ResolveSlots(src, c.doc)
	if mesh := src.Mesh(); mesh != nil {
		m, err := codec.HarvestMesh(mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		c.norm.Restore(m)
		n.Mesh = m
	}
	for i := 0; i < src.ChildCount(); i++ {
		child, err := c.convertNode(src.Child(i))
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// Convert mirrors the children of the scene's root node under doc.Root.
func (c *engineToScene) Convert() error {
	root := c.scene.RootNode()
	for i := 0; i < root.ChildCount(); i++ {
		n, err := c.convertNode(root.Child(i))
		if err != nil {
			return err
		}
		c.doc.Root.AddChild(n)
	}
	c.logger.Debug("scene harvested", zap.Int("materials", len(c.doc.Materials)))
	return nil
}
