package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/fbx"
	"github.com/binzume/fbxio/material"
	"github.com/binzume/fbxio/scene"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type ExportOption struct {
	Strategy material.Strategy
	Logger   *zap.Logger
	// Creator is written to the file header. Default: "fbxio"
	Creator string
	// NewManager creates the scene engine. Default: the fbx package.
	NewManager func() engine.Manager
}

type Exporter struct {
	*ExportOption
}

func NewExporter(options *ExportOption) *Exporter {
	if options == nil {
		options = &ExportOption{}
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.NewManager == nil {
		logger := options.Logger
		docOpt := *fbx.DefaultDocumentOption()
		if options.Creator != "" {
			docOpt.Creator = options.Creator
		}
		options.NewManager = func() engine.Manager {
			return fbx.NewManager(&fbx.ManagerOption{Document: docOpt, Logger: logger})
		}
	}
	return &Exporter{ExportOption: options}
}

func checkOutputPath(path string) error {
	if path == "" {
		return fmt.Errorf("empty output path: %w", scene.ErrInvalidPath)
	}
	dir := filepath.Dir(path)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return fmt.Errorf("output directory %q: %w", dir, scene.ErrInvalidPath)
	}
	return nil
}

func sceneName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Export writes doc to path. The writer format follows doc.ASCII. Nothing
// is written unless the whole document converts.
func (e *Exporter) Export(path string, doc *scene.Document) (err error) {
	if err := checkOutputPath(path); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	mgr := e.NewManager()
	if mgr == nil {
		return fmt.Errorf("no scene manager: %w", scene.ErrEngineInit)
	}
	defer func() {
		err = multierr.Append(err, mgr.Destroy())
	}()

	s := mgr.CreateScene(sceneName(path))
	mapper := material.NewMapper(e.Strategy, e.Logger)
	if err := mapper.Register(s, doc.Materials); err != nil {
		return err
	}
	if err := newSceneToEngine(s, doc, mapper, e.Logger).Convert(); err != nil {
		return err
	}

	desc := engine.FormatDescBinary
	if doc.ASCII {
		desc = engine.FormatDescASCII
	}
	format := mgr.WriterFormat(desc)
	if format < 0 {
		return fmt.Errorf("writer %q: %w", desc, scene.ErrEngineInit)
	}
	exp := mgr.CreateExporter()
	defer exp.Destroy()
	if err := exp.Initialize(path, format); err != nil {
		return fmt.Errorf("%w: %w", scene.ErrEngineInit, err)
	}
	if err := exp.Export(s); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	e.Logger.Info("exported", zap.String("path", path), zap.String("format", desc), zap.Int("materials", len(doc.Materials)))
	return nil
}
