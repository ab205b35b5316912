package converter

import (
	"fmt"
	"os"

	"github.com/binzume/fbxio/engine"
	"github.com/binzume/fbxio/fbx"
	"github.com/binzume/fbxio/material"
	"github.com/binzume/fbxio/scene"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// DefaultImportUnitScale: files are read as centimeters.
const DefaultImportUnitScale = 0.01

type ImportOption struct {
	// UnitScale is the unit of the resulting document in meters. Default: 0.01
	UnitScale float64
	// NameEncoding decodes legacy object names. Default: Shift_JIS
	NameEncoding encoding.Encoding
	Logger       *zap.Logger
	// NewManager creates the scene engine. Default: the fbx package.
	NewManager func() engine.Manager
}

type Importer struct {
	*ImportOption
}

func NewImporter(options *ImportOption) *Importer {
	if options == nil {
		options = &ImportOption{}
	}
	if options.UnitScale == 0 {
		options.UnitScale = DefaultImportUnitScale
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.NewManager == nil {
		logger := options.Logger
		docOpt := *fbx.DefaultDocumentOption()
		if options.NameEncoding != nil {
			docOpt.NameEncoding = options.NameEncoding
		}
		options.NewManager = func() engine.Manager {
			return fbx.NewManager(&fbx.ManagerOption{Document: docOpt, Logger: logger})
		}
	}
	return &Importer{ImportOption: options}
}

// Import reads the scene file at path.
func (i *Importer) Import(path string) (_ *scene.Document, err error) {
	if path == "" {
		return nil, fmt.Errorf("empty input path: %w", scene.ErrInvalidPath)
	}
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		return nil, fmt.Errorf("input %q: %w", path, scene.ErrInvalidPath)
	}
	if !(i.UnitScale > 0) {
		return nil, fmt.Errorf("unit scale %v must be positive", i.UnitScale)
	}
	mgr := i.NewManager()
	if mgr == nil {
		return nil, fmt.Errorf("no scene manager: %w", scene.ErrEngineInit)
	}
	defer func() {
		err = multierr.Append(err, mgr.Destroy())
	}()

	imp := mgr.CreateImporter()
	defer imp.Destroy()
	if err := imp.Initialize(path); err != nil {
		return nil, fmt.Errorf("%w: %w", scene.ErrEngineInit, err)
	}
	s := mgr.CreateScene(sceneName(path))
	if err := imp.Import(s); err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}

	doc := scene.NewDocument()
	doc.UnitScale = i.UnitScale
	doc.ASCII = imp.FileFormat() == mgr.WriterFormat(engine.FormatDescASCII)
	mapper := material.NewMapper(material.Auto, i.Logger)
	doc.Materials = mapper.Harvest(s)
	if err := newEngineToScene(s, doc, mapper, i.UnitScale, i.Logger).Convert(); err != nil {
		return nil, err
	}
	i.Logger.Info("imported", zap.String("path", path), zap.Bool("ascii", doc.ASCII), zap.Int("materials", len(doc.Materials)))
	return doc, nil
}
