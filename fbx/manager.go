package fbx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/binzume/fbxio/engine"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	FormatBinary = iota
	FormatASCII
)

var writerFormats = []string{
	FormatBinary: engine.FormatDescBinary,
	FormatASCII:  engine.FormatDescASCII,
}

var ErrDestroyed = errors.New("fbx: manager destroyed")

type ManagerOption struct {
	Document DocumentOption
	Logger   *zap.Logger
}

// Manager implements engine.Manager on top of this package.
type Manager struct {
	opt       DocumentOption
	logger    *zap.Logger
	exporters []*Exporter
	importers []*Importer
	destroyed bool
}

func NewManager(opt *ManagerOption) *Manager {
	m := &Manager{opt: *DefaultDocumentOption(), logger: zap.NewNop()}
	if opt != nil {
		m.opt = opt.Document
		if opt.Logger != nil {
			m.logger = opt.Logger
		}
	}
	return m
}

func (m *Manager) CreateScene(name string) engine.Scene {
	return NewDocument(name, &m.opt)
}

func (m *Manager) WriterFormat(desc string) int {
	for i, d := range writerFormats {
		if d == desc {
			return i
		}
	}
	return -1
}

func (m *Manager) CreateExporter() engine.Exporter {
	e := &Exporter{logger: m.logger, format: -1}
	m.exporters = append(m.exporters, e)
	return e
}

func (m *Manager) CreateImporter() engine.Importer {
	i := &Importer{opt: m.opt, logger: m.logger, format: -1}
	m.importers = append(m.importers, i)
	return i
}

// Destroy releases every exporter and importer created by m.
func (m *Manager) Destroy() error {
	if m.destroyed {
		return ErrDestroyed
	}
	m.destroyed = true
	var err error
	for _, e := range m.exporters {
		err = multierr.Append(err, e.release())
	}
	for _, i := range m.importers {
		err = multierr.Append(err, i.release())
	}
	m.exporters, m.importers = nil, nil
	return err
}

// Exporter writes into a temporary file next to the target and renames it
// on success.
type Exporter struct {
	logger *zap.Logger
	path   string
	format int
	tmp    *os.File
}

func (e *Exporter) Initialize(path string, format int) error {
	if format < 0 || format >= len(writerFormats) {
		return fmt.Errorf("writer %d: %w", format, engine.ErrUnknownFormat)
	}
	if path == "" {
		return errors.New("fbx: empty output path")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	e.release()
	e.path, e.format, e.tmp = path, format, tmp
	return nil
}

func (e *Exporter) Export(s engine.Scene) error {
	doc, ok := s.(*Document)
	if !ok {
		return fmt.Errorf("fbx: cannot export %T", s)
	}
	if e.tmp == nil {
		return errors.New("fbx: exporter not initialized")
	}
	tmp := e.tmp
	err := Write(tmp, doc, e.format == FormatASCII)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), e.path)
	}
	e.tmp = nil
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	e.logger.Debug("fbx written", zap.String("path", e.path), zap.String("format", writerFormats[e.format]))
	return nil
}

func (e *Exporter) Destroy() {
	if err := e.release(); err != nil {
		e.logger.Warn("exporter cleanup", zap.Error(err))
	}
}

func (e *Exporter) release() error {
	if e.tmp == nil {
		return nil
	}
	tmp := e.tmp
	e.tmp = nil
	return multierr.Combine(tmp.Close(), os.Remove(tmp.Name()))
}

type Importer struct {
	opt    DocumentOption
	logger *zap.Logger
	file   *os.File
	format int
}

func (i *Importer) Initialize(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	head := make([]byte, len(binaryMagic))
	n, _ := f.Read(head)
	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return err
	}
	i.release()
	i.file = f
	i.format = FormatASCII
	if string(head[:n]) == binaryMagic {
		i.format = FormatBinary
	}
	return nil
}

func (i *Importer) FileFormat() int {
	return i.format
}

func (i *Importer) Import(s engine.Scene) error {
	doc, ok := s.(*Document)
	if !ok {
		return fmt.Errorf("fbx: cannot import into %T", s)
	}
	if i.file == nil {
		return errors.New("fbx: importer not initialized")
	}
	defer i.release()
	root, _, err := parseRaw(i.file)
	if err != nil {
		return fmt.Errorf("fbx: parse %s: %w", i.file.Name(), err)
	}
	parsed, err := BuildDocument(root, &i.opt)
	if err != nil {
		return err
	}
	parsed.name = doc.name
	*doc = *parsed
	for _, o := range doc.Objects {
		switch o := o.(type) {
		case *Model:
			o.doc = doc
		case *Geometry:
			o.doc = doc
		case *Material:
			o.doc = doc
		}
	}
	i.logger.Debug("fbx loaded", zap.String("creator", doc.Creator), zap.Int("objects", len(doc.Objects)))
	return nil
}

func (i *Importer) Destroy() {
	if err := i.release(); err != nil {
		i.logger.Warn("importer cleanup", zap.Error(err))
	}
}

func (i *Importer) release() error {
	if i.file == nil {
		return nil
	}
	f := i.file
	i.file = nil
	return f.Close()
}
