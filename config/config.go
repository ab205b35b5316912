// Package config loads fbxio settings from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/fbxio/converter"
	"github.com/binzume/fbxio/logging"
	"github.com/binzume/fbxio/material"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v2"
)

var ErrUnsupportedConfig = errors.New("unsupported config file")

// Output formats for ExportConfig.Format.
const (
	FormatKeep   = ""
	FormatBinary = "binary"
	FormatASCII  = "ascii"
)

type Config struct {
	Export  ExportConfig   `yaml:"export" toml:"export"`
	Import  ImportConfig   `yaml:"import" toml:"import"`
	GLTF    GLTFConfig     `yaml:"gltf" toml:"gltf"`
	Logging logging.Config `yaml:"logging" toml:"logging"`
}

type ExportConfig struct {
	// Format is "binary", "ascii", or empty to keep the input's format.
	Format    string `yaml:"format" toml:"format"`
	Materials string `yaml:"materials" toml:"materials"`
	Creator   string `yaml:"creator" toml:"creator"`
}

type ImportConfig struct {
	// UnitScale is the unit of imported documents in meters.
	UnitScale    float64 `yaml:"unit_scale" toml:"unit_scale"`
	NameEncoding string  `yaml:"name_encoding" toml:"name_encoding"`
}

type GLTFConfig struct {
	ForceUnlit bool `yaml:"force_unlit" toml:"force_unlit"`
}

func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Format:    FormatKeep,
			Materials: material.Auto.String(),
			Creator:   "fbxio",
		},
		Import: ImportConfig{
			UnitScale:    converter.DefaultImportUnitScale,
			NameEncoding: "shift_jis",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads path over the defaults. The syntax follows the extension.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, cfg)
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Export.Format {
	case FormatKeep, FormatBinary, FormatASCII:
	default:
		return fmt.Errorf("export.format %q: want binary or ascii", c.Export.Format)
	}
	if _, err := material.ParseStrategy(c.Export.Materials); err != nil {
		return fmt.Errorf("export.materials: %w", err)
	}
	if !(c.Import.UnitScale > 0) {
		return fmt.Errorf("import.unit_scale %v must be positive", c.Import.UnitScale)
	}
	if _, err := c.nameEncoding(); err != nil {
		return err
	}
	return nil
}

func (c *Config) nameEncoding() (encoding.Encoding, error) {
	if c.Import.NameEncoding == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(c.Import.NameEncoding)
	if err != nil {
		return nil, fmt.Errorf("import.name_encoding %q: %w", c.Import.NameEncoding, err)
	}
	return enc, nil
}

// ASCII reports the output format. keep is returned when the config has no
// preference.
func (c *Config) ASCII(keep bool) bool {
	switch c.Export.Format {
	case FormatASCII:
		return true
	case FormatBinary:
		return false
	}
	return keep
}

func (c *Config) ExportOption(logger *zap.Logger) (*converter.ExportOption, error) {
	strategy, err := material.ParseStrategy(c.Export.Materials)
	if err != nil {
		return nil, err
	}
	return &converter.ExportOption{Strategy: strategy, Creator: c.Export.Creator, Logger: logger}, nil
}

func (c *Config) ImportOption(logger *zap.Logger) (*converter.ImportOption, error) {
	enc, err := c.nameEncoding()
	if err != nil {
		return nil, err
	}
	return &converter.ImportOption{UnitScale: c.Import.UnitScale, NameEncoding: enc, Logger: logger}, nil
}

func (c *Config) GLTFOption() *converter.SceneToGLTFOption {
	return &converter.SceneToGLTFOption{ForceUnlit: c.GLTF.ForceUnlit}
}
