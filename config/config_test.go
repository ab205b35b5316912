package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/binzume/fbxio/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "auto", cfg.Export.Materials)
	assert.Equal(t, 0.01, cfg.Import.UnitScale)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.ASCII(true))
	assert.False(t, cfg.ASCII(false))

	opt, err := cfg.ImportOption(nil)
	require.NoError(t, err)
	assert.Equal(t, japanese.ShiftJIS, opt.NameEncoding)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "fbxio.yaml", `
export:
  format: ascii
  materials: reduced
import:
  unit_scale: 1
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.ASCII(false))
	assert.Equal(t, 1.0, cfg.Import.UnitScale)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched values keep their defaults
	assert.Equal(t, "fbxio", cfg.Export.Creator)
	assert.Equal(t, 50, cfg.Logging.MaxSizeMB)

	opt, err := cfg.ExportOption(nil)
	require.NoError(t, err)
	assert.Equal(t, material.Reduced, opt.Strategy)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "fbxio.toml", `
[export]
format = "binary"
creator = "test"

[import]
name_encoding = "euc-jp"

[gltf]
force_unlit = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.ASCII(true))
	assert.Equal(t, "test", cfg.Export.Creator)
	assert.True(t, cfg.GLTFOption().ForceUnlit)

	opt, err := cfg.ImportOption(nil)
	require.NoError(t, err)
	assert.Equal(t, japanese.EUCJP, opt.NameEncoding)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "fbxio.json", `{}`))
	assert.ErrorIs(t, err, ErrUnsupportedConfig)

	_, err = Load(writeFile(t, "bad.yaml", "export:\n  format: obj\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.toml", "[import]\nunit_scale = -1\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown.yaml", "export:\n  colour: red\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "enc.yaml", "import:\n  name_encoding: klingon\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
