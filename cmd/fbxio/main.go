package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/fbxio/config"
	"github.com/binzume/fbxio/converter"
	"github.com/binzume/fbxio/logging"
	"github.com/binzume/fbxio/scene"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

func defaultOutputFile(input string) string {
	ext := filepath.Ext(input)
	return input[0:len(input)-len(ext)] + ".glb"
}

func saveDocument(doc *scene.Document, output string, cfg *config.Config, logger *zap.Logger) error {
	ext := strings.ToLower(filepath.Ext(output))
	if ext == ".fbx" {
		opt, err := cfg.ExportOption(logger)
		if err != nil {
			return err
		}
		doc.ASCII = cfg.ASCII(doc.ASCII)
		return converter.NewExporter(opt).Export(output, doc)
	} else if ext == ".glb" || ext == ".gltf" {
		gltfdoc, err := converter.NewSceneToGLTFConverter(cfg.GLTFOption()).Convert(doc)
		if err != nil {
			return err
		}
		if ext == ".glb" {
			return gltf.SaveBinary(gltfdoc, output)
		}
		return gltf.Save(gltfdoc, output)
	}
	return fmt.Errorf("unsupported output type: %v", ext)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.fbx [output.fbx|output.glb|output.gltf]\n", os.Args[0])
		flag.PrintDefaults()
	}
	confFile := flag.String("config", "", "config file (.yaml or .toml)")
	format := flag.String("format", "", "fbx output format: binary or ascii (default: same as input)")
	materials := flag.String("materials", "", "material mapping: auto, shader or reduced")
	unitScale := flag.Float64("unitscale", 0, "unit of the imported document in meters (0: config)")
	logLevel := flag.String("loglevel", "", "debug, info, warn or error")
	logFile := flag.String("logfile", "", "rotating log file")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)
	output := defaultOutputFile(input)
	if flag.NArg() > 1 {
		output = flag.Arg(1)
	}

	cfg := config.Default()
	if *confFile != "" {
		var err error
		if cfg, err = config.Load(*confFile); err != nil {
			log.Fatal(err)
		}
	}
	if *format != "" {
		cfg.Export.Format = *format
	}
	if *materials != "" {
		cfg.Export.Materials = *materials
	}
	if *unitScale != 0 {
		cfg.Import.UnitScale = *unitScale
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	opt, err := cfg.ImportOption(logger)
	if err != nil {
		log.Fatal(err)
	}
	doc, err := converter.NewImporter(opt).Import(input)
	if err != nil {
		log.Fatal(err)
	}

	logger.Info("out", zap.String("path", output))
	if err = saveDocument(doc, output, cfg, logger); err != nil {
		log.Fatal(err)
	}
}
