// lamina is a CLI for exporting triangle meshes as multi-color 3MF files
// with alternating per-layer filament colors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/lamina/internal/config"
	"github.com/Faultbox/lamina/internal/export"
	"github.com/Faultbox/lamina/internal/layering"
	"github.com/Faultbox/lamina/internal/logger"
	"github.com/Faultbox/lamina/internal/material"
	"github.com/Faultbox/lamina/internal/paint"
	"github.com/Faultbox/lamina/pkg/stl"
	"github.com/Faultbox/lamina/pkg/threemf"
)

// Exit codes, one per error class.
const (
	exitOK = iota
	exitUsage
	exitConfiguration
	exitInvalidColor
	exitPackaging
	exitNotFound
	exitMalformed
	exitIO
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsage)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var code int
	switch command {
	case "export":
		code = cmdExport(args)
	case "info":
		code = cmdInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = exitUsage
	}
	logger.Sync()
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`lamina - multi-color 3MF exporter

Usage:
  lamina <command> [options]

Commands:
  export <input.stl> [options]   Export an STL as a layer-painted 3MF
  info <file.3mf>                Show 3MF package information

Export options:
  --layer-height F   Layer height in mm (default: 0.2)
  --colors LIST      Comma-separated hex colors (default: #FF0000,#0000FF)
  --tolerance F      Tessellation tolerance for CAD sources (default: 0.01)
  -o PATH            Output path (default: input with .3mf extension)
  --config PATH      Config file path
  --debug            Enable debug logging

Examples:
  lamina export ring.stl
  lamina export ring.stl --layer-height 0.28 --colors "#FF0000,#00FF00" -o out.3mf
  lamina info out.3mf`)
}

func cmdExport(args []string) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	layerHeight := fs.Float64("layer-height", 0, "Layer height in mm")
	colors := fs.String("colors", "", "Comma-separated hex colors")
	tolerance := fs.Float64("tolerance", 0, "Tessellation tolerance in mm")
	output := fs.String("o", "", "Output 3MF file path")
	cfgPath := fs.String("config", "", "Path to config file")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lamina export <input.stl> [options]")
		return exitUsage
	}
	input := fs.Arg(0)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitIO
	}
	if *layerHeight != 0 {
		cfg.Export.LayerHeight = *layerHeight
	}
	if *colors != "" {
		cfg.Export.Colors = splitColors(*colors)
	}
	if *tolerance != 0 {
		cfg.Export.Tolerance = *tolerance
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)

	outPath := *output
	if outPath == "" {
		outPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".3mf"
	}

	result, err := export.Export(export.FileSource{Path: input}, export.Options{
		LayerHeight: cfg.Export.LayerHeight,
		Colors:      cfg.Export.Colors,
		OutputPath:  outPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	fmt.Printf("Exported: %s (%d triangles, %d colors, %gmm layers)\n",
		result.OutputPath, result.Triangles, result.Colors, result.LayerHeight)
	return exitOK
}

func cmdInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lamina info <file.3mf>")
		return exitUsage
	}

	pkg, err := threemf.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitIO
	}

	fmt.Printf("Package: %s\n", fs.Arg(0))
	fmt.Printf("Entries: %d\n", pkg.Len())
	for _, e := range pkg.Entries() {
		fmt.Printf("  %-30s %d bytes\n", e.Name, len(e.Data))
	}

	total, painted, err := paint.Stats(pkg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitMalformed
	}
	fmt.Printf("Triangles: %d (%d painted)\n", total, painted)
	return exitOK
}

// splitColors splits a comma- or space-separated color list.
func splitColors(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

// exitCode maps an error to its exit code class.
func exitCode(err error) int {
	switch {
	case errors.Is(err, layering.ErrLayerHeight),
		errors.Is(err, layering.ErrColorCount),
		errors.Is(err, paint.ErrColorRange):
		return exitConfiguration
	case errors.Is(err, material.ErrInvalidColor):
		return exitInvalidColor
	case errors.Is(err, threemf.ErrEmptyMesh):
		return exitPackaging
	case errors.Is(err, export.ErrNoMesh):
		return exitNotFound
	case errors.Is(err, paint.ErrMalformedPackage),
		errors.Is(err, stl.ErrTruncated),
		errors.Is(err, stl.ErrSyntax):
		return exitMalformed
	case isIOError(err):
		return exitIO
	default:
		return exitUsage
	}
}

func isIOError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr)
}
