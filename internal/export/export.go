// Package export orchestrates the mesh-to-3MF pipeline: color assignment,
// packaging, paint injection, and the final atomic write.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/lamina/internal/layering"
	"github.com/Faultbox/lamina/internal/logger"
	"github.com/Faultbox/lamina/internal/material"
	"github.com/Faultbox/lamina/internal/paint"
	"github.com/Faultbox/lamina/pkg/threemf"
)

// Options configures one export run.
type Options struct {
	LayerHeight float64
	Colors      []string
	OutputPath  string
}

// Result summarizes a successful export.
type Result struct {
	Triangles   int
	Colors      int
	LayerHeight float64
	OutputPath  string
}

// Export runs the pipeline: validate options, resolve the mesh, assign a
// color per triangle, build the base package, inject paint attributes, and
// atomically write the final package to the output path. On any failure no
// partial file is left at the output path.
func Export(src Source, opts Options) (*Result, error) {
	// Validation happens before any file I/O.
	if opts.LayerHeight <= 0 {
		return nil, fmt.Errorf("%w: %g", layering.ErrLayerHeight, opts.LayerHeight)
	}
	if len(opts.Colors) < 2 {
		return nil, fmt.Errorf("%w: got %d", layering.ErrColorCount, len(opts.Colors))
	}
	catalog, err := material.NewCatalog(opts.Colors)
	if err != nil {
		return nil, err
	}
	if catalog.Len() > paint.MaxColors {
		return nil, fmt.Errorf("%w: %d colors requested", paint.ErrColorRange, catalog.Len())
	}

	m, err := src.Resolve()
	if err != nil {
		return nil, err
	}
	logger.Debug("mesh resolved",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", len(m.Triangles)))

	assignment, err := layering.Assign(m, opts.LayerHeight, catalog.Len())
	if err != nil {
		return nil, err
	}

	base, err := threemf.Build(m, catalog.BaseMaterials())
	if err != nil {
		return nil, err
	}

	final, err := paint.Inject(base, assignment)
	if err != nil {
		return nil, err
	}

	if err := writeAtomic(opts.OutputPath, final); err != nil {
		return nil, err
	}
	logger.Info("exported package",
		zap.String("path", opts.OutputPath),
		zap.Int("triangles", len(m.Triangles)),
		zap.Int("colors", catalog.Len()),
		zap.Float64("layer_height", opts.LayerHeight))

	return &Result{
		Triangles:   len(m.Triangles),
		Colors:      catalog.Len(),
		LayerHeight: opts.LayerHeight,
		OutputPath:  opts.OutputPath,
	}, nil
}

// writeAtomic writes the package through a randomly named temporary file in
// the destination directory and renames it into place, so a failure at any
// point leaves the destination untouched. The temporary file is removed on
// every failure path; a removal failure is logged, never escalated.
func writeAtomic(path string, p *threemf.Package) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.Warn("leaving temporary file behind",
					zap.String("path", tmpPath), zap.Error(rmErr))
			}
		}
	}()

	if err = p.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
