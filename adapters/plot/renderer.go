// Package plot renders posterior, forest and trace plots to image files.
package plot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkazmier/best-test/domain/trace"
	"github.com/mkazmier/best-test/internal"
	"github.com/mkazmier/best-test/ports"
)

// posteriorColor matches the density fill used by the reference plots.
var posteriorColor = color.RGBA{R: 0x8B, G: 0xCA, B: 0xF1, A: 0xFF}

var refLineColor = color.RGBA{R: 0xD9, G: 0x53, B: 0x4F, A: 0xFF}

// FileRenderer writes plots as image files into an output directory.
// The format ("png" or "svg") selects the file extension; gonum/plot
// picks the backend from it.
type FileRenderer struct {
	OutDir string
	Format string
}

// NewFileRenderer creates a renderer writing into outDir.
func NewFileRenderer(outDir, format string) *FileRenderer {
	if format == "" {
		format = "png"
	}
	return &FileRenderer{OutDir: outDir, Format: format}
}

var _ ports.RendererPort = (*FileRenderer)(nil)

func (r *FileRenderer) path(kind, variable string) (string, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create plot directory: %w", err)
	}
	name := kind
	if variable != "" {
		name = fmt.Sprintf("%s_%s", kind, sanitize(variable))
	}
	return filepath.Join(r.OutDir, fmt.Sprintf("%s.%s", name, r.Format)), nil
}

func sanitize(name string) string {
	return strings.Map(func(ch rune) rune {
		switch ch {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return ch
	}, name)
}

func resolveVarnames(t *trace.Trace, varnames []string) ([]string, error) {
	if len(varnames) == 0 {
		return t.Order, nil
	}
	for _, name := range varnames {
		if !t.HasVariable(name) {
			return nil, fmt.Errorf("unknown variable %q", name)
		}
	}
	return varnames, nil
}

func logSaved(kind, path string) {
	internal.DefaultLogger.Debug("[Plot] wrote %s plot to %s", kind, path)
}
