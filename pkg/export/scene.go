// Package export writes widget scenes to SVG or PNG, emits robot JSON,
// imports a CSV data directory into SQLite and renders a markdown brief of
// the article.
package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/heckleviz/pkg/scene"
)

// Supported formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// SceneOptions controls scene export behaviour.
type SceneOptions struct {
	Path   string // Output path; format inferred from extension when Format empty
	Format string // "svg" or "png" (case-insensitive). If empty, inferred from Path.
}

// ResolveFormat normalises the format, inferring it from the path
// extension. A path without extension gets ".svg" appended.
func ResolveFormat(opts SceneOptions) (SceneOptions, error) {
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = FormatSVG
		case ".png":
			format = FormatPNG
		default:
			format = FormatSVG
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != FormatSVG && format != FormatPNG {
		return opts, fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return opts, fmt.Errorf("output path is required")
	}
	opts.Format = format
	return opts, nil
}

// SaveScene encodes a scene to disk.
func SaveScene(s *scene.Scene, opts SceneOptions) error {
	if s == nil {
		return fmt.Errorf("no scene to export")
	}
	opts, err := ResolveFormat(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Path, err)
	}
	bw := bufio.NewWriter(f)

	switch opts.Format {
	case FormatSVG:
		err = scene.EncodeSVG(bw, s)
	case FormatPNG:
		err = scene.EncodePNG(bw, s)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", opts.Path, err)
	}
	return nil
}
