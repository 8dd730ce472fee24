// Package compiler runs the scene pipeline end to end: read, load, build,
// transform, encode and write.
package compiler

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scene-builder/internal/config"
	"github.com/Faultbox/scene-builder/internal/encode/bvh"
	"github.com/Faultbox/scene-builder/internal/encode/obj"
	"github.com/Faultbox/scene-builder/internal/ir"
	"github.com/Faultbox/scene-builder/internal/logger"
	"github.com/Faultbox/scene-builder/internal/transform"
)

// ErrIO marks an unreadable input or unwritable output.
var ErrIO = errors.New("io error")

// Options converts the transform settings for the pipeline.
func Options(cfg *config.Config) transform.Options {
	t := cfg.Transform
	return transform.Options{
		Root:       t.Root,
		Split:      t.Split,
		Wrap:       t.Wrap,
		BoxSize:    t.BoxSize,
		Double:     t.Double,
		TotalBox:   t.TotalBox,
		Instancing: t.Instancing,
	}
}

// Compile produces the output lines for cfg without writing them. Verify
// mode returns no lines. cfg must have passed Validate.
func Compile(cfg *config.Config, src io.Reader) ([]string, error) {
	doc, err := ir.LoadDocument(src)
	if err != nil {
		return nil, err
	}
	scene, err := ir.Build(doc)
	if err != nil {
		return nil, err
	}
	logger.Debug("built scene",
		zap.Int("sequences", len(scene.Sequences)),
		zap.Int("strips", len(scene.Strips)),
		zap.Int("rays", len(scene.Rays)),
		zap.Int("instances", len(scene.Instances)),
		zap.Int("mappings", len(scene.Mappings)))

	if cfg.Transform.Raw {
		logger.Debug("raw mode, skipping transforms")
	} else if err := transform.Run(scene, Options(cfg)); err != nil {
		return nil, err
	}

	switch cfg.Format {
	case config.FormatBVH:
		return bvh.Encode(scene)
	case config.FormatOBJ:
		return obj.Encode(scene), nil
	}
	return nil, nil
}

// Run reads cfg.Input, compiles it and writes the result to cfg.Output, or
// to stdout when no output path is set. Nothing is written unless the whole
// document was produced.
func Run(cfg *config.Config, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("%w: could not read input file %q: %v", ErrIO, cfg.Input, err)
	}
	logger.Info("compiling scene",
		zap.String("input", cfg.Input),
		zap.String("format", string(cfg.Format)))

	lines, err := Compile(cfg, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if cfg.Format == config.FormatVerify {
		logger.Info("scene verified", zap.String("input", cfg.Input))
		return nil
	}

	if cfg.Output == "" {
		if err := writeLines(stdout, lines); err != nil {
			return fmt.Errorf("%w: writing output: %v", ErrIO, err)
		}
		return nil
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("%w: could not write output to file %q: %v", ErrIO, cfg.Output, err)
	}
	if err := writeLines(f, lines); err != nil {
		f.Close()
		return fmt.Errorf("%w: failure writing output to file %q: %v", ErrIO, cfg.Output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: failure writing output to file %q: %v", ErrIO, cfg.Output, err)
	}
	logger.Info("wrote output", zap.String("output", cfg.Output), zap.Int("lines", len(lines)))
	return nil
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
