package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrConfig marks conflicting or incomplete options.
var ErrConfig = errors.New("config error")

// ResolveFormat returns the effective output format. An unset format is
// verify without an output path, otherwise it is deduced from the path's
// extension.
func (c *Config) ResolveFormat() (Format, error) {
	switch c.Format {
	case FormatVerify, FormatBVH, FormatOBJ:
		return c.Format, nil
	case FormatUnset:
	default:
		return "", fmt.Errorf("%w: unknown output format %q", ErrConfig, c.Format)
	}

	if c.Output == "" {
		return FormatVerify, nil
	}
	switch strings.ToLower(filepath.Ext(c.Output)) {
	case ".json", ".yaml", ".yml":
		return FormatBVH, nil
	case ".obj":
		return FormatOBJ, nil
	}
	return "", fmt.Errorf("%w: cannot deduce output type from %q", ErrConfig, c.Output)
}

// Validate checks the options for conflicts and resolves the format in
// place. The bvh target turns on strip splitting.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: an input file is required", ErrConfig)
	}
	format, err := c.ResolveFormat()
	if err != nil {
		return err
	}
	c.Format = format

	if format == FormatVerify && c.Output != "" {
		return fmt.Errorf("%w: cannot write to %q because verification mode is enabled", ErrConfig, c.Output)
	}
	if format == FormatBVH {
		if c.Transform.Raw {
			return fmt.Errorf("%w: cannot use option `raw` with a bvh target", ErrConfig)
		}
		c.Transform.Split = true
	}

	t := c.Transform
	if t.BoxSize < 0 || t.BoxSize == 1 {
		return fmt.Errorf("%w: box size must be 0 or at least 2, got %d", ErrConfig, t.BoxSize)
	}
	if t.Instancing < 0 {
		return fmt.Errorf("%w: instancing limit must not be negative, got %d", ErrConfig, t.Instancing)
	}
	return nil
}
