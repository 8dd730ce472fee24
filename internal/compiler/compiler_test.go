package compiler

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/scene-builder/internal/config"
	"github.com/Faultbox/scene-builder/internal/encode/obj"
	"github.com/Faultbox/scene-builder/internal/ir"
	"github.com/Faultbox/scene-builder/internal/transform"
)

const rayScene = "{ data: [ {origin: [0,0,0], direction: [1,0,0], extent: 5} ] }\n"

func writeInput(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func newConfig(input string) *config.Config {
	cfg := config.Default()
	cfg.Input = input
	return cfg
}

func TestOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Transform = config.TransformConfig{Root: true, Wrap: true, BoxSize: 4, Double: true, Split: true, Instancing: 2}
	want := transform.Options{Root: true, Wrap: true, BoxSize: 4, Double: true, Split: true, Instancing: 2}
	if diff := cmp.Diff(want, Options(cfg)); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}
}

func TestRunVerify(t *testing.T) {
	var out bytes.Buffer
	if err := Run(newConfig(writeInput(t, rayScene)), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("verify mode wrote %q", out.String())
	}
}

func TestRunBVHFile(t *testing.T) {
	cfg := newConfig(writeInput(t, rayScene))
	cfg.Output = filepath.Join(t.TempDir(), "scene.json")
	if err := Run(cfg, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "{\n\t\"tlas\" : [ 0, 0 ],\n") {
		t.Errorf("unexpected bvh output:\n%s", text)
	}
	if !strings.Contains(text, "\"max_bounds\" : [ 5, 0, 0 ],") {
		t.Errorf("expected the ray's bounds in output:\n%s", text)
	}
	if !strings.HasSuffix(text, "}\n") {
		t.Errorf("output should end with a closing brace and newline")
	}
}

func TestRunOBJStdout(t *testing.T) {
	cfg := newConfig(writeInput(t, "{strip: [[0,0,0],[1,0,0],[0,1,0]]}"))
	cfg.Format = config.FormatOBJ
	var out bytes.Buffer
	if err := Run(cfg, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if diff := cmp.Diff(obj.Header, lines[:len(obj.Header)]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "\no strip0\n") {
		t.Errorf("expected strip object in output:\n%s", out.String())
	}
}

func TestRunRawSkipsBoxes(t *testing.T) {
	cfg := newConfig(writeInput(t, "data: [{strip: [[0,0,0],[1,0,0],[0,1,0]]}]"))
	cfg.Format = config.FormatOBJ
	cfg.Transform.Raw = true
	cfg.Transform.Root = true
	var out bytes.Buffer
	if err := Run(cfg, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(out.String(), "o box") {
		t.Errorf("raw mode should draw no boxes:\n%s", out.String())
	}

	cfg.Transform.Raw = false
	out.Reset()
	if err := Run(cfg, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "o box0") {
		t.Errorf("boxed mode should draw the root box:\n%s", out.String())
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		src    string
		modify func(*config.Config)
		want   error
	}{
		{
			name:   "missing input",
			modify: func(c *config.Config) { c.Input = filepath.Join(dir, "missing.yaml") },
			want:   ErrIO,
		},
		{
			name:   "unwritable output",
			src:    rayScene,
			modify: func(c *config.Config) { c.Output = filepath.Join(dir, "no", "such", "dir", "out.obj") },
			want:   ErrIO,
		},
		{
			name:   "raw bvh",
			src:    rayScene,
			modify: func(c *config.Config) { c.Format = config.FormatBVH; c.Transform.Raw = true },
			want:   config.ErrConfig,
		},
		{
			name:   "undeducible output",
			src:    rayScene,
			modify: func(c *config.Config) { c.Output = filepath.Join(dir, "out.txt") },
			want:   config.ErrConfig,
		},
		{
			name: "unresolved reference",
			src:  "data: [nothing]",
			want: ir.ErrReference,
		},
		{
			name: "two documents",
			src:  "a: 1\n---\nb: 2\n",
			want: ir.ErrStructural,
		},
		{
			name: "instancing limit",
			src:  "tri: {strip: [[0,0,0],[1,0,0],[0,1,0]]}\ndata: [{instance: tri}]\n",
			modify: func(c *config.Config) {
				c.Transform.Instancing = 1
			},
			want: transform.ErrInstancingDepth,
		},
		{
			name:   "literal root",
			src:    "7",
			modify: func(c *config.Config) { c.Transform.Root = true },
			want:   transform.ErrLiteralRoot,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(writeInput(t, tt.src))
			if tt.modify != nil {
				tt.modify(cfg)
			}
			var out bytes.Buffer
			err := Run(cfg, &out)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run = %v, want %v", err, tt.want)
			}
			if out.Len() != 0 {
				t.Errorf("failed run wrote %q", out.String())
			}
		})
	}
}

func TestRunFailureLeavesNoFile(t *testing.T) {
	cfg := newConfig(writeInput(t, "data: [{instance: 3}]"))
	cfg.Output = filepath.Join(t.TempDir(), "scene.obj")
	if err := Run(cfg, nil); !errors.Is(err, ir.ErrType) {
		t.Fatalf("Run = %v, want ErrType", err)
	}
	if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
		t.Errorf("output file should not exist, stat err = %v", err)
	}
}
