package obj

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"

	"github.com/Faultbox/scene-builder/internal/ir"
	"github.com/Faultbox/scene-builder/internal/logger"
	"github.com/Faultbox/scene-builder/internal/transform"
)

func mustScene(t *testing.T, src string) *ir.Scene {
	t.Helper()
	doc, err := ir.LoadDocument(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	s, err := ir.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func material(idx int, kd string) []string {
	return []string{
		"",
		fmt.Sprintf("newmtl color%d", idx),
		"Kd " + kd,
		"Ks 0.5 0.5 0.5",
		"Ns 18.0",
		"",
		fmt.Sprintf("usemtl color%d", idx),
	}
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	gotText, wantText := strings.Join(got, "\n"), strings.Join(want, "\n")
	if gotText == wantText {
		return
	}
	dmp := diffmatchpatch.New()
	t.Errorf("output mismatch:\n%s", dmp.DiffPrettyText(dmp.DiffMain(wantText, gotText, false)))
}

// section returns the lines following "o <name>" up to the next blank line.
func section(lines []string, name string) []string {
	for i, l := range lines {
		if l != "o "+name {
			continue
		}
		end := i + 1
		for end < len(lines) && lines[end] != "" {
			end++
		}
		return lines[i+1 : end]
	}
	return nil
}

func TestLiteralWorld(t *testing.T) {
	got := Encode(mustScene(t, "1.5"))
	want := append(append([]string(nil), Header...), material(0, "0 0 0")...)
	assertLines(t, got, want)
}

func TestStripGolden(t *testing.T) {
	s := mustScene(t, "{strip: [[0,0,0],[1,0,0],[0,1,0],[1,1,0]], color: [255, 0, 51]}")
	color := s.Strips[0].Fields[ir.FieldColor].Index()

	want := append([]string(nil), Header...)
	want = append(want, material(len(s.Sequences), "0 0 0")...)
	want = append(want, material(color, "1 0 0.2")...)
	want = append(want,
		"",
		"o strip0",
		"v 0 0 0",
		"v 1 0 0",
		"v 0 1 0",
		"f -3 -2 -1",
		"v 1 1 0",
		"f -2 -3 -1",
	)
	assertLines(t, Encode(s), want)
}

func TestRay(t *testing.T) {
	s := mustScene(t, "{origin: [1,1,1], direction: [0,0,1], extent: 2, min: 1}")
	want := []string{"v 1 1 2", "v 1 1 3", "l -2 -1"}
	if diff := cmp.Diff(want, section(Encode(s), "ray0")); diff != "" {
		t.Errorf("ray mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedInstanceOrder(t *testing.T) {
	s := mustScene(t, `
tri: {strip: [[1,0,0],[0,1,0],[0,0,1]]}
instance: {instance: tri, scale: [2,2,2]}
translate: [10,0,0]
`)
	var verts []string
	for _, l := range section(Encode(s), "strip0") {
		if strings.HasPrefix(l, "v ") {
			verts = append(verts, l)
		}
	}
	// Scale applies inside the translation.
	want := []string{"v 12 0 0", "v 10 2 0", "v 10 0 2"}
	if diff := cmp.Diff(want, verts); diff != "" {
		t.Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
}

func TestBox(t *testing.T) {
	corners := []string{
		"v 0 0 0",
		"v 0 0 3",
		"v 0 2 0",
		"v 0 2 3",
		"v 1 0 0",
		"v 1 0 3",
		"v 1 2 0",
		"v 1 2 3",
	}
	tests := []struct {
		name  string
		src   string
		lines []string
	}{
		{"wireframe", "{min: [0,0,0], max: [1,2,3]}", boxEdges},
		{"filled", "{min: [0,0,0], max: [1,2,3], opaque: true}", boxFaces},
		{"bad opaque", "{min: [0,0,0], max: [1,2,3], opaque: 1}", boxEdges},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustScene(t, tt.src)
			transform.ComputeBounds(s, true)
			want := append(append([]string(nil), corners...), tt.lines...)
			if diff := cmp.Diff(want, section(Encode(s), "box0")); diff != "" {
				t.Errorf("box mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnboxedMappingNotDrawn(t *testing.T) {
	s := mustScene(t, "{name: 1}")
	for _, l := range Encode(s) {
		if strings.HasPrefix(l, "o ") {
			t.Errorf("unexpected object %q", l)
		}
	}
}

func TestPaletteReuseAndRestore(t *testing.T) {
	s := mustScene(t, `
red: [255, 0, 0]
data:
  - {strip: [[0,0,0],[1,0,0],[0,1,0]], color: red}
  - {strip: [[0,0,1],[1,0,1],[0,1,1]]}
  - {strip: [[0,0,2],[1,0,2],[0,1,2]], color: red}
`)
	red := s.Mappings[0].Fields["red"].Index()
	def := len(s.Sequences)
	lines := Encode(s)

	var mtl []string
	for _, l := range lines {
		if strings.HasPrefix(l, "newmtl ") || strings.HasPrefix(l, "usemtl ") {
			mtl = append(mtl, l)
		}
	}
	want := []string{
		fmt.Sprintf("newmtl color%d", def),
		fmt.Sprintf("usemtl color%d", def),
		fmt.Sprintf("newmtl color%d", red),
		fmt.Sprintf("usemtl color%d", red),
		fmt.Sprintf("usemtl color%d", def), // restored after the first strip
		fmt.Sprintf("usemtl color%d", red), // reused, not redeclared
		fmt.Sprintf("usemtl color%d", def),
	}
	if diff := cmp.Diff(want, mtl); diff != "" {
		t.Errorf("material directives mismatch (-want +got):\n%s", diff)
	}
}

func TestBadColorWarns(t *testing.T) {
	var buf bytes.Buffer
	if err := logger.InitWithWriter("warn", &buf); err != nil {
		t.Fatalf("InitWithWriter: %v", err)
	}
	t.Cleanup(func() {
		logger.Log = zap.NewNop()
		logger.Sugar = logger.Log.Sugar()
	})

	s := mustScene(t, `
data:
  - {strip: [[0,0,0],[1,0,0],[0,1,0]], color: 5}
  - {strip: [[0,0,0],[1,0,0],[0,1,0]], color: [255, true]}
`)
	lines := Encode(s)
	if !strings.Contains(buf.String(), "color is not a sequence") {
		t.Errorf("missing non-sequence warning in %q", buf.String())
	}
	if !strings.Contains(buf.String(), "color should have 3 components") {
		t.Errorf("missing component count warning in %q", buf.String())
	}
	found := false
	for _, l := range lines {
		if l == "Kd 1 0 0" {
			found = true
		}
	}
	if !found {
		t.Error("partial color should keep its valid channels")
	}
}
