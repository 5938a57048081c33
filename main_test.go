package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runApp runs the command line with args and returns what it printed.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(append([]string{"twinconsole"}, args...))
	return buf.String(), err
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	if _, err := runApp(t, "render", "--out", dir, "--name", "f.png", "--seed", "11",
		"--width", "48", "--height", "32", "--binning", "2"); err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(readFile(t, filepath.Join(dir, "f.png"))))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 32 {
		t.Fatalf("expected a 48x32 frame; got %v", b)
	}
}

func TestRenderCommandSeedZero(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		if _, err := runApp(t, "render", "--out", dir, "--name", name, "--seed", "0",
			"--width", "32", "--height", "24"); err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
	}
	if !bytes.Equal(readFile(t, filepath.Join(dir, "a.png")), readFile(t, filepath.Join(dir, "b.png"))) {
		t.Fatal("expected --seed 0 to reproduce the same frame")
	}
}

func TestSweepCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runApp(t, "sweep", "--out", dir, "--param", "exposure", "--from", "100", "--to", "700",
		"--steps", "3", "--prefix", "exp", "--seed", "9", "--width", "40", "--height", "30", "--workers", "2")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	for _, name := range []string{"exp-000.png", "exp-001.png", "exp-002.png", "TOTAL"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected sweep table to mention %q; got:\n%s", name, out)
		}
	}
	first := readFile(t, filepath.Join(dir, "exp-000.png"))
	last := readFile(t, filepath.Join(dir, "exp-002.png"))
	if bytes.Equal(first, last) {
		t.Fatal("expected frames at different exposures to differ")
	}

	// The first sweep frame is the plain render of its params with the same seed.
	if _, err := runApp(t, "render", "--out", dir, "--name", "single.png", "--exposure", "100",
		"--seed", "9", "--width", "40", "--height", "30"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, readFile(t, filepath.Join(dir, "single.png"))) {
		t.Fatal("expected sweep frame 0 to match a render at exposure 100 with the same seed")
	}
}

func TestSweepCommandSharesSeed(t *testing.T) {
	dir := t.TempDir()
	if _, err := runApp(t, "sweep", "--out", dir, "--param", "tilt", "--from", "4", "--to", "4",
		"--steps", "2", "--seed", "3", "--width", "40", "--height", "30"); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	a := readFile(t, filepath.Join(dir, "sweep-000.png"))
	b := readFile(t, filepath.Join(dir, "sweep-001.png"))
	if !bytes.Equal(a, b) {
		t.Fatal("expected sweep frames at the same value to be identical")
	}
}

func TestCommandValidation(t *testing.T) {
	dir := t.TempDir()
	specs := []struct {
		descr string
		args  []string
		exp   string
	}{
		{"render binning", []string{"render", "--out", dir, "--binning", "0"}, "invalid binning factor 0"},
		{"render width", []string{"render", "--out", dir, "--width", "0"}, "invalid frame size 0x420"},
		{"render height", []string{"render", "--out", dir, "--height", "-3"}, "invalid frame size 560x-3"},
		{"sweep steps", []string{"sweep", "--out", dir, "--steps", "0"}, "invalid step count 0"},
		{"sweep binning", []string{"sweep", "--out", dir, "--binning", "-1"}, "invalid binning factor -1"},
		{"sweep param", []string{"sweep", "--out", dir, "--param", "binning"}, `unknown sweep parameter "binning"`},
		{"warnings binning", []string{"warnings", "--binning", "0"}, "invalid binning factor 0"},
		{"log level", []string{"--log-level", "loud", "warnings"}, `unknown log level "loud"`},
	}
	for _, spec := range specs {
		t.Run(spec.descr, func(t *testing.T) {
			_, err := runApp(t, spec.args...)
			if err == nil || !strings.Contains(err.Error(), spec.exp) {
				t.Fatalf("expected error containing %q; got %v", spec.exp, err)
			}
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("expected no frames from rejected commands; found %s", e.Name())
	}
}

func TestRootAcceptsConsoleFlags(t *testing.T) {
	out, err := runApp(t, "--debug", "--opencl", "--seed", "0", "--export-dir", t.TempDir(), "warnings")
	if err != nil {
		t.Fatalf("expected console flags on the root command; got %v", err)
	}
	if !strings.Contains(out, "No warnings.") {
		t.Fatalf("expected default params to raise no warnings; got:\n%s", out)
	}
}

func TestMetricsReport(t *testing.T) {
	out, err := runApp(t, "--metrics", "render", "--out", t.TempDir(), "--seed", "1",
		"--width", "16", "--height", "16", "--exposure", "700")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, exp := range []string{"Backend", "Frames", "cpu"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("expected metrics report to contain %q; got:\n%s", exp, out)
		}
	}

	out, err = runApp(t, "--metrics", "warnings")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No frames rendered.") {
		t.Fatalf("expected an empty metrics report; got:\n%s", out)
	}
}
