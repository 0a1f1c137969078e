package interpreter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"dumblang/interpreter-go/pkg/diag"
	"dumblang/interpreter-go/pkg/parser"
	"dumblang/interpreter-go/pkg/runtime"
)

type fixtureCase struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	EnvArg float64 `yaml:"env_arg"`
	Stdin  string  `yaml:"stdin"`
	Output string  `yaml:"output"`
	Result string  `yaml:"result"`
	Error  string  `yaml:"error"`
}

type fixtureManifest struct {
	Fixtures []fixtureCase `yaml:"fixtures"`
}

func loadFixtures(t *testing.T) []fixtureCase {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "fixtures.yml"))
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var manifest fixtureManifest
	if err := dec.Decode(&manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(manifest.Fixtures) == 0 {
		t.Fatalf("manifest lists no fixtures")
	}
	return manifest.Fixtures
}

func TestFixtures(t *testing.T) {
	for _, fixture := range loadFixtures(t) {
		t.Run(fixture.Name, func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join("testdata", fixture.File))
			if err != nil {
				t.Fatalf("read program: %v", err)
			}
			prog, err := parser.ParseProgram(string(src))
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}

			var out strings.Builder
			interp := New(WithStdout(&out), WithStdin(strings.NewReader(fixture.Stdin)))
			val, err := interp.Run(prog, fixture.EnvArg)

			if fixture.Error != "" {
				if got := string(diag.KindOf(err)); got != fixture.Error {
					t.Fatalf("expected %s error, got %v", fixture.Error, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if out.String() != fixture.Output {
				t.Fatalf("output mismatch:\ngot  %q\nwant %q", out.String(), fixture.Output)
			}
			if got := runtime.Format(val); got != fixture.Result {
				t.Fatalf("result mismatch: got %q, want %q", got, fixture.Result)
			}
		})
	}
}
