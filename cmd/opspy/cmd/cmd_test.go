package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/pkg/core/config"
)

func TestConvertTokens(t *testing.T) {
	got := convertTokens([]string{"Truss", "1", "10.5", "-mass", "1e3", "-beamUniform"})
	want := []any{"Truss", 1, 10.5, "-mass", 1000.0, "-beamUniform"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("convertTokens (-want +got):\n%s", diff)
	}
}

func TestParseKeywords(t *testing.T) {
	got, err := parseKeywords([]string{"rho=0.5", "cMass=1", "name=steel"})
	if err != nil {
		t.Fatalf("parseKeywords: %v", err)
	}
	want := map[string]any{"rho": 0.5, "cMass": 1, "name": "steel"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseKeywords (-want +got):\n%s", diff)
	}

	if _, err := parseKeywords([]string{"novalue"}); err == nil {
		t.Error("expected an error for a pair without '='")
	}
	if kw, _ := parseKeywords(nil); kw != nil {
		t.Errorf("parseKeywords(nil) = %v, want nil", kw)
	}
}

const frameScript = `
ops.wipe()
ops.model("basic", "-ndm", 2, "-ndf", 3)
ops.node(1, 0.0, 0.0)
ops.node(2, 0.0, 3.0, "-mass", 1.0, 1.0, 0.0)
ops.fix(1, 1, 1, 1)
ops.uniaxialMaterial("Elastic", 1, 3000.5)
ops.geomTransf("Linear", 1)
ops.element("elasticBeamColumn", 1, 1, 2, 0.1, 2.5e11, 1.5e-4, 1)
ops.timeSeries("Linear", 1)
ops.pattern("Plain", 1, 1)
ops.load(2, 10.0, 0.0, 0.0)
`

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.lua")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestSession_RunScript(t *testing.T) {
	s, err := newSession(config.Default(), log.Discard())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	path := writeScript(t, frameScript)

	// a second run starts from a clean model
	for run := 0; run < 2; run++ {
		if err := s.runScript(path); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}
	if s.spy.Interceptor().IsHooked() {
		t.Error("namespace should be restored after the run")
	}

	snap := s.handlers.Snapshot()
	if len(snap.Nodes) != 2 || len(snap.Elements) != 1 || len(snap.Materials) != 1 {
		t.Errorf("snapshot counts: %d nodes, %d elements, %d materials",
			len(snap.Nodes), len(snap.Elements), len(snap.Materials))
	}
	if snap.TotalMass != 2.0 {
		t.Errorf("TotalMass = %v, want 2", snap.TotalMass)
	}
	if n := len(s.spy.Interceptor().History()); n != 11 {
		t.Errorf("observed %d calls, want 11", n)
	}

	var out bytes.Buffer
	runOutput, runCalls = "summary", true
	defer func() { runOutput, runCalls = "summary", false }()
	if err := report(&out, s); err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"Knoten", "elasticBeamColumn", "Aufrufe:", "geomTransf"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	runOutput = "yaml"
	if err := report(&out, s); err != nil {
		t.Fatalf("report yaml: %v", err)
	}
	if !strings.Contains(out.String(), "nodalLoads:") {
		t.Errorf("yaml output missing loads:\n%s", out.String())
	}
}

func TestSession_GrammarFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recorder.yaml")
	doc := `commands:
  recorder:
    discriminator: recorderType
    default:
      positional: [recorderType, "args*"]
    rules:
      Node:
        positional: [recorderType]
        options:
          - flag: -file
            fields: [fileName]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write grammar: %v", err)
	}

	cfg := config.Default()
	cfg.Grammar.Files = []string{path}
	s, err := newSession(cfg, log.Discard())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	rec, err := s.spy.Parse("recorder", []any{"Node", "-file", "out.txt"}, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.String("fileName") != "out.txt" {
		t.Errorf("fileName = %q", rec.String("fileName"))
	}

	cfg.Grammar.Files = []string{filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := newSession(cfg, log.Discard()); err == nil {
		t.Error("expected an error for a missing grammar file")
	}
}
