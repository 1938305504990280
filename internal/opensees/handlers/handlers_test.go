package handlers

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/msto63/opspy/foundation/core/log"
	"github.com/msto63/opspy/foundation/spy/registry"
	"github.com/msto63/opspy/internal/opensees/loads"
)

func buildTable(t *testing.T, s *Set) *registry.Table {
	t.Helper()
	c := registry.NewCollection(registry.Options{Logger: log.Discard()})
	if err := c.AddAll(s.Handlers(nil), nil); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	return c.Build()
}

func call(t *testing.T, table *registry.Table, command string, tokens ...any) {
	t.Helper()
	rec, err := table.Parse(command, tokens, nil)
	if err != nil {
		t.Fatalf("parse %s%v: %v", command, tokens, err)
	}
	if !table.Dispatch(command, rec) {
		t.Fatalf("%s has no handler", command)
	}
}

func TestSet_Handlers(t *testing.T) {
	s := New(Options{Logger: log.Discard(), NDM: 2, NDF: 3})

	var names []string
	for _, h := range s.Handlers(nil) {
		names = append(names, h.Name())
	}
	if diff := cmp.Diff([]string{"Node", "Element", "Material", "Load"}, names); diff != "" {
		t.Errorf("Handlers(nil) (-want +got):\n%s", diff)
	}

	only := s.Handlers(func(name string) bool { return name == "Node" || name == "Load" })
	if len(only) != 2 || only[0].Name() != "Node" || only[1].Name() != "Load" {
		t.Errorf("filtered handlers = %v", only)
	}
}

func TestSet_CommandsDoNotCollide(t *testing.T) {
	s := New(Options{Logger: log.Discard()})
	seen := map[string]string{}
	for _, h := range s.Handlers(nil) {
		for _, cmd := range h.Handles() {
			if prev, ok := seen[cmd]; ok {
				t.Errorf("%s handled by %s and %s", cmd, prev, h.Name())
			}
			seen[cmd] = h.Name()
		}
	}
}

func TestSet_Model(t *testing.T) {
	s := New(Options{Logger: log.Discard(), NDM: 2, NDF: 3})
	table := buildTable(t, s)

	call(t, table, "model", "basic", "-ndm", 3)
	call(t, table, "node", 1, 0.0, 0.0, 0.0)
	call(t, table, "node", 2, 0.0, 0.0, 3.0, "-mass", 1.0, 1.0, 1.0, 0.0, 0.0, 0.0)
	call(t, table, "fix", 1, 1, 1, 1, 1, 1, 1)
	call(t, table, "uniaxialMaterial", "Elastic", 1, 200e9)
	call(t, table, "element", "elasticBeamColumn", 1, 1, 2, 0.01, 200e9, 80e9, 1e-5, 1e-5, 1e-5, 1, "-mass", 7.8)
	call(t, table, "timeSeries", "Linear", 1)
	call(t, table, "pattern", "Plain", 1, 1)
	call(t, table, "load", 2, 10.0, 0.0, 0.0, 0.0, 0.0, 0.0)
	call(t, table, "eleLoad", "-ele", 1, "-type", "-beamUniform", -1.0, 0.0)

	snap := s.Snapshot()
	if snap.NDM != 3 || snap.NDF != 6 {
		t.Errorf("dimensions = %d/%d, want 3/6", snap.NDM, snap.NDF)
	}
	if snap.TotalMass != 3.0 {
		t.Errorf("TotalMass = %v, want 3 from node masses only", snap.TotalMass)
	}
	if len(snap.Nodes) != 2 || len(snap.Elements) != 1 || len(snap.Materials) != 1 {
		t.Fatalf("snapshot counts: %d nodes, %d elements, %d materials",
			len(snap.Nodes), len(snap.Elements), len(snap.Materials))
	}
	if got := snap.Elements[0].Params["massDens"]; got != 7.8 {
		t.Errorf("element massDens = %v, want 7.8 kept as a parameter", got)
	}
	if got := snap.Elements[0].Params["G_mod"]; got != 80e9 {
		t.Errorf("3D elasticBeamColumn should use the space form, G_mod = %v", got)
	}
	wantLoads := []loads.NodalLoad{{Pattern: 1, Node: 2, Values: []float64{10, 0, 0, 0, 0, 0}}}
	if diff := cmp.Diff(wantLoads, snap.NodalLoads); diff != "" {
		t.Errorf("NodalLoads (-want +got):\n%s", diff)
	}
	if len(snap.ElementLoads) != 1 || snap.ElementLoads[0].Type != "-beamUniform" {
		t.Errorf("ElementLoads = %+v", snap.ElementLoads)
	}

	out, err := yaml.Marshal(snap)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	for _, key := range []string{"ndm: 3", "totalMass: 3", "nodalLoads:", "type: elasticBeamColumn"} {
		if !strings.Contains(string(out), key) {
			t.Errorf("yaml output missing %q:\n%s", key, out)
		}
	}

	table.Reset()
	snap = s.Snapshot()
	if snap.NDM != 2 || len(snap.Nodes) != 0 || len(snap.Patterns) != 0 || snap.TotalMass != 0 {
		t.Errorf("snapshot after Reset = %+v", snap)
	}
}
