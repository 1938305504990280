// File: grammar_test.go
// Title: Grammar Model Tests
// Description: Tests for slot notation, rule validation, alternative
//              selection and grammar documents.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15

package grammar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	spyconfig "github.com/msto63/opspy/foundation/core/config"
	spyerr "github.com/msto63/opspy/foundation/core/error"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		notation string
		want     Slot
		wantErr  bool
	}{
		{"tag", Slot{Name: "tag", Arity: Exactly1}, false},
		{"rho?", Slot{Name: "rho", Arity: Optional1}, false},
		{"coords*", Slot{Name: "coords", Arity: VariadicToNextFlag}, false},
		{"eleNodes*2", Slot{Name: "eleNodes", Arity: ExactlyN(2)}, false},
		{"cMass*0", Slot{Name: "cMass", Arity: Presence}, false},
		{" dofs ", Slot{Name: "dofs", Arity: Exactly1}, false},
		{"", Slot{}, true},
		{"*3", Slot{}, true},
		{"x*abc", Slot{}, true},
		{"x*-1", Slot{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			got, err := ParseSlot(tt.notation)
			if tt.wantErr {
				if !spyerr.HasCode(err, spyerr.CodeInvalidGrammar) {
					t.Fatalf("ParseSlot(%q) error = %v, want CodeInvalidGrammar", tt.notation, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSlot(%q) unexpected error: %v", tt.notation, err)
			}
			if got != tt.want {
				t.Errorf("ParseSlot(%q) = %v (%s), want %v (%s)", tt.notation, got, got.Arity, tt.want, tt.want.Arity)
			}
		})
	}
}

func TestSlot_StringRoundTrip(t *testing.T) {
	for _, n := range []string{"tag", "rho?", "coords*", "vecx*3", "cMass*0"} {
		slot, err := ParseSlot(n)
		if err != nil {
			t.Fatalf("ParseSlot(%q): %v", n, err)
		}
		if slot.String() != n {
			t.Errorf("String() = %q, want %q", slot.String(), n)
		}
	}
}

func TestNewRule(t *testing.T) {
	rule, err := NewRule(
		[]string{"eleType", "eleTag", "eleNodes*2"},
		Opt("-mat", "matTags*"),
		Opt("-doRayleigh?", "rFlag"),
		Opt("-orient", "vecx*3", "vecyp*3"),
	)
	if err != nil {
		t.Fatalf("NewRule() error: %v", err)
	}

	if diff := cmp.Diff([]string{"-mat", "-doRayleigh", "-orient"}, rule.FlagTokens()); diff != "" {
		t.Errorf("FlagTokens() mismatch (-want +got):\n%s", diff)
	}
	if !rule.IsFlag("-orient") || rule.IsFlag("-dir") || rule.IsFlag(3) {
		t.Error("IsFlag misclassified tokens")
	}
	f, ok := rule.Flag("-doRayleigh")
	if !ok || !f.Optional || f.Name() != "doRayleigh" {
		t.Errorf("Flag(-doRayleigh) = %+v, %v", f, ok)
	}
	want := []string{"eleType", "eleTag", "eleNodes", "matTags", "rFlag", "vecx", "vecyp"}
	if diff := cmp.Diff(want, rule.Fields()); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
	if got := rule.String(); got != "eleType eleTag eleNodes*2 -mat matTags* -doRayleigh? rFlag -orient vecx*3 vecyp*3" {
		t.Errorf("String() = %q", got)
	}
}

func TestRule_Validate(t *testing.T) {
	tests := []struct {
		name string
		rule *Rule
	}{
		{"nil rule", nil},
		{"duplicate positional", &Rule{Positional: []Slot{{Name: "tag"}, {Name: "tag"}}}},
		{"duplicate across flag", &Rule{
			Positional: []Slot{{Name: "mass"}},
			Options:    []Flag{{Token: "-mass", Fields: []Slot{{Name: "mass"}}}},
		}},
		{"flag without dash", &Rule{Options: []Flag{{Token: "mass"}}}},
		{"duplicate flag", &Rule{Options: []Flag{{Token: "-a", Fields: []Slot{{Name: "a"}}}, {Token: "-a", Fields: []Slot{{Name: "b"}}}}}},
		{"zero count", &Rule{Positional: []Slot{{Name: "n", Arity: ExactlyN(0)}}}},
		{"presence positional", &Rule{Positional: []Slot{{Name: "p", Arity: Presence}}}},
		{"empty name", &Rule{Positional: []Slot{{Name: ""}}}},
		{"reserved positional", &Rule{Positional: []Slot{{Name: "tag"}, {Name: LeftoverField}}}},
		{"reserved flag field", &Rule{Options: []Flag{{Token: "-rest", Fields: []Slot{{Name: LeftoverField}}}}}},
		{"reserved switch name", &Rule{Options: []Flag{{Token: "-leftover"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if !spyerr.HasCode(err, spyerr.CodeInvalidGrammar) {
				t.Errorf("Validate() = %v, want CodeInvalidGrammar", err)
			}
		})
	}
}

func TestMustRule_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRule should panic on invalid notation")
		}
	}()
	MustRule([]string{"tag", "tag"})
}

func TestAlternative_Select(t *testing.T) {
	truss := MustRule([]string{"eleType", "eleTag", "eleNodes*2", "A", "matTag"})
	fallback := DefaultRule("eleType")
	alt := &Alternative{
		Discriminator: "eleType",
		Rules:         map[string]*Rule{"Truss": truss},
		Default:       fallback,
	}

	for i := 0; i < 3; i++ {
		if alt.Select("Truss") != truss {
			t.Fatal("Select(Truss) did not return the Truss rule")
		}
		if alt.Select("Unknown") != fallback {
			t.Fatal("Select(Unknown) did not return the default rule")
		}
	}

	clone := alt.Clone()
	clone.Rules["quad"] = truss
	if _, ok := alt.Rules["quad"]; ok {
		t.Error("Clone shares the rule map")
	}
}

func TestSet_Validate(t *testing.T) {
	good := Set{
		"node": MustRule([]string{"tag", "coords*"}),
		"element": &Alternative{
			Rules:   map[string]*Rule{"Truss": MustRule([]string{"eleType", "eleTag"})},
			Default: DefaultRule("eleType"),
		},
	}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"element", "node"}, good.Names()); diff != "" {
		t.Errorf("Names() mismatch:\n%s", diff)
	}

	bad := Set{"element": &Alternative{Rules: map[string]*Rule{"Truss": {Positional: []Slot{{Name: "a"}, {Name: "a"}}}}}}
	err := bad.Validate()
	if !spyerr.HasCode(err, spyerr.CodeInvalidGrammar) {
		t.Fatalf("Validate() = %v, want CodeInvalidGrammar", err)
	}
	var se *spyerr.Error
	if !errors.As(err, &se) {
		t.Fatal("expected *spyerr.Error")
	}
	if v, _ := se.Detail("command"); v != "element" {
		t.Errorf("command detail = %v", v)
	}
}

func TestArityError(t *testing.T) {
	err := &ArityError{Field: "vecyp", Want: 3, Have: 1}
	if err.Shortfall() != 2 {
		t.Errorf("Shortfall() = %d", err.Shortfall())
	}
	if !spyerr.HasCode(err, spyerr.CodeArity) {
		t.Error("ArityError should carry CodeArity")
	}
	if err.Error() != `field "vecyp" needs 3 tokens but only 1 remain (short by 2)` {
		t.Errorf("Error() = %q", err.Error())
	}
}

const yamlDoc = `
commands:
  node:
    positional: [tag, "coords*"]
    options:
      - flag: -ndf
        fields: [dofs]
      - flag: -mass
        fields: ["mass*"]
  element:
    discriminator: eleType
    default:
      positional: [eleType, eleTag, "args*"]
    rules:
      zeroLength:
        positional: [eleType, eleTag, "eleNodes*2"]
        options:
          - flag: -orient
            fields: ["vecx*3", "vecyp*3"]
          - flag: -doRayleigh
            fields: [rFlag]
`

const tomlDoc = `
[commands.region]
positional = ["tag"]

[[commands.region.options]]
flag = "-ele"
fields = ["eles*"]

[commands.section]
discriminator = "secType"
positional = ["secType", "secTag", "args*"]

[commands.section.rules.Elastic]
positional = ["secType", "secTag", "E", "A", "Iz"]
`

func TestDecode(t *testing.T) {
	set, err := Decode([]byte(yamlDoc), spyconfig.FormatYAML)
	if err != nil {
		t.Fatalf("Decode(yaml) error: %v", err)
	}

	node, ok := set["node"].(*Rule)
	if !ok {
		t.Fatalf("node entry is %T, want *Rule", set["node"])
	}
	if node.String() != "tag coords* -ndf dofs -mass mass*" {
		t.Errorf("node = %q", node.String())
	}

	alt, ok := set["element"].(*Alternative)
	if !ok {
		t.Fatalf("element entry is %T, want *Alternative", set["element"])
	}
	if alt.Discriminator != "eleType" || alt.Default == nil {
		t.Errorf("element alternative = %+v", alt)
	}
	if got := alt.Select("zeroLength").String(); got != "eleType eleTag eleNodes*2 -orient vecx*3 vecyp*3 -doRayleigh rFlag" {
		t.Errorf("zeroLength = %q", got)
	}

	set, err = Decode([]byte(tomlDoc), spyconfig.FormatTOML)
	if err != nil {
		t.Fatalf("Decode(toml) error: %v", err)
	}
	sec := set["section"].(*Alternative)
	if sec.Default.String() != "secType secTag args*" {
		t.Errorf("section default = %q", sec.Default.String())
	}
	if set["region"].(*Rule).String() != "tag -ele eles*" {
		t.Errorf("region = %q", set["region"].(*Rule).String())
	}
}

func TestDecode_InvalidNotation(t *testing.T) {
	doc := "commands:\n  node:\n    positional: [tag, tag]\n"
	_, err := Decode([]byte(doc), spyconfig.FormatYAML)
	if !spyerr.HasCode(err, spyerr.CodeInvalidGrammar) {
		t.Errorf("Decode() = %v, want CodeInvalidGrammar", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(set) != 2 {
		t.Errorf("LoadFile() returned %d commands, want 2", len(set))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "none.toml")); !spyerr.HasCode(err, spyerr.CodeMissingConfig) {
		t.Errorf("LoadFile(missing) = %v, want CodeMissingConfig", err)
	}
}
