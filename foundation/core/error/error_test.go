// File: error_test.go
// Title: Core Error Tests
// Description: Tests for error construction, wrapping and code lookup.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-15

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("grammar broken")

	if err.Error() != "grammar broken" {
		t.Errorf("Error() = %q, want %q", err.Error(), "grammar broken")
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
}

func TestWithCode_SetsSeverity(t *testing.T) {
	tests := []struct {
		code     Code
		severity Severity
	}{
		{CodeArity, SeverityLow},
		{CodeHookFailed, SeverityHigh},
		{CodeInvalidGrammar, SeverityMedium},
		{CodeNotFound, SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := New("x").WithCode(tt.code)
			if err.Severity() != tt.severity {
				t.Errorf("Severity() = %v, want %v", err.Severity(), tt.severity)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "nothing") != nil {
		t.Fatal("Wrap(nil) should return nil")
	}

	base := New("too few tokens").WithCode(CodeArity).WithDetail("field", "nodes")
	wrapped := Wrap(base, "parse element")

	if wrapped.Code() != CodeArity {
		t.Errorf("wrapped code = %v, want %v", wrapped.Code(), CodeArity)
	}
	if v, ok := wrapped.Detail("field"); !ok || v != "nodes" {
		t.Errorf("wrapped detail field = %v, %v", v, ok)
	}
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if wrapped.Error() != "parse element: too few tokens" {
		t.Errorf("Error() = %q", wrapped.Error())
	}

	std := Wrap(fmt.Errorf("io failure"), "load grammar")
	if std.Code() != CodeUnknown {
		t.Errorf("code of wrapped std error = %v, want %v", std.Code(), CodeUnknown)
	}
}

func TestHasCode(t *testing.T) {
	inner := New("missing").WithCode(CodeNotFound)
	chain := fmt.Errorf("lookup: %w", inner)

	if !HasCode(chain, CodeNotFound) {
		t.Error("HasCode should walk fmt.Errorf chains")
	}
	if HasCode(chain, CodeArity) {
		t.Error("HasCode reported a code that is not in the chain")
	}
	if HasCode(nil, CodeNotFound) {
		t.Error("HasCode(nil) should be false")
	}
	if GetCode(chain) != CodeNotFound {
		t.Errorf("GetCode = %v, want %v", GetCode(chain), CodeNotFound)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode of a plain error should be CodeUnknown")
	}
}

func TestString_SortsDetails(t *testing.T) {
	err := New("bad rule").
		WithCode(CodeInvalidGrammar).
		WithOperation("grammar.Validate").
		WithDetail("zeta", 1).
		WithDetail("alpha", 2)

	s := err.String()
	if !strings.Contains(s, "Details: {alpha=2, zeta=1}") {
		t.Errorf("String() details not sorted:\n%s", s)
	}
	if !strings.Contains(s, "Operation: grammar.Validate") {
		t.Errorf("String() missing operation:\n%s", s)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(New("root"), "outer").WithCode(CodeHookFailed).WithOperation("intercept.HookAll")

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Marshal: %v", jerr)
	}

	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("Unmarshal: %v", jerr)
	}
	if decoded["code"] != string(CodeHookFailed) {
		t.Errorf("code = %v", decoded["code"])
	}
	if decoded["cause"] != "root" {
		t.Errorf("cause = %v", decoded["cause"])
	}
	if decoded["severity"] != "high" {
		t.Errorf("severity = %v", decoded["severity"])
	}
}

func TestCode_Category(t *testing.T) {
	if CodeArity.Category() != "grammar" {
		t.Errorf("CodeArity category = %s", CodeArity.Category())
	}
	if !CodeScriptError.IsValid() {
		t.Error("CodeScriptError should be valid")
	}
	if Code("BOGUS").IsValid() {
		t.Error("unknown code reported valid")
	}
}
