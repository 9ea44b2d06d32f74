package errors

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCalcError_String(t *testing.T) {
	tests := []struct {
		name     string
		err      *CalcError
		expected string
	}{
		{
			name: "message only",
			err: &CalcError{
				Message: "something went wrong",
			},
			expected: "something went wrong",
		},
		{
			name: "with hints",
			err: &CalcError{
				Message: "cannot convert \"abc\" to a number",
				Hints:   []string{"Use a complex literal like 2+3i or a real number"},
			},
			expected: "cannot convert \"abc\" to a number\n  Use a complex literal like 2+3i or a real number",
		},
		{
			name: "with multiple hints",
			err: &CalcError{
				Message: "ambiguous operand",
				Hints:   []string{"2+3i", "(2+3i)"},
			},
			expected: "ambiguous operand\n  2+3i\n  (2+3i)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.String()
			if got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCalcError_PrettyString(t *testing.T) {
	tests := []struct {
		name   string
		err    *CalcError
		header string
	}{
		{"config header", NewConfig("CONF-0001", "pow requires a second operand"), "Usage error"},
		{"conversion header", NewConversion("CONV-0001", "not a number"), "Input error"},
		{"computation header", NewComputation("COMP-0001", "reciprocal of zero"), "Computation error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.PrettyString()
			if !strings.HasPrefix(got, tt.header) {
				t.Errorf("PrettyString() = %q, want prefix %q", got, tt.header)
			}
			if !strings.Contains(got, tt.err.Message) {
				t.Errorf("PrettyString() missing message %q", tt.err.Message)
			}
		})
	}
}

func TestCalcError_PrettyString_HintPrefixes(t *testing.T) {
	err := NewConfig("CONF-0002", "more than one operation flag").
		WithHints("--conjugate", "--pow 2+3i 2")
	got := err.PrettyString()
	if !strings.Contains(got, "Use: --conjugate") {
		t.Errorf("first hint should use 'Use:' prefix, got %q", got)
	}
	if !strings.Contains(got, " or: --pow 2+3i 2") {
		t.Errorf("later hints should use 'or:' prefix, got %q", got)
	}
}

func TestCalcError_ToJSON(t *testing.T) {
	err := NewConversion("CONV-0001", "cannot convert %q", "xyz").
		WithHints("supply a number")

	data, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("ToJSON() error: %v", jerr)
	}

	var decoded map[string]any
	if uerr := json.Unmarshal(data, &decoded); uerr != nil {
		t.Fatalf("invalid JSON: %v", uerr)
	}

	if decoded["class"] != "conversion" {
		t.Errorf("class = %v, want conversion", decoded["class"])
	}
	if decoded["code"] != "CONV-0001" {
		t.Errorf("code = %v, want CONV-0001", decoded["code"])
	}
	if decoded["message"] != "cannot convert \"xyz\"" {
		t.Errorf("message = %v", decoded["message"])
	}
}

func TestCalcError_WithHints_DoesNotMutate(t *testing.T) {
	base := NewConfig("CONF-0001", "missing operand")
	withHints := base.WithHints("cplx --pow 2+3i 2")

	if len(base.Hints) != 0 {
		t.Errorf("base error mutated: hints = %v", base.Hints)
	}
	if len(withHints.Hints) != 1 {
		t.Errorf("copy should carry hint, got %v", withHints.Hints)
	}
}

func TestCalcError_IsConfig(t *testing.T) {
	if !NewConfig("CONF-0001", "x").IsConfig() {
		t.Error("NewConfig should produce a config-class error")
	}
	if NewComputation("COMP-0001", "x").IsConfig() {
		t.Error("computation error should not be config-class")
	}
}
