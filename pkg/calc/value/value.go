// Package value models the results the calculator produces.
//
// Every operation returns a Value: a Complex for all selectors except abs,
// which returns a Real. The scalar shape of abs is deliberate and documented
// behavior, not an accident; do not "fix" it by wrapping the magnitude in a
// Complex with a zero imaginary part.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"math/cmplx"
	"strconv"
	"strings"
)

// ValueType represents the shape of a calculator result.
type ValueType string

const (
	COMPLEX_VAL ValueType = "COMPLEX"
	REAL_VAL    ValueType = "REAL"
)

// Value is a calculator result.
type Value interface {
	Type() ValueType
	Inspect() string
}

// Complex represents a complex-number result.
type Complex struct {
	Value complex128
}

func (c *Complex) Inspect() string { return FormatComplex(c.Value, -1) }
func (c *Complex) Type() ValueType { return COMPLEX_VAL }

// Real represents the bare scalar that abs returns.
type Real struct {
	Value float64
}

func (r *Real) Inspect() string { return strconv.FormatFloat(r.Value, 'g', -1, 64) }
func (r *Real) Type() ValueType { return REAL_VAL }

// Format renders the complex number as a compact literal (2+3i). prec is the
// number of significant digits, or -1 for the minimum digits needed to
// round-trip.
func (c *Complex) Format(prec int) string { return FormatComplex(c.Value, prec) }

// Format renders the scalar with prec significant digits (-1 for minimal).
func (r *Real) Format(prec int) string { return strconv.FormatFloat(r.Value, 'g', prec, 64) }

// FormatComplex renders z as a compact a+bi literal without the surrounding
// parentheses strconv produces.
func FormatComplex(z complex128, prec int) string {
	s := strconv.FormatComplex(z, 'g', prec, 128)
	return strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
}

// Structured is the full rendering of a result: rectangular and polar forms.
// A Real result keeps its scalar on the real axis, so imag is 0 and phase is
// 0 or pi depending on sign.
type Structured struct {
	Real      float64 `json:"real"`
	Imag      float64 `json:"imag"`
	Magnitude float64 `json:"magnitude"`
	Phase     float64 `json:"phase"`
}

// MarshalJSON keeps finite components as JSON numbers and renders the
// non-finite ones as strings ("+Inf", "-Inf", "NaN"), which JSON has no
// number encoding for. Overflowing operations like exp of a large operand
// still produce output this way instead of a marshal failure.
func (s Structured) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Real      any `json:"real"`
		Imag      any `json:"imag"`
		Magnitude any `json:"magnitude"`
		Phase     any `json:"phase"`
	}{jsonComponent(s.Real), jsonComponent(s.Imag), jsonComponent(s.Magnitude), jsonComponent(s.Phase)})
}

func jsonComponent(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

// Structure expands a Value into its structured rendering.
func Structure(v Value) Structured {
	switch v := v.(type) {
	case *Complex:
		return Structured{
			Real:      real(v.Value),
			Imag:      imag(v.Value),
			Magnitude: cmplx.Abs(v.Value),
			Phase:     cmplx.Phase(v.Value),
		}
	case *Real:
		phase := 0.0
		if v.Value < 0 {
			phase = math.Pi
		}
		return Structured{
			Real:      v.Value,
			Magnitude: math.Abs(v.Value),
			Phase:     phase,
		}
	default:
		panic(fmt.Sprintf("value: unknown value type %T", v))
	}
}
