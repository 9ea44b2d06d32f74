// Package op dispatches calculator operations to math/cmplx.
//
// Every operation is named by a Selector and classified as unary or binary.
// A Selector is bound to its operands through an Invocation, built with
// Unary or Binary; the constructors reject a selector of the wrong arity, so
// a well-formed Invocation can never be missing its second operand.
package op

import (
	"math/cmplx"
	"sort"

	"github.com/sambeau/cplx/pkg/calc/errors"
	"github.com/sambeau/cplx/pkg/calc/value"
)

// Selector names one calculator operation.
type Selector string

const (
	Conjugate  Selector = "conjugate"
	Reciprocal Selector = "reciprocal"
	Negate     Selector = "negate"
	Abs        Selector = "abs"
	Acos       Selector = "acos"
	Asin       Selector = "asin"
	Atan       Selector = "atan"
	Cos        Selector = "cos"
	Cosh       Selector = "cosh"
	Exp        Selector = "exp"
	Log10      Selector = "log10"
	Sin        Selector = "sin"
	Sinh       Selector = "sinh"
	Sqrt       Selector = "sqrt"
	Tan        Selector = "tan"
	Tanh       Selector = "tanh"
	Pow        Selector = "pow"
	Log        Selector = "log"
)

// Default is the operation applied when no selector flag is given.
const Default = Conjugate

// unaryFn computes a single-operand operation.
type unaryFn func(z complex128) (value.Value, *errors.CalcError)

// binaryFn computes a two-operand operation.
type binaryFn func(z, arg complex128) (value.Value, *errors.CalcError)

// complexResult wraps a plain complex function as a unaryFn.
func complexResult(fn func(complex128) complex128) unaryFn {
	return func(z complex128) (value.Value, *errors.CalcError) {
		return &value.Complex{Value: fn(z)}, nil
	}
}

// The dispatch tables. Each selector maps to a statically referenced
// function; there is no name-based or reflective dispatch.
var unaryOps = map[Selector]unaryFn{
	Conjugate:  complexResult(cmplx.Conj),
	Reciprocal: reciprocal,
	Negate:     complexResult(func(z complex128) complex128 { return -z }),
	Abs:        abs,
	Acos:       complexResult(cmplx.Acos),
	Asin:       complexResult(cmplx.Asin),
	Atan:       complexResult(cmplx.Atan),
	Cos:        complexResult(cmplx.Cos),
	Cosh:       complexResult(cmplx.Cosh),
	Exp:        complexResult(cmplx.Exp),
	Log10:      complexResult(cmplx.Log10),
	Sin:        complexResult(cmplx.Sin),
	Sinh:       complexResult(cmplx.Sinh),
	Sqrt:       complexResult(cmplx.Sqrt),
	Tan:        complexResult(cmplx.Tan),
	Tanh:       complexResult(cmplx.Tanh),
}

var binaryOps = map[Selector]binaryFn{
	Pow: pow,
	Log: logBase,
}

// reciprocal returns 1/z. math/cmplx never raises, so the division-by-zero
// domain failure is reported here instead of propagating an Inf result.
func reciprocal(z complex128) (value.Value, *errors.CalcError) {
	if z == 0 {
		return nil, errors.NewComputation("COMP-0001", "reciprocal of zero is undefined")
	}
	return &value.Complex{Value: 1 / z}, nil
}

// abs returns the magnitude of z. It is the one operation whose result is a
// bare scalar rather than a complex number; see the value package for why
// the asymmetry is kept.
func abs(z complex128) (value.Value, *errors.CalcError) {
	return &value.Real{Value: cmplx.Abs(z)}, nil
}

func pow(z, arg complex128) (value.Value, *errors.CalcError) {
	return &value.Complex{Value: cmplx.Pow(z, arg)}, nil
}

// logBase computes the logarithm of z in base arg as Log(z)/Log(arg).
// Base 1 makes the denominator zero and base 0 makes it -Inf; both are
// rejected rather than divided through.
func logBase(z, arg complex128) (value.Value, *errors.CalcError) {
	den := cmplx.Log(arg)
	if den == 0 || cmplx.IsInf(den) {
		return nil, errors.NewComputation("COMP-0002", "logarithm base %s is undefined", value.FormatComplex(arg, -1)).
			WithHints("choose a base other than 0 and 1")
	}
	return &value.Complex{Value: cmplx.Log(z) / den}, nil
}

// IsBinary reports whether sel takes a second operand.
func IsBinary(sel Selector) bool {
	_, ok := binaryOps[sel]
	return ok
}

// Known reports whether sel names an operation.
func Known(sel Selector) bool {
	if _, ok := unaryOps[sel]; ok {
		return true
	}
	return IsBinary(sel)
}

// Selectors returns every operation name in sorted order.
func Selectors() []Selector {
	sels := make([]Selector, 0, len(unaryOps)+len(binaryOps))
	for sel := range unaryOps {
		sels = append(sels, sel)
	}
	for sel := range binaryOps {
		sels = append(sels, sel)
	}
	sort.Slice(sels, func(i, j int) bool { return sels[i] < sels[j] })
	return sels
}

// Invocation is a selector bound to its second operand, if it takes one.
// Pow and Log carry a mandatory argument; all other selectors carry none.
type Invocation struct {
	sel    Selector
	arg    complex128
	binary bool
}

// Selector returns the operation this invocation will apply.
func (inv Invocation) Selector() Selector { return inv.sel }

// Unary builds an invocation of a single-operand selector.
func Unary(sel Selector) (Invocation, *errors.CalcError) {
	if _, ok := unaryOps[sel]; !ok {
		if IsBinary(sel) {
			return Invocation{}, errors.NewConfig("CONF-0001", "%s requires a second operand", sel).
				WithHints("cplx --"+string(sel)+" 2+3i 2")
		}
		return Invocation{}, errors.NewConfig("CONF-0002", "unknown operation %q", sel)
	}
	return Invocation{sel: sel}, nil
}

// Binary builds an invocation of a two-operand selector with its second
// operand already coerced to a complex number.
func Binary(sel Selector, arg complex128) (Invocation, *errors.CalcError) {
	if !IsBinary(sel) {
		if Known(sel) {
			return Invocation{}, errors.NewConfig("CONF-0003", "%s does not take a second operand", sel)
		}
		return Invocation{}, errors.NewConfig("CONF-0002", "unknown operation %q", sel)
	}
	return Invocation{sel: sel, arg: arg, binary: true}, nil
}

// Apply evaluates the invocation on z. It is a pure function: no state is
// read or written, and concurrent calls need no coordination.
func (inv Invocation) Apply(z complex128) (value.Value, *errors.CalcError) {
	if inv.binary {
		return binaryOps[inv.sel](z, inv.arg)
	}
	fn, ok := unaryOps[inv.sel]
	if !ok {
		// Zero-value Invocation, which only a caller ignoring the
		// constructor errors can produce.
		return nil, errors.NewConfig("CONF-0002", "unknown operation %q", inv.sel)
	}
	return fn(z)
}
