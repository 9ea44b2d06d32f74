package value

import (
	"strconv"
	"strings"

	"github.com/sambeau/cplx/pkg/calc/errors"
)

// ParseOperand converts an operand string to a complex number. It is the
// single coercion point for everything the command line accepts: complex
// literals (2+3i, -1.5i, (4-2i)), bare reals, and numeric strings ("2").
// Conversion failure is an input error, reported once here rather than
// validated ad hoc by callers.
func ParseOperand(s string) (complex128, *errors.CalcError) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, errors.NewConversion("CONV-0001", "empty operand").
			WithHints("supply a complex literal like 2+3i or a real number like 2.5")
	}

	// A bare real first: ParseComplex accepts these too, but going through
	// ParseFloat keeps "2" and 2.0 on the identical code path.
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return complex(f, 0), nil
	}

	if z, err := strconv.ParseComplex(trimmed, 128); err == nil {
		return z, nil
	}

	return 0, errors.NewConversion("CONV-0002", "cannot convert %q to a complex number", trimmed).
		WithHints("complex literals look like 2+3i, -1.5i, or (4-2i)",
			"real operands may be plain numbers like 2 or 2.5")
}
