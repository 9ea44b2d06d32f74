package op

// descriptions drives flag usage strings and the REPL :ops listing.
var descriptions = map[Selector]string{
	Conjugate:  "complex conjugate",
	Reciprocal: "multiplicative inverse (1/z)",
	Negate:     "additive inverse (-z)",
	Abs:        "magnitude, as a real scalar",
	Acos:       "inverse cosine",
	Asin:       "inverse sine",
	Atan:       "inverse tangent",
	Cos:        "cosine",
	Cosh:       "hyperbolic cosine",
	Exp:        "e raised to z",
	Log10:      "base-10 logarithm",
	Sin:        "sine",
	Sinh:       "hyperbolic sine",
	Sqrt:       "principal square root",
	Tan:        "tangent",
	Tanh:       "hyperbolic tangent",
	Pow:        "z raised to the second operand",
	Log:        "logarithm of z in the base given by the second operand",
}

// Description returns a one-line description of sel, or "" if unknown.
func Description(sel Selector) string {
	return descriptions[sel]
}
