package cs

// Visibility tags a variable with the block of the witness vector it lives in.
// The enum order matches the column order of the witness vector.
type Visibility uint8

const (
	Unset Visibility = iota
	// Constant is the one-wire: column 0, always set to 1.
	Constant
	// Public is an instance variable, known to both prover and verifier.
	Public
	// Secret is a witness variable, known to the prover only.
	Secret
	// Internal is a synthetic wire created by gadgets or matrix extraction.
	Internal
)

func (v Visibility) String() string {
	switch v {
	case Constant:
		return "constant"
	case Public:
		return "public"
	case Secret:
		return "secret"
	case Internal:
		return "internal"
	}
	return "unset"
}

// Variable is a handle on a wire of the constraint system. The zero value is
// not a valid variable; it must come from One or from an allocation on a
// System.
type Variable struct {
	visibility Visibility
	index      int // position within the visibility block
}

// One returns the constant wire; its value is always the multiplicative
// identity of the field.
func One() Variable {
	return Variable{visibility: Constant}
}

// Visibility returns the visibility block the variable belongs to.
func (v Variable) Visibility() Visibility {
	return v.visibility
}

// Index returns the position of the variable within its visibility block.
func (v Variable) Index() int {
	return v.index
}

// lessVar orders variables by witness vector column.
func lessVar(a, b Variable) bool {
	if a.visibility != b.visibility {
		return a.visibility < b.visibility
	}
	return a.index < b.index
}
