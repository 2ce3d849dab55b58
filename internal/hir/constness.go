package hir

// Constness records whether a unit must be evaluable at compile time.
type Constness uint8

const (
	NotConst Constness = iota
	Const
)

func (c Constness) String() string {
	if c == Const {
		return "const"
	}
	return "not-const"
}

// Attribute names understood by lowering.
const (
	// AttrInheritOverflowChecks forces overflow checks in the marked body
	// regardless of the session configuration.
	AttrInheritOverflowChecks = "inherit_overflow_checks"
)

// Attr is a resolved attribute: a bare name, optionally with arguments.
type Attr struct {
	Name string
	Args []string
}

// HasAttr reports whether attrs contains an attribute called name.
func HasAttr(attrs []Attr, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}
