package symbols

// LangItem names the traits the lowering reaches for when an operator is
// applied to a non-primitive operand.
type LangItem uint8

const (
	LangNone LangItem = iota
	LangAdd
	LangSub
	LangMul
	LangDiv
	LangRem
	LangNeg
	LangNot
	LangEq
	LangOrd
	LangBitAnd
	LangBitOr
	LangBitXor
)

var langNames = [...]string{
	LangNone:   "",
	LangAdd:    "add",
	LangSub:    "sub",
	LangMul:    "mul",
	LangDiv:    "div",
	LangRem:    "rem",
	LangNeg:    "neg",
	LangNot:    "not",
	LangEq:     "eq",
	LangOrd:    "ord",
	LangBitAnd: "bitand",
	LangBitOr:  "bitor",
	LangBitXor: "bitxor",
}

func (l LangItem) String() string {
	if int(l) < len(langNames) {
		return langNames[l]
	}
	return "?"
}

// ParseLang maps a fixture attribute value to a LangItem.
func ParseLang(name string) (LangItem, bool) {
	for i, n := range langNames {
		if n != "" && n == name {
			return LangItem(i), true
		}
	}
	return LangNone, false
}
