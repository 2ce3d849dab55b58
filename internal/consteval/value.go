package consteval

import (
	"fmt"
	"math/big"
	"strconv"

	"mirror/internal/source"
	"mirror/internal/types"
)

// Kind enumerates the shapes a constant value can take.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindStr
	KindUnit
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindStr:
		return "str"
	case KindUnit:
		return "unit"
	default:
		return "invalid"
	}
}

// Value is a fully evaluated constant. Integers keep their two's complement
// bit pattern truncated to Width bits; Width is always concrete (pointer
// sized types are resolved against the target).
type Value struct {
	Kind   Kind
	Type   types.TypeID
	Bool   bool
	Bits   uint64
	Signed bool
	Width  uint8
	Str    source.StringID
}

// BoolValue builds a boolean constant.
func BoolValue(b bool, ty types.TypeID) Value {
	return Value{Kind: KindBool, Type: ty, Bool: b}
}

// IntValue builds an integer constant. bits is truncated to width.
func IntValue(bits uint64, signed bool, width uint8, ty types.TypeID) Value {
	return Value{Kind: KindInt, Type: ty, Bits: bits & mask(width), Signed: signed, Width: width}
}

// UintValue builds an unsigned integer constant.
func UintValue(v uint64, width uint8, ty types.TypeID) Value {
	return IntValue(v, false, width, ty)
}

// StrValue builds a string constant from an interned string.
func StrValue(id source.StringID, ty types.TypeID) Value {
	return Value{Kind: KindStr, Type: ty, Str: id}
}

// UnitValue builds the unit constant.
func UnitValue(ty types.TypeID) Value {
	return Value{Kind: KindUnit, Type: ty}
}

// Uint64 returns the raw bit pattern of an integer value.
func (v Value) Uint64() uint64 {
	return v.Bits
}

// Int64 sign-extends a signed integer value.
func (v Value) Int64() int64 {
	if !v.Signed || v.Width == 0 || v.Width >= 64 {
		return int64(v.Bits)
	}
	shift := 64 - uint(v.Width)
	return int64(v.Bits<<shift) >> shift
}

// Big returns the mathematical value of an integer constant.
func (v Value) Big() *big.Int {
	if v.Signed {
		return big.NewInt(v.Int64())
	}
	return new(big.Int).SetUint64(v.Bits)
}

// Equal compares two values ignoring their type ids.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Bits == o.Bits && v.Signed == o.Signed && v.Width == o.Width
	case KindStr:
		return v.Str == o.Str
	default:
		return true
	}
}

// String renders the value for dumps. Strings print as their id; Format
// resolves them.
func (v Value) String() string {
	return v.Format(nil)
}

// Format renders the value, resolving strings through strs when non-nil.
func (v Value) Format(strs *source.Interner) string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		suffix := "u"
		if v.Signed {
			suffix = "i"
		}
		if v.Signed {
			return fmt.Sprintf("%d%s%d", v.Int64(), suffix, v.Width)
		}
		return fmt.Sprintf("%d%s%d", v.Bits, suffix, v.Width)
	case KindStr:
		if strs != nil {
			if s, ok := strs.Lookup(v.Str); ok {
				return strconv.Quote(s)
			}
		}
		return fmt.Sprintf("str#%d", v.Str)
	case KindUnit:
		return "()"
	default:
		return "<invalid>"
	}
}

func mask(width uint8) uint64 {
	if width == 0 || width >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<width - 1
}

// bounds returns the inclusive range representable by an integer type.
func bounds(signed bool, width uint8) (lo, hi *big.Int) {
	if signed {
		hi = new(big.Int).Lsh(big.NewInt(1), uint(width-1))
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, big.NewInt(1))
		return lo, hi
	}
	hi = new(big.Int).Lsh(big.NewInt(1), uint(width))
	hi.Sub(hi, big.NewInt(1))
	return big.NewInt(0), hi
}

// fromBig converts n into a Value of the given integer type. It reports false
// when n is out of range.
func fromBig(n *big.Int, signed bool, width uint8, ty types.TypeID) (Value, bool) {
	lo, hi := bounds(signed, width)
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return Value{}, false
	}
	if signed {
		return IntValue(uint64(n.Int64()), true, width, ty), true
	}
	return IntValue(n.Uint64(), false, width, ty), true
}
