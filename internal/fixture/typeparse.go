package fixture

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"mirror/internal/types"
)

// typeScope resolves the names visible in a type string: generic parameters
// and Self.
type typeScope map[string]types.TypeID

// parseType parses a type string such as `Opt<u32>`, `(i32, &mut T)` or
// `[u8; 4]`.
func (b *builder) parseType(src string, scope typeScope) (types.TypeID, error) {
	p := &typeParser{b: b, scope: scope, src: src}
	ty, err := p.parse()
	if err != nil {
		return types.NoTypeID, fmt.Errorf("type %q: %w", src, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return types.NoTypeID, fmt.Errorf("type %q: trailing input at %d", src, p.pos)
	}
	return ty, nil
}

type typeParser struct {
	b     *builder
	scope typeScope
	src   string
	pos   int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) eat(s string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parse() (types.TypeID, error) {
	in := p.b.types
	bt := in.Builtins()
	switch {
	case p.eat("&"):
		mut := p.eat("mut ")
		elem, err := p.parse()
		if err != nil {
			return types.NoTypeID, err
		}
		return in.Intern(types.MakeReference(elem, mut)), nil
	case p.eat("["):
		elem, err := p.parse()
		if err != nil {
			return types.NoTypeID, err
		}
		if !p.eat(";") {
			return types.NoTypeID, fmt.Errorf("expected ';' in array type")
		}
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.ParseUint(p.src[start:p.pos], 10, 32)
		if err != nil {
			return types.NoTypeID, fmt.Errorf("bad array length: %w", err)
		}
		if !p.eat("]") {
			return types.NoTypeID, fmt.Errorf("expected ']'")
		}
		return in.Intern(types.MakeArray(elem, uint32(n))), nil
	case p.eat("("):
		var elems []types.TypeID
		for !p.eat(")") {
			if len(elems) > 0 && !p.eat(",") {
				return types.NoTypeID, fmt.Errorf("expected ',' or ')' in tuple type")
			}
			if p.eat(")") {
				break
			}
			elem, err := p.parse()
			if err != nil {
				return types.NoTypeID, err
			}
			elems = append(elems, elem)
		}
		return in.RegisterTuple(elems), nil
	}

	name := p.ident()
	switch name {
	case "":
		return types.NoTypeID, fmt.Errorf("expected a type at %d", p.pos)
	case "_":
		return in.NewInfer(), nil
	}
	if prim, ok := primitiveTypes(bt)[name]; ok {
		return prim, nil
	}
	if ty, ok := p.scope[name]; ok {
		return ty, nil
	}
	adt, ok := p.b.adts[name]
	if !ok {
		return types.NoTypeID, fmt.Errorf("unknown type %q", name)
	}
	var args []types.TypeID
	if p.eat("<") {
		for !p.eat(">") {
			if len(args) > 0 && !p.eat(",") {
				return types.NoTypeID, fmt.Errorf("expected ',' or '>' in type arguments")
			}
			arg, err := p.parse()
			if err != nil {
				return types.NoTypeID, err
			}
			args = append(args, arg)
		}
	}
	def, _ := in.AdtDef(adt)
	if len(args) != len(def.Generics) {
		return types.NoTypeID, fmt.Errorf("%s expects %d type arguments, got %d", name, len(def.Generics), len(args))
	}
	return in.AdtType(adt, args), nil
}

func primitiveTypes(bt types.Builtins) map[string]types.TypeID {
	return map[string]types.TypeID{
		"bool":  bt.Bool,
		"str":   bt.String,
		"usize": bt.Usize,
		"isize": bt.Isize,
		"u8":    bt.U8,
		"u16":   bt.U16,
		"u32":   bt.U32,
		"u64":   bt.U64,
		"i8":    bt.I8,
		"i16":   bt.I16,
		"i32":   bt.I32,
		"i64":   bt.I64,
		"f64":   bt.F64,
	}
}
