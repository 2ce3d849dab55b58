package fixture

// file is the decoded TOML document.
type file struct {
	Name    string      `toml:"name"`
	Adts    []adtDecl   `toml:"adt"`
	Traits  []traitDecl `toml:"trait"`
	Fns     []fnDecl    `toml:"fn"`
	Impls   []implDecl  `toml:"impl"`
	Consts  []constDecl `toml:"const"`
	Statics []constDecl `toml:"static"`
}

type adtDecl struct {
	Name     string        `toml:"name"`
	Kind     string        `toml:"kind"` // struct | enum
	Drop     bool          `toml:"drop"`
	Generics []string      `toml:"generics"`
	Variants []variantDecl `toml:"variant"`
}

type variantDecl struct {
	Name   string      `toml:"name"`
	Fields []fieldDecl `toml:"fields"`
}

type fieldDecl struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

type traitDecl struct {
	Name     string          `toml:"name"`
	Lang     string          `toml:"lang"`
	Generics []string        `toml:"generics"`
	Items    []traitItemDecl `toml:"item"`
}

type traitItemDecl struct {
	Kind   string   `toml:"kind"` // method | const | type
	Name   string   `toml:"name"`
	Params []string `toml:"params"`
	Result string   `toml:"result"`
	Type   string   `toml:"type"`
}

type fnDecl struct {
	Name     string      `toml:"name"`
	Const    bool        `toml:"const"`
	Public   bool        `toml:"pub"`
	Attrs    []string    `toml:"attrs"`
	Generics []string    `toml:"generics"` // "T" or "T: Copy"
	Params   []fieldDecl `toml:"params"`
	Result   string      `toml:"result"`
	Body     any         `toml:"body"`
}

type implDecl struct {
	Trait   string   `toml:"trait"`
	Self    string   `toml:"self"`
	Methods []fnDecl `toml:"method"`
}

type constDecl struct {
	Name  string   `toml:"name"`
	Type  string   `toml:"type"`
	Mut   bool     `toml:"mut"`
	Attrs []string `toml:"attrs"`
	Body  any      `toml:"body"`
}
