package hir

// FnKind is the closed set of function-like nodes a body can belong to.
// Implementations: FnItem, FnMethod, FnClosure.
type FnKind interface {
	fnKind()
}

// FnItem is a free function.
type FnItem struct {
	Name      string
	Constness Constness
}

// FnMethod is a method in a trait or impl block.
type FnMethod struct {
	Name      string
	Owner     NodeID // the trait or impl item
	Constness Constness
}

// FnClosure is an anonymous function. Closures never declare constness.
type FnClosure struct{}

func (FnItem) fnKind()    {}
func (FnMethod) fnKind()  {}
func (FnClosure) fnKind() {}
