package mirror

import (
	"fmt"

	"mirror/internal/hir"
)

// SourceKind tells which kind of item a compilation unit comes from.
type SourceKind uint8

const (
	SourceFn SourceKind = iota
	SourceConst
	SourceStatic
	// SourcePromoted is a constant promoted out of a parent body. Promoted
	// values are never lowered through their own Cx.
	SourcePromoted
)

func (k SourceKind) String() string {
	switch k {
	case SourceFn:
		return "fn"
	case SourceConst:
		return "const"
	case SourceStatic:
		return "static"
	case SourcePromoted:
		return "promoted"
	default:
		return fmt.Sprintf("SourceKind(%d)", k)
	}
}

// Source describes the compilation unit a Cx lowers.
type Source struct {
	Kind     SourceKind
	Item     hir.NodeID // the item itself, or the parent for promoted values
	Promoted uint32
}

func FnSource(item hir.NodeID) Source     { return Source{Kind: SourceFn, Item: item} }
func ConstSource(item hir.NodeID) Source  { return Source{Kind: SourceConst, Item: item} }
func StaticSource(item hir.NodeID) Source { return Source{Kind: SourceStatic, Item: item} }

// PromotedSource names the index-th promoted value of parent.
func PromotedSource(parent hir.NodeID, index uint32) Source {
	return Source{Kind: SourcePromoted, Item: parent, Promoted: index}
}

// ItemID returns the node whose tables the unit reads. For promoted values
// this is the parent.
func (s Source) ItemID() hir.NodeID {
	return s.Item
}

func (s Source) String() string {
	if s.Kind == SourcePromoted {
		return fmt.Sprintf("promoted[%d] of #%d", s.Promoted, s.Item)
	}
	return fmt.Sprintf("%s #%d", s.Kind, s.Item)
}
