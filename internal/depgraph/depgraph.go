// Package depgraph records which facts each lowering unit read from the
// shared type context. The log is append-only and is snapshotted to disk in
// msgpack form so that incremental tooling can inspect it later.
package depgraph

import (
	"fmt"
	"sync"

	"fortio.org/safecast"
	"github.com/google/uuid"

	"mirror/internal/symbols"
)

// Kind classifies a dependency node.
type Kind uint8

const (
	// KindTypeckBody is the type-checked body of a definition. Every lowering
	// context reads its own unit's body exactly once, at construction.
	KindTypeckBody Kind = iota
	KindTraitItems
	KindItemType
	KindConstEval
)

func (k Kind) String() string {
	switch k {
	case KindTypeckBody:
		return "TypeckBody"
	case KindTraitItems:
		return "TraitItems"
	case KindItemType:
		return "ItemType"
	case KindConstEval:
		return "ConstEval"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Node identifies one fact.
type Node struct {
	Kind Kind             `msgpack:"k"`
	Def  symbols.SymbolID `msgpack:"d"`
}

// TypeckBody is shorthand for the body node of def.
func TypeckBody(def symbols.SymbolID) Node {
	return Node{Kind: KindTypeckBody, Def: def}
}

func (n Node) String() string {
	return fmt.Sprintf("%s(%d)", n.Kind, n.Def)
}

// Read is one entry of the log.
type Read struct {
	Seq  uint32 `msgpack:"seq"`
	Unit string `msgpack:"unit"`
	Node Node   `msgpack:"node"`
}

// Log is an append-only, concurrency-safe record of reads.
type Log struct {
	mu      sync.Mutex
	session uuid.UUID
	reads   []Read
}

// NewLog starts a log for a new session.
func NewLog() *Log {
	return &Log{session: uuid.Must(uuid.NewV7())}
}

// Session returns the id stamped on snapshots of this log.
func (l *Log) Session() uuid.UUID {
	return l.session
}

// Record appends a read made on behalf of unit.
func (l *Log) Record(unit string, node Node) {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq, err := safecast.Conv[uint32](len(l.reads))
	if err != nil {
		panic(fmt.Errorf("dependency log overflow: %w", err))
	}
	l.reads = append(l.reads, Read{Seq: seq, Unit: unit, Node: node})
}

// Reads returns a copy of every read in append order.
func (l *Log) Reads() []Read {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Read, len(l.reads))
	copy(out, l.reads)
	return out
}

// ReadsOf returns the nodes read by one unit, in order.
func (l *Log) ReadsOf(unit string) []Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Node
	for _, r := range l.reads {
		if r.Unit == unit {
			out = append(out, r.Node)
		}
	}
	return out
}

// Len returns the number of recorded reads.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.reads)
}
