package source

import (
	"fmt"
	"slices"
	"sync"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// StringID is the interned handle of a string. String literals in the typed
// tree and in the mirror tree carry StringIDs, never raw strings.
type StringID uint32

const NoStringID StringID = 0

// Interner maps strings to stable StringIDs. It is shared by every lowering
// context of a session and is safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	byID  []string            // id -> string (byID[0] = "" for NoStringID)
	index map[string]StringID // string -> id
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern stores s verbatim and returns its id.
func (i *Interner) Intern(s string) StringID {
	i.mu.RLock()
	id, ok := i.index[s]
	i.mu.RUnlock()
	if ok {
		return id
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if id, ok := i.index[s]; ok {
		return id
	}
	// own copy, independent of the caller's buffer
	cpy := string([]byte(s))
	next, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("string interner overflow: %w", err))
	}
	id = StringID(next)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternIdent interns an identifier in Unicode NFC, so that names spelled
// with different code point sequences resolve to the same id.
func (i *Interner) InternIdent(name string) StringID {
	return i.Intern(norm.NFC.String(name))
}

// LookupIdent finds an identifier without interning it.
func (i *Interner) LookupIdent(name string) (StringID, bool) {
	key := norm.NFC.String(name)
	i.mu.RLock()
	defer i.mu.RUnlock()
	id, ok := i.index[key]
	return id, ok
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup panics on an unknown id.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

// Len counts stored strings including NoStringID; never less than 1.
func (i *Interner) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}

// Snapshot returns a copy of all interned strings indexed by id.
func (i *Interner) Snapshot() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.byID)
}
