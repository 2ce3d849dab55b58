package depgraph

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version; bump when Snapshot changes shape.
const snapshotSchemaVersion uint16 = 1

// Snapshot is the serialized form of a Log.
type Snapshot struct {
	Schema  uint16 `msgpack:"schema"`
	Session string `msgpack:"session"`
	Reads   []Read `msgpack:"reads"`
}

// Snapshot captures the current state of the log.
func (l *Log) Snapshot() *Snapshot {
	return &Snapshot{
		Schema:  snapshotSchemaVersion,
		Session: l.session.String(),
		Reads:   l.Reads(),
	}
}

// Encode writes a msgpack snapshot of the log to w.
func (l *Log) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(l.Snapshot())
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode dependency snapshot: %w", err)
	}
	if s.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("dependency snapshot schema %d, expected %d", s.Schema, snapshotSchemaVersion)
	}
	return &s, nil
}

// WriteFile atomically replaces path with a snapshot of the log.
func (l *Log) WriteFile(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "deps-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	if err := l.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile loads a snapshot written by WriteFile.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Decode(f)
}

// ByUnit groups the snapshot's reads by unit, preserving order.
func (s *Snapshot) ByUnit() map[string][]Node {
	out := make(map[string][]Node)
	for _, r := range s.Reads {
		out[r.Unit] = append(out[r.Unit], r.Node)
	}
	return out
}
