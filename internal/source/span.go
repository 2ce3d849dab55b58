package source

import "strconv"

// FileID identifies a fixture file. Zero stands for "no file".
type FileID uint32

// Span is a half-open byte range inside a fixture. Items built from TOML
// tables carry no positions and use the zero Span.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// Empty reports a zero-width span, which diagnostics render without a
// position.
func (s Span) Empty() bool { return s.Start >= s.End }

func (s Span) String() string {
	b := strconv.AppendUint(nil, uint64(s.File), 10)
	b = append(b, ':')
	b = strconv.AppendUint(b, uint64(s.Start), 10)
	b = append(b, '-')
	b = strconv.AppendUint(b, uint64(s.End), 10)
	return string(b)
}
