// Package fall implements the runtime parsing engine and concrete-syntax-tree
// model for a declarative grammar-driven parser generator: a longest-match
// regex lexer feeding an interpreter of a compact grammar IR, producing an
// error-tolerant, arena-backed CST with exact source coverage.
package fall

import "fmt"

// TextRange is a half-open byte range [Start, End) into a source text.
// Offsets are measured in bytes, not characters or UTF-16 code units.
type TextRange struct {
	Start, End uint32
}

// EmptyAt returns a zero-width range pinned to offset.
func EmptyAt(offset uint32) TextRange {
	return TextRange{Start: offset, End: offset}
}

// RangeFromTo builds a TextRange from s to e. It panics if s > e.
func RangeFromTo(s, e uint32) TextRange {
	if s > e {
		panic(fmt.Sprintf("fall: invalid range [%d, %d)", s, e))
	}
	return TextRange{Start: s, End: e}
}

// Len returns the number of bytes covered by the range.
func (r TextRange) Len() uint32 {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers zero bytes.
func (r TextRange) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether offset falls within [Start, End).
// An empty range never contains any offset.
func (r TextRange) Contains(offset uint32) bool {
	return offset >= r.Start && offset < r.End
}

// IsSubrangeOf reports whether r is fully covered by other.
func (r TextRange) IsSubrangeOf(other TextRange) bool {
	return other.Start <= r.Start && r.End <= other.End
}

// Touches reports whether r and other share a boundary: one's end equals
// the other's start.
func (r TextRange) Touches(other TextRange) bool {
	return r.End == other.Start || other.End == r.Start
}

// Add returns r shifted forward by offset bytes.
func (r TextRange) Add(offset uint32) TextRange {
	return TextRange{Start: r.Start + offset, End: r.End + offset}
}

// Union returns the smallest range covering both r and other.
func Union(r, other TextRange) TextRange {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return TextRange{Start: start, End: end}
}

// Less orders ranges first by Start, then by End.
func (r TextRange) Less(other TextRange) bool {
	if r.Start != other.Start {
		return r.Start < other.Start
	}
	return r.End < other.End
}

func (r TextRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}
