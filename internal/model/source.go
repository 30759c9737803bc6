// Package model defines the data structures for Solidity mutation testing.
package model

// Path represents a file system path.
type Path string

// Span is a half-open byte range [Lo, Hi) into a source file.
type Span struct {
	Lo uint32 `json:"lo"`
	Hi uint32 `json:"hi"`
}

// Contains reports whether s encloses other, strictly or non-strictly.
func (s Span) Contains(other Span) bool {
	return s.Lo <= other.Lo && other.Hi <= s.Hi
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() uint32 {
	if s.Hi < s.Lo {
		return 0
	}

	return s.Hi - s.Lo
}

// LineColumn converts a byte offset into a 1-based line/column pair.
func LineColumn(source []byte, offset uint32) (int, int) {
	line, column := 1, 1

	end := int(offset)
	if end > len(source) {
		end = len(source)
	}

	for _, b := range source[:end] {
		if b == '\n' {
			line++
			column = 1

			continue
		}

		column++
	}

	return line, column
}
