package markdown

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Edit represents a targeted byte-range replacement.
//
// Start and End are byte offsets into the original source, with End exclusive.
// Replacement replaces source[Start:End] and is inserted literally; it is never
// scanned again.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies a set of byte-range edits to source and returns the updated content.
//
// Edits must be non-overlapping and refer to offsets in the original source, so
// every offset is computed before any replacement happens. The source slice is
// not modified.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})

	size := len(source)
	for i, e := range sorted {
		if e.Start < 0 || e.End < 0 {
			return nil, fmt.Errorf("invalid edit[%d]: negative range", i)
		}
		if e.End < e.Start {
			return nil, fmt.Errorf("invalid edit[%d]: end before start", i)
		}
		if e.End > len(source) {
			return nil, fmt.Errorf("invalid edit[%d]: range out of bounds", i)
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return nil, errors.New("invalid edits: overlapping ranges")
		}
		size += len(e.Replacement) - (e.End - e.Start)
	}

	out := make([]byte, 0, size)
	prev := 0
	for _, e := range sorted {
		out = append(out, source[prev:e.Start]...)
		out = append(out, e.Replacement...)
		prev = e.End
	}
	out = append(out, source[prev:]...)
	return out, nil
}
