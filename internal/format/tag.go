package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/ndxkit/internal/buf"
)

// FindTag locates the first occurrence of tag in the index blob b and returns
// the little-endian back-pointer stored in the TagPointerSize bytes just
// before it. Later occurrences are never consulted.
func FindTag(b, tag []byte) (uint32, error) {
	if len(tag) == 0 {
		return 0, fmt.Errorf("tag: %w", ErrEmptyTag)
	}
	at := bytes.Index(b, tag)
	if at < 0 {
		return 0, fmt.Errorf("tag %q: %w", tag, ErrNotFound)
	}
	v, ok := buf.U32At(b, at-TagPointerSize)
	if !ok {
		return 0, fmt.Errorf("tag %q at 0x%x: back-pointer: %w", tag, at, ErrTruncated)
	}
	return v, nil
}
