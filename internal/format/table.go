package format

import (
	"fmt"

	"github.com/joshuapare/ndxkit/internal/buf"
)

// TableBase returns the index blob offset of the offset table for section
// index. Tables are laid out back to back after a fixed prefix:
//
//	0x000   TableHeaderBase bytes of file header
//	0x708   table 0: TableHeaderPad bytes, then MaxTableEntries slots
//	...     table n starts at n*TableStride past table 0
func TableBase(index uint32) int64 {
	return TableHeaderBase + TableHeaderPad + int64(index)*TableStride
}

// ReadOffsetList reads the data blob offsets of one section table starting at
// off. Reading stops at the first zero slot, which is not included, or after
// MaxTableEntries slots. Each slot is bounds-checked before it is read, so a
// table whose terminator lies inside the blob decodes even when the full slot
// region would not fit.
func ReadOffsetList(b []byte, off int64) ([]uint32, error) {
	start, ok := buf.ToInt(off)
	if !ok {
		return nil, fmt.Errorf("offset table at 0x%x: %w", off, ErrTruncated)
	}

	offsets := make([]uint32, 0, 16)
	for i := 0; i < MaxTableEntries; i++ {
		pos, ok := buf.AddOverflowSafe(start, i*OffsetEntrySize)
		if !ok {
			return nil, fmt.Errorf("offset table at 0x%x: slot %d: %w", start, i, ErrTruncated)
		}
		v, ok := buf.U32At(b, pos)
		if !ok {
			return nil, fmt.Errorf(
				"offset table at 0x%x: slot %d at 0x%x beyond index length %d: %w",
				start, i, pos, len(b), ErrTruncated,
			)
		}
		if v == 0 {
			return offsets, nil
		}
		offsets = append(offsets, v)
	}
	return offsets, nil
}
