// Package format houses the low-level decoders for the legacy paired
// index/data asset format (".ndx" + ".dat"). It works on plain byte slices so
// the public packages can decide how the blobs are loaded, and it never
// panics on malformed input.
package format

const (
	// TableHeaderBase is the fixed prefix of the index blob before the
	// section tables begin.
	TableHeaderBase = 0x708

	// TableHeaderPad is the per-table header that precedes the offset slots
	// of every section table.
	TableHeaderPad = 0x108

	// TableStride is the distance between two consecutive section tables.
	TableStride = 0xE0C

	// MaxTableEntries is the number of offset slots in a section table.
	MaxTableEntries = 449

	// OffsetEntrySize is the width of one offset slot (LE uint32).
	OffsetEntrySize = 4

	// TagPointerSize is the width of the back-pointer stored immediately
	// before a named marker in the index blob.
	TagPointerSize = 4
)

// Record layout in the data blob (little-endian):
//
//	Offset  Size  Field
//	0x00    4     unused
//	0x04    4     stored length (header + payload)
//	0x08    4     unused
//	0x0C    14    image header (only for sections that declare one)
//	...           payload, 3 bytes per pixel
const (
	RecordLengthField = 0x04
	RecordPrefixSize  = 0x0C

	// RecordHeaderSize is the size of the optional image header.
	RecordHeaderSize = 14

	// RecordWidthField and RecordHeightField are byte positions inside the
	// image header. Both dimensions are single bytes.
	RecordWidthField  = 2
	RecordHeightField = 4
)

const (
	// PixelGroupSize is the number of stored bytes per pixel.
	PixelGroupSize = 3

	// PixelStride is the number of bytes per decoded RGBA pixel.
	PixelStride = 4

	// TransparentKey is the channel value that, repeated in all three stored
	// bytes, marks a transparent pixel.
	TransparentKey = 0x01
)
