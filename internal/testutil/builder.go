// Package testutil builds synthetic index/data blob pairs for tests.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/ndxkit/internal/format"
)

// Pixel is one stored pixel group in on-disk order (blue, red, green).
type Pixel [3]byte

// Key is the stored transparent colour.
var Key = Pixel{format.TransparentKey, format.TransparentKey, format.TransparentKey}

// Record describes one data blob record.
type Record struct {
	HasHeader bool
	Width     byte
	Height    byte
	Pixels    []Pixel // groups after the placeholder

	// StoredLength overrides the computed length field when non-zero.
	StoredLength uint32
}

// Payload returns the payload bytes: a 3-byte placeholder followed by the
// pixel groups.
func (r Record) Payload() []byte {
	p := []byte{0xEE, 0xEE, 0xEE}
	for _, px := range r.Pixels {
		p = append(p, px[0], px[1], px[2])
	}
	return p
}

// Builder assembles an index blob with section tables and named markers, and
// a data blob with records.
type Builder struct {
	sections int
	tables   map[uint32][]uint32
	tags     []tagEntry
	data     []byte
}

type tagEntry struct {
	name  string
	value uint32
}

// NewBuilder returns a Builder whose index holds tables for sections
// [0, sections).
func NewBuilder(sections int) *Builder {
	// Offset 0 is the end-of-list sentinel, so no record may start there.
	return &Builder{
		sections: sections,
		tables:   make(map[uint32][]uint32),
		data:     make([]byte, 16),
	}
}

// AddRecord appends rec to the data blob and returns its offset.
func (b *Builder) AddRecord(rec Record) uint32 {
	off := uint32(len(b.data))

	var hdr []byte
	if rec.HasHeader {
		hdr = make([]byte, format.RecordHeaderSize)
		hdr[format.RecordWidthField] = rec.Width
		hdr[format.RecordHeightField] = rec.Height
	}
	payload := rec.Payload()

	stored := rec.StoredLength
	if stored == 0 {
		stored = uint32(len(hdr) + len(payload))
	}

	prefix := make([]byte, format.RecordPrefixSize)
	binary.LittleEndian.PutUint32(prefix[0:], 0x47415242) // unused, filled with noise
	binary.LittleEndian.PutUint32(prefix[format.RecordLengthField:], stored)
	binary.LittleEndian.PutUint32(prefix[8:], 0x45474147)

	b.data = append(b.data, prefix...)
	b.data = append(b.data, hdr...)
	b.data = append(b.data, payload...)
	return off
}

// SetSection sets the offset table of section. Offsets past the table
// capacity are ignored; a zero terminates the list when read back.
func (b *Builder) SetSection(section uint32, offsets ...uint32) *Builder {
	b.tables[section] = offsets
	return b
}

// AddTag appends a named marker whose back-pointer is value.
func (b *Builder) AddTag(name string, value uint32) *Builder {
	b.tags = append(b.tags, tagEntry{name: name, value: value})
	return b
}

// Build returns the index and data blobs.
func (b *Builder) Build() (index, data []byte) {
	size := int(format.TableBase(uint32(b.sections)))
	for _, tg := range b.tags {
		size += format.TagPointerSize + len(tg.name)
	}
	index = make([]byte, size)

	for section, offsets := range b.tables {
		base := int(format.TableBase(section))
		for i, off := range offsets {
			if i == format.MaxTableEntries {
				break
			}
			pos := base + i*format.OffsetEntrySize
			if pos+format.OffsetEntrySize > len(index) {
				break
			}
			binary.LittleEndian.PutUint32(index[pos:], off)
		}
	}

	pos := int(format.TableBase(uint32(b.sections)))
	for _, tg := range b.tags {
		binary.LittleEndian.PutUint32(index[pos:], tg.value)
		pos += format.TagPointerSize
		pos += copy(index[pos:], tg.name)
	}

	data = append([]byte(nil), b.data...)
	return index, data
}

// WriteFiles writes the blobs as <dir>/<name>.ndx and <dir>/<name>.dat.
func (b *Builder) WriteFiles(t testing.TB, dir, name string) (indexPath, dataPath string) {
	t.Helper()
	index, data := b.Build()
	indexPath = filepath.Join(dir, name+".ndx")
	dataPath = filepath.Join(dir, name+".dat")
	if err := os.WriteFile(indexPath, index, 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	return indexPath, dataPath
}

// Solid returns n copies of px.
func Solid(px Pixel, n int) []Pixel {
	out := make([]Pixel, n)
	for i := range out {
		out[i] = px
	}
	return out
}
