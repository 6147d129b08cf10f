/*
Package ndx reads the paired index/data asset format used by the legacy
client: an index blob (".ndx") holding per-section tables of offsets, and a
data blob (".dat") holding the image records those offsets point at.

# Quick Start

	a, err := ndx.Open("drak24.ndx", "drak24.dat")
	if err != nil {
	    return err
	}
	defer a.Close()

	offsets, err := a.OffsetList(7)
	if err != nil {
	    return err
	}
	for _, off := range offsets {
	    img, err := a.DecodeRecord(off, types.SectionConfig{HasHeader: true, Width: 64, Height: 64})
	    if errors.Is(err, types.ErrSkipped) {
	        continue
	    }
	    ...
	}

# Sections

A section is addressed either by number or by a short tag. Tags are
resolved by searching the index blob for the first occurrence of the tag
bytes and reading the little-endian back-pointer stored just before it:

	v, err := a.ResolveSection(types.Tag("OAN1"))

# Records

Each record starts with a 12-byte prefix carrying the stored length, then an
optional 14-byte image header (width at byte 2, height at byte 4), then three
bytes per pixel in blue/red/green order. Pixel slot 0 is always transparent
and the stored colour (1,1,1) is the transparency key.

Blobs are memory-mapped where the platform allows it, and transparently
decompressed when only a ".zst" or ".lz4" variant exists on disk.
*/
package ndx
