// Package buf contains bounds-checked helpers for decoding the index and data
// blobs. Every offset in the format is attacker-controlled in the sense that
// it comes from the file itself, so nothing here trusts its inputs.
package buf

import "encoding/binary"

// U32At reads the little-endian uint32 stored at b[off:off+4]. ok is false
// when the four bytes are not all inside b.
func U32At(b []byte, off int) (uint32, bool) {
	s, ok := Slice(b, off, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(s), true
}

// ByteAt returns b[off], or 0 when off is outside b.
func ByteAt(b []byte, off int) byte {
	if off < 0 || off >= len(b) {
		return 0
	}
	return b[off]
}
