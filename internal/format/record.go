package format

import (
	"fmt"

	"github.com/joshuapare/ndxkit/internal/buf"
)

// Record is one located entry of the data blob. Header and Payload alias the
// blob; callers must not modify them.
type Record struct {
	Offset       int
	StoredLength uint32
	Header       []byte // nil when the section carries no image header
	Payload      []byte
}

// ParseRecord locates the record at off in the data blob b. The stored length
// covers the optional image header and the payload. A record whose payload is
// empty or does not fit in b is reported with ErrEmptyPayload or ErrTruncated
// so the caller can skip it.
func ParseRecord(b []byte, off int, hasHeader bool) (Record, error) {
	lenPos, ok := buf.AddOverflowSafe(off, RecordLengthField)
	if !ok {
		return Record{}, fmt.Errorf("record at 0x%x: %w", off, ErrTruncated)
	}
	stored, ok := buf.U32At(b, lenPos)
	if !ok {
		return Record{}, fmt.Errorf("record at 0x%x: length field: %w", off, ErrTruncated)
	}

	headerLen := 0
	if hasHeader {
		headerLen = RecordHeaderSize
	}
	payloadLen := int64(stored) - int64(headerLen)
	if payloadLen <= 0 {
		return Record{}, fmt.Errorf("record at 0x%x: stored length %d: %w", off, stored, ErrEmptyPayload)
	}

	headerPos, ok := buf.AddOverflowSafe(off, RecordPrefixSize)
	if !ok {
		return Record{}, fmt.Errorf("record at 0x%x: %w", off, ErrTruncated)
	}
	n, ok := buf.ToInt(payloadLen)
	if !ok {
		return Record{}, fmt.Errorf("record at 0x%x: %w", off, ErrTruncated)
	}
	payload, ok := buf.Slice(b, headerPos+headerLen, n)
	if !ok {
		return Record{}, fmt.Errorf(
			"record at 0x%x: payload of %d bytes beyond data length %d: %w",
			off, n, len(b), ErrTruncated,
		)
	}

	rec := Record{Offset: off, StoredLength: stored, Payload: payload}
	if hasHeader {
		rec.Header = b[headerPos : headerPos+headerLen]
	}
	return rec, nil
}

// Dimensions returns the image size of the record. A non-zero forced value
// wins over the header byte; without a header the forced values are the only
// source.
func (r Record) Dimensions(forcedWidth, forcedHeight int) (int, int) {
	w, h := forcedWidth, forcedHeight
	if w == 0 {
		w = int(buf.ByteAt(r.Header, RecordWidthField))
	}
	if h == 0 {
		h = int(buf.ByteAt(r.Header, RecordHeightField))
	}
	return w, h
}

// UnpackPixels expands payload into pix, an RGBA buffer of PixelStride bytes
// per pixel.
//
// Slot 0 is always transparent black and the first PixelGroupSize payload
// bytes are never read. Each following group is stored as (blue, red, green)
// and lands in the next slot as (green, red, blue, 0xFF); a group of three
// TransparentKey bytes becomes (0, 0, 0, 0). Groups past the end of pix are
// dropped, and a trailing partial group reads its missing bytes as zero.
func UnpackPixels(payload, pix []byte) {
	slots := len(pix) / PixelStride
	if slots == 0 {
		return
	}
	clear(pix[:PixelStride])

	slot := 1
	for j := PixelGroupSize; j < len(payload) && slot < slots; j += PixelGroupSize {
		b0 := payload[j]
		b1 := buf.ByteAt(payload, j+1)
		b2 := buf.ByteAt(payload, j+2)

		p := pix[slot*PixelStride : slot*PixelStride+PixelStride]
		if b0 == TransparentKey && b1 == TransparentKey && b2 == TransparentKey {
			clear(p)
		} else {
			p[0] = b2
			p[1] = b1
			p[2] = b0
			p[3] = 0xFF
		}
		slot++
	}
}
