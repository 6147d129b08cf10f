package ndx

import (
	"errors"
	"fmt"
	"image"

	"github.com/joshuapare/ndxkit/internal/format"
	"github.com/joshuapare/ndxkit/pkg/types"
)

// RecordInfo describes a located record without decoding its pixels.
type RecordInfo struct {
	Offset       uint32
	StoredLength uint32
	PayloadLen   int
	Width        int
	Height       int
}

// Pixels returns the number of 3-byte groups after the placeholder, i.e. the
// number of pixel slots the payload can fill.
func (r RecordInfo) Pixels() int {
	if r.PayloadLen <= format.PixelGroupSize {
		return 0
	}
	return (r.PayloadLen - 1) / format.PixelGroupSize
}

// InspectRecord locates the record at off and resolves its dimensions. It
// returns an ErrSkipped error for records that DecodeRecord would skip.
func (a *Asset) InspectRecord(off uint32, cfg types.SectionConfig) (RecordInfo, error) {
	rec, w, h, err := a.locate(off, cfg)
	if err != nil {
		return RecordInfo{}, err
	}
	return RecordInfo{
		Offset:       off,
		StoredLength: rec.StoredLength,
		PayloadLen:   len(rec.Payload),
		Width:        w,
		Height:       h,
	}, nil
}

// DecodeRecord decodes the record at data blob offset off into a
// width*height NRGBA image. Records with an empty or out-of-range payload or
// a zero dimension yield an error matching types.ErrSkipped and no image.
func (a *Asset) DecodeRecord(off uint32, cfg types.SectionConfig) (*image.NRGBA, error) {
	rec, w, h, err := a.locate(off, cfg)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	format.UnpackPixels(rec.Payload, img.Pix)
	return img, nil
}

func (a *Asset) locate(off uint32, cfg types.SectionConfig) (format.Record, int, int, error) {
	if cfg.Width < 0 || cfg.Height < 0 {
		return format.Record{}, 0, 0, &types.Error{
			Kind: types.ErrKindInvalid,
			Msg:  fmt.Sprintf("record at 0x%x: negative forced size %dx%d", off, cfg.Width, cfg.Height),
		}
	}
	rec, err := format.ParseRecord(a.data, int(off), cfg.HasHeader)
	if err != nil {
		return format.Record{}, 0, 0, skip(off, err)
	}
	w, h := rec.Dimensions(cfg.Width, cfg.Height)
	if w == 0 || h == 0 {
		return format.Record{}, 0, 0, skip(off, fmt.Errorf("%dx%d: %w", w, h, format.ErrZeroDimension))
	}
	return rec, w, h, nil
}

func skip(off uint32, err error) error {
	reason := "skipped"
	switch {
	case errors.Is(err, format.ErrEmptyPayload):
		reason = "empty payload"
	case errors.Is(err, format.ErrTruncated):
		reason = "out of bounds"
	case errors.Is(err, format.ErrZeroDimension):
		reason = "zero dimension"
	}
	return &types.Error{
		Kind: types.ErrKindSkipped,
		Msg:  fmt.Sprintf("record at 0x%x: %s", off, reason),
		Err:  err,
	}
}
