package ndx

import (
	"errors"
	"fmt"

	"github.com/joshuapare/ndxkit/internal/format"
	"github.com/joshuapare/ndxkit/pkg/types"
)

// ResolveSection maps a section identifier to the section number used to
// locate its offset table. Numeric identifiers are returned unchanged; tags
// are resolved through the back-pointer preceding their first occurrence in
// the index blob.
func (a *Asset) ResolveSection(id types.SectionID) (uint32, error) {
	if !id.IsTag() {
		return id.Value(), nil
	}
	tag, err := id.TagBytes()
	if err != nil {
		return 0, err
	}
	v, err := format.FindTag(a.index, tag)
	if err != nil {
		return 0, wrapFormatErr(fmt.Sprintf("resolve %s", id), err)
	}
	return v, nil
}

// TableOffset returns the index blob offset of the offset table of section.
func (a *Asset) TableOffset(section uint32) int64 {
	return format.TableBase(section)
}

// OffsetList returns the data blob offsets listed in the table of section,
// in stored order, up to the first zero slot.
func (a *Asset) OffsetList(section uint32) ([]uint32, error) {
	return a.ReadOffsetList(format.TableBase(section))
}

// ReadOffsetList reads an offset table at an explicit index blob offset.
func (a *Asset) ReadOffsetList(tableOffset int64) ([]uint32, error) {
	offsets, err := format.ReadOffsetList(a.index, tableOffset)
	if err != nil {
		return nil, wrapFormatErr(fmt.Sprintf("offset table at 0x%x", tableOffset), err)
	}
	return offsets, nil
}

// wrapFormatErr converts internal/format sentinels into typed errors.
func wrapFormatErr(msg string, err error) error {
	switch {
	case errors.Is(err, format.ErrNotFound):
		return &types.Error{Kind: types.ErrKindNotFound, Msg: msg, Err: err}
	case errors.Is(err, format.ErrTruncated):
		return &types.Error{Kind: types.ErrKindBounds, Msg: msg, Err: err}
	case errors.Is(err, format.ErrEmptyTag):
		return &types.Error{Kind: types.ErrKindInvalid, Msg: msg, Err: err}
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
