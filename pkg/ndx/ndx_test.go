package ndx

import (
	"encoding/binary"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ndxkit/internal/format"
	"github.com/joshuapare/ndxkit/internal/testutil"
	"github.com/joshuapare/ndxkit/pkg/types"
)

func TestResolveSection(t *testing.T) {
	b := testutil.NewBuilder(2).AddTag("TEST", 0x100).AddTag("OAN1", 31)
	a := OpenBytes(b.Build())

	v, err := a.ResolveSection(types.Offset(12))
	require.NoError(t, err)
	assert.Equal(t, uint32(12), v)

	v, err = a.ResolveSection(types.Tag("TEST"))
	require.NoError(t, err)
	assert.Equal(t, uint32(256), v)

	v, err = a.ResolveSection(types.Tag("OAN1"))
	require.NoError(t, err)
	assert.Equal(t, uint32(31), v)

	_, err = a.ResolveSection(types.Tag("DOBS"))
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestOffsetList(t *testing.T) {
	b := testutil.NewBuilder(4).SetSection(2, 5, 10, 0, 99)
	a := OpenBytes(b.Build())

	got, err := a.OffsetList(2)
	require.NoError(t, err)
	require.Equal(t, []uint32{5, 10}, got)

	got, err = a.OffsetList(0)
	require.NoError(t, err)
	require.Empty(t, got)

	// Section 10 lies past the end of a four-section index.
	_, err = a.OffsetList(10)
	require.ErrorIs(t, err, types.ErrOutOfBounds)
	require.Equal(t, format.TableBase(10), a.TableOffset(10))
}

func TestDecodeRecordHeaderDimensions(t *testing.T) {
	b := testutil.NewBuilder(1)
	off := b.AddRecord(testutil.Record{
		HasHeader: true,
		Width:     3,
		Height:    2,
		Pixels: []testutil.Pixel{
			{10, 20, 30},
			testutil.Key,
			{1, 1, 2},
			{0, 0, 0},
			{255, 128, 64},
		},
	})
	a := OpenBytes(b.Build())

	img, err := a.DecodeRecord(off, types.DefaultSectionConfig())
	require.NoError(t, err)
	require.Equal(t, 3, img.Rect.Dx())
	require.Equal(t, 2, img.Rect.Dy())

	assert.Equal(t, color.NRGBA{0, 0, 0, 0}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 30, G: 20, B: 10, A: 255}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 0}, img.NRGBAAt(2, 0))
	assert.Equal(t, color.NRGBA{R: 2, G: 1, B: 1, A: 255}, img.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 0, A: 255}, img.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{R: 64, G: 128, B: 255, A: 255}, img.NRGBAAt(2, 1))
}

func TestDecodeRecordForcedDimensions(t *testing.T) {
	b := testutil.NewBuilder(1)
	withHeader := b.AddRecord(testutil.Record{HasHeader: true, Width: 1, Height: 1, Pixels: testutil.Solid(testutil.Pixel{9, 8, 7}, 20)})
	noHeader := b.AddRecord(testutil.Record{Pixels: testutil.Solid(testutil.Pixel{9, 8, 7}, 20)})
	a := OpenBytes(b.Build())

	img, err := a.DecodeRecord(withHeader, types.SectionConfig{HasHeader: true, Width: 4, Height: 4})
	require.NoError(t, err)
	require.Equal(t, 4, img.Rect.Dx())
	require.Equal(t, 4, img.Rect.Dy())
	require.Equal(t, color.NRGBA{R: 7, G: 8, B: 9, A: 255}, img.NRGBAAt(3, 3))

	img, err = a.DecodeRecord(noHeader, types.SectionConfig{Width: 2, Height: 3})
	require.NoError(t, err)
	require.Equal(t, 2, img.Rect.Dx())
	require.Equal(t, 3, img.Rect.Dy())
	require.Len(t, img.Pix, 2*3*4)
}

func TestDecodeRecordSkips(t *testing.T) {
	b := testutil.NewBuilder(1)
	zeroWidth := b.AddRecord(testutil.Record{HasHeader: true, Width: 0, Height: 5, Pixels: testutil.Solid(testutil.Key, 4)})
	zeroHeight := b.AddRecord(testutil.Record{HasHeader: true, Width: 5, Height: 0, Pixels: testutil.Solid(testutil.Key, 4)})
	empty := b.AddRecord(testutil.Record{HasHeader: true, Width: 5, Height: 5, StoredLength: format.RecordHeaderSize})
	tooLong := b.AddRecord(testutil.Record{HasHeader: true, Width: 5, Height: 5, StoredLength: 1 << 20})
	noHeaderNoSize := b.AddRecord(testutil.Record{Pixels: testutil.Solid(testutil.Key, 4)})
	a := OpenBytes(b.Build())

	cases := map[string]struct {
		off uint32
		cfg types.SectionConfig
	}{
		"zero width":         {zeroWidth, types.DefaultSectionConfig()},
		"zero height":        {zeroHeight, types.DefaultSectionConfig()},
		"empty payload":      {empty, types.DefaultSectionConfig()},
		"payload past end":   {tooLong, types.DefaultSectionConfig()},
		"offset past end":    {1 << 24, types.DefaultSectionConfig()},
		"no header, no size": {noHeaderNoSize, types.SectionConfig{}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			img, err := a.DecodeRecord(tc.off, tc.cfg)
			require.Nil(t, img)
			require.ErrorIs(t, err, types.ErrSkipped)
		})
	}

	// A forced width rescues a record whose header says zero.
	img, err := a.DecodeRecord(zeroWidth, types.SectionConfig{HasHeader: true, Width: 2})
	require.NoError(t, err)
	require.Equal(t, 2, img.Rect.Dx())
}

func TestStoredLengthTwentyLeavesSixPayloadBytes(t *testing.T) {
	b := testutil.NewBuilder(1)
	off := b.AddRecord(testutil.Record{
		HasHeader:    true,
		Width:        2,
		Height:       1,
		Pixels:       []testutil.Pixel{{1, 2, 3}, {4, 5, 6}},
		StoredLength: 20,
	})
	a := OpenBytes(b.Build())

	info, err := a.InspectRecord(off, types.DefaultSectionConfig())
	require.NoError(t, err)
	require.Equal(t, 6, info.PayloadLen)
	require.Equal(t, 1, info.Pixels())

	img, err := a.DecodeRecord(off, types.DefaultSectionConfig())
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 3, G: 2, B: 1, A: 255}, img.NRGBAAt(1, 0))
}

func TestDecodeRecordNegativeForcedSize(t *testing.T) {
	a := OpenBytes(testutil.NewBuilder(1).Build())
	_, err := a.DecodeRecord(16, types.SectionConfig{HasHeader: true, Width: -1})
	require.ErrorIs(t, err, types.ErrInvalid)
}

func TestOpenFiles(t *testing.T) {
	dir := t.TempDir()
	b := testutil.NewBuilder(8).SetSection(7, 16)
	b.AddRecord(testutil.Record{HasHeader: true, Width: 1, Height: 1})
	indexPath, dataPath := b.WriteFiles(t, dir, "drak24")

	a, err := Open(indexPath, dataPath)
	require.NoError(t, err)
	defer a.Close()

	wantIndex, wantData := b.Build()
	require.Equal(t, len(wantIndex), a.IndexLen())
	require.Equal(t, len(wantData), a.DataLen())

	got, err := a.OffsetList(7)
	require.NoError(t, err)
	require.Equal(t, []uint32{16}, got)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func TestOpenCompressedFallback(t *testing.T) {
	dir := t.TempDir()
	b := testutil.NewBuilder(2).SetSection(1, 16, 0)
	b.AddRecord(testutil.Record{HasHeader: true, Width: 1, Height: 1})
	index, data := b.Build()

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drak24.ndx.zst"), enc.EncodeAll(index, nil), 0o644))
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drak24.dat"), data, 0o644))

	a, err := Open(filepath.Join(dir, "drak24.ndx"), filepath.Join(dir, "drak24.dat"))
	require.NoError(t, err)
	defer a.Close()

	require.Equal(t, filepath.Join(dir, "drak24.ndx.zst"), a.IndexPath)
	got, err := a.OffsetList(1)
	require.NoError(t, err)
	require.Equal(t, []uint32{16}, got)
}

func TestOpenMissingFile(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "drak24.ndx")
	require.NoError(t, os.WriteFile(indexPath, make([]byte, 8), 0o644))

	_, err := Open(indexPath, filepath.Join(dir, "drak24.dat"))
	require.ErrorIs(t, err, types.ErrIO)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), "drak24.dat")
}

func TestOpenCorruptCompressed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.ndx.lz4"), []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.dat"), nil, 0o644))

	_, err := Open(filepath.Join(dir, "x.ndx"), filepath.Join(dir, "x.dat"))
	require.ErrorIs(t, err, types.ErrIO)
	require.Contains(t, err.Error(), "x.ndx.lz4")
}

func TestTagBackPointerBeforeIndexStart(t *testing.T) {
	index := append([]byte("DK64"), make([]byte, 12)...)
	binary.LittleEndian.PutUint32(index[8:], 1)
	a := OpenBytes(index, nil)

	_, err := a.ResolveSection(types.Tag("DK64"))
	require.ErrorIs(t, err, types.ErrOutOfBounds)
}
