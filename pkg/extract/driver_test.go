package extract

import (
	"context"
	"errors"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ndxkit/internal/testutil"
	"github.com/joshuapare/ndxkit/pkg/catalog"
	"github.com/joshuapare/ndxkit/pkg/ndx"
	"github.com/joshuapare/ndxkit/pkg/sink"
	"github.com/joshuapare/ndxkit/pkg/types"
)

var (
	red  = testutil.Pixel{0x00, 0xFF, 0x00}
	blue = testutil.Pixel{0xFF, 0x00, 0x00}
)

func smallType() catalog.AssetType {
	return catalog.AssetType{
		Name:     "test",
		Sections: 3,
		Excluded: []uint32{1},
		Named: []catalog.NamedSection{
			{Tag: "OAN1", Config: types.SectionConfig{Width: 2, Height: 1}},
		},
	}
}

// smallAsset has two images and one zero-width record in section 0, a
// record in the excluded section 1 and one image in section 2.
func smallAsset() *ndx.Asset {
	b := testutil.NewBuilder(3)
	a := b.AddRecord(testutil.Record{HasHeader: true, Width: 2, Height: 1, Pixels: []testutil.Pixel{red}})
	bad := b.AddRecord(testutil.Record{HasHeader: true, Width: 0, Height: 1, Pixels: []testutil.Pixel{red}})
	c := b.AddRecord(testutil.Record{HasHeader: true, Width: 1, Height: 1})
	d := b.AddRecord(testutil.Record{HasHeader: true, Width: 2, Height: 2, Pixels: testutil.Solid(blue, 3)})
	b.SetSection(0, a, bad, c).SetSection(1, a).SetSection(2, d)
	b.AddTag("OAN1", 1)
	return ndx.OpenBytes(b.Build())
}

func dirSink(t *testing.T) *sink.DirSink {
	t.Helper()
	s, err := sink.NewDirSink(t.TempDir())
	require.NoError(t, err)
	return s
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRunNamesImagesPerSection(t *testing.T) {
	out := dirSink(t)
	rep, err := New(smallAsset(), smallType(), out, Options{Workers: 2}).Run(context.Background())
	require.NoError(t, err)

	// The zero-width record does not consume a counter value.
	assert.Equal(t, []string{"0-0.png", "0-1.png", "2-0.png"}, listFiles(t, out.Dir()))
	assert.Equal(t, 3, rep.Images)
	assert.Equal(t, 3, rep.Written)
	assert.Equal(t, 1, rep.Skipped)
	assert.False(t, rep.Failed())

	require.Len(t, rep.Sections, 2)
	assert.Equal(t, types.Offset(0), rep.Sections[0].ID)
	assert.Equal(t, 3, rep.Sections[0].Offsets)
	assert.Equal(t, 2, rep.Sections[0].Images)
	assert.Equal(t, 1, rep.Sections[0].Skipped)
	assert.Equal(t, 1, rep.Sections[1].Images)
}

func TestRunExplicitExcludedSection(t *testing.T) {
	out := dirSink(t)
	ids := []types.SectionID{types.Offset(1), types.Offset(2)}
	rep, err := New(smallAsset(), smallType(), out, Options{Sections: ids}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Sections, 2)
	assert.True(t, rep.Sections[0].Excluded)
	assert.Zero(t, rep.Sections[0].Images)
	assert.Equal(t, []string{"2-0.png"}, listFiles(t, out.Dir()))
}

func TestRunDrak24NeverDecodesSection66(t *testing.T) {
	b := testutil.NewBuilder(catalog.DefaultSectionCount)
	off := b.AddRecord(testutil.Record{HasHeader: true, Width: 1, Height: 1, Pixels: []testutil.Pixel{red}})
	b.SetSection(66, off).SetSection(6, off).SetSection(34, off)
	src := &spySource{Source: ndx.OpenBytes(b.Build())}

	out := dirSink(t)
	rep, err := New(src, catalog.Drak24(), out, Options{}).Run(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, src.lists, uint32(66))
	assert.NotContains(t, src.lists, uint32(34))
	assert.Equal(t, []uint32{6, 7, 10, 24, 26, 27, 28, 29, 30, 31}, src.lists)
	assert.Equal(t, []string{"6-0.png"}, listFiles(t, out.Dir()))
	assert.Equal(t, 1, rep.Written)

	// Section 6 uses the forced 64x64 icon size.
	f, err := os.Open(filepath.Join(out.Dir(), "6-0.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 64, cfg.Height)
}

func TestRunTagSection(t *testing.T) {
	out := dirSink(t)
	ids := []types.SectionID{types.Tag("OAN1")}
	rep, err := New(smallAsset(), smallType(), out, Options{Sections: ids}).Run(context.Background())
	require.NoError(t, err)

	// OAN1 resolves to section 1; exclusion applies to numbered ids only.
	require.Len(t, rep.Sections, 1)
	assert.Equal(t, uint32(1), rep.Sections[0].Section)
	assert.Equal(t, []string{"OAN1-0.png"}, listFiles(t, out.Dir()))
}

func TestRunDeterministic(t *testing.T) {
	run := func() (string, []sink.Entry) {
		out := dirSink(t)
		m := &sink.Manifest{}
		_, err := New(smallAsset(), smallType(), out, Options{Workers: 4, Manifest: m}).Run(context.Background())
		require.NoError(t, err)
		return out.Dir(), m.Entries()
	}

	dirA, entriesA := run()
	dirB, entriesB := run()

	names := listFiles(t, dirA)
	require.Equal(t, names, listFiles(t, dirB))
	for _, n := range names {
		a, err := os.ReadFile(filepath.Join(dirA, n))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, n))
		require.NoError(t, err)
		assert.Equal(t, a, b, n)
	}

	require.Len(t, entriesA, 3)
	assert.Equal(t, entriesA, entriesB)
	for i, e := range entriesA {
		assert.Equal(t, i, e.Seq)
	}
	assert.Equal(t, "0-1.png", entriesA[1].Name)
	assert.Equal(t, 1, entriesA[1].Counter)
}

func TestRunWriteFailureDoesNotAbort(t *testing.T) {
	fs := &failingSink{fail: "0-0.png"}
	rep, err := New(smallAsset(), smallType(), fs, Options{Workers: 1}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.FailedWrites, 1)
	assert.Equal(t, "0-0.png", rep.FailedWrites[0].Name)
	assert.ErrorIs(t, rep.FailedWrites[0], errDiskFull)
	assert.Equal(t, 3, rep.Images)
	assert.Equal(t, 2, rep.Written)
	assert.ElementsMatch(t, []string{"0-1.png", "2-0.png"}, fs.names())
	assert.True(t, rep.Failed())
}

func TestRunSectionFailureContinues(t *testing.T) {
	out := dirSink(t)
	ids := []types.SectionID{types.Tag("NOPE"), types.Offset(40), types.Offset(2)}
	typ := smallType()
	typ.Sections = 50
	rep, err := New(smallAsset(), typ, out, Options{Sections: ids}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Sections, 3)
	assert.ErrorIs(t, rep.Sections[0].Err, types.ErrNotFound)
	assert.ErrorIs(t, rep.Sections[1].Err, types.ErrOutOfBounds)
	assert.NoError(t, rep.Sections[2].Err)
	assert.Equal(t, 2, rep.FailedSections())
	assert.Equal(t, []string{"2-0.png"}, listFiles(t, out.Dir()))
}

func TestRunInvalidSectionConfig(t *testing.T) {
	typ := smallType()
	typ.Overrides = map[uint32]types.SectionConfig{2: {HasHeader: false}}
	rep, err := New(smallAsset(), typ, dirSink(t), Options{Sections: []types.SectionID{types.Offset(2)}}).Run(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, rep.Sections[0].Err, types.ErrInvalid)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := New(smallAsset(), smallType(), dirSink(t), Options{}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rep.Sections)
}

type spySource struct {
	Source
	lists []uint32
}

func (s *spySource) OffsetList(section uint32) ([]uint32, error) {
	s.lists = append(s.lists, section)
	return s.Source.OffsetList(section)
}

var errDiskFull = errors.New("disk full")

type failingSink struct {
	fail    string
	mu      sync.Mutex
	written []string
}

func (s *failingSink) Write(name string, _ image.Image) (sink.Written, error) {
	if name == s.fail {
		return sink.Written{}, errDiskFull
	}
	s.mu.Lock()
	s.written = append(s.written, name)
	s.mu.Unlock()
	return sink.Written{Name: name}, nil
}

func (s *failingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.written...)
}
