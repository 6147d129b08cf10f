package format

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func putSlots(b []byte, off int, vals ...uint32) {
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[off+i*OffsetEntrySize:], v)
	}
}

func TestTableBase(t *testing.T) {
	require.Equal(t, int64(0x810), TableBase(0))
	require.Equal(t, int64(0x810+0xE0C), TableBase(1))
	require.Equal(t, int64(0x810+67*0xE0C), TableBase(67))
}

func TestReadOffsetListStopsAtZero(t *testing.T) {
	b := make([]byte, 64)
	putSlots(b, 8, 5, 10, 0, 99)

	got, err := ReadOffsetList(b, 8)
	require.NoError(t, err)
	require.Equal(t, []uint32{5, 10}, got)
}

func TestReadOffsetListEmpty(t *testing.T) {
	b := make([]byte, 16)

	got, err := ReadOffsetList(b, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestReadOffsetListCap(t *testing.T) {
	b := make([]byte, (MaxTableEntries+8)*OffsetEntrySize)
	for i := 0; i < MaxTableEntries+8; i++ {
		binary.LittleEndian.PutUint32(b[i*OffsetEntrySize:], uint32(i+1))
	}

	got, err := ReadOffsetList(b, 0)
	require.NoError(t, err)
	require.Len(t, got, MaxTableEntries)
	require.Equal(t, uint32(1), got[0])
	require.Equal(t, uint32(MaxTableEntries), got[len(got)-1])
}

func TestReadOffsetListIsPrefixOfRawSlots(t *testing.T) {
	raw := []uint32{3, 1, 4, 1, 5, 9, 2, 6, 0, 5, 3, 5}
	b := make([]byte, MaxTableEntries*OffsetEntrySize)
	putSlots(b, 0, raw...)

	got, err := ReadOffsetList(b, 0)
	require.NoError(t, err)
	require.Equal(t, raw[:8], got)
	require.NotContains(t, got, uint32(0))
}

func TestReadOffsetListOutOfBounds(t *testing.T) {
	b := make([]byte, 12)
	putSlots(b, 0, 1, 2, 3)

	_, err := ReadOffsetList(b, 0)
	require.ErrorIs(t, err, ErrTruncated)

	_, err = ReadOffsetList(b, TableBase(3))
	require.ErrorIs(t, err, ErrTruncated)

	_, err = ReadOffsetList(b, -4)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestReadOffsetListTerminatorNearEnd(t *testing.T) {
	// Only three slots fit, but the zero in slot 2 ends the list first.
	b := make([]byte, 12)
	putSlots(b, 0, 42, 43, 0)

	got, err := ReadOffsetList(b, 0)
	require.NoError(t, err)
	require.Equal(t, []uint32{42, 43}, got)
}
