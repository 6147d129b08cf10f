// Package codec decompresses index and data blobs that were stored
// compressed next to (or instead of) the plain game files.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Type identifies the compression applied to a blob file.
type Type uint8

const (
	None Type = iota
	Zstd
	LZ4
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Ext returns the file suffix used for t, including the dot.
func (t Type) Ext() string {
	switch t {
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// Compressed lists the compressed variants in lookup order.
var Compressed = []Type{Zstd, LZ4}

// Decompressor restores the original bytes of a compressed blob.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Detect returns the compression implied by the suffix of path.
func Detect(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

var builtin = map[Type]Decompressor{
	Zstd: zstdDecompressor{},
	LZ4:  lz4Decompressor{},
}

// Get retrieves the Decompressor for t. None has no decompressor.
func Get(t Type) (Decompressor, error) {
	if d, ok := builtin[t]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("codec: unsupported compression type: %s", t)
}
