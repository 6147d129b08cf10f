package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// lz4Decompressor reads the LZ4 frame format written by the lz4 command
// line tool, so the uncompressed size does not need to be known up front.
type lz4Decompressor struct{}

func (lz4Decompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("codec: lz4: %w", err)
	}
	return out, nil
}
