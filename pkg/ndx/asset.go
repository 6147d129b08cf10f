package ndx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joshuapare/ndxkit/internal/codec"
	"github.com/joshuapare/ndxkit/internal/mmfile"
	"github.com/joshuapare/ndxkit/pkg/types"
)

// Asset is a loaded index/data pair. Both blobs are read-only for the life of
// the Asset, so its methods are safe for concurrent use.
type Asset struct {
	index []byte
	data  []byte

	IndexPath string
	DataPath  string

	closers []func() error
}

// Open loads the index and data files. When a path does not exist, the
// compressed variants (path+".zst", path+".lz4") are tried in turn.
// Failures are ErrKindIO errors naming the offending file.
func Open(indexPath, dataPath string) (*Asset, error) {
	a := &Asset{}

	var err error
	a.index, a.IndexPath, err = a.load(indexPath)
	if err != nil {
		return nil, err
	}
	a.data, a.DataPath, err = a.load(dataPath)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// OpenBytes creates an Asset backed by the provided buffers. The buffers must
// not be modified while the Asset is in use.
func OpenBytes(index, data []byte) *Asset {
	return &Asset{index: index, data: data}
}

// Close releases any memory mappings. It is safe to call more than once.
func (a *Asset) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	a.index, a.data = nil, nil
	return errors.Join(errs...)
}

// IndexLen and DataLen report the blob sizes in bytes.
func (a *Asset) IndexLen() int { return len(a.index) }
func (a *Asset) DataLen() int  { return len(a.data) }

func (a *Asset) load(path string) ([]byte, string, error) {
	resolved, typ, err := locate(path)
	if err != nil {
		return nil, path, &types.Error{Kind: types.ErrKindIO, Msg: fmt.Sprintf("open %s", path), Err: err}
	}

	if typ == codec.None {
		b, unmap, err := mmfile.Map(resolved)
		if err != nil {
			return nil, resolved, &types.Error{Kind: types.ErrKindIO, Msg: fmt.Sprintf("read %s", resolved), Err: err}
		}
		a.closers = append(a.closers, unmap)
		return b, resolved, nil
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, resolved, &types.Error{Kind: types.ErrKindIO, Msg: fmt.Sprintf("read %s", resolved), Err: err}
	}
	dec, err := codec.Get(typ)
	if err != nil {
		return nil, resolved, &types.Error{Kind: types.ErrKindIO, Msg: fmt.Sprintf("read %s", resolved), Err: err}
	}
	b, err := dec.Decompress(raw)
	if err != nil {
		return nil, resolved, &types.Error{Kind: types.ErrKindIO, Msg: fmt.Sprintf("decompress %s", resolved), Err: err}
	}
	return b, resolved, nil
}

// locate finds the file to load for path and the compression it carries.
func locate(path string) (string, codec.Type, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return path, codec.Detect(path), nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", codec.None, err
	}
	for _, typ := range codec.Compressed {
		alt := path + typ.Ext()
		if _, err := os.Stat(alt); err == nil {
			return alt, typ, nil
		}
	}
	return "", codec.None, fs.ErrNotExist
}
