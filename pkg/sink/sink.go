// Package sink writes decoded images to their destination.
package sink

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/opencontainers/go-digest"
)

// Sink receives encoded images. Implementations must be safe for concurrent
// use; names are unique within a run.
type Sink interface {
	Write(name string, img image.Image) (Written, error)
}

// Written describes one stored image.
type Written struct {
	Name   string
	Path   string
	Size   int64
	Digest digest.Digest
}

// DirSink writes images as files in a directory.
//
// Files are written to a temporary file in the same directory and renamed
// into place, so partially written images are never visible at the final
// path.
type DirSink struct {
	dir    string
	format Format
	encode imgio.Encoder
	scale  int
}

// DirSinkOption configures a DirSink.
type DirSinkOption func(*DirSink)

// WithFormat selects the output container. Default: PNG.
func WithFormat(f Format) DirSinkOption {
	return func(s *DirSink) {
		s.format = f
	}
}

// WithScale enlarges every image by an integer factor before encoding.
func WithScale(factor int) DirSinkOption {
	return func(s *DirSink) {
		s.scale = factor
	}
}

// NewDirSink creates a DirSink writing to dir. The directory must exist;
// see ResetDir.
func NewDirSink(dir string, opts ...DirSinkOption) (*DirSink, error) {
	s := &DirSink{dir: dir, format: PNG, scale: 1}
	for _, opt := range opts {
		opt(s)
	}
	enc, err := s.format.Encoder()
	if err != nil {
		return nil, err
	}
	if s.scale < 1 {
		return nil, fmt.Errorf("sink: scale must be at least 1, got %d", s.scale)
	}
	s.encode = enc
	return s, nil
}

// Dir returns the output directory.
func (s *DirSink) Dir() string { return s.dir }

// Format returns the output container.
func (s *DirSink) Format() Format { return s.format }

// Write encodes img and stores it as <dir>/<name>.
func (s *DirSink) Write(name string, img image.Image) (Written, error) {
	if name == "" || filepath.Base(name) != name {
		return Written{}, fmt.Errorf("sink: invalid file name %q", name)
	}

	var encoded bytes.Buffer
	if err := s.encode(&encoded, Upscale(img, s.scale)); err != nil {
		return Written{}, fmt.Errorf("sink: encode %s: %w", name, err)
	}

	dest := filepath.Join(s.dir, name)
	if err := writeAtomic(dest, encoded.Bytes()); err != nil {
		return Written{}, fmt.Errorf("sink: write %s: %w", dest, err)
	}
	return Written{
		Name:   name,
		Path:   dest,
		Size:   int64(encoded.Len()),
		Digest: digest.FromBytes(encoded.Bytes()),
	}, nil
}

func writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// ResetDir deletes dir and everything in it, then recreates it empty.
// The empty path, the filesystem root, the working directory and its
// ancestors are refused, as is any dir containing one of the keep paths.
func ResetDir(dir string, keep ...string) error {
	clean := filepath.Clean(dir)
	if dir == "" || clean == "." || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return fmt.Errorf("sink: refusing to reset output directory %q", dir)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("sink: resolve %s: %w", clean, err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("sink: working directory: %w", err)
	}
	for _, k := range append([]string{wd}, keep...) {
		if k == "" {
			continue
		}
		ka, err := filepath.Abs(k)
		if err != nil {
			return fmt.Errorf("sink: resolve %s: %w", k, err)
		}
		if contains(abs, ka) {
			return fmt.Errorf("sink: refusing to reset output directory %q: it contains %s", dir, ka)
		}
	}

	info, err := os.Lstat(clean)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("sink: output path %s exists and is not a directory", clean)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("sink: stat %s: %w", clean, err)
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("sink: clear %s: %w", clean, err)
	}
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return fmt.Errorf("sink: create %s: %w", clean, err)
	}
	return nil
}

// contains reports whether path is dir or lies below it. Both are absolute.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
