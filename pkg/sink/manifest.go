package sink

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/opencontainers/go-digest"
)

// ManifestFile is the name of the manifest written next to the images.
const ManifestFile = "manifest.json"

// Entry records one written image. Seq is the global decode order.
type Entry struct {
	Seq       int           `json:"seq"`
	Name      string        `json:"name"`
	Section   string        `json:"section"`
	Counter   int           `json:"counter"`
	Offset    uint32        `json:"offset"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	PixelHash string        `json:"pixel_hash"`
	Digest    digest.Digest `json:"digest"`
	Size      int64         `json:"size"`
}

// PixelHash returns the xxhash64 of the raw pixel buffer of img as hex. Two
// decodes of the same record hash identically regardless of output format.
func PixelHash(img image.Image) string {
	var pix []byte
	switch m := img.(type) {
	case *image.NRGBA:
		pix = m.Pix
	case *image.RGBA:
		pix = m.Pix
	default:
		b := m.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, a := m.At(x, y).RGBA()
				pix = append(pix, byte(r>>8), byte(g>>8), byte(bl>>8), byte(a>>8))
			}
		}
	}
	return strconv.FormatUint(xxhash.Sum64(pix), 16)
}

// Manifest collects entries from concurrent writers and serialises them in
// decode order.
type Manifest struct {
	mu      sync.Mutex
	entries []Entry
}

// Add records e. It is safe for concurrent use.
func (m *Manifest) Add(e Entry) {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
}

// Entries returns the recorded entries sorted by Seq.
func (m *Manifest) Entries() []Entry {
	m.mu.Lock()
	out := append([]Entry(nil), m.entries...)
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// WriteFile stores the manifest as indented JSON at <dir>/manifest.json.
func (m *Manifest) WriteFile(dir string) error {
	doc := struct {
		Images []Entry `json:"images"`
	}{Images: m.Entries()}
	if doc.Images == nil {
		doc.Images = []Entry{}
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("sink: manifest: %w", err)
	}
	raw = append(raw, '\n')
	if err := writeAtomic(filepath.Join(dir, ManifestFile), raw); err != nil {
		return fmt.Errorf("sink: manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteFile.
func ReadManifest(dir string) ([]Entry, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var doc struct {
		Images []Entry `json:"images"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("sink: manifest: %w", err)
	}
	return doc.Images, nil
}
