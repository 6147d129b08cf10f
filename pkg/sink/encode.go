package sink

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/tiff"
)

// Format names an output image container.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	JPEG Format = "jpg"
	TIFF Format = "tiff"
)

// Formats lists the supported output formats.
var Formats = []Format{PNG, BMP, JPEG, TIFF}

// jpegQuality is used for JPEG output. JPEG has no alpha channel, so
// transparent pixels come out black.
const jpegQuality = 95

// ParseFormat accepts a format name or common alias ("jpeg", "tif").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("sink: unsupported format %q (want one of %v)", s, Formats)
	}
}

// Ext returns the file extension for f without the dot.
func (f Format) Ext() string { return string(f) }

// Encoder returns the encoding function for f.
func (f Format) Encoder() (imgio.Encoder, error) {
	switch f {
	case PNG:
		return imgio.PNGEncoder(), nil
	case BMP:
		return imgio.BMPEncoder(), nil
	case JPEG:
		return imgio.JPEGEncoder(jpegQuality), nil
	case TIFF:
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("sink: unsupported format %q", string(f))
	}
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling,
// keeping hard pixel edges and the transparency key intact. A factor below 2
// returns img unchanged.
func Upscale(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*factor, b.Dy()*factor, transform.NearestNeighbor)
}
