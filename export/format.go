// Package export writes rendered fractals to image files.
//
// It covers the file side of the engine: choosing an encoder from a file
// name, scaling a view to an export resolution, supersampling and stamping
// a caption with the render parameters.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Errors returned by this package.
var (
	// ErrUnknownFormat is returned for an unsupported file extension or
	// format name.
	ErrUnknownFormat = errors.New("export: unknown image format")

	// ErrResolution is returned for a resolution outside the supported
	// range.
	ErrResolution = errors.New("export: unsupported resolution")
)

// Format is an output image encoding.
type Format uint8

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
)

// DefaultJPEGQuality is used when a quality of zero is requested.
const DefaultJPEGQuality = 95

// String returns the canonical extension without the dot.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ContentType returns the MIME type of the encoding.
func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// ParseFormat resolves a format name or extension, with or without the
// leading dot. "jpeg" and "jpg" both select JPEG.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from a file name. A name without an
// extension is written as PNG.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return PNG, nil
	}
	return ParseFormat(ext)
}

// Encode writes img to w. Quality applies to JPEG only, 1..100; zero
// selects DefaultJPEGQuality.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		return enc.Encode(w, img)
	case JPEG:
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: min(quality, 100)})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

// WriteFile encodes img into the file at path, choosing the format from
// the extension.
func WriteFile(path string, img image.Image, quality int) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	return Encode(out, img, f, quality)
}
