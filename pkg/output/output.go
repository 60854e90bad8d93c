// Package output encodes rendered images to disk.
package output

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

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultQuality is the JPEG quality used when none is configured
const DefaultQuality = 90

// Options controls lossy encoders
type Options struct {
	Quality int // JPEG quality in [1, 100]
}

// Formats lists the file extensions Save understands
func Formats() []string {
	return []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff"}
}

// Save encodes img to path, choosing the encoder from the file extension.
// Missing parent directories are created.
func Save(path string, img image.Image, opts Options) error {
	encode, err := encoderFor(path, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("while creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("while creating output file: %w", err)
	}

	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("while encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("while closing %s: %w", path, err)
	}
	return nil
}

// Encode writes img to w in the format named by ext (".png", ".webp", ...)
func Encode(w io.Writer, ext string, img image.Image, opts Options) error {
	encode, err := encoderFor(ext, opts)
	if err != nil {
		return err
	}
	return encode(w, img)
}

// MIMEType returns the media type for an extension Encode accepts
func MIMEType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "image/" + strings.TrimPrefix(strings.ToLower(ext), ".")
	}
}

type encodeFunc func(w io.Writer, img image.Image) error

// CheckFormat returns ErrUnsupportedFormat if Save cannot write path,
// so callers can fail before rendering
func CheckFormat(path string) error {
	_, err := encoderFor(path, Options{})
	return err
}

func encoderFor(path string, opts Options) (encodeFunc, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return png.Encode, nil
	case ".jpg", ".jpeg":
		quality := opts.Quality
		if quality <= 0 {
			quality = DefaultQuality
		}
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: min(quality, 100)})
		}, nil
	case ".webp":
		// Lossless VP8L
		return func(w io.Writer, img image.Image) error {
			return nativewebp.Encode(w, img, nil)
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(Formats(), ", "))
	}
}

// Downsample scales img to width x height with a Catmull-Rom filter.
// Used to resolve supersampled renders; returns img unchanged when the size already matches.
func Downsample(img *image.RGBA, width, height int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
