package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(60 * x), G: uint8(100 * y), B: 128, A: 255})
		}
	}
	return img
}

func TestSave_Lossless(t *testing.T) {
	decoders := map[string]func(*os.File) (image.Image, error){
		"out.png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"out.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
		"out.tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
		"out.TIF":  func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
	}

	src := testImage()
	for name, decode := range decoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, src, Options{}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			got, err := decode(f)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("Expected bounds %v, got %v", src.Bounds(), got.Bounds())
			}
			for y := 0; y < 3; y++ {
				for x := 0; x < 4; x++ {
					r1, g1, b1, _ := src.At(x, y).RGBA()
					r2, g2, b2, _ := got.At(x, y).RGBA()
					if r1>>8 != r2>>8 || g1>>8 != g2>>8 || b1>>8 != b2>>8 {
						t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, src.At(x, y), got.At(x, y))
					}
				}
			}
		})
	}
}

func TestSave_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jpg")
	if err := Save(path, testImage(), Options{Quality: 95}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 3 {
		t.Errorf("Expected 4x3, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSave_WebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")
	if err := Save(path, testImage(), Options{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		t.Errorf("Expected a RIFF/WEBP container, got header %q", data[:min(12, len(data))])
	}
}

func TestSave_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	err := Save(path, testImage(), Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("Expected no file to be created for an unsupported format")
	}
}

func TestCheckFormat(t *testing.T) {
	for _, path := range []string{"a.png", "b.JPG", "c/d.jpeg", "e.webp", "f.bmp", "g.tif", "h.tiff"} {
		if err := CheckFormat(path); err != nil {
			t.Errorf("CheckFormat(%q) = %v, want nil", path, err)
		}
	}
	for _, path := range []string{"a.gif", "noext", "b.png.txt"} {
		if err := CheckFormat(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("CheckFormat(%q) = %v, want ErrUnsupportedFormat", path, err)
		}
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, ".png", testImage(), Options{}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Expected PNG output: %v", err)
	}
	if img.Bounds() != testImage().Bounds() {
		t.Errorf("Expected bounds %v, got %v", testImage().Bounds(), img.Bounds())
	}

	if err := Encode(&buf, ".gif", testImage(), Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestMIMEType(t *testing.T) {
	tests := map[string]string{
		".png":  "image/png",
		".JPG":  "image/jpeg",
		".webp": "image/webp",
		".tif":  "image/tiff",
		".bmp":  "image/bmp",
	}
	for ext, want := range tests {
		if got := MIMEType(ext); got != want {
			t.Errorf("MIMEType(%q) = %q, want %q", ext, got, want)
		}
	}
}

func TestDownsample(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			src.SetRGBA(x, y, fill)
		}
	}

	dst := Downsample(src, 4, 3)
	if dst.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("Expected 4x3 result, got %v", dst.Bounds())
	}

	near := func(a, b uint8) bool { return a-b <= 1 || b-a <= 1 }
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			got := dst.RGBAAt(x, y)
			if !near(got.R, fill.R) || !near(got.G, fill.G) || !near(got.B, fill.B) {
				t.Errorf("Pixel (%d,%d): expected about %v, got %v", x, y, fill, got)
			}
		}
	}
}

func TestDownsample_SameSize(t *testing.T) {
	src := testImage()
	if got := Downsample(src, 4, 3); got != src {
		t.Error("Expected the same image back when no scaling is needed")
	}
}
