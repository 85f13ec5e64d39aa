package images

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func testImage(w int, h int) image.Image {
	return imaging.New(w, h, color.NRGBA{R: 128, G: 64, B: 32, A: 255})
}

func TestResize_FitModes(t *testing.T) {
	src := testImage(400, 200)

	cases := []struct {
		fit       string
		width     int
		height    int
		expectedW int
		expectedH int
	}{
		{FitCover, 100, 100, 100, 100},
		{FitContain, 100, 100, 100, 100},
		{FitFill, 100, 100, 100, 100},
		{FitInside, 100, 100, 100, 50},
		{FitOutside, 100, 100, 200, 100},
		{"", 100, 100, 100, 100}, // default is cover
	}

	for _, c := range cases {
		name := c.fit
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			out, err := Resize(src, c.width, c.height, c.fit)
			if err != nil {
				t.Fatal(err)
			}
			b := out.Bounds()
			if b.Dx() != c.expectedW || b.Dy() != c.expectedH {
				t.Errorf("expected %dx%d, got %dx%d", c.expectedW, c.expectedH, b.Dx(), b.Dy())
			}
		})
	}
}

func TestResize_SingleDimension(t *testing.T) {
	src := testImage(400, 200)

	out, err := Resize(src, 100, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("width-only resize: expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}

	out, err = Resize(src, 0, 100, "")
	if err != nil {
		t.Fatal(err)
	}
	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("height-only resize: expected 200x100, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestResize_NoDimensionsIsIdentity(t *testing.T) {
	src := testImage(40, 20)
	out, err := Resize(src, 0, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if out != src {
		t.Error("expected the source image back when no bounds are given")
	}
}

func TestResize_UnknownFit(t *testing.T) {
	_, err := Resize(testImage(10, 10), 5, 5, "stretchy")
	if !errors.Is(err, ErrUnknownFit) {
		t.Errorf("expected ErrUnknownFit, got %v", err)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	src := testImage(20, 10)
	for _, format := range []string{"png", "jpeg", "gif", "bmp", "tiff"} {
		t.Run(format, func(t *testing.T) {
			b, err := Encode(src, format)
			if err != nil {
				t.Fatal(err)
			}
			decoded, _, err := Decode(b)
			if err != nil {
				t.Fatal(err)
			}
			bounds := decoded.Bounds()
			if bounds.Dx() != 20 || bounds.Dy() != 10 {
				t.Errorf("expected 20x10, got %dx%d", bounds.Dx(), bounds.Dy())
			}
		})
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Encode(testImage(5, 5), "webp")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestContentTypeForFormat(t *testing.T) {
	if ct := ContentTypeForFormat("jpg"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", ct)
	}
	if ct := ContentTypeForFormat("mystery"); ct != "application/octet-stream" {
		t.Errorf("expected octet-stream fallback, got %s", ct)
	}
}
