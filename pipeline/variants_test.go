package pipeline

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/mediaforge/mediaforge/common/config"
	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/images"
)

func intPtr(v int) *int {
	return &v
}

func TestImageVariantFilename(t *testing.T) {
	cases := []struct {
		name     string
		variant  VariantSpec
		expected string
	}{
		{"both dimensions", VariantSpec{Width: intPtr(100), Height: intPtr(50), Format: "jpeg"}, "photo_100x50_jpeg.jpeg"},
		{"auto height", VariantSpec{Width: intPtr(200), Format: "png"}, "photo_200xauto_png.png"},
		{"no dimensions", VariantSpec{Format: "png"}, "photo_autoxauto_png.png"},
		{"format defaults to source", VariantSpec{Width: intPtr(64), Height: intPtr(64)}, "photo_64x64_png.png"},
		{"name override", VariantSpec{Width: intPtr(1), Name: "thumb.jpg"}, "thumb.jpg"},
		{"name override sanitized", VariantSpec{Name: `a/b:c.png`}, "a_b_c.png"},
	}
	for _, tc := range cases {
		if got := ImageVariantFilename("photo", tc.variant, "png"); got != tc.expected {
			t.Errorf("%s: got %q, expected %q", tc.name, got, tc.expected)
		}
	}
}

func TestPeaksVariantFilename(t *testing.T) {
	if got := PeaksVariantFilename("track", VariantSpec{}, 800); got != "track_800" {
		t.Errorf("got %q, expected track_800", got)
	}
	if got := PeaksVariantFilename("track", VariantSpec{Name: "dense"}, 800); got != "dense" {
		t.Errorf("got %q, expected dense", got)
	}
}

func TestResolveSampleCount(t *testing.T) {
	cases := []struct {
		name     string
		variant  VariantSpec
		duration float64
		expected int
	}{
		{"default density over one minute", VariantSpec{}, 60, 120},
		{"default density over 30s", VariantSpec{}, 30, 60},
		{"explicit samples win", VariantSpec{Samples: intPtr(500), SamplesPerMinute: intPtr(10)}, 60, 500},
		{"custom density", VariantSpec{SamplesPerMinute: intPtr(60)}, 90, 90},
		{"rounds to nearest", VariantSpec{SamplesPerMinute: intPtr(100)}, 1.234, 2},
	}
	for _, tc := range cases {
		if got := ResolveSampleCount(tc.variant, tc.duration); got != tc.expected {
			t.Errorf("%s: got %d, expected %d", tc.name, got, tc.expected)
		}
	}
}

func testContext() rcontext.RequestContext {
	cfg := config.NewDefaultConfig()
	return rcontext.Initial(&cfg)
}

func testPng(t *testing.T, width int, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	b, err := images.Encode(img, "png")
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// Minimal 1x1 lossless webp. Decodable, but webp has no encoder.
var webpFixture = []byte{
	0x52, 0x49, 0x46, 0x46, 0x1a, 0x00, 0x00, 0x00, 0x57, 0x45, 0x42, 0x50,
	0x56, 0x50, 0x38, 0x4c, 0x0d, 0x00, 0x00, 0x00, 0x2f, 0x00, 0x00, 0x00,
	0x10, 0x07, 0x10, 0x11, 0x11, 0x88, 0x88, 0xfe, 0x07, 0x00,
}

func TestPreflightImages_DecodeOnlySourceFormat(t *testing.T) {
	ctx := testContext()
	inputs := []BatchInput{{Name: "a.webp", Data: webpFixture}}
	m := &Manifest{Outputs: []OutputSpec{{File: "a.webp", Variants: []VariantSpec{{}}}}}

	err := PreflightImages(ctx, m, inputs)
	if err == nil {
		t.Fatal("variant defaulting to an unencodable source format should fail preflight")
	}
	if !strings.Contains(err.Error(), "outputs[0].variants[0].format") || !strings.Contains(err.Error(), "webp") {
		t.Errorf("error should name the variant and format: %v", err)
	}

	m.Outputs[0].Variants[0].Format = "png"
	if err := PreflightImages(ctx, m, inputs); err != nil {
		t.Errorf("explicit encodable target should pass preflight: %v", err)
	}
}

func TestPreflightImages(t *testing.T) {
	ctx := testContext()
	inputs := []BatchInput{{Name: "a.png", Data: testPng(t, 40, 20)}}
	m := &Manifest{Outputs: []OutputSpec{{File: "a.png", Variants: []VariantSpec{{}}}}}
	if err := PreflightImages(ctx, m, inputs); err != nil {
		t.Errorf("small valid image should pass preflight: %v", err)
	}

	inputs[0].Data = []byte("definitely not an image")
	if err := PreflightImages(ctx, m, inputs); err == nil {
		t.Error("undecodable input should fail preflight")
	}

	inputs[0].Data = testPng(t, 40, 20)
	ctx.Config.Images.MaxPixels = 100
	if err := PreflightImages(ctx, m, inputs); err == nil {
		t.Error("image above the pixel cap should fail preflight")
	}
}

func TestRunImageBatch_ArchiveRoundTrip(t *testing.T) {
	ctx := testContext()
	inputs := []BatchInput{{Name: "a.png", Data: testPng(t, 40, 20)}}
	m := &Manifest{Outputs: []OutputSpec{{
		File: "a.png",
		Variants: []VariantSpec{
			{Width: intPtr(10), Height: intPtr(10), Fit: images.FitCover, Format: "jpeg"},
			{Width: intPtr(20), Format: "png"},
		},
	}}}

	buf := &bytes.Buffer{}
	trace := NewTrace(LevelInfo)
	if err := RunImageBatch(ctx, m, inputs, NewZipSink(buf), trace); err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("archive is not a readable zip: %v", err)
	}
	names := []string{
		"manifest.json",
		"images/a/a_10x10_jpeg.jpeg",
		"images/a/a_20xauto_png.png",
		"debug.json",
	}
	if len(zr.File) != len(names) {
		t.Fatalf("expected %d entries, got %d", len(names), len(zr.File))
	}
	for i, name := range names {
		if zr.File[i].Name != name {
			t.Errorf("entry %d is %q, expected %q", i, zr.File[i].Name, name)
		}
	}

	// The jpeg variant decodes back at the requested size.
	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	variantImg, format, err := images.Decode(b)
	if err != nil {
		t.Fatalf("variant does not decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("variant format %q, expected jpeg", format)
	}
	bounds := variantImg.Bounds()
	if bounds.Dx() != 10 || bounds.Dy() != 10 {
		t.Errorf("variant is %dx%d, expected 10x10", bounds.Dx(), bounds.Dy())
	}
}

func TestRunImageBatch_NoDebugEntryWithoutTrace(t *testing.T) {
	ctx := testContext()
	inputs := []BatchInput{{Name: "a.png", Data: testPng(t, 8, 8)}}
	m := &Manifest{Outputs: []OutputSpec{{File: "a.png", Variants: []VariantSpec{{Format: "png"}}}}}

	buf := &bytes.Buffer{}
	if err := RunImageBatch(ctx, m, inputs, NewZipSink(buf), NewTrace(LevelNone)); err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected manifest + 1 variant, got %d entries", len(zr.File))
	}
	for _, f := range zr.File {
		if f.Name == "debug.json" {
			t.Error("debug entry written without a debug level requested")
		}
	}
}
