package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	// Decode-only formats beyond what imaging registers itself.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnknownFit = errors.New("unrecognized fit mode")
var ErrUndecodable = errors.New("could not decode image")

const (
	FitCover   = "cover"
	FitContain = "contain"
	FitFill    = "fill"
	FitInside  = "inside"
	FitOutside = "outside"
)

// Decode parses an image buffer, returning the decoded image and the name
// of the source format.
func Decode(b []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return img, format, nil
}

// Resize applies a single atomic resize. Width and height may individually
// be zero, meaning "derive from aspect ratio"; when both are given the fit
// mode decides how the source maps onto the target box.
func Resize(src image.Image, width int, height int, fit string) (image.Image, error) {
	if width <= 0 && height <= 0 {
		return src, nil
	}
	if width <= 0 || height <= 0 {
		// Only one bound given - scale preserving aspect ratio.
		return imaging.Resize(src, max0(width), max0(height), imaging.Lanczos), nil
	}

	switch fit {
	case FitCover, "":
		return imaging.Fill(src, width, height, imaging.Center, imaging.Lanczos), nil
	case FitContain:
		fitted := imaging.Fit(src, width, height, imaging.Lanczos)
		canvas := imaging.New(width, height, color.NRGBA{0, 0, 0, 0})
		return imaging.PasteCenter(canvas, fitted), nil
	case FitFill:
		return imaging.Resize(src, width, height, imaging.Lanczos), nil
	case FitInside:
		return imaging.Fit(src, width, height, imaging.Lanczos), nil
	case FitOutside:
		b := src.Bounds()
		scale := math.Max(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
		w := int(math.Round(float64(b.Dx()) * scale))
		h := int(math.Round(float64(b.Dy()) * scale))
		return imaging.Resize(src, w, h, imaging.Lanczos), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFit, fit)
	}
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
