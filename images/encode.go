package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

var ErrUnknownFormat = errors.New("unrecognized target format")

var encodableFormats = map[string]imaging.Format{
	"jpeg": imaging.JPEG,
	"jpg":  imaging.JPEG,
	"png":  imaging.PNG,
	"gif":  imaging.GIF,
	"tiff": imaging.TIFF,
	"bmp":  imaging.BMP,
}

var formatContentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"tiff": "image/tiff",
	"bmp":  "image/bmp",
}

func IsEncodableFormat(format string) bool {
	_, ok := encodableFormats[format]
	return ok
}

func ContentTypeForFormat(format string) string {
	if ct, ok := formatContentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Encode serializes an image to the named target format.
func Encode(img image.Image, format string) ([]byte, error) {
	f, ok := encodableFormats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, f); err != nil {
		return nil, errors.New("error encoding image: " + err.Error())
	}
	return buf.Bytes(), nil
}
