package common

import (
	"errors"
)

var ErrMediaTooLarge = errors.New("media too large")
var ErrUnsupportedFormat = errors.New("unsupported media format")
var ErrInvalidManifest = errors.New("invalid manifest JSON")
var ErrSampleCountOutOfRange = errors.New("sample count out of range")
