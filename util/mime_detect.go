package util

import (
	"github.com/gabriel-vasile/mimetype"
)

// DetectMimeType sniffs the content type from a buffer's leading bytes.
func DetectMimeType(b []byte) string {
	return mimetype.Detect(b).String()
}
