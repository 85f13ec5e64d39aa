package util

import (
	"path/filepath"
	"strings"
)

var unsafeFilenameChars = []string{"/", "\\", "?", "%", "*", ":", "|", "\"", "<", ">"}

// SanitizeFilename replaces characters that are unsafe in archive entry
// names with underscores. No length limit and no Unicode normalization is
// applied - collisions between sanitized names are allowed.
func SanitizeFilename(name string) string {
	for _, c := range unsafeFilenameChars {
		name = strings.ReplaceAll(name, c, "_")
	}
	return name
}

// BaseName returns the sanitized filename with its extension removed.
func BaseName(fileName string) string {
	ext := filepath.Ext(fileName)
	return SanitizeFilename(strings.TrimSuffix(fileName, ext))
}
