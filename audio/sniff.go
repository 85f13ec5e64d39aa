package audio

import (
	"bytes"

	"github.com/mediaforge/mediaforge/util"
)

type FormatTag string

const (
	FormatWav     FormatTag = "wav"
	FormatOgg     FormatTag = "ogg"
	FormatFlac    FormatTag = "flac"
	FormatWebm    FormatTag = "webm"
	FormatM4a     FormatTag = "m4a"
	FormatMp3     FormatTag = "mp3"
	FormatAac     FormatTag = "aac"
	FormatUnknown FormatTag = "unknown"
)

var m4aBrands = [][]byte{
	[]byte("M4A "),
	[]byte("isom"),
	[]byte("mp42"),
	[]byte("mp41"),
}

// Classify inspects magic bytes to determine the audio container type,
// ignoring the filename extension entirely.
func Classify(b []byte) FormatTag {
	if len(b) < 4 {
		return FormatUnknown
	}

	if bytes.HasPrefix(b, []byte{0x52, 0x49, 0x46, 0x46}) && len(b) >= 12 && bytes.Equal(b[8:12], []byte{0x57, 0x41, 0x56, 0x45}) {
		return FormatWav
	}
	if bytes.HasPrefix(b, []byte{0x4F, 0x67, 0x67, 0x53}) {
		return FormatOgg
	}
	if bytes.HasPrefix(b, []byte{0x66, 0x4C, 0x61, 0x43}) {
		return FormatFlac
	}
	if bytes.HasPrefix(b, []byte{0x1A, 0x45, 0xDF, 0xA3}) {
		return FormatWebm
	}
	if len(b) >= 12 && bytes.Equal(b[4:8], []byte{0x66, 0x74, 0x79, 0x70}) {
		for _, brand := range m4aBrands {
			if bytes.Equal(b[8:12], brand) {
				return FormatM4a
			}
		}
	}
	if bytes.HasPrefix(b, []byte{0x49, 0x44, 0x33}) {
		return FormatMp3 // ID3 tag
	}
	if b[0] == 0xFF {
		// ADTS AAC sync has the top nibble of the second byte set; check it
		// before the looser MPEG frame sync (top 3 bits).
		if b[1]&0xF0 == 0xF0 {
			return FormatAac
		}
		if b[1]&0xE0 == 0xE0 {
			return FormatMp3
		}
	}

	return FormatUnknown
}

// IsSupported reports whether a detected tag is on the allowlist of formats
// the waveform tool can read. Unknown tags are not "supported" - callers
// treat them as pass-through and trust the file extension instead.
func IsSupported(tag FormatTag, allowed []string) bool {
	if tag == FormatUnknown {
		return false
	}
	return util.ArrayContains(allowed, string(tag))
}
