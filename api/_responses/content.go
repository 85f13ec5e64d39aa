package _responses

import (
	"io"
)

// DownloadResponse streams a single generated artifact back to the client.
type DownloadResponse struct {
	ContentType  string
	Filename     string
	SizeBytes    int64
	Data         io.Reader
	ExtraHeaders map[string]string
}

// ArchiveResponse hands the response body to the batch pipeline: once the
// router has written headers, Assemble owns the socket until the archive
// trailer is flushed. Errors raised after that point cannot change the HTTP
// status - they are logged and the stream is abandoned.
type ArchiveResponse struct {
	Filename string
	Kind     string
	Assemble func(w io.Writer) error
}
