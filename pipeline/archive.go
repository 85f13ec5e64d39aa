package pipeline

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
)

// EntrySink is a sequential archive target. Entries must be appended one at
// a time and the sink finalized exactly once; after Finalize the underlying
// stream is complete (trailer written).
type EntrySink interface {
	Append(name string, r io.Reader) error
	Finalize() error
}

type zipSink struct {
	zw *zip.Writer
}

// NewZipSink writes a zip archive incrementally to w. Entries are deflated
// and flushed as they are appended, so w may be a live HTTP response.
func NewZipSink(w io.Writer) EntrySink {
	return &zipSink{zw: zip.NewWriter(w)}
}

func (s *zipSink) Append(name string, r io.Reader) error {
	entry, err := s.zw.Create(name)
	if err != nil {
		return err
	}
	if _, err = io.Copy(entry, r); err != nil {
		return err
	}
	return s.zw.Flush()
}

func (s *zipSink) Finalize() error {
	return s.zw.Close()
}

// Assembler owns entry ordering for a batch archive: manifest first, then
// variant artifacts in manifest order, then the optional debug summary.
type Assembler struct {
	sink    EntrySink
	entries int
}

func NewAssembler(sink EntrySink) *Assembler {
	return &Assembler{sink: sink}
}

func (a *Assembler) AppendManifest(m *Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return a.AppendBytes("manifest.json", b)
}

func (a *Assembler) AppendBytes(path string, data []byte) error {
	if err := a.sink.Append(path, bytes.NewReader(data)); err != nil {
		return err
	}
	a.entries++
	return nil
}

// AppendDebug writes the aggregated debug summary as the final entry. A nil
// info (no debug requested) is a no-op.
func (a *Assembler) AppendDebug(info *DebugInfo) error {
	if info == nil {
		return nil
	}
	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return a.AppendBytes("debug.json", b)
}

func (a *Assembler) Entries() int {
	return a.entries
}

func (a *Assembler) Finalize() error {
	return a.sink.Finalize()
}
