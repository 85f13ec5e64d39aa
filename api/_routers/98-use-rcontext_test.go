package _routers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mediaforge/mediaforge/api/_responses"
	"github.com/mediaforge/mediaforge/common/config"
	"github.com/mediaforge/mediaforge/common/rcontext"
)

func serveGenerator(t *testing.T, fn GeneratorFn) *httptest.ResponseRecorder {
	t.Helper()
	conf := config.NewDefaultConfig()
	handler := NewInstallMetadataRouter("test", &RequestCounter{}, NewRContextRouter(fn, &conf, nil))

	req := httptest.NewRequest("POST", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRContextRouter_JsonByDefault(t *testing.T) {
	w := serveGenerator(t, func(r *http.Request, ctx rcontext.RequestContext) interface{} {
		return map[string]string{"hello": "world"}
	})
	if w.Code != http.StatusOK {
		t.Errorf("status %d, expected 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q, expected application/json", ct)
	}
	body := map[string]string{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["hello"] != "world" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestRContextRouter_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		res    *_responses.ErrorResponse
		status int
	}{
		{_responses.BadRequest("nope", "field: bad"), 400},
		{_responses.NotFoundError(), 404},
		{_responses.MethodNotAllowed(), 405},
		{_responses.RateLimitReached(), 429},
		{_responses.InternalServerError("boom"), 500},
	}
	for _, tc := range cases {
		res := tc.res
		w := serveGenerator(t, func(r *http.Request, ctx rcontext.RequestContext) interface{} {
			return res
		})
		if w.Code != tc.status {
			t.Errorf("%q: status %d, expected %d", tc.res.Error, w.Code, tc.status)
		}
		body := map[string]interface{}{}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%q: body is not JSON: %v", tc.res.Error, err)
		}
		if body["error"] != tc.res.Error {
			t.Errorf("%q: error field %v", tc.res.Error, body["error"])
		}
	}
}

func TestRContextRouter_ErrorDetailsSerialized(t *testing.T) {
	w := serveGenerator(t, func(r *http.Request, ctx rcontext.RequestContext) interface{} {
		return _responses.BadRequest("manifest validation failed", "outputs[0].file: a filename is required")
	})
	if !strings.Contains(w.Body.String(), "outputs[0].file") {
		t.Errorf("details missing from body: %s", w.Body.String())
	}
}

func TestRContextRouter_DownloadResponse(t *testing.T) {
	payload := []byte("artifact bytes")
	w := serveGenerator(t, func(r *http.Request, ctx rcontext.RequestContext) interface{} {
		return &_responses.DownloadResponse{
			ContentType: "image/png",
			Filename:    "out.png",
			SizeBytes:   int64(len(payload)),
			Data:        bytes.NewReader(payload),
		}
	})
	if w.Code != http.StatusOK {
		t.Errorf("status %d, expected 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "out.png") {
		t.Errorf("disposition %q does not carry the filename", cd)
	}
	if !bytes.Equal(w.Body.Bytes(), payload) {
		t.Error("body does not match the artifact")
	}
}

func TestRContextRouter_ArchiveResponse(t *testing.T) {
	w := serveGenerator(t, func(r *http.Request, ctx rcontext.RequestContext) interface{} {
		return &_responses.ArchiveResponse{
			Filename: "images.zip",
			Kind:     "image",
			Assemble: func(out io.Writer) error {
				zw := zip.NewWriter(out)
				entry, err := zw.Create("manifest.json")
				if err != nil {
					return err
				}
				if _, err = entry.Write([]byte("{}")); err != nil {
					return err
				}
				return zw.Close()
			},
		}
	})
	if w.Code != http.StatusOK {
		t.Errorf("status %d, expected 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("content type %q, expected application/zip", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "images.zip") {
		t.Errorf("disposition %q does not carry the archive name", cd)
	}
	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	if err != nil {
		t.Fatalf("body is not a readable zip: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "manifest.json" {
		t.Errorf("unexpected archive contents: %+v", zr.File)
	}
}

func TestRequestCounter(t *testing.T) {
	c := &RequestCounter{}
	if c.NextId() != "REQ-0" || c.NextId() != "REQ-1" {
		t.Error("request ids should increment from REQ-0")
	}
}
