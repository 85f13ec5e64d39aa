package v1

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/mediaforge/mediaforge/api/_responses"
	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/pipeline"
)

const multipartMemoryBytes = 32 << 20

// readSingleUpload pulls the uploaded media out of a single-file request:
// a multipart "file" part when present, otherwise the raw request body.
func readSingleUpload(r *http.Request, rctx rcontext.RequestContext) (string, []byte, *_responses.ErrorResponse) {
	maxBytes := rctx.Config.Uploads.MaxSizeBytes
	if r.ContentLength > maxBytes {
		return "", nil, _responses.RequestTooLarge(maxBytes)
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") {
		if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
			return "", nil, classifyUploadError(err, maxBytes)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, _responses.BadRequest("missing multipart field \"file\"")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, classifyUploadError(err, maxBytes)
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, classifyUploadError(err, maxBytes)
	}
	if len(data) == 0 {
		return "", nil, _responses.BadRequest("empty request body")
	}
	return "", data, nil
}

// readBatchUpload pulls the uploaded file set (multipart "files" parts, in
// order) and the manifest JSON (form field "manifest") out of a batch
// request. Cardinality and per-file size caps are enforced here.
func readBatchUpload(r *http.Request, rctx rcontext.RequestContext) ([]pipeline.BatchInput, []byte, *_responses.ErrorResponse) {
	maxFileBytes := rctx.Config.Uploads.MaxSizeBytes
	maxTotal := maxFileBytes*int64(rctx.Config.Batch.MaxFiles) + multipartMemoryBytes
	r.Body = http.MaxBytesReader(nil, r.Body, maxTotal)

	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		return nil, nil, classifyUploadError(err, maxTotal)
	}

	manifestRaw := r.FormValue("manifest")
	if manifestRaw == "" {
		return nil, nil, _responses.BadRequest("missing form field \"manifest\"")
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		return nil, nil, _responses.BadRequest("no files uploaded: expected one or more \"files\" parts")
	}

	fileHeaders := r.MultipartForm.File["files"]
	if errV := pipeline.ValidateFileCount(len(fileHeaders), rctx.Config.Batch); errV != nil {
		return nil, nil, _responses.BadRequest(errV.Message, errV.Details...)
	}

	inputs := make([]pipeline.BatchInput, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		if header.Size > maxFileBytes {
			return nil, nil, _responses.RequestTooLarge(maxFileBytes)
		}
		f, err := header.Open()
		if err != nil {
			return nil, nil, _responses.BadRequest("malformed multipart request")
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, nil, classifyUploadError(err, maxFileBytes)
		}
		inputs = append(inputs, pipeline.BatchInput{Name: header.Filename, Data: data})
	}

	return inputs, []byte(manifestRaw), nil
}

func classifyUploadError(err error, limitBytes int64) *_responses.ErrorResponse {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return _responses.RequestTooLarge(limitBytes)
	}
	return _responses.BadRequest("malformed multipart request")
}
