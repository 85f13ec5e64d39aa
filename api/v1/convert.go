package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mediaforge/mediaforge/api/_responses"
	"github.com/mediaforge/mediaforge/common"
	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/images"
	"github.com/mediaforge/mediaforge/pipeline"
	"github.com/mediaforge/mediaforge/util"
	"github.com/sirupsen/logrus"
)

// ConvertImage handles single-file image conversion: optional resize
// (width/height/fit) plus encode to a target format, returned inline.
func ConvertImage(r *http.Request, rctx rcontext.RequestContext) interface{} {
	trace := pipeline.NewTrace(pipeline.ParseDebugLevel(r.URL.Query().Get("debug")))

	name, data, errRes := readSingleUpload(r, rctx)
	if errRes != nil {
		trace.Fail(errors.New(errRes.Error))
		return errRes.WithDebug(trace.Snapshot())
	}
	rctx = rctx.LogWithFields(logrus.Fields{"filename": name, "bytes": len(data), "detectedType": util.DetectMimeType(data)})

	width, errRes := intParam(r, "width")
	if errRes != nil {
		return errRes.WithDebug(trace.Snapshot())
	}
	height, errRes := intParam(r, "height")
	if errRes != nil {
		return errRes.WithDebug(trace.Snapshot())
	}

	return convertImage(r, rctx, trace, name, data, width, height)
}

func convertImage(r *http.Request, rctx rcontext.RequestContext, trace *pipeline.Trace, name string, data []byte, width int, height int) interface{} {
	fit := r.URL.Query().Get("fit")
	format := r.URL.Query().Get("format")
	if format != "" && !images.IsEncodableFormat(format) {
		return _responses.BadRequest("format: \"" + format + "\" is not an encodable format").WithDebug(trace.Snapshot())
	}

	decodeStart := time.Now()
	src, sourceFormat, err := images.Decode(data)
	if err != nil {
		trace.Fail(err)
		return _responses.BadRequest(err.Error()).WithDebug(trace.Snapshot())
	}
	bounds := src.Bounds()
	if bounds.Dx()*bounds.Dy() > rctx.Config.Images.MaxPixels {
		rctx.Log.Debug("Image too large: too many pixels")
		trace.Fail(common.ErrMediaTooLarge)
		return _responses.BadRequest(common.ErrMediaTooLarge.Error()).WithDebug(trace.Snapshot())
	}
	trace.Step("decode", decodeStart, map[string]interface{}{"format": sourceFormat, "bytes": len(data)})

	transformStart := time.Now()
	resized, err := images.Resize(src, width, height, fit)
	if err != nil {
		trace.Fail(err)
		return _responses.BadRequest(err.Error()).WithDebug(trace.Snapshot())
	}
	if format == "" {
		format = sourceFormat
	}
	artifact, err := images.Encode(resized, format)
	if err != nil {
		trace.Fail(err)
		rctx.Log.Error("Error encoding image: ", err)
		return _responses.InternalServerError("error encoding image").WithDebug(trace.Snapshot())
	}
	trace.Step("transform", transformStart, map[string]interface{}{"format": format, "bytes": len(artifact)})

	spec := pipeline.VariantSpec{Fit: fit, Format: format}
	if width > 0 {
		spec.Width = &width
	}
	if height > 0 {
		spec.Height = &height
	}
	base := "converted"
	if name != "" {
		base = util.BaseName(name)
	}

	res := &_responses.DownloadResponse{
		ContentType: images.ContentTypeForFormat(format),
		Filename:    pipeline.ImageVariantFilename(base, spec, sourceFormat),
		SizeBytes:   int64(len(artifact)),
		Data:        bytes.NewReader(artifact),
	}
	if info := trace.Snapshot(); info != nil {
		b, err := json.Marshal(info)
		if err == nil {
			res.ExtraHeaders = map[string]string{"X-Debug-Info": string(b)}
		}
	}
	return res
}

func intParam(r *http.Request, name string) (int, *_responses.ErrorResponse) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, _responses.BadRequest(name + ": must be a positive integer")
	}
	return v, nil
}
