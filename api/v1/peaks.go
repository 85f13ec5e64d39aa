package v1

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/mediaforge/mediaforge/api/_responses"
	"github.com/mediaforge/mediaforge/audio"
	"github.com/mediaforge/mediaforge/common"
	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/pipeline"
	"github.com/mediaforge/mediaforge/util"
	"github.com/sirupsen/logrus"
)

type PeaksResponse struct {
	Peaks   []float64           `json:"peaks"`
	Samples int                 `json:"samples"`
	Debug   *pipeline.DebugInfo `json:"debug,omitempty"`
}

// AudioPeaks handles single-file waveform peak extraction. The sample count
// is validated before any subprocess or disk I/O happens.
func AudioPeaks(r *http.Request, rctx rcontext.RequestContext) interface{} {
	trace := pipeline.NewTrace(pipeline.ParseDebugLevel(r.URL.Query().Get("debug")))

	name, data, errRes := readSingleUpload(r, rctx)
	if errRes != nil {
		trace.Fail(errors.New(errRes.Error))
		return errRes.WithDebug(trace.Snapshot())
	}
	rctx = rctx.LogWithFields(logrus.Fields{"filename": name, "bytes": len(data), "detectedType": util.DetectMimeType(data)})

	samples, errRes := intParam(r, "samples")
	if errRes != nil {
		return errRes.WithDebug(trace.Snapshot())
	}
	if samples != 0 && (samples < pipeline.MinSampleCount || samples > pipeline.MaxSampleCount) {
		return _responses.BadRequest("samples: must be between 1 and 10000").WithDebug(trace.Snapshot())
	}
	samplesPerMinute, errRes := intParam(r, "samplesPerMinute")
	if errRes != nil {
		return errRes.WithDebug(trace.Snapshot())
	}

	tag := audio.Classify(data)
	if tag != audio.FormatUnknown && !audio.IsSupported(tag, rctx.Config.Audio.SupportedFormats) {
		trace.Fail(common.ErrUnsupportedFormat)
		return _responses.BadRequest("unsupported audio format: detected " + string(tag)).WithDebug(trace.Snapshot())
	}

	srcPath, cleanup, err := util.MaterializeTempFile(data, filepath.Ext(name))
	if err != nil {
		trace.Fail(err)
		rctx.Log.Error("Error writing temp file: ", err)
		return _responses.InternalServerError("error processing upload").WithDebug(trace.Snapshot())
	}
	defer cleanup()

	if samples == 0 {
		probeStart := time.Now()
		duration, err := audio.ProbeDuration(rctx, srcPath)
		if err != nil {
			trace.Fail(err)
			rctx.Log.Error("Error probing duration: ", err)
			return _responses.InternalServerError(err.Error()).WithDebug(trace.Snapshot())
		}
		trace.Step("probe", probeStart, map[string]interface{}{"durationSeconds": duration})

		spec := pipeline.VariantSpec{}
		if samplesPerMinute > 0 {
			spec.SamplesPerMinute = &samplesPerMinute
		}
		samples = pipeline.ResolveSampleCount(spec, duration)
		if samples < pipeline.MinSampleCount || samples > pipeline.MaxSampleCount {
			trace.Fail(common.ErrSampleCountOutOfRange)
			return _responses.BadRequest(fmt.Sprintf("derived sample count out of range: resolved %d, must be between 1 and 10000", samples)).WithDebug(trace.Snapshot())
		}
	}

	extractStart := time.Now()
	peaks, err := audio.ExtractPeaks(rctx, srcPath, samples)
	if err != nil {
		trace.Fail(err)
		rctx.Log.Error("Error extracting peaks: ", err)
		return _responses.InternalServerError(err.Error()).WithDebug(trace.Snapshot())
	}
	trace.Step("peaks", extractStart, map[string]interface{}{"samples": samples})

	return &PeaksResponse{Peaks: peaks, Samples: samples, Debug: trace.Snapshot()}
}
