package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/mediaforge/mediaforge/api/_responses"
	"github.com/mediaforge/mediaforge/common"
	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/pipeline"
	"github.com/sirupsen/logrus"
)

// BatchAudioPeaks handles manifest-driven waveform peak generation as a
// streamed zip archive. The plan step materializes temp files, probes
// durations and bounds-checks every derived sample count before streaming
// starts; only the peak extraction itself can still fail mid-stream.
func BatchAudioPeaks(r *http.Request, rctx rcontext.RequestContext) interface{} {
	trace := pipeline.NewTrace(pipeline.ParseDebugLevel(r.URL.Query().Get("debug")))

	inputs, manifestRaw, errRes := readBatchUpload(r, rctx)
	if errRes != nil {
		trace.Fail(errors.New(errRes.Error))
		return errRes.WithDebug(trace.Snapshot())
	}

	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		names = append(names, in.Name)
	}
	rctx = rctx.LogWithFields(logrus.Fields{"files": len(inputs)})

	manifest, errV := pipeline.ParseManifest(manifestRaw, common.KindAudio, names, rctx.Config.Batch)
	if errV != nil {
		trace.Fail(errV)
		return _responses.BadRequest(errV.Message, errV.Details...).WithDebug(trace.Snapshot())
	}

	plan, err := pipeline.PlanAudioBatch(rctx, manifest, inputs, trace)
	if err != nil {
		trace.Fail(err)
		if errors.Is(err, common.ErrUnsupportedFormat) || errors.Is(err, common.ErrSampleCountOutOfRange) {
			return _responses.BadRequest(err.Error()).WithDebug(trace.Snapshot())
		}
		rctx.Log.Error("Error planning audio batch: ", err)
		return _responses.InternalServerError(err.Error()).WithDebug(trace.Snapshot())
	}

	return &_responses.ArchiveResponse{
		Filename: "audio-peaks.zip",
		Kind:     common.KindAudio,
		Assemble: func(w io.Writer) error {
			sink := pipeline.NewZipSink(w)
			return plan.Run(rctx, manifest, sink, trace)
		},
	}
}
