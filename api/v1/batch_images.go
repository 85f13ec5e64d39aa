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

// BatchConvertImages handles manifest-driven image variant generation,
// streaming the results as a zip archive. Everything that can fail cheaply
// (manifest shape, file references, cardinality, decodability, pixel caps)
// is checked before the first response byte so errors come back as clean
// 400s rather than truncated archives.
func BatchConvertImages(r *http.Request, rctx rcontext.RequestContext) interface{} {
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

	manifest, errV := pipeline.ParseManifest(manifestRaw, common.KindImage, names, rctx.Config.Batch)
	if errV != nil {
		trace.Fail(errV)
		return _responses.BadRequest(errV.Message, errV.Details...).WithDebug(trace.Snapshot())
	}

	if err := pipeline.PreflightImages(rctx, manifest, inputs); err != nil {
		trace.Fail(err)
		return _responses.BadRequest(err.Error()).WithDebug(trace.Snapshot())
	}

	return &_responses.ArchiveResponse{
		Filename: "images.zip",
		Kind:     common.KindImage,
		Assemble: func(w io.Writer) error {
			sink := pipeline.NewZipSink(w)
			return pipeline.RunImageBatch(rctx, manifest, inputs, sink, trace)
		},
	}
}
