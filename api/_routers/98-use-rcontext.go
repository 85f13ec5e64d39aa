package _routers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/alioygur/is"
	"github.com/getsentry/sentry-go"
	"github.com/mediaforge/mediaforge/api/_responses"
	"github.com/mediaforge/mediaforge/common/config"
	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type GeneratorFn = func(r *http.Request, ctx rcontext.RequestContext) interface{}

// RContextRouter is the single point translating handler return values into
// HTTP responses: error bodies, single-artifact downloads, streamed
// archives, or plain JSON.
type RContextRouter struct {
	generatorFn GeneratorFn
	conf        *config.MediaForgeConfig
	next        http.Handler
}

func NewRContextRouter(generatorFn GeneratorFn, conf *config.MediaForgeConfig, next http.Handler) *RContextRouter {
	return &RContextRouter{generatorFn: generatorFn, conf: conf, next: next}
}

func (c *RContextRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := GetLogger(r)
	rctx := rcontext.RequestContext{
		Context: r.Context(),
		Log:     log,
		Config:  *c.conf,
		Request: r,
	}

	var res interface{}
	res = c.generatorFn(r, rctx)
	if res == nil {
		res = &_responses.EmptyResponse{}
	}

	shouldCache := true
	wrappedRes, isNoCache := res.(*_responses.DoNotCacheResponse)
	if isNoCache {
		shouldCache = false
		res = wrappedRes.Payload
	}

	headers := w.Header()

	if archiveRes, isArchive := res.(*_responses.ArchiveResponse); isArchive {
		log.Infof("Replying with result: %T filename=%s", res, archiveRes.Filename)
		headers.Set("Content-Type", "application/zip")
		headers.Set("Content-Disposition", "attachment; filename=\""+archiveRes.Filename+"\"")
		setStatusCode(r, http.StatusOK)
		w.WriteHeader(http.StatusOK)

		// Headers are gone; a failure from here on can only abandon the
		// stream and let the transport deliver a truncated archive.
		if err := archiveRes.Assemble(w); err != nil {
			log.Error("Error streaming archive after headers sent: ", err)
			sentry.CaptureException(err)
			return
		}
		metrics.ArchivesStreamed.With(prometheus.Labels{"kind": archiveRes.Kind}).Inc()
		return
	}

	if downloadRes, isDownload := res.(*_responses.DownloadResponse); isDownload {
		log.Infof("Replying with result: %T %s (%d bytes)", res, downloadRes.ContentType, downloadRes.SizeBytes)
		if shouldCache {
			headers.Set("Cache-Control", "private, max-age=259200") // 3 days
		}
		headers.Set("Content-Type", downloadRes.ContentType)
		for k, v := range downloadRes.ExtraHeaders {
			headers.Set(k, v)
		}
		if downloadRes.Filename != "" {
			if is.ASCII(downloadRes.Filename) {
				headers.Set("Content-Disposition", "inline; filename="+url.QueryEscape(downloadRes.Filename))
			} else {
				headers.Set("Content-Disposition", "inline; filename*=utf-8''"+url.QueryEscape(downloadRes.Filename))
			}
		}
		setStatusCode(r, http.StatusOK)
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, downloadRes.Data); err != nil {
			log.Error("Error writing download response: ", err)
			sentry.CaptureException(err)
		}
		return
	}

	proposedStatusCode := http.StatusOK
	if errRes, isError := res.(*_responses.ErrorResponse); isError {
		proposedStatusCode = errRes.InternalStatus
		if proposedStatusCode >= 500 {
			sentry.CaptureException(errors.New(errRes.Error))
		}
	}

	log.Infof("Replying with result: %T %+v", res, res)
	b, err := json.Marshal(res)
	if err != nil {
		log.Error("Error serializing response: ", err)
		sentry.CaptureException(err)
		b = []byte("{\"error\":\"unexpected error\"}")
		proposedStatusCode = http.StatusInternalServerError
	}

	headers.Set("Content-Type", "application/json")
	setStatusCode(r, proposedStatusCode)
	w.WriteHeader(proposedStatusCode)
	if _, err = w.Write(b); err != nil {
		log.Error("Error writing response: ", err)
		sentry.CaptureException(err)
	}
}
