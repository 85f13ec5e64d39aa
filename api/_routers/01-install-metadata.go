package _routers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mediaforge/mediaforge/util"
	"github.com/sirupsen/logrus"
)

const requestIdCtxKey = "mf.request_id"
const actionNameCtxKey = "mf.action"
const loggerCtxKey = "mf.logger"
const statusCodeCtxKey = "mf.status_code"

type RequestCounter struct {
	lastId uint64
}

func (c *RequestCounter) NextId() string {
	strId := strconv.FormatUint(c.lastId, 10)
	c.lastId = c.lastId + 1

	return "REQ-" + strId
}

type statusCodeHolder struct {
	code int
}

type InstallMetadataRouter struct {
	next       http.Handler
	actionName string
	counter    *RequestCounter
}

func NewInstallMetadataRouter(actionName string, counter *RequestCounter, next http.Handler) *InstallMetadataRouter {
	return &InstallMetadataRouter{
		next:       next,
		actionName: actionName,
		counter:    counter,
	}
}

func (i *InstallMetadataRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestId := i.counter.NextId()
	logger := logrus.WithFields(logrus.Fields{
		"method":        r.Method,
		"host":          r.Host,
		"resource":      r.URL.Path,
		"contentType":   r.Header.Get("Content-Type"),
		"contentLength": r.ContentLength,
		"queryString":   util.GetLogSafeQueryString(r),
		"requestId":     requestId,
		"remoteAddr":    r.RemoteAddr,
		"userAgent":     r.UserAgent(),
	})

	ctx := r.Context()
	ctx = context.WithValue(ctx, requestIdCtxKey, requestId)
	ctx = context.WithValue(ctx, actionNameCtxKey, i.actionName)
	ctx = context.WithValue(ctx, loggerCtxKey, logger)
	ctx = context.WithValue(ctx, statusCodeCtxKey, &statusCodeHolder{code: http.StatusOK})
	r = r.WithContext(ctx)

	if i.next != nil {
		i.next.ServeHTTP(w, r)
	}
}

func GetActionName(r *http.Request) string {
	x, ok := r.Context().Value(actionNameCtxKey).(string)
	if !ok {
		return "<UNKNOWN>"
	}
	return x
}

func GetLogger(r *http.Request) *logrus.Entry {
	x, ok := r.Context().Value(loggerCtxKey).(*logrus.Entry)
	if !ok {
		return nil
	}
	return x
}

func setStatusCode(r *http.Request, code int) {
	if holder, ok := r.Context().Value(statusCodeCtxKey).(*statusCodeHolder); ok {
		holder.code = code
	}
}

func GetStatusCode(r *http.Request) int {
	holder, ok := r.Context().Value(statusCodeCtxKey).(*statusCodeHolder)
	if !ok {
		return 0
	}
	return holder.code
}
