package _routers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mediaforge/mediaforge/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type MetricsRequestRouter struct {
	next http.Handler
}

func NewMetricsRequestRouter(next http.Handler) *MetricsRequestRouter {
	return &MetricsRequestRouter{next: next}
}

func (m *MetricsRequestRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	metrics.HttpRequests.With(prometheus.Labels{
		"host":   r.Host,
		"action": GetActionName(r),
		"method": r.Method,
	}).Inc()
	startedAt := time.Now()

	if m.next != nil {
		m.next.ServeHTTP(w, r)
	}

	metrics.HttpResponseTime.With(prometheus.Labels{
		"host":   r.Host,
		"action": GetActionName(r),
		"method": r.Method,
	}).Observe(time.Since(startedAt).Seconds())

	metrics.HttpResponses.With(prometheus.Labels{
		"host":       r.Host,
		"action":     GetActionName(r),
		"method":     r.Method,
		"statusCode": strconv.Itoa(GetStatusCode(r)),
	}).Inc()
}
