package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var HttpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "forge_http_requests_total",
}, []string{"host", "action", "method"})
var HttpResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "forge_http_responses_total",
}, []string{"host", "action", "method", "statusCode"})
var HttpResponseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name: "forge_http_response_time_seconds",
}, []string{"host", "action", "method"})
var VariantsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "forge_variants_generated_total",
}, []string{"kind"})
var ArchivesStreamed = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "forge_archives_streamed_total",
}, []string{"kind"})
var SubprocessFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "forge_subprocess_failures_total",
}, []string{"tool", "reason"})

func init() {
	prometheus.MustRegister(HttpRequests)
	prometheus.MustRegister(HttpResponses)
	prometheus.MustRegister(HttpResponseTime)
	prometheus.MustRegister(VariantsGenerated)
	prometheus.MustRegister(ArchivesStreamed)
	prometheus.MustRegister(SubprocessFailures)
}
