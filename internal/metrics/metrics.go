// Package metrics exposes batch and upload counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload results.
const (
	UploadAccepted = "accepted"
	UploadRejected = "rejected"
	UploadFailed   = "failed"
)

type Registry struct {
	reg              *prometheus.Registry
	Batches          prometheus.Counter
	InvoicesGrouped  prometheus.Counter
	GroupingWarnings prometheus.Counter
	Rendered         prometheus.Counter
	RenderFailed     prometheus.Counter
	RenderWarnings   prometheus.Counter
	RenderSec        prometheus.Histogram
	Uploads          *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	batches := prometheus.NewCounter(prometheus.CounterOpts{Name: "sheetbill_batches_total"})
	grouped := prometheus.NewCounter(prometheus.CounterOpts{Name: "sheetbill_invoices_grouped_total"})
	groupWarn := prometheus.NewCounter(prometheus.CounterOpts{Name: "sheetbill_grouping_warnings_total"})
	rendered := prometheus.NewCounter(prometheus.CounterOpts{Name: "sheetbill_documents_rendered_total"})
	failed := prometheus.NewCounter(prometheus.CounterOpts{Name: "sheetbill_documents_failed_total"})
	renderWarn := prometheus.NewCounter(prometheus.CounterOpts{Name: "sheetbill_render_warnings_total"})
	renderSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sheetbill_render_seconds",
		Buckets: prometheus.DefBuckets,
	})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "sheetbill_uploads_total"}, []string{"result"})

	r.MustRegister(batches, grouped, groupWarn, rendered, failed, renderWarn, renderSec, uploads)
	return &Registry{
		reg:              r,
		Batches:          batches,
		InvoicesGrouped:  grouped,
		GroupingWarnings: groupWarn,
		Rendered:         rendered,
		RenderFailed:     failed,
		RenderWarnings:   renderWarn,
		RenderSec:        renderSec,
		Uploads:          uploads,
	}
}

// ObserveGrouped records one grouping pass.
func (r *Registry) ObserveGrouped(invoices, warnings int) {
	r.Batches.Inc()
	r.InvoicesGrouped.Add(float64(invoices))
	r.GroupingWarnings.Add(float64(warnings))
}

// ObserveRender records one document attempt.
func (r *Registry) ObserveRender(ok bool, warnings int, elapsed time.Duration) {
	if ok {
		r.Rendered.Inc()
	} else {
		r.RenderFailed.Inc()
	}
	r.RenderWarnings.Add(float64(warnings))
	r.RenderSec.Observe(elapsed.Seconds())
}

// ObserveUpload counts an upload by result.
func (r *Registry) ObserveUpload(result string) {
	r.Uploads.WithLabelValues(result).Inc()
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
