package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry 进程内指标集合
type Registry struct {
	reg *prometheus.Registry

	SyncRuns         prometheus.Counter
	SyncFailures     prometheus.Counter
	SyncSkipped      prometheus.Counter
	CatalogLines     prometheus.Gauge
	Validations      prometheus.Counter
	AuditLogFailures prometheus.Counter
}

// NewRegistry 创建并注册指标
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	syncRuns := prometheus.NewCounter(prometheus.CounterOpts{Name: "valido_sync_runs_total"})
	syncFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "valido_sync_failures_total"})
	syncSkipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "valido_sync_skipped_total"})
	catalogLines := prometheus.NewGauge(prometheus.GaugeOpts{Name: "valido_catalog_lines"})
	validations := prometheus.NewCounter(prometheus.CounterOpts{Name: "valido_validations_recorded_total"})
	auditLogFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "valido_audit_log_failures_total"})

	r.MustRegister(syncRuns, syncFailures, syncSkipped, catalogLines, validations, auditLogFailures)

	return &Registry{
		reg:              r,
		SyncRuns:         syncRuns,
		SyncFailures:     syncFailures,
		SyncSkipped:      syncSkipped,
		CatalogLines:     catalogLines,
		Validations:      validations,
		AuditLogFailures: auditLogFailures,
	}
}

// Handler /metrics HTTP 处理器
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
