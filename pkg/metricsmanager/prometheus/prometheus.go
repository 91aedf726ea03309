package metricsmanager

import (
	"net/http"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/volumeguard/mount-evictor/pkg/holderprobe"
	"github.com/volumeguard/mount-evictor/pkg/metricsmanager"
)

const (
	referenceKindLabel = "reference_kind"
	signalLabel        = "signal"
)

var _ metricsmanager.MetricsManager = (*PrometheusMetric)(nil)

type PrometheusMetric struct {
	scanCounter           prometheus.Counter
	holdingCounter        *prometheus.CounterVec
	signalCounter         *prometheus.CounterVec
	unmountAttemptCounter prometheus.Counter
	unmountFailureCounter prometheus.Counter
}

func NewPrometheusMetric() *PrometheusMetric {
	return &PrometheusMetric{
		scanCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mount_evictor_scan_counter",
			Help: "The total number of process table scans performed",
		}),
		holdingCounter: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mount_evictor_holding_counter",
			Help: "The total number of holdings found, by reference kind",
		}, []string{referenceKindLabel}),
		signalCounter: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mount_evictor_signal_counter",
			Help: "The total number of termination signals delivered to holders",
		}, []string{signalLabel}),
		unmountAttemptCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mount_evictor_unmount_attempt_counter",
			Help: "The total number of unmount attempts",
		}),
		unmountFailureCounter: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mount_evictor_unmount_failure_counter",
			Help: "The total number of failed unmount attempts",
		}),
	}
}

func (p *PrometheusMetric) Start() {
	// Start prometheus metrics server
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		logger.L().Info("prometheus metrics server started", helpers.Int("port", 8080), helpers.String("path", "/metrics"))
		logger.L().Fatal(http.ListenAndServe(":8080", nil).Error())
	}()
}

func (p *PrometheusMetric) Destroy() {
	prometheus.Unregister(p.scanCounter)
	prometheus.Unregister(p.holdingCounter)
	prometheus.Unregister(p.signalCounter)
	prometheus.Unregister(p.unmountAttemptCounter)
	prometheus.Unregister(p.unmountFailureCounter)
}

func (p *PrometheusMetric) ReportScan() {
	p.scanCounter.Inc()
}

func (p *PrometheusMetric) ReportHolding(kind holderprobe.ReferenceKind) {
	p.holdingCounter.With(prometheus.Labels{referenceKindLabel: string(kind)}).Inc()
}

func (p *PrometheusMetric) ReportSignalSent(signal string) {
	p.signalCounter.With(prometheus.Labels{signalLabel: signal}).Inc()
}

func (p *PrometheusMetric) ReportUnmountAttempt() {
	p.unmountAttemptCounter.Inc()
}

func (p *PrometheusMetric) ReportUnmountFailure() {
	p.unmountFailureCounter.Inc()
}
