package metricsmanager

import (
	"sync/atomic"

	"github.com/goradd/maps"
	"github.com/volumeguard/mount-evictor/pkg/holderprobe"
)

var _ MetricsManager = (*MetricsMock)(nil)

type MetricsMock struct {
	ScanCounter           atomic.Int32
	UnmountAttemptCounter atomic.Int32
	UnmountFailureCounter atomic.Int32
	HoldingCounter        maps.SafeMap[holderprobe.ReferenceKind, int]
	SignalCounter         maps.SafeMap[string, int]
}

func NewMetricsMock() *MetricsMock {
	return &MetricsMock{}
}

func (m *MetricsMock) Start() {
}

func (m *MetricsMock) Destroy() {
	m.ScanCounter.Store(0)
	m.UnmountAttemptCounter.Store(0)
	m.UnmountFailureCounter.Store(0)
	m.HoldingCounter.Clear()
	m.SignalCounter.Clear()
}

func (m *MetricsMock) ReportScan() {
	m.ScanCounter.Add(1)
}

func (m *MetricsMock) ReportHolding(kind holderprobe.ReferenceKind) {
	m.HoldingCounter.Set(kind, m.HoldingCounter.Get(kind)+1)
}

func (m *MetricsMock) ReportSignalSent(signal string) {
	m.SignalCounter.Set(signal, m.SignalCounter.Get(signal)+1)
}

func (m *MetricsMock) ReportUnmountAttempt() {
	m.UnmountAttemptCounter.Add(1)
}

func (m *MetricsMock) ReportUnmountFailure() {
	m.UnmountFailureCounter.Add(1)
}
