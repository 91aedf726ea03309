package metricsmanager

import "github.com/volumeguard/mount-evictor/pkg/holderprobe"

// MetricsManager is an interface for reporting metrics
type MetricsManager interface {
	Start()
	Destroy()
	ReportScan()
	ReportHolding(kind holderprobe.ReferenceKind)
	ReportSignalSent(signal string)
	ReportUnmountAttempt()
	ReportUnmountFailure()
}
