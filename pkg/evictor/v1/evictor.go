package evictor

import (
	"os"
	"strconv"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/volumeguard/mount-evictor/pkg/evictor"
	"github.com/volumeguard/mount-evictor/pkg/holderprobe"
	"github.com/volumeguard/mount-evictor/pkg/metricsmanager"
	"golang.org/x/sys/unix"
)

var _ evictor.HolderEvictor = (*HolderEvictorImpl)(nil)

// HolderEvictorImpl walks the process table once, probes every pid and
// applies the requested action to holders. It keeps no state between calls.
type HolderEvictorImpl struct {
	procDir string
	probe   holderprobe.HolderProbe
	metrics metricsmanager.MetricsManager
	kill    func(pid int, sig unix.Signal) error
}

func NewHolderEvictor(procDir string, probe holderprobe.HolderProbe, metrics metricsmanager.MetricsManager) *HolderEvictorImpl {
	return &HolderEvictorImpl{
		procDir: procDir,
		probe:   probe,
		metrics: metrics,
		kill:    unix.Kill,
	}
}

// EvictHolders performs a single pass over the process table. Only entries
// whose name is purely decimal are treated as pids. Signal delivery failures
// are ignored: the holder either exited already or is out of reach, and
// neither aborts the scan.
func (e *HolderEvictorImpl) EvictHolders(mountPoint string, action evictor.Action) {
	entries, err := os.ReadDir(e.procDir)
	if err != nil {
		// no process table to examine
		return
	}
	e.metrics.ReportScan()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid64, err := strconv.ParseUint(entry.Name(), 10, 32)
		if err != nil {
			continue
		}
		pid := int(pid64)
		if !e.probe.Holds(pid, mountPoint) {
			continue
		}
		switch action {
		case evictor.ActionTerminate:
			e.signal(pid, unix.SIGTERM)
		case evictor.ActionKill:
			e.signal(pid, unix.SIGKILL)
		}
	}
}

func (e *HolderEvictorImpl) signal(pid int, sig unix.Signal) {
	name := unix.SignalName(sig)
	if sig == unix.SIGKILL {
		logger.L().Error("sending signal to holder", helpers.String("signal", name), helpers.Int("pid", pid))
	} else {
		logger.L().Warning("sending signal to holder", helpers.String("signal", name), helpers.Int("pid", pid))
	}
	e.metrics.ReportSignalSent(name)
	_ = e.kill(pid, sig)
}
