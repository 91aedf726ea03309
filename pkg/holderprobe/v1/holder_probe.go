package holderprobe

import (
	"bufio"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/spf13/afero"
	"github.com/volumeguard/mount-evictor/pkg/holderprobe"
	"github.com/volumeguard/mount-evictor/pkg/metricsmanager"
	"github.com/volumeguard/mount-evictor/pkg/pathmatch"
	"github.com/volumeguard/mount-evictor/pkg/proclink"
	"github.com/volumeguard/mount-evictor/pkg/utils"
)

var _ holderprobe.HolderProbe = (*HolderProbeImpl)(nil)

// HolderProbeImpl inspects a process's procfs entries for references under a
// mount point. It is stateless between calls; the filesystem and the procfs
// root are injected so tests can run against a fake proc tree.
type HolderProbeImpl struct {
	appFs   afero.Fs
	procDir string
	metrics metricsmanager.MetricsManager
}

func NewHolderProbe(appFs afero.Fs, procDir string, metrics metricsmanager.MetricsManager) *HolderProbeImpl {
	return &HolderProbeImpl{
		appFs:   appFs,
		procDir: procDir,
		metrics: metrics,
	}
}

// Holds reports whether pid references anything under mountPoint. The probes
// run in a fixed order and stop at the first match: open file descriptors,
// memory maps, working directory, root directory, executable image.
func (p *HolderProbeImpl) Holds(pid int, mountPoint string) bool {
	return p.checkFileDescriptors(pid, mountPoint) ||
		p.checkFileMaps(pid, mountPoint) ||
		p.checkProcSymlink(pid, mountPoint, "cwd", holderprobe.WorkingDirectoryKind) ||
		p.checkProcSymlink(pid, mountPoint, "root", holderprobe.RootDirectoryKind) ||
		p.checkProcSymlink(pid, mountPoint, "exe", holderprobe.ExecutableKind)
}

func (p *HolderProbeImpl) checkFileDescriptors(pid int, mountPoint string) bool {
	fdDir := filepath.Join(p.procDir, strconv.Itoa(pid), "fd")
	entries, err := afero.ReadDir(p.appFs, fdDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		// descriptors close between enumeration and resolution, ReadLink
		// absorbs that
		target, ok := proclink.ReadLink(p.appFs, filepath.Join(fdDir, entry.Name()))
		if !ok || !pathmatch.Matches(target, mountPoint) {
			continue
		}
		p.reportHolding(holderprobe.Holding{Pid: pid, Kind: holderprobe.OpenFileKind, Path: target})
		return true
	}
	return false
}

func (p *HolderProbeImpl) checkFileMaps(pid int, mountPoint string) bool {
	f, err := p.appFs.Open(filepath.Join(p.procDir, strconv.Itoa(pid), "maps"))
	if err != nil {
		return false
	}
	defer func() {
		_ = f.Close()
	}()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		// the pathname, when present, starts at the first '/'; anonymous
		// mappings, [heap], [stack] and friends carry none
		idx := strings.IndexByte(line, '/')
		if idx < 0 {
			continue
		}
		mapped := line[idx:]
		if !pathmatch.Matches(mapped, mountPoint) {
			continue
		}
		p.reportHolding(holderprobe.Holding{Pid: pid, Kind: holderprobe.MemoryMapKind, Path: mapped})
		return true
	}
	return false
}

func (p *HolderProbeImpl) checkProcSymlink(pid int, mountPoint string, name string, kind holderprobe.ReferenceKind) bool {
	target, ok := proclink.ReadLink(p.appFs, filepath.Join(p.procDir, strconv.Itoa(pid), name))
	if !ok || !pathmatch.Matches(target, mountPoint) {
		return false
	}
	p.reportHolding(holderprobe.Holding{Pid: pid, Kind: kind, Path: target})
	return true
}

func (p *HolderProbeImpl) reportHolding(holding holderprobe.Holding) {
	p.metrics.ReportHolding(holding.Kind)
	details := []helpers.IDetails{
		helpers.String("name", utils.ProcessName(p.procDir, holding.Pid)),
		helpers.Int("pid", holding.Pid),
		helpers.String("kind", string(holding.Kind)),
		helpers.String("path", holding.Path),
	}
	switch holding.Kind {
	case holderprobe.OpenFileKind, holderprobe.MemoryMapKind:
		logger.L().Error("process is holding the mount point", details...)
	default:
		logger.L().Warning("process is holding the mount point", details...)
	}
}
