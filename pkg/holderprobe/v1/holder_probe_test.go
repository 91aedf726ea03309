package holderprobe

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumeguard/mount-evictor/pkg/holderprobe"
	"github.com/volumeguard/mount-evictor/pkg/metricsmanager"
)

const mountPoint = "/mnt/vol"

type fakeProc struct {
	t       *testing.T
	procDir string
}

func newFakeProc(t *testing.T) *fakeProc {
	return &fakeProc{t: t, procDir: t.TempDir()}
}

func (f *fakeProc) pidDir(pid int) string {
	dir := filepath.Join(f.procDir, strconv.Itoa(pid))
	require.NoError(f.t, os.MkdirAll(dir, 0o755))
	return dir
}

func (f *fakeProc) addCmdline(pid int, argv0 string) {
	require.NoError(f.t, os.WriteFile(filepath.Join(f.pidDir(pid), "cmdline"), []byte(argv0+"\x00"), 0o444))
}

func (f *fakeProc) addFd(pid int, fd int, target string) {
	fdDir := filepath.Join(f.pidDir(pid), "fd")
	require.NoError(f.t, os.MkdirAll(fdDir, 0o755))
	require.NoError(f.t, os.Symlink(target, filepath.Join(fdDir, strconv.Itoa(fd))))
}

func (f *fakeProc) addMaps(pid int, content string) {
	require.NoError(f.t, os.WriteFile(filepath.Join(f.pidDir(pid), "maps"), []byte(content), 0o444))
}

func (f *fakeProc) addLink(pid int, name, target string) {
	require.NoError(f.t, os.Symlink(target, filepath.Join(f.pidDir(pid), name)))
}

func newProbe(f *fakeProc) (*HolderProbeImpl, *metricsmanager.MetricsMock) {
	metrics := metricsmanager.NewMetricsMock()
	return NewHolderProbe(afero.NewOsFs(), f.procDir, metrics), metrics
}

func TestHoldsOpenFileDescriptor(t *testing.T) {
	f := newFakeProc(t)
	f.addCmdline(101, "/usr/bin/tail")
	f.addFd(101, 0, "/dev/null")
	f.addFd(101, 3, "/mnt/vol/data.bin")

	probe, metrics := newProbe(f)
	assert.True(t, probe.Holds(101, mountPoint))
	assert.Equal(t, 1, metrics.HoldingCounter.Get(holderprobe.OpenFileKind))
}

func TestHoldsMemoryMap(t *testing.T) {
	f := newFakeProc(t)
	f.addCmdline(102, "/usr/bin/app")
	f.addMaps(102, ""+
		"5600a0000000-5600a0021000 r-xp 00000000 fd:01 1313 /usr/bin/app\n"+
		"7f0e8a200000-7f0e8a221000 r-xp 00000000 fd:01 393219 /mnt/vol/lib.so\n"+
		"7ffc60000000-7ffc60021000 rw-p 00000000 00:00 0 [stack]\n")

	probe, metrics := newProbe(f)
	assert.True(t, probe.Holds(102, mountPoint))
	assert.Equal(t, 1, metrics.HoldingCounter.Get(holderprobe.MemoryMapKind))
}

func TestHoldsProcSymlinks(t *testing.T) {
	tests := []struct {
		name   string
		link   string
		target string
		kind   holderprobe.ReferenceKind
	}{
		{name: "working directory", link: "cwd", target: "/mnt/vol/sub", kind: holderprobe.WorkingDirectoryKind},
		{name: "chroot", link: "root", target: "/mnt/vol/jail", kind: holderprobe.RootDirectoryKind},
		{name: "executable image", link: "exe", target: "/mnt/vol/bin/tool", kind: holderprobe.ExecutableKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeProc(t)
			f.addCmdline(103, "holder")
			f.addLink(103, tt.link, tt.target)

			probe, metrics := newProbe(f)
			assert.True(t, probe.Holds(103, mountPoint))
			assert.Equal(t, 1, metrics.HoldingCounter.Get(tt.kind))
		})
	}
}

func TestDoesNotHoldOnPrefixCoincidence(t *testing.T) {
	f := newFakeProc(t)
	f.addCmdline(106, "bystander")
	f.addFd(106, 3, "/mnt/volume2/x")
	f.addMaps(106, "7f0e8a200000-7f0e8a221000 r-xp 00000000 fd:01 77 /mnt/volume2/lib.so\n")
	f.addLink(106, "cwd", "/mnt/volume2")

	probe, metrics := newProbe(f)
	assert.False(t, probe.Holds(106, mountPoint))
	assert.Equal(t, 0, metrics.HoldingCounter.Get(holderprobe.OpenFileKind))
}

func TestDoesNotHoldOnUnrelatedProcess(t *testing.T) {
	f := newFakeProc(t)
	f.addCmdline(107, "/usr/sbin/sshd")
	f.addFd(107, 0, "/dev/null")
	f.addMaps(107, "5600a0000000-5600a0021000 r-xp 00000000 fd:01 1313 /usr/sbin/sshd\n")
	f.addLink(107, "cwd", "/")
	f.addLink(107, "root", "/")
	f.addLink(107, "exe", "/usr/sbin/sshd")

	probe, _ := newProbe(f)
	assert.False(t, probe.Holds(107, mountPoint))
}

func TestVanishedProcessDoesNotHold(t *testing.T) {
	f := newFakeProc(t)
	probe, _ := newProbe(f)
	assert.False(t, probe.Holds(999, mountPoint))
}

func TestShortCircuitsOnFirstMatch(t *testing.T) {
	f := newFakeProc(t)
	f.addCmdline(108, "double-holder")
	f.addFd(108, 3, "/mnt/vol/data.bin")
	f.addLink(108, "cwd", "/mnt/vol/sub")

	probe, metrics := newProbe(f)
	assert.True(t, probe.Holds(108, mountPoint))
	assert.Equal(t, 1, metrics.HoldingCounter.Get(holderprobe.OpenFileKind))
	assert.Equal(t, 0, metrics.HoldingCounter.Get(holderprobe.WorkingDirectoryKind))
}

func TestRootMountPointNeverHolds(t *testing.T) {
	f := newFakeProc(t)
	f.addCmdline(109, "anything")
	f.addFd(109, 3, "/etc/passwd")
	f.addLink(109, "cwd", "/home")

	probe, _ := newProbe(f)
	assert.False(t, probe.Holds(109, "/"))
}

func TestMapsWithoutPathsAreSkipped(t *testing.T) {
	f := newFakeProc(t)
	f.addCmdline(110, "anon")
	f.addMaps(110, ""+
		"7ffc60000000-7ffc60021000 rw-p 00000000 00:00 0 [heap]\n"+
		"7ffc60021000-7ffc60042000 rw-p 00000000 00:00 0\n")

	probe, _ := newProbe(f)
	assert.False(t, probe.Holds(110, mountPoint))
}
