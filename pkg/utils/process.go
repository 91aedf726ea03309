package utils

import (
	"github.com/prometheus/procfs"
)

// UnknownProcessName is reported when a process's command line cannot be read.
const UnknownProcessName = "???"

// ProcessName returns a human-readable label for a pid, taken from the first
// argument of its command line. It is used for diagnostics only; any failure
// (process gone, permission denied, empty cmdline) yields UnknownProcessName.
func ProcessName(procDir string, pid int) string {
	fs, err := procfs.NewFS(procDir)
	if err != nil {
		return UnknownProcessName
	}

	proc, err := fs.Proc(pid)
	if err != nil {
		return UnknownProcessName
	}

	cmdline, err := proc.CmdLine()
	if err != nil || len(cmdline) == 0 || cmdline[0] == "" {
		return UnknownProcessName
	}

	return cmdline[0]
}
