package proclink

import (
	"os"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// ReadLink resolves a single symlink under /proc and returns its raw target.
//
// It returns ok=false whenever the entry is missing, is not a symlink, or the
// filesystem refuses the read. Per-process entries routinely vanish between
// enumeration and resolution, so none of these cases is an error. Targets
// longer than the platform path maximum are truncated.
func ReadLink(appFs afero.Fs, path string) (string, bool) {
	lstater, ok := appFs.(afero.Lstater)
	if !ok {
		return "", false
	}
	info, _, err := lstater.LstatIfPossible(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return "", false
	}
	reader, ok := appFs.(afero.LinkReader)
	if !ok {
		return "", false
	}
	target, err := reader.ReadlinkIfPossible(path)
	if err != nil || target == "" {
		return "", false
	}
	if len(target) > unix.PathMax {
		target = target[:unix.PathMax]
	}
	return target, true
}
