package pathmatch

// Matches reports whether path lies within mountPoint.
//
// The comparison is byte-wise on the raw strings: no symlink resolution, no
// path cleaning, no Unicode normalization. A mount point of "/" (or shorter)
// never matches anything, since evicting against the root directory would
// flag every process on the host.
func Matches(path, mountPoint string) bool {
	length := len(mountPoint)
	if length <= 1 {
		return false
	}
	if len(path) < length || path[:length] != mountPoint {
		return false
	}
	if mountPoint[length-1] == '/' {
		return true
	}
	// without a trailing slash on the mount point, require a path boundary
	// so that "/mnt/foo" does not match "/mnt/foobar"
	return len(path) == length || path[length] == '/'
}
