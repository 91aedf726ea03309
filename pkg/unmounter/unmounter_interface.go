package unmounter

// Unmounter releases a mount point, evicting holder processes as needed. The
// eviction escalates from warning through SIGTERM to SIGKILL while the mount
// point stays busy.
type Unmounter interface {
	Unmount(mountPoint string) error
}
