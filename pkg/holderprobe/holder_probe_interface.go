package holderprobe

// ReferenceKind names the way a process can reference a path under a mount
// point. A process holding any one of these cannot be unmounted from under.
type ReferenceKind string

const (
	OpenFileKind         ReferenceKind = "open-file"
	MemoryMapKind        ReferenceKind = "memory-map"
	WorkingDirectoryKind ReferenceKind = "cwd"
	RootDirectoryKind    ReferenceKind = "root"
	ExecutableKind       ReferenceKind = "exe"
)

// Holding is a single observed reference a process keeps inside a mount point.
type Holding struct {
	Pid  int
	Kind ReferenceKind
	Path string
}

// HolderProbe decides whether a process references anything under a mount
// point. Implementations must treat every per-process I/O failure as "does
// not hold" - processes and their descriptors vanish under the observer.
type HolderProbe interface {
	Holds(pid int, mountPoint string) bool
}
