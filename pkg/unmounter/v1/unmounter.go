package unmounter

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/moby/sys/mountinfo"
	"github.com/volumeguard/mount-evictor/pkg/config"
	"github.com/volumeguard/mount-evictor/pkg/evictor"
	"github.com/volumeguard/mount-evictor/pkg/metricsmanager"
	"github.com/volumeguard/mount-evictor/pkg/unmounter"
	"golang.org/x/sys/unix"
)

var _ unmounter.Unmounter = (*MountUnmounter)(nil)

// escalation is the order in which holder eviction gets stronger while the
// mount point stays busy.
var escalation = []evictor.Action{evictor.ActionWarn, evictor.ActionTerminate, evictor.ActionKill}

// MountUnmounter drives the probe -> signal -> unmount cycle around the
// evictor. The mount table check and the unmount syscall are injected so the
// cycle can be tested without privileges.
type MountUnmounter struct {
	evictor       evictor.HolderEvictor
	metrics       metricsmanager.MetricsManager
	retryInterval time.Duration
	maxRetries    uint64
	mounted       func(path string) (bool, error)
	unmount       func(path string, flags int) error
}

func NewMountUnmounter(holderEvictor evictor.HolderEvictor, metrics metricsmanager.MetricsManager, cfg config.Config) *MountUnmounter {
	return &MountUnmounter{
		evictor:       holderEvictor,
		metrics:       metrics,
		retryInterval: cfg.UnmountRetryInterval,
		maxRetries:    cfg.MaxUnmountRetries,
		mounted:       mountinfo.Mounted,
		unmount:       unix.Unmount,
	}
}

// Unmount releases mountPoint. While the kernel reports the mount point busy,
// holders are evicted with escalating actions and the unmount is retried.
// Holders appearing between a scan and the unmount are caught by the next
// round; after the last escalation the unmount is retried on a constant
// backoff before giving up.
func (u *MountUnmounter) Unmount(mountPoint string) error {
	mounted, err := u.mounted(mountPoint)
	if err != nil {
		return fmt.Errorf("checking mount table for %s: %w", mountPoint, err)
	}
	if !mounted {
		logger.L().Info("path is not a mount point, nothing to release", helpers.String("mountPoint", mountPoint))
		return nil
	}

	for _, action := range escalation {
		err = u.tryUnmount(mountPoint)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EBUSY) {
			return fmt.Errorf("unmounting %s: %w", mountPoint, err)
		}
		logger.L().Warning("mount point is busy, evicting holders",
			helpers.String("mountPoint", mountPoint),
			helpers.String("action", action.String()))
		u.evictor.EvictHolders(mountPoint, action)
	}

	// killed holders need a moment to die and release their descriptors
	return backoff.RetryNotify(func() error {
		return u.tryUnmount(mountPoint)
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(u.retryInterval), u.maxRetries), func(err error, d time.Duration) {
		logger.L().Warning("unmount failed, retrying",
			helpers.String("mountPoint", mountPoint),
			helpers.String("retryIn", d.String()),
			helpers.Error(err))
	})
}

func (u *MountUnmounter) tryUnmount(mountPoint string) error {
	u.metrics.ReportUnmountAttempt()
	if err := u.unmount(mountPoint, 0); err != nil {
		u.metrics.ReportUnmountFailure()
		return err
	}
	logger.L().Info("unmounted", helpers.String("mountPoint", mountPoint))
	return nil
}
