package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/librarysites/librarysites-server/internal/config"
	"github.com/librarysites/librarysites-server/internal/logger"
)

// ReconcileJob periodically removes custom domain mappings whose tenant no
// longer exists.
type ReconcileJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *ReconcileJob) Shutdown() error {
	if j.cancel != nil {
		j.cancel()
	}
	return nil
}

// ProvideReconcileJob provides the orphaned custom domain sweep. A zero
// interval leaves it disabled.
func ProvideReconcileJob(i do.Injector) (*ReconcileJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	interval := cfg.Jobs.ReconcileInterval
	if interval <= 0 {
		log.Info("Custom domain reconcile job disabled")
		return &ReconcileJob{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	sweep := func(label string) {
		if count, err := storeHandle.ReconcileCustomDomains(ctx); err != nil {
			if ctx.Err() == nil {
				log.WithError(err).Warn(label + " failed")
			}
		} else if count > 0 {
			log.Info(label+" completed", "removed", count)
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		sweep("Initial custom domain reconcile")

		for {
			select {
			case <-ticker.C:
				sweep("Custom domain reconcile")
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Custom domain reconcile job started", "interval", interval)

	return &ReconcileJob{cancel: cancel}, nil
}
