package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/librarysites/librarysites-server/internal/config"
	"github.com/librarysites/librarysites-server/internal/kv"
	"github.com/librarysites/librarysites-server/internal/logger"
	"github.com/librarysites/librarysites-server/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the tenant store on the configured key-value backend.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	backend, err := openBackend(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	return &StoreHandle{Store: store.New(backend, log.Logger)}, nil
}

func openBackend(cfg config.StorageConfig, log *logger.Logger) (kv.Store, error) {
	if cfg.Backend == config.BackendRedis {
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()

		r, err := kv.NewRedis(ctx, kv.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Logger:   log.Logger,
		})
		if err != nil {
			return nil, err
		}
		log.Info("Key-value store initialized", "backend", cfg.Backend, "addr", cfg.RedisAddr)
		return r, nil
	}

	dbPath := filepath.Join(cfg.DataPath, "db")
	b, err := kv.NewBadger(kv.BadgerOptions{Path: dbPath, Logger: log.Logger})
	if err != nil {
		return nil, err
	}
	log.Info("Key-value store initialized", "backend", config.BackendBadger, "path", dbPath)
	return b, nil
}
