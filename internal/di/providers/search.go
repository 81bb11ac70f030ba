package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/librarysites/librarysites-server/internal/config"
	"github.com/librarysites/librarysites-server/internal/logger"
	"github.com/librarysites/librarysites-server/internal/search"
	"github.com/librarysites/librarysites-server/internal/service"
)

// SearchIndexHandle wraps the directory index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the bleve directory index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty directory index from the
// store in the background. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	libraries := do.MustInvoke[*service.LibraryService](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, err := libraries.IndexedLibraries()
	if err != nil || docCount > 0 {
		return
	}

	go func() {
		count, err := libraries.RebuildIndex(context.Background())
		if err != nil {
			log.WithError(err).Error("Initial search reindex failed")
			return
		}
		if count > 0 {
			log.Info("Initial search reindex completed", "documents", count)
		}
	}()
}
