package search

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Index wraps a Bleve index of library documents.
//
// All public methods are safe for concurrent use. Rebuild takes the write
// lock; everything else shares the read lock.
type Index struct {
	index    bleve.Index
	path     string
	inMemory bool
	logger   *slog.Logger
	mu       sync.RWMutex
	closed   bool
}

// Options configures the search index.
type Options struct {
	DataPath string       // Directory for index storage
	InMemory bool         // Keep the index in memory only (tests, ephemeral deployments)
	Logger   *slog.Logger // Uses a discard logger if nil
}

// mappingVersion is bumped whenever the index mapping changes, forcing a
// rebuild of on-disk indexes on the next start.
const mappingVersion = "1"

// NewIndex creates or opens the directory index. An on-disk index that is
// unreadable or was built with an older mapping is discarded and recreated
// empty; callers repopulate it with Rebuild.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.InMemory {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Index{index: index, inMemory: true, logger: logger}, nil
	}

	indexPath := filepath.Join(opts.DataPath, "directory.bleve")
	versionPath := filepath.Join(opts.DataPath, "directory.version")

	var index bleve.Index
	var err error
	needsRebuild := false

	indexExists := false
	if _, statErr := os.Stat(indexPath); statErr == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, readErr := os.ReadFile(versionPath)
		if readErr != nil || string(existingVersion) != mappingVersion {
			logger.Info("directory index mapping changed, will rebuild",
				"old_version", string(existingVersion),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open existing index, will recreate",
				"path", indexPath,
				"error", err,
			)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		index = nil
	}

	if index == nil {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if writeErr := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); writeErr != nil {
			logger.Warn("failed to write directory index version file", "error", writeErr)
		}
		logger.Info("created directory index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened directory index", "path", indexPath)
	}

	return &Index{index: index, path: indexPath, logger: logger}, nil
}

// Close closes the index and releases resources. Closing twice is a no-op.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.index.Close()
}

// IndexDocument adds or replaces a single library.
func (s *Index) IndexDocument(doc *Document) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.Subdomain, doc.ToMap())
}

// DeleteDocument removes a library from the index.
func (s *Index) DeleteDocument(subdomain string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(subdomain)
}

// DocumentCount returns the number of indexed libraries.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild replaces the whole index with docs.
func (s *Index) Rebuild(docs []*Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var (
		index bleve.Index
		err   error
	)
	if s.inMemory {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	s.index = index

	const batchSize = 500
	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.Subdomain, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.Subdomain, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.logger.Info("rebuilt directory index", "documents", len(docs))
	return nil
}
