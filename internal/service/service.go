// Package service orchestrates scanning, storage, indexing, and search
// behind one explicitly constructed object with a defined lifetime.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/docscope/internal/config"
	"github.com/hyperjump/docscope/internal/fileid"
	"github.com/hyperjump/docscope/internal/index"
	"github.com/hyperjump/docscope/internal/models"
	"github.com/hyperjump/docscope/internal/scanner"
	"github.com/hyperjump/docscope/internal/search"
	"github.com/hyperjump/docscope/internal/storage"
	"github.com/hyperjump/docscope/internal/watcher"
)

// ErrScanInProgress is returned when a scan is requested while another pass
// is still running.
var ErrScanInProgress = errors.New("service: scan already in progress")

// ScanStats summarizes one completed scan pass.
type ScanStats struct {
	PassID      string        `json:"pass_id"`
	Full        bool          `json:"full"`
	Indexed     int           `json:"indexed"`
	Skipped     int           `json:"skipped"`
	Unreadable  int           `json:"unreadable"`
	Unsupported int           `json:"unsupported"`
	Added       int           `json:"added"`
	Updated     int           `json:"updated"`
	Removed     int           `json:"removed"`
	Generation  uint64        `json:"generation"`
	Duration    time.Duration `json:"duration"`
}

// Status reports the service's current state.
type Status struct {
	Documents    int64      `json:"documents"`
	Generation   uint64     `json:"generation"`
	Terms        int        `json:"terms"`
	ScanProgress int64      `json:"scan_progress"`
	StorageBytes int64      `json:"storage_bytes"`
	LastScan     *ScanStats `json:"last_scan,omitempty"`
}

// Service wires the scanner, document store, index builder, and query
// engine together. Created at startup, torn down at shutdown; never ambient
// global state.
type Service struct {
	cfg      *config.Config
	store    storage.Storage
	idx      *index.Index
	engine   *search.Engine
	scanner  *scanner.Scanner
	notifier Notifier
	logger   *zap.Logger
	cache    *lru.Cache[uint64, *models.SearchResponse]

	scanMu   sync.Mutex
	statusMu sync.Mutex
	lastScan *ScanStats
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithNotifier sets the scan event sink.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// New constructs the service and its components from configuration.
func New(cfg *config.Config, store storage.Storage, opts ...Option) (*Service, error) {
	s := &Service{
		cfg:    cfg,
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewLoggingNotifier(s.logger)
	}

	analyzer := index.NewAnalyzer(cfg.Index.Stemming, cfg.Index.Stopwords, cfg.Index.MaxTermLength)
	idxOpts := []index.Option{index.WithLogger(s.logger)}
	if cfg.Storage.LockPath != "" {
		idxOpts = append(idxOpts, index.WithLockFile(cfg.Storage.LockPath))
	}
	s.idx = index.New(analyzer, idxOpts...)
	s.engine = search.NewEngine(s.idx, store, cfg.Search, search.WithLogger(s.logger))
	s.scanner = scanner.NewScanner(cfg.Scanner, scanner.WithLogger(s.logger))

	cache, err := lru.New[uint64, *models.SearchResponse](cfg.Search.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create search cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Index exposes the index for status reporting and tests.
func (s *Service) Index() *index.Index { return s.idx }

// Bootstrap rebuilds the in-memory index from the document store. Called at
// startup so queries work without waiting for a filesystem scan.
func (s *Service) Bootstrap(ctx context.Context) error {
	const pageSize = 500
	var docs []*models.Document
	for offset := 0; ; offset += pageSize {
		page, err := s.store.ListDocuments(ctx, offset, pageSize)
		if err != nil {
			return fmt.Errorf("load documents: %w", err)
		}
		docs = append(docs, page...)
		if len(page) < pageSize {
			break
		}
	}
	if _, err := s.idx.Apply(ctx, &index.ChangeSet{Added: docs}); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	s.logger.Info("index bootstrapped from storage", zap.Int("documents", len(docs)))
	return nil
}

// RunScan executes one scan pass: walk the roots, diff outcomes against the
// stored corpus by content hash, persist the changes, and publish a single
// new index generation for the whole batch.
func (s *Service) RunScan(ctx context.Context, full bool) (*ScanStats, error) {
	if !s.scanMu.TryLock() {
		return nil, ErrScanInProgress
	}
	defer s.scanMu.Unlock()

	start := time.Now()
	stats := &ScanStats{PassID: uuid.New().String(), Full: full}
	s.notifier.ScanStarted(stats.PassID)

	known, err := s.store.ListAllHashes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored hashes: %w", err)
	}

	mode := scanner.Mode{Kind: scanner.Full}
	if !full {
		mode = scanner.Mode{Kind: scanner.Incremental, Known: known}
	}
	outcomes, err := s.scanner.Scan(ctx, mode)
	if err != nil {
		return nil, err
	}

	cs := &index.ChangeSet{}
	seen := make(map[string]struct{}, len(known))
	for outcome := range outcomes {
		switch outcome.Kind {
		case models.OutcomeIndexed:
			doc := outcome.Document
			seen[doc.ID] = struct{}{}
			stats.Indexed++
			prev, existed := known[doc.ID]
			if existed && prev.ContentHash == doc.ContentHash {
				// Re-read but unchanged (full pass); refresh stat columns only.
				if err := s.store.PutDocument(ctx, doc); err != nil {
					s.logger.Warn("persist failed", zap.String("path", doc.Path), zap.Error(err))
				}
				cs.Updated = append(cs.Updated, doc)
				continue
			}
			if err := s.store.PutDocument(ctx, doc); err != nil {
				s.logger.Warn("persist failed", zap.String("path", doc.Path), zap.Error(err))
				continue
			}
			if existed {
				cs.Updated = append(cs.Updated, doc)
				stats.Updated++
			} else {
				cs.Added = append(cs.Added, doc)
				stats.Added++
			}
		case models.OutcomeSkipped:
			seen[fileIDForOutcome(outcome)] = struct{}{}
			stats.Skipped++
		case models.OutcomeUnreadable:
			stats.Unreadable++
			s.logger.Warn("unreadable file", zap.String("path", outcome.Path), zap.String("detail", outcome.Detail))
		case models.OutcomeUnsupported:
			stats.Unsupported++
		}
		s.notifier.ScanProgress(stats.PassID, s.scanner.Progress())
	}

	// Cancellation ends the outcome stream early; do not treat every
	// unvisited document as removed in that case.
	if ctx.Err() == nil {
		for id := range known {
			if _, ok := seen[id]; ok {
				continue
			}
			if err := s.store.DeleteDocument(ctx, id); err != nil {
				s.logger.Warn("delete failed", zap.String("id", id), zap.Error(err))
				continue
			}
			cs.Removed = append(cs.Removed, id)
			stats.Removed++
		}
	}

	// A completed pass always leaves the index queryable: an empty corpus
	// publishes an empty generation rather than leaving the index unbuilt.
	if !cs.Empty() || s.idx.Generation() == 0 {
		applied, err := s.idx.Apply(ctx, cs)
		if err != nil {
			return nil, fmt.Errorf("apply change set: %w", err)
		}
		stats.Generation = applied.Generation
	} else {
		stats.Generation = s.idx.Generation()
	}
	stats.Duration = time.Since(start)

	s.statusMu.Lock()
	s.lastScan = stats
	s.statusMu.Unlock()
	s.notifier.ScanCompleted(stats.PassID, stats)
	return stats, nil
}

// Search answers a query, serving repeated requests against the same index
// generation from an in-memory cache.
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	key := s.cacheKey(req)
	if resp, ok := s.cache.Get(key); ok {
		return resp, nil
	}
	resp, err := s.engine.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, resp)
	return resp, nil
}

// Suggest returns completion candidates for a prefix.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	return s.engine.Suggest(ctx, prefix, limit)
}

// GetDocument returns one stored document.
func (s *Service) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.store.GetDocument(ctx, id)
}

// DeleteDocument removes a document from the store and publishes an index
// generation without it.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return err
	}
	_, err := s.idx.Apply(ctx, &index.ChangeSet{Removed: []string{id}})
	return err
}

// Status reports document count, index generation, and scan state.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	count, err := s.store.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}
	status := &Status{
		Documents:    count,
		Generation:   s.idx.Generation(),
		ScanProgress: s.scanner.Progress(),
	}
	if snap, err := s.idx.Acquire(); err == nil {
		status.Terms = snap.TermCount()
		snap.Release()
	}
	if bytes, err := storage.DiskUsageBytes(s.cfg.Storage.DatabasePath); err == nil {
		status.StorageBytes = bytes
	} else {
		s.logger.Warn("disk usage unavailable", zap.Error(err))
	}
	s.statusMu.Lock()
	status.LastScan = s.lastScan
	s.statusMu.Unlock()
	return status, nil
}

// Watch consumes filesystem events, folds them into batches with a debounce
// window, and runs an incremental scan per batch. Blocks until ctx ends.
func (s *Service) Watch(ctx context.Context) error {
	w := watcher.New(s.cfg.Scanner.Roots, watcher.WithLogger(s.logger))
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	debounce := time.Duration(s.cfg.Watch.DebounceMS) * time.Millisecond
	var timer *time.Timer
	var timerC <-chan time.Time
	pending := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			pending++
			s.logger.Debug("change observed", zap.String("path", ev.Path))
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-timerC:
			s.logger.Info("rescanning after changes", zap.Int("events", pending))
			pending = 0
			timer = nil
			timerC = nil
			if _, err := s.RunScan(ctx, false); err != nil && !errors.Is(err, ErrScanInProgress) {
				s.logger.Error("watch rescan failed", zap.Error(err))
			}
		}
	}
}

// Close releases the service's resources.
func (s *Service) Close() error {
	return s.store.Close()
}

// cacheKey hashes the request together with the index generation, so stale
// entries are simply never hit after a new generation publishes.
func (s *Service) cacheKey(req *models.SearchRequest) uint64 {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s|%s|%d|%d", s.idx.Generation(), req.Query, req.SortBy, req.Limit, req.Offset)
	axes := make([]string, 0, len(req.Filters))
	for axis := range req.Filters {
		axes = append(axes, axis)
	}
	sort.Strings(axes)
	for _, axis := range axes {
		values := append([]string(nil), req.Filters[axis]...)
		sort.Strings(values)
		fmt.Fprintf(&b, "|%s=%s", axis, strings.Join(values, ","))
	}
	return xxhash.Sum64String(b.String())
}

func fileIDForOutcome(outcome models.ScanOutcome) string {
	if outcome.Document != nil {
		return outcome.Document.ID
	}
	return fileid.FileDocID(outcome.Path)
}
