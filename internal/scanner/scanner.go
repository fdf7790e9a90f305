// Package scanner walks file trees and turns files into scan outcomes using
// a bounded worker pool.
package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/docscope/internal/config"
	"github.com/hyperjump/docscope/internal/extract"
	"github.com/hyperjump/docscope/internal/fileid"
	"github.com/hyperjump/docscope/internal/format"
	"github.com/hyperjump/docscope/internal/models"
	"github.com/hyperjump/docscope/internal/storage"
)

// ModeKind selects between a full rescan and an incremental pass.
type ModeKind int

const (
	// Full reads and hashes every candidate file.
	Full ModeKind = iota
	// Incremental skips files whose stat fingerprint matches a known entry;
	// the content hash stays the authority for "changed" whenever the file
	// is actually read.
	Incremental
)

// Mode describes one scan pass. Known maps document id to the stored
// fingerprint and is consulted only in Incremental mode.
type Mode struct {
	Kind  ModeKind
	Known map[string]storage.HashEntry
}

// Scanner walks configured roots and produces one ScanOutcome per regular
// file visited. It holds no per-pass state besides the progress counter.
type Scanner struct {
	cfg      config.ScannerConfig
	logger   *zap.Logger
	progress atomic.Int64
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a scanner for the configured roots.
func NewScanner(cfg config.ScannerConfig, opts ...Option) *Scanner {
	s := &Scanner{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Progress returns the number of outcomes emitted so far in the current or
// most recent pass. It is safe to read concurrently with a running scan.
func (s *Scanner) Progress() int64 {
	return s.progress.Load()
}

type job struct {
	path string
	info fs.FileInfo
}

// Scan walks every root and streams one outcome per regular file. The
// returned channel closes after the walk completes and all dispatched work
// drains. Cancelling ctx stops dispatch of new files; in-flight files finish
// and their outcomes are still delivered.
//
// A missing or unreadable root is a configuration error and fails the whole
// pass up front, before any work is dispatched.
func (s *Scanner) Scan(ctx context.Context, mode Mode) (<-chan models.ScanOutcome, error) {
	for _, root := range s.cfg.Roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("invalid scan root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("scan root is not a directory: %s", root)
		}
	}
	s.progress.Store(0)

	ignore := newIgnoreMatcher(s.cfg.Ignore)
	// Buffer equals the pool size: the walker blocks when all workers are
	// busy instead of buffering the whole tree.
	jobs := make(chan job, s.cfg.Workers)
	out := make(chan models.ScanOutcome)

	var g errgroup.Group
	for i := 0; i < s.cfg.Workers; i++ {
		g.Go(func() error {
			for j := range jobs {
				outcome := s.processFile(j, mode)
				s.progress.Add(1)
				out <- outcome
			}
			return nil
		})
	}

	go func() {
		s.walk(ctx, ignore, jobs)
		close(jobs)
		_ = g.Wait()
		close(out)
	}()
	return out, nil
}

// walk feeds candidate files into jobs, pruning ignored subtrees before
// descending into them.
func (s *Scanner) walk(ctx context.Context, ignore *ignoreMatcher, jobs chan<- job) {
	for _, root := range s.cfg.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if walkErr != nil {
				s.logger.Warn("walk error", zap.String("path", path), zap.Error(walkErr))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil || rel == "." {
				return nil
			}
			if ignore.Match(rel) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				s.logger.Warn("stat failed", zap.String("path", path), zap.Error(err))
				return nil
			}
			select {
			case jobs <- job{path: path, info: info}:
			case <-ctx.Done():
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			s.logger.Warn("walk aborted", zap.String("root", root), zap.Error(err))
		}
	}
}

// processFile turns one file into exactly one outcome. Panics in extractors
// are confined to the file.
func (s *Scanner) processFile(j job, mode Mode) (outcome models.ScanOutcome) {
	outcome.Path = j.path
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("extractor panic", zap.String("path", j.path), zap.Any("panic", r))
			outcome.Kind = models.OutcomeUnreadable
			outcome.Detail = fmt.Sprintf("extractor panic: %v", r)
			outcome.Document = nil
		}
	}()

	id := fileid.FileDocID(j.path)
	known, haveKnown := mode.Known[id]

	// Fast pre-filter: a file whose mtime and size both match the stored
	// entry is assumed unchanged without reading it. Any stat difference
	// falls through to content hashing, which is the authority.
	if mode.Kind == Incremental && haveKnown &&
		!j.info.ModTime().After(known.Modified) && j.info.Size() == known.Size {
		outcome.Kind = models.OutcomeSkipped
		outcome.Detail = "unchanged"
		return outcome
	}

	if j.info.Size() > s.cfg.MaxFileSizeBytes {
		outcome.Kind = models.OutcomeUnsupported
		outcome.Detail = fmt.Sprintf("file size %d exceeds limit %d", j.info.Size(), s.cfg.MaxFileSizeBytes)
		return outcome
	}

	raw, err := os.ReadFile(j.path)
	if err != nil {
		outcome.Kind = models.OutcomeUnreadable
		outcome.Detail = err.Error()
		return outcome
	}

	variant := format.Detect(j.path, raw)
	if variant == format.Unsupported {
		outcome.Kind = models.OutcomeUnsupported
		outcome.Detail = "unsupported format"
		return outcome
	}

	res, err := extract.Extract(variant, j.path, raw)
	if err != nil {
		outcome.Kind = models.OutcomeUnreadable
		outcome.Detail = err.Error()
		return outcome
	}

	sum := sha256.Sum256([]byte(res.Body))
	hash := hex.EncodeToString(sum[:])
	if mode.Kind == Incremental && haveKnown && hash == known.ContentHash {
		outcome.Kind = models.OutcomeSkipped
		outcome.Detail = "content unchanged"
		return outcome
	}

	outcome.Kind = models.OutcomeIndexed
	outcome.Document = &models.Document{
		ID:          id,
		Path:        j.path,
		Title:       res.Title,
		Format:      variant.String(),
		ContentHash: hash,
		Size:        j.info.Size(),
		Modified:    j.info.ModTime(),
		IndexedAt:   time.Now(),
		Category:    res.Category,
		Tags:        res.Tags,
		Metadata:    res.Meta,
		Body:        res.Body,
	}
	return outcome
}
