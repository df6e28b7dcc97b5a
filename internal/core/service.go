package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/datasweep/internal/logging"
)

// Observer receives pipeline events. metrics.Pipeline implements it.
type Observer interface {
	FileLoaded(ext string, err error)
	Cleaned(res CleaningResult)
	Exported(format ExportFormat, size int)
}

type nopObserver struct{}

func (nopObserver) FileLoaded(string, error)   {}
func (nopObserver) Cleaned(CleaningResult)     {}
func (nopObserver) Exported(ExportFormat, int) {}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	MaxConcurrent int           // parses in flight across all requests
	MaxWait       time.Duration // wait for a parse slot before ErrTooManyUploads
	Observer      Observer
	Defaults      *Recipe // recipe of new workspaces; nil means DefaultRecipe()
}

// Service owns the in-memory workspaces and runs uploads through the loader.
type Service struct {
	limiter  *UploadLimiter
	observer Observer
	defaults Recipe

	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

// NewService creates a Service.
func NewService(opts Options) *Service {
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	defaults := DefaultRecipe()
	if opts.Defaults != nil {
		defaults = *opts.Defaults
		if defaults.Format == "" {
			defaults.Format = FormatCSV
		}
	}
	return &Service{
		limiter:    NewUploadLimiter(opts.MaxConcurrent, opts.MaxWait),
		observer:   obs,
		defaults:   defaults,
		workspaces: make(map[string]*Workspace),
	}
}

// IngestResult is the outcome for one file of a batch. Exactly one of
// Workspace and Err is set.
type IngestResult struct {
	Filename  string
	Workspace *Workspace
	Err       error
}

// Ingest loads every file into its own workspace. Files are independent: a
// failure is recorded on that file's result and never stops the others.
// Results are in input order.
func (s *Service) Ingest(ctx context.Context, files []UploadedFile) []IngestResult {
	results := make([]IngestResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limiter.MaxConcurrent())

	for i, f := range files {
		g.Go(func() error {
			ws, err := s.ingestOne(gctx, f)
			results[i] = IngestResult{Filename: f.Filename, Workspace: ws, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) ingestOne(ctx context.Context, file UploadedFile) (*Workspace, error) {
	logger := logging.WithFields(ctx, "filename", file.Filename, "size", file.Size)

	// Reject before queueing for a slot.
	if !Supported(file.Extension) {
		_, err := Load(file)
		s.observer.FileLoaded(file.Extension, err)
		logger.Warn("file skipped", "error", err)
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.observer.FileLoaded(file.Extension, err)
		logger.Warn("file not loaded", "error", err)
		return nil, fmt.Errorf("%s: %w", file.Filename, err)
	}
	defer s.limiter.Release()

	start := time.Now()
	table, err := Load(file)
	s.observer.FileLoaded(file.Extension, err)
	if err != nil {
		logger.Warn("file failed to parse", "error", err)
		return nil, err
	}

	ws := NewWorkspace(uuid.NewString(), file, table)
	ws.recipe = s.defaults
	s.mu.Lock()
	s.workspaces[ws.ID] = ws
	s.mu.Unlock()

	logger.Info("file loaded",
		"workspace_id", ws.ID,
		"rows", table.NumRows(),
		"columns", table.NumCols(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ws, nil
}

// Workspace looks up a workspace by ID.
func (s *Service) Workspace(id string) (*Workspace, error) {
	s.mu.RLock()
	ws, ok := s.workspaces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}
	return ws, nil
}

// List returns all workspaces, oldest first.
func (s *Service) List() []*Workspace {
	s.mu.RLock()
	out := make([]*Workspace, 0, len(s.workspaces))
	for _, ws := range s.workspaces {
		out = append(out, ws)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

// Remove deletes a workspace. Removing an unknown ID is an error.
func (s *Service) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[id]; !ok {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}
	delete(s.workspaces, id)
	return nil
}

// Len returns the number of live workspaces.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

// UpdateRecipe sets a workspace's options and reports the cleaning outcome.
func (s *Service) UpdateRecipe(ctx context.Context, id string, r Recipe) (CleaningResult, error) {
	ws, err := s.Workspace(id)
	if err != nil {
		return CleaningResult{}, err
	}
	res := ws.SetRecipe(r)
	s.observer.Cleaned(res)

	logging.WithFields(ctx, "workspace_id", id).Info("recipe updated",
		"dedup", res.DedupApplied,
		"fill", res.ImputationApplied,
		"rows_removed", res.RowsRemoved,
		"columns", res.Table.NumCols(),
	)
	return res, nil
}

// Export serializes a workspace's current view.
func (s *Service) Export(ctx context.Context, id string, format ExportFormat) (ExportArtifact, error) {
	ws, err := s.Workspace(id)
	if err != nil {
		return ExportArtifact{}, err
	}
	if format == "" {
		format = ws.Recipe().Format
	}
	art, err := ws.Export(format)
	if err != nil {
		return ExportArtifact{}, err
	}
	s.observer.Exported(format, len(art.Data))

	logging.WithFields(ctx, "workspace_id", id).Info("exported",
		"filename", art.Filename,
		"format", format,
		"bytes", len(art.Data),
	)
	return art, nil
}

// UploadLimiterStatus reports parse slot usage.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight parses finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
