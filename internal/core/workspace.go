package core

import (
	"sync"
	"time"
)

// Recipe is the set of options a user has chosen for one file. The view of
// a workspace is always re-derived from its source table by applying the
// recipe, so changing options never compounds earlier changes.
type Recipe struct {
	RemoveDuplicates bool         `json:"remove_duplicates" toml:"remove_duplicates"`
	FillMissing      bool         `json:"fill_missing" toml:"fill_missing"`
	Columns          []string     `json:"columns" toml:"columns"` // nil keeps every column
	PreviewRows      int          `json:"preview_rows" toml:"preview_rows"`
	ChartLimit       int          `json:"chart_limit" toml:"chart_limit"`
	Format           ExportFormat `json:"format" toml:"format"`
	ShowChart        bool         `json:"show_chart" toml:"show_chart"` // page only; the chart API ignores it
}

// DefaultRecipe keeps every column, cleans nothing and exports CSV.
func DefaultRecipe() Recipe {
	return Recipe{
		PreviewRows: DefaultPreviewRows,
		ChartLimit:  DefaultChartLimit,
		Format:      FormatCSV,
	}
}

// CleanOptions returns the cleaning part of the recipe.
func (r Recipe) CleanOptions() CleanOptions {
	return CleanOptions{RemoveDuplicates: r.RemoveDuplicates, FillMissing: r.FillMissing}
}

// Apply cleans then projects t. The returned CleaningResult's Table is the
// projected view.
func (r Recipe) Apply(t *Table) CleaningResult {
	res := Clean(t, r.CleanOptions())
	if r.Columns != nil {
		res.Table = Project(res.Table, r.Columns)
	}
	return res
}

// Workspace is the processing context of one uploaded file. Nothing is
// shared between workspaces.
type Workspace struct {
	ID      string
	File    UploadedFile // Data is released once loaded
	Source  *Table
	Created time.Time

	mu       sync.RWMutex
	recipe   Recipe
	accessed time.Time
}

// NewWorkspace wraps a loaded table. The upload's bytes are dropped.
func NewWorkspace(id string, file UploadedFile, source *Table) *Workspace {
	now := time.Now()
	file.Data = nil
	return &Workspace{
		ID:       id,
		File:     file,
		Source:   source,
		Created:  now,
		recipe:   DefaultRecipe(),
		accessed: now,
	}
}

// Recipe returns the current options.
func (w *Workspace) Recipe() Recipe {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r := w.recipe
	if r.Columns != nil {
		r.Columns = append([]string{}, r.Columns...)
	}
	return r
}

// SetRecipe replaces the options and returns the resulting view.
func (w *Workspace) SetRecipe(r Recipe) CleaningResult {
	if r.Format == "" {
		r.Format = FormatCSV
	}
	w.mu.Lock()
	w.recipe = r
	w.accessed = time.Now()
	w.mu.Unlock()
	return r.Apply(w.Source)
}

// Result applies the current recipe to the source table.
func (w *Workspace) Result() CleaningResult {
	w.touch()
	return w.Recipe().Apply(w.Source)
}

// Summary describes the uploaded file and its source table.
func (w *Workspace) Summary() FileSummary {
	return Describe(w.File, w.Source)
}

// Preview returns the first n rows of the current view; n < 0 uses the
// recipe's preview size.
func (w *Workspace) Preview(n int) *Table {
	r := w.Recipe()
	if n < 0 {
		n = r.PreviewRows
	}
	return Preview(w.Result().Table, n)
}

// Chart returns chartable numeric columns of the current view; limit <= 0
// uses the recipe's chart limit.
func (w *Workspace) Chart(limit int) ChartData {
	if limit <= 0 {
		limit = w.Recipe().ChartLimit
	}
	return NumericSummary(w.Result().Table, limit)
}

// Export serializes the current view; an empty format uses the recipe's.
func (w *Workspace) Export(format ExportFormat) (ExportArtifact, error) {
	if format == "" {
		format = w.Recipe().Format
	}
	return Export(w.Result().Table, format, w.File.Filename, w.File.Extension)
}

// LastAccess returns when the workspace was last read or changed.
func (w *Workspace) LastAccess() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.accessed
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.accessed = time.Now()
	w.mu.Unlock()
}
