package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures pipeline events.
type recordingObserver struct {
	mu      sync.Mutex
	loaded  map[string]int
	failed  int
	cleaned []CleaningResult
	exports []ExportFormat
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{loaded: make(map[string]int)}
}

func (o *recordingObserver) FileLoaded(ext string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded[ext]++
	if err != nil {
		o.failed++
	}
}

func (o *recordingObserver) Cleaned(res CleaningResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleaned = append(o.cleaned, res)
}

func (o *recordingObserver) Exported(format ExportFormat, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.exports = append(o.exports, format)
}

func TestIngest_PartialFailure(t *testing.T) {
	obs := newRecordingObserver()
	svc := NewService(Options{Observer: obs})

	results := svc.Ingest(context.Background(), []UploadedFile{
		NewUploadedFile("report.pdf", []byte("%PDF-1.4")),
		NewUploadedFile("data.csv", []byte("a,b\n1,2\n")),
		NewUploadedFile("broken.csv", []byte("a\n1,2\n")),
	})
	require.Len(t, results, 3)

	assert.Equal(t, "report.pdf", results[0].Filename)
	assert.ErrorIs(t, results[0].Err, ErrUnsupportedFormat)
	assert.Nil(t, results[0].Workspace)

	require.NoError(t, results[1].Err)
	require.NotNil(t, results[1].Workspace)
	assert.Equal(t, 1, results[1].Workspace.Source.NumRows())

	assert.ErrorIs(t, results[2].Err, ErrParse)

	assert.Equal(t, 1, svc.Len())
	assert.Equal(t, 2, obs.failed)
	assert.Equal(t, 2, obs.loaded[".csv"])
	assert.Equal(t, 1, obs.loaded[".pdf"])
}

func TestIngest_Isolation(t *testing.T) {
	svc := NewService(Options{})
	results := svc.Ingest(context.Background(), []UploadedFile{
		NewUploadedFile("one.csv", []byte("a\n1\n1\n")),
		NewUploadedFile("two.csv", []byte("a\n1\n1\n")),
	})

	one, two := results[0].Workspace, results[1].Workspace
	require.NotNil(t, one)
	require.NotNil(t, two)
	assert.NotEqual(t, one.ID, two.ID)

	_, err := svc.UpdateRecipe(context.Background(), one.ID, Recipe{RemoveDuplicates: true})
	require.NoError(t, err)

	assert.Equal(t, 1, one.Result().Table.NumRows())
	assert.Equal(t, 2, two.Result().Table.NumRows())
}

func TestIngest_ManyFiles(t *testing.T) {
	svc := NewService(Options{MaxConcurrent: 2})

	var files []UploadedFile
	for i := 0; i < 12; i++ {
		files = append(files, NewUploadedFile(fmt.Sprintf("f%02d.csv", i), []byte(fmt.Sprintf("n\n%d\n", i))))
	}
	results := svc.Ingest(context.Background(), files)

	for i, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, files[i].Filename, res.Filename, "results keep input order")
	}
	assert.Equal(t, 12, svc.Len())
	assert.Equal(t, 0, svc.UploadLimiterStatus().Active)
}

func TestIngest_CancelledContext(t *testing.T) {
	svc := NewService(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := svc.Ingest(ctx, []UploadedFile{NewUploadedFile("a.csv", []byte("a\n1\n"))})
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Equal(t, 0, svc.Len())
}

func TestService_WorkspaceLifecycle(t *testing.T) {
	svc := NewService(Options{})
	results := svc.Ingest(context.Background(), []UploadedFile{
		NewUploadedFile("a.csv", []byte("a\n1\n")),
	})
	id := results[0].Workspace.ID

	ws, err := svc.Workspace(id)
	require.NoError(t, err)
	assert.Equal(t, id, ws.ID)
	assert.Len(t, svc.List(), 1)

	require.NoError(t, svc.Remove(id))
	_, err = svc.Workspace(id)
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	assert.ErrorIs(t, svc.Remove(id), ErrWorkspaceNotFound)
}

func TestService_ListOldestFirst(t *testing.T) {
	svc := NewService(Options{})
	for _, name := range []string{"first.csv", "second.csv"} {
		svc.Ingest(context.Background(), []UploadedFile{NewUploadedFile(name, []byte("a\n1\n"))})
		time.Sleep(2 * time.Millisecond)
	}

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, "first.csv", list[0].File.Filename)
	assert.Equal(t, "second.csv", list[1].File.Filename)
}

func TestService_UpdateRecipeAndExport(t *testing.T) {
	obs := newRecordingObserver()
	svc := NewService(Options{Observer: obs})
	results := svc.Ingest(context.Background(), []UploadedFile{
		NewUploadedFile("sales.csv", []byte("a,b\n1,\n2,4\n1,\n")),
	})
	id := results[0].Workspace.ID

	res, err := svc.UpdateRecipe(context.Background(), id, Recipe{
		RemoveDuplicates: true,
		FillMissing:      true,
		Format:           FormatExcel,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowsRemoved)

	art, err := svc.Export(context.Background(), id, "")
	require.NoError(t, err)
	assert.Equal(t, "sales.xlsx", art.Filename)
	assert.Equal(t, MIMEExcel, art.MIMEType)

	require.Len(t, obs.cleaned, 1)
	assert.Equal(t, []ExportFormat{FormatExcel}, obs.exports)

	_, err = svc.UpdateRecipe(context.Background(), "nope", Recipe{})
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
	_, err = svc.Export(context.Background(), "nope", FormatCSV)
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)
}

func TestService_Evict(t *testing.T) {
	svc := NewService(Options{})
	svc.Ingest(context.Background(), []UploadedFile{
		NewUploadedFile("old.csv", []byte("a\n1\n")),
	})
	time.Sleep(5 * time.Millisecond)
	cutoff := time.Now()
	results := svc.Ingest(context.Background(), []UploadedFile{
		NewUploadedFile("new.csv", []byte("a\n1\n")),
	})

	assert.Equal(t, 1, svc.Evict(cutoff))
	assert.Equal(t, 1, svc.Len())
	_, err := svc.Workspace(results[0].Workspace.ID)
	assert.NoError(t, err)
}

func TestService_StartJanitor(t *testing.T) {
	svc := NewService(Options{})
	svc.Ingest(context.Background(), []UploadedFile{
		NewUploadedFile("idle.csv", []byte("a\n1\n")),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartJanitor(ctx, JanitorConfig{Interval: 5 * time.Millisecond, TTL: time.Millisecond})
		close(done)
	}()

	assert.Eventually(t, func() bool { return svc.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}

func TestService_WaitForUploads(t *testing.T) {
	svc := NewService(Options{MaxConcurrent: 1})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, svc.WaitForUploads(ctx))
}

func TestIngestResult_ErrorIsPerFile(t *testing.T) {
	svc := NewService(Options{})
	results := svc.Ingest(context.Background(), []UploadedFile{
		NewUploadedFile("a.txt", nil),
		NewUploadedFile("b.xls", nil),
	})
	for _, res := range results {
		var pe *ParseError
		assert.False(t, errors.As(res.Err, &pe))
		assert.ErrorIs(t, res.Err, ErrUnsupportedFormat)
	}
}

func TestService_DefaultRecipe(t *testing.T) {
	svc := NewService(Options{Defaults: &Recipe{PreviewRows: 2, ChartLimit: 3}})
	results := svc.Ingest(context.Background(), []UploadedFile{
		NewUploadedFile("a.csv", []byte("a\n1\n2\n3\n")),
	})
	ws := results[0].Workspace
	require.NotNil(t, ws)

	r := ws.Recipe()
	assert.Equal(t, 2, r.PreviewRows)
	assert.Equal(t, 3, r.ChartLimit)
	assert.Equal(t, FormatCSV, r.Format)
	assert.Equal(t, 2, ws.Preview(-1).NumRows())
}
