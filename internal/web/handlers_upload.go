package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/datasweep/internal/core"
	"github.com/JonMunkholm/datasweep/internal/logging"
	"github.com/JonMunkholm/datasweep/internal/web/templates"
)

// uploadField is the multipart field carrying the files.
const uploadField = "files"

// multipartMemory is how much of a form is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// pendingFile is one part of an upload request. Files rejected before
// loading carry err and are reported alongside the loaded ones.
type pendingFile struct {
	name string
	file core.UploadedFile
	err  error
}

// uploadResult is the outcome for one file of an upload request.
type uploadResult struct {
	Filename string            `json:"filename"`
	ID       string            `json:"id,omitempty"`
	Summary  *core.FileSummary `json:"summary,omitempty"`
	Error    *ErrorView        `json:"error,omitempty"`
}

// uploadResponse is the body of POST /api/files.
type uploadResponse struct {
	Loaded int            `json:"loaded"`
	Failed int            `json:"failed"`
	Files  []uploadResult `json:"files"`
}

// readUploads reads every part of the "files" field. Request-level problems
// (no form, no files, too many files) are returned as an error; a single
// oversize file is recorded on that file only.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request) ([]pendingFile, error) {
	maxFiles := s.cfg.Upload.MaxFiles
	maxSize := s.cfg.Upload.MaxFileSize

	r.Body = http.MaxBytesReader(w, r.Body, maxSize*int64(maxFiles)+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, fmt.Errorf("%w: request exceeds %d bytes", errFileTooLarge, tooBig.Limit)
		}
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		return nil, errNoFile
	}
	if len(headers) > maxFiles {
		return nil, fmt.Errorf("%w: %d > %d", errTooManyFiles, len(headers), maxFiles)
	}

	pending := make([]pendingFile, 0, len(headers))
	for _, fh := range headers {
		p := pendingFile{name: fh.Filename}
		if fh.Size > maxSize {
			p.err = fmt.Errorf("%w: %d bytes exceeds %d", errFileTooLarge, fh.Size, maxSize)
		} else {
			p.file, p.err = readPart(fh)
		}
		pending = append(pending, p)
	}
	return pending, nil
}

func readPart(fh *multipart.FileHeader) (core.UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return core.UploadedFile{}, fmt.Errorf("open %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return core.UploadedFile{}, fmt.Errorf("read %q: %w", fh.Filename, err)
	}
	return core.NewUploadedFile(fh.Filename, data), nil
}

// ingest loads the readable files and merges their results with the files
// rejected while reading. Input order is kept.
func (s *Server) ingest(ctx context.Context, pending []pendingFile) []uploadResult {
	var files []core.UploadedFile
	for _, p := range pending {
		if p.err == nil {
			files = append(files, p.file)
		}
	}
	loaded := s.service.Ingest(ctx, files)

	logger := logging.FromContext(ctx)
	results := make([]uploadResult, len(pending))
	next := 0
	for i, p := range pending {
		res := uploadResult{Filename: p.name}
		err := p.err
		if err == nil {
			in := loaded[next]
			next++
			if in.Err == nil {
				sum := in.Workspace.Summary()
				res.ID = in.Workspace.ID
				res.Summary = &sum
			}
			err = in.Err
		}
		if err != nil {
			logger.Warn("file rejected", "filename", p.name, "error", err)
			res.Error = newErrorView(err)
		}
		results[i] = res
	}
	return results
}

// countLoaded returns how many results carry a workspace.
func countLoaded(results []uploadResult) int {
	n := 0
	for _, res := range results {
		if res.Error == nil {
			n++
		}
	}
	return n
}

// handleUpload loads one or more files. Each file succeeds or fails on its
// own; the response is 200 when at least one file loaded and 422 otherwise.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	pending, err := s.readUploads(w, r)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	results := s.ingest(r.Context(), pending)
	loaded := countLoaded(results)

	status := http.StatusOK
	if loaded == 0 {
		status = http.StatusUnprocessableEntity
	}
	render.Status(r, status)
	render.JSON(w, r, uploadResponse{
		Loaded: loaded,
		Failed: len(results) - loaded,
		Files:  results,
	})
}

// handleUploadPage is the dashboard form's target. When every file loads
// the browser is redirected; otherwise the dashboard is shown again with an
// alert per failed file.
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	pending, err := s.readUploads(w, r)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		msg := core.MapError(err)
		s.renderDashboard(w, r, statusFor(err), []templates.Alert{{
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		}})
		return
	}

	results := s.ingest(r.Context(), pending)
	loaded := countLoaded(results)

	if loaded == len(results) {
		target := "/"
		if len(results) == 1 {
			target = "/files/" + results[0].ID
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	var alerts []templates.Alert
	for _, res := range results {
		if res.Error != nil {
			alerts = append(alerts, templates.Alert{
				Filename: res.Filename,
				Message:  res.Error.Message,
				Action:   res.Error.Action,
				Code:     res.Error.Code,
			})
		}
	}

	status := http.StatusOK
	if loaded == 0 {
		status = http.StatusUnprocessableEntity
	}
	s.renderDashboard(w, r, status, alerts)
}
