package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/datasweep/internal/core"
	"github.com/JonMunkholm/datasweep/internal/logging"
)

// fileView is a workspace in the file list.
type fileView struct {
	ID      string           `json:"id"`
	Summary core.FileSummary `json:"summary"`
	Created time.Time        `json:"created"`
}

// fileDetail is the body of GET /api/files/{id}.
type fileDetail struct {
	fileView
	Columns []string             `json:"columns"`
	Profile []core.ColumnProfile `json:"profile"`
	Recipe  core.Recipe          `json:"recipe"`
}

// recipeResponse is the body of PUT /api/files/{id}/recipe.
type recipeResponse struct {
	Recipe  core.Recipe         `json:"recipe"`
	Result  core.CleaningResult `json:"result"`
	Rows    int                 `json:"rows"`
	Columns []string            `json:"columns"`
}

// tableView is a table as JSON. Missing cells are null, numbers are numbers.
type tableView struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	TotalRows int      `json:"total_rows"`
}

func newFileView(ws *core.Workspace) fileView {
	return fileView{ID: ws.ID, Summary: ws.Summary(), Created: ws.Created}
}

func newTableView(t *core.Table, total int) tableView {
	v := tableView{Columns: t.Columns(), Rows: make([][]any, t.NumRows()), TotalRows: total}
	for r := range v.Rows {
		row := t.Row(r)
		cells := make([]any, len(row))
		for c, val := range row {
			switch {
			case val.IsMissing():
				cells[c] = nil
			case val.IsNumber():
				cells[c] = val.Num
			default:
				cells[c] = val.Text
			}
		}
		v.Rows[r] = cells
	}
	return v
}

// handleHealth reports liveness plus workspace and parse slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":     "ok",
		"workspaces": s.service.Len(),
		"uploads":    s.service.UploadLimiterStatus(),
	})
}

// handleListFiles returns the open workspaces, oldest first.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	list := s.service.List()
	out := make([]fileView, len(list))
	for i, ws := range list {
		out[i] = newFileView(ws)
	}
	render.JSON(w, r, out)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())
	render.JSON(w, r, fileDetail{
		fileView: newFileView(ws),
		Columns:  ws.Source.Columns(),
		Profile:  core.Profile(ws.Source),
		Recipe:   ws.Recipe(),
	})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())
	if err := s.service.Remove(ws.ID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateRecipe replaces the workspace's options and returns what the
// cleaning did.
func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())

	var req recipeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: %v", errInvalidOption, err))
		return
	}

	recipe, err := s.recipe(req, ws.Recipe())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.UpdateRecipe(r.Context(), ws.ID, recipe)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	render.JSON(w, r, recipeResponse{
		Recipe:  ws.Recipe(),
		Result:  res,
		Rows:    res.Table.NumRows(),
		Columns: res.Table.Columns(),
	})
}

// handlePreview returns the first rows of the current view. ?rows overrides
// the recipe's preview size.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())

	n, err := intQuery(r, "rows", -1)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if r.URL.Query().Has("rows") {
		if err := s.checkLimit("rows", n, 0, s.cfg.Pipeline.MaxPreviewRows); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	total := ws.Result().Table.NumRows()
	render.JSON(w, r, newTableView(ws.Preview(n), total))
}

// handleChart returns the chartable numeric columns. ?limit overrides the
// recipe's chart limit.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())

	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if r.URL.Query().Has("limit") {
		if err := s.checkLimit("limit", limit, 1, s.cfg.Pipeline.MaxChartLimit); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	render.JSON(w, r, ws.Chart(limit))
}

// handleExport downloads the current view. ?format overrides the recipe's
// export format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())

	var format core.ExportFormat
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := core.ParseExportFormat(raw)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		format = f
	}

	art, err := s.service.Export(r.Context(), ws.ID, format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", art.MIMEType)
	w.Header().Set("Content-Disposition", contentDisposition(art.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "workspace", ws.ID, "error", err)
	}
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// contentDisposition marks the response as a download named filename.
func contentDisposition(filename string) string {
	return `attachment; filename="` + quoteEscaper.Replace(filename) + `"`
}
