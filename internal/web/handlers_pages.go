package web

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datasweep/internal/core"
	"github.com/JonMunkholm/datasweep/internal/web/templates"
)

// renderPage writes a full page with the given status.
func renderPage(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = templates.Layout(title, body).Render(r.Context(), w)
}

// renderDashboard renders the upload form and file list.
func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, alerts []templates.Alert) {
	list := s.service.List()
	items := make([]templates.WorkspaceItem, len(list))
	for i, ws := range list {
		items[i] = templates.WorkspaceItem{ID: ws.ID, Summary: ws.Summary(), Created: ws.Created}
	}
	renderPage(w, r, status, "Files", templates.Dashboard(items, alerts, s.cfg.Upload.MaxFiles))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.renderDashboard(w, r, http.StatusOK, nil)
}

// handleWorkspacePage shows one file with its current options applied.
func (s *Server) handleWorkspacePage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())
	recipe := ws.Recipe()
	result := ws.Result()

	view := templates.WorkspaceView{
		ID:            ws.ID,
		Summary:       ws.Summary(),
		Profile:       core.Profile(ws.Source),
		SourceColumns: ws.Source.Columns(),
		Recipe:        recipe,
		Result:        result,
		Preview:       core.Preview(result.Table, recipe.PreviewRows),
	}
	if recipe.ShowChart {
		view.Chart = core.NumericSummary(result.Table, recipe.ChartLimit)
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.WorkspacePage(view).Render(r.Context(), w)
		return
	}
	renderPage(w, r, http.StatusOK, view.Summary.Filename, templates.WorkspacePage(view))
}

// handleRecipeForm applies the options form and redirects back to the page.
func (s *Server) handleRecipeForm(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r.Context())

	req, err := recipeForm(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	recipe, err := s.recipe(req, ws.Recipe())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if _, err := s.service.UpdateRecipe(r.Context(), ws.ID, recipe); err != nil {
		s.respondError(w, r, err)
		return
	}

	http.Redirect(w, r, "/files/"+ws.ID, http.StatusSeeOther)
}
