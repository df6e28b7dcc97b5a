package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datasweep/internal/core"
)

type contextKey string

const ctxKeyWorkspace contextKey = "workspace"

// workspaceCtx loads the workspace named by the {id} URL parameter and
// stores it in the request context. Unknown IDs end the request with 404.
func (s *Server) workspaceCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := s.service.Workspace(chi.URLParam(r, "id"))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyWorkspace, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// workspaceFrom returns the workspace stored by workspaceCtx.
func workspaceFrom(ctx context.Context) *core.Workspace {
	ws, _ := ctx.Value(ctxKeyWorkspace).(*core.Workspace)
	return ws
}
