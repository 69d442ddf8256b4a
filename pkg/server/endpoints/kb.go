package endpoints

import (
	"net/http"

	"github.com/pauljbernard/content-sub002/pkg/identity"
	"github.com/pauljbernard/content-sub002/pkg/kb"
	"github.com/pauljbernard/content-sub002/pkg/server"
	"github.com/pauljbernard/content-sub002/pkg/server/middleware"

	"github.com/gorilla/mux"
)

// RegisterKBEndpoints registers the knowledge base browsing routes.
func RegisterKBEndpoints(s *server.Server) {
	bearer := middleware.NewBearerAuthenticator(s.Tokens, s.Access)

	r := s.Router.PathPrefix("/kb").Subrouter()
	r.Use(bearer.Middleware)

	r.HandleFunc("", handleKBList(s)).Methods("GET")
	r.HandleFunc("/search", handleKBSearch(s)).Methods("GET")
	// Render takes the rest of the path as the file, slashes included.
	r.HandleFunc("/render/{path:.+}", handleKBRender(s)).Methods("GET")
	r.HandleFunc("/{path:.+}", handleKBList(s)).Methods("GET")
}

func kbAllowed(s *server.Server, w http.ResponseWriter, r *http.Request) *identity.Identity {
	id, _ := identity.Get(r.Context())
	if !s.Access.CheckPermission(id, "view", "kb:*") {
		s.Recorder.LogDenied(id.UserID, "view", "kb")
		respondWithError(w, http.StatusForbidden, "permission denied")
		return nil
	}
	return id
}

func handleKBList(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := kbAllowed(s, w, r)
		if id == nil {
			return
		}

		dir := mux.Vars(r)["path"]
		entries, err := s.Library.List(dir)
		if err != nil {
			if err == kb.ErrNotFound {
				respondWithError(w, http.StatusNotFound, "no such directory")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "cannot list directory")
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
	}
}

func handleKBSearch(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := kbAllowed(s, w, r)
		if id == nil {
			return
		}

		pattern := r.URL.Query().Get("q")
		if pattern == "" {
			respondWithError(w, http.StatusBadRequest, "q parameter is required")
			return
		}

		entries, err := s.Library.Search(pattern)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid glob pattern")
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
	}
}

func handleKBRender(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := kbAllowed(s, w, r)
		if id == nil {
			return
		}

		path := mux.Vars(r)["path"]
		html, err := s.Library.Render(path)
		if err != nil {
			if err == kb.ErrNotFound {
				respondWithError(w, http.StatusNotFound, "no such file")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "cannot render file")
			return
		}

		s.Recorder.LogView(id.UserID, "kb:"+path)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)
	}
}
