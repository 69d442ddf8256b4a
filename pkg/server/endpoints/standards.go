package endpoints

import (
	"io"
	"net/http"

	"github.com/pauljbernard/content-sub002/pkg/audit"
	"github.com/pauljbernard/content-sub002/pkg/identity"
	"github.com/pauljbernard/content-sub002/pkg/server"
	"github.com/pauljbernard/content-sub002/pkg/server/middleware"
	"github.com/pauljbernard/content-sub002/pkg/standards"
)

// Standards documents are small; a megabyte is already generous.
const maxStandardsDocument = 1 << 20

// RegisterStandardsEndpoints registers the standards import route.
func RegisterStandardsEndpoints(s *server.Server) {
	bearer := middleware.NewBearerAuthenticator(s.Tokens, s.Access)

	r := s.Router.PathPrefix("/standards").Subrouter()
	r.Use(bearer.Middleware)

	r.HandleFunc("/import", handleStandardsImport(s)).Methods("POST")
}

func handleStandardsImport(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if !s.Access.CheckPermission(id, "import", "standards") {
			s.Recorder.LogDenied(id.UserID, "import", "standards")
			respondWithError(w, http.StatusForbidden, "permission denied")
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxStandardsDocument))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "cannot read request body")
			return
		}

		doc, err := standards.Parse(body)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		report, err := s.Importer.Import(doc, id.TenantID, id.UserID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "import failed")
			return
		}

		s.Recorder.LogEvent(id.UserID, "import", "standards:"+doc.Framework, audit.DecisionAllowed, "standards imported", id.UserID)
		respondWithJSON(w, http.StatusOK, report)
	}
}
