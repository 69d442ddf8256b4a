package endpoints

import (
	"net/http"
	"os"

	"github.com/pauljbernard/content-sub002/pkg/audit"
	"github.com/pauljbernard/content-sub002/pkg/server"
)

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Database      string `json:"database"`
	AuditFailures int64  `json:"audit_failures"`
}

// RegisterStatusEndpoints registers the health endpoint. No auth: load
// balancers poll it.
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/status", handleStatus(s)).Methods("GET")
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("PLATFORM_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		resp := StatusResponse{
			Status:        "ok",
			Version:       version,
			Database:      "ok",
			AuditFailures: audit.Failures(),
		}

		sqlDB, err := s.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			respondWithJSON(w, http.StatusServiceUnavailable, resp)
			return
		}

		respondWithJSON(w, http.StatusOK, resp)
	}
}
