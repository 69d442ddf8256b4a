package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/pauljbernard/content-sub002/pkg/access"
	"github.com/pauljbernard/content-sub002/pkg/identity"
	"github.com/pauljbernard/content-sub002/pkg/server"
	"github.com/pauljbernard/content-sub002/pkg/server/middleware"
)

// ProfileResponse is the body of GET /profile
type ProfileResponse struct {
	UserID    string         `json:"user_id"`
	TenantID  string         `json:"tenant_id"`
	OrgID     string         `json:"org_id"`
	Role      string         `json:"role"`
	Superuser bool           `json:"superuser"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// ProfileUpdateRequest is the body of PUT /profile. Only free-form
// attributes are caller-editable; role and tenant changes go through
// admin tooling.
type ProfileUpdateRequest struct {
	Attrs map[string]any `json:"attrs"`
}

// reservedProfileAttrs carry authorization state. Callers cannot set or
// clear them through PUT /profile; identity resolution reads
// is_superuser straight from the stored attrs map.
var reservedProfileAttrs = map[string]bool{
	"is_superuser": true,
}

// mergeProfileAttrs overlays caller-supplied attrs onto the stored map,
// keeping reserved keys at their stored values.
func mergeProfileAttrs(existing, updates map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(updates))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		if reservedProfileAttrs[k] {
			continue
		}
		merged[k] = v
	}
	return merged
}

// RegisterProfileEndpoints registers the caller-facing profile routes.
func RegisterProfileEndpoints(s *server.Server) {
	bearer := middleware.NewBearerAuthenticator(s.Tokens, s.Access)

	r := s.Router.PathPrefix("/profile").Subrouter()
	r.Use(bearer.Middleware)

	r.HandleFunc("", handleGetProfile()).Methods("GET")
	r.HandleFunc("", handleUpdateProfile(s)).Methods("PUT")
	r.HandleFunc("/tenant", handleGetTenant(s)).Methods("GET")
}

func handleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "unable to determine identity")
			return
		}
		respondWithJSON(w, http.StatusOK, ProfileResponse{
			UserID:    id.UserID,
			TenantID:  id.TenantID,
			OrgID:     id.OrgID,
			Role:      id.Role,
			Superuser: id.Superuser,
			Attrs:     id.Attrs,
		})
	}
}

func handleUpdateProfile(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())

		var req ProfileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		profile, err := s.Instances.FindInstance(access.TypeUserProfile, "user_id", id.UserID, "")
		if err != nil {
			respondWithError(w, http.StatusNotFound, "profile not found")
			return
		}

		existing, _ := profile.Data["attrs"].(map[string]any)
		merged := mergeProfileAttrs(existing, req.Attrs)

		profile.Data["attrs"] = merged
		profile.UpdatedBy = id.UserID
		if err := s.Instances.UpdateInstance(profile); err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot update profile")
			return
		}

		s.Recorder.LogUpdate(id.UserID, "profile:"+id.UserID)
		respondWithJSON(w, http.StatusOK, ProfileResponse{
			UserID:    id.UserID,
			TenantID:  id.TenantID,
			OrgID:     id.OrgID,
			Role:      id.Role,
			Superuser: id.Superuser,
			Attrs:     merged,
		})
	}
}

func handleGetTenant(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if id.TenantID == "" {
			respondWithError(w, http.StatusNotFound, "caller has no tenant")
			return
		}

		tenant, err := s.Instances.FindInstance(access.TypeTenant, "tenant_id", id.TenantID, "")
		if err != nil {
			respondWithError(w, http.StatusNotFound, "tenant not found")
			return
		}
		respondWithJSON(w, http.StatusOK, tenant)
	}
}
