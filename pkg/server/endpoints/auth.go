package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/pauljbernard/content-sub002/pkg/access"
	"github.com/pauljbernard/content-sub002/pkg/audit"
	"github.com/pauljbernard/content-sub002/pkg/auth"
	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/server"
	"github.com/pauljbernard/content-sub002/pkg/store"
	"github.com/pauljbernard/content-sub002/pkg/token"
)

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// RegisterResponse is the body returned on successful registration
type RegisterResponse struct {
	UserID string `json:"user_id"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterAuthEndpoints registers registration, login and token refresh.
// None of these require authentication.
func RegisterAuthEndpoints(s *server.Server) {
	s.Router.HandleFunc("/auth/register", handleRegister(s)).Methods("POST")
	s.Router.HandleFunc("/auth/login", handleLogin(s)).Methods("POST")
	s.Router.HandleFunc("/auth/refresh", handleRefresh(s)).Methods("POST")
}

func handleRegister(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			respondWithError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		accountType, err := s.Types.GetTypeByName(access.TypeUserAccount)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "account type not installed")
			return
		}
		profileType, err := s.Types.GetTypeByName(access.TypeUserProfile)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "profile type not installed")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot hash password")
			return
		}

		userID := "user-" + uuid.NewString()
		tenantID := s.Config.DefaultTenantID

		account := &model.ContentInstance{
			ContentTypeID: accountType.ID,
			TenantID:      tenantID,
			Status:        model.StatusPublished,
			CreatedBy:     userID,
			UpdatedBy:     userID,
			Data: model.JSONMap{
				"user_id":        userID,
				"email":          req.Email,
				"password_hash":  hash,
				"tenant_id":      tenantID,
				"primary_org_id": s.Config.DefaultOrgID,
				"status":         "active",
			},
		}
		if err := s.Instances.CreateInstanceGuarded(account, "email"); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondWithError(w, http.StatusConflict, "email already registered")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "cannot create account")
			return
		}

		profile := &model.ContentInstance{
			ContentTypeID: profileType.ID,
			TenantID:      tenantID,
			Status:        model.StatusPublished,
			CreatedBy:     userID,
			UpdatedBy:     userID,
			Data: model.JSONMap{
				"user_id":   userID,
				"tenant_id": tenantID,
				"role":      s.Config.DefaultRole,
				"attrs":     map[string]any{"full_name": req.FullName},
			},
		}
		if err := s.Instances.CreateInstance(profile); err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot create profile")
			return
		}

		s.Recorder.LogEvent(userID, "register", "account", audit.DecisionAllowed, "account created", userID)
		respondWithJSON(w, http.StatusCreated, RegisterResponse{UserID: userID})
	}
}

func handleLogin(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		account, err := s.Instances.FindInstance(access.TypeUserAccount, "email", req.Email, "")
		if err != nil {
			// Same response as a bad password: no account enumeration.
			respondWithError(w, http.StatusUnauthorized, "bad credentials")
			return
		}

		hash := account.Field("password_hash")
		if err := auth.VerifyPassword(hash, req.Password); err != nil {
			s.Recorder.LogEvent(account.Field("user_id"), "login", "session", audit.DecisionDenied, "bad password", "")
			respondWithError(w, http.StatusUnauthorized, "bad credentials")
			return
		}
		if status := account.Field("status"); status != "" && status != "active" {
			respondWithError(w, http.StatusForbidden, "account is "+status)
			return
		}

		userID := account.Field("user_id")
		pair, err := s.Tokens.IssuePair(userID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot issue tokens")
			return
		}

		s.Recorder.LogLogin(userID)
		respondWithJSON(w, http.StatusOK, pair)
	}
}

func handleRefresh(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		userID, err := s.Tokens.Verify(req.RefreshToken, token.TypeRefresh)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}

		// The account must still resolve; a deleted user's refresh token
		// is worthless.
		if _, err := s.Access.ResolveIdentity(userID); err != nil {
			respondWithError(w, http.StatusUnauthorized, "unknown identity")
			return
		}

		pair, err := s.Tokens.IssuePair(userID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot issue tokens")
			return
		}
		respondWithJSON(w, http.StatusOK, pair)
	}
}
