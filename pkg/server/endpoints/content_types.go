package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pauljbernard/content-sub002/pkg/identity"
	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/schema"
	"github.com/pauljbernard/content-sub002/pkg/server"
	"github.com/pauljbernard/content-sub002/pkg/server/middleware"
	"github.com/pauljbernard/content-sub002/pkg/store"
)

// ContentTypeRequest is the body of type create/update requests.
type ContentTypeRequest struct {
	Name           string                       `json:"name"`
	Description    string                       `json:"description"`
	Icon           string                       `json:"icon"`
	IsHierarchical bool                         `json:"is_hierarchical"`
	Hierarchy      *model.HierarchyConfig       `json:"hierarchy,omitempty"`
	Attributes     []schema.AttributeDefinition `json:"attributes"`
}

// RegisterContentTypeEndpoints registers the content-type registry CRUD.
func RegisterContentTypeEndpoints(s *server.Server) {
	bearer := middleware.NewBearerAuthenticator(s.Tokens, s.Access)

	r := s.Router.PathPrefix("/content-types").Subrouter()
	r.Use(bearer.Middleware)

	r.HandleFunc("", handleListTypes(s)).Methods("GET")
	r.HandleFunc("", handleCreateType(s)).Methods("POST")
	r.HandleFunc("/{name}", handleGetType(s)).Methods("GET")
	r.HandleFunc("/{name}", handleUpdateType(s)).Methods("PUT")
	r.HandleFunc("/{name}", handleDeleteType(s)).Methods("DELETE")
}

func validateAttributes(attrs []schema.AttributeDefinition) error {
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		if a.Name == "" {
			return errors.New("attribute with empty name")
		}
		if seen[a.Name] {
			return errors.New("duplicate attribute name: " + a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

func handleListTypes(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if !s.Access.CheckPermission(id, "read", "content-types") {
			respondWithError(w, http.StatusForbidden, "permission denied")
			return
		}

		types, err := s.Types.ListTypes()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot list content types")
			return
		}
		respondWithJSON(w, http.StatusOK, types)
	}
}

func handleCreateType(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if !s.Access.CheckPermission(id, "create", "content-types") {
			s.Recorder.LogDenied(id.UserID, "create", "content-types")
			respondWithError(w, http.StatusForbidden, "permission denied")
			return
		}

		var req ContentTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}
		// System types are installed by bootstrap, never via the API.
		if s.Access.IsSystemType(req.Name) {
			respondWithError(w, http.StatusForbidden, "reserved type name")
			return
		}
		if err := validateAttributes(req.Attributes); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		ct := &model.ContentType{
			Name:            req.Name,
			Description:     req.Description,
			Icon:            req.Icon,
			IsHierarchical:  req.IsHierarchical,
			HierarchyConfig: req.Hierarchy,
			Attributes:      req.Attributes,
			CreatedBy:       id.UserID,
		}
		if err := s.Types.CreateType(ct); err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot create content type")
			return
		}

		s.Recorder.LogCreate(id.UserID, "content-type:"+ct.Name)
		respondWithJSON(w, http.StatusCreated, ct)
	}
}

func handleGetType(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if !s.Access.CheckPermission(id, "read", "content-types") {
			respondWithError(w, http.StatusForbidden, "permission denied")
			return
		}

		ct, err := s.Types.GetTypeByName(mux.Vars(r)["name"])
		if err != nil {
			respondWithError(w, http.StatusNotFound, "content type not found")
			return
		}
		respondWithJSON(w, http.StatusOK, ct)
	}
}

func handleUpdateType(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if !s.Access.CheckPermission(id, "update", "content-types") {
			s.Recorder.LogDenied(id.UserID, "update", "content-types")
			respondWithError(w, http.StatusForbidden, "permission denied")
			return
		}

		name := mux.Vars(r)["name"]
		ct, err := s.Types.GetTypeByName(name)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "content type not found")
			return
		}
		if ct.IsSystem && !id.Superuser {
			respondWithError(w, http.StatusForbidden, "system type is protected")
			return
		}

		var req ContentTypeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if err := validateAttributes(req.Attributes); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		// The attribute list is replaced wholesale. Instance payloads are
		// not rewritten; keys for removed attributes simply stop being
		// validated.
		ct.Description = req.Description
		ct.Icon = req.Icon
		ct.IsHierarchical = req.IsHierarchical
		ct.HierarchyConfig = req.Hierarchy
		ct.Attributes = req.Attributes
		if err := s.Types.UpdateType(ct); err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot update content type")
			return
		}

		s.Recorder.LogUpdate(id.UserID, "content-type:"+ct.Name)
		respondWithJSON(w, http.StatusOK, ct)
	}
}

func handleDeleteType(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		if !s.Access.CheckPermission(id, "delete", "content-types") {
			s.Recorder.LogDenied(id.UserID, "delete", "content-types")
			respondWithError(w, http.StatusForbidden, "permission denied")
			return
		}

		name := mux.Vars(r)["name"]
		ct, err := s.Types.GetTypeByName(name)
		if err != nil {
			respondWithError(w, http.StatusNotFound, "content type not found")
			return
		}

		switch err := s.Types.DeleteType(ct.ID); {
		case err == nil:
		case errors.Is(err, store.ErrSystemType):
			respondWithError(w, http.StatusForbidden, "system type is protected")
			return
		case errors.Is(err, store.ErrTypeInUse):
			respondWithError(w, http.StatusConflict, "content type still has instances")
			return
		default:
			respondWithError(w, http.StatusInternalServerError, "cannot delete content type")
			return
		}

		s.Recorder.LogDelete(id.UserID, "content-type:"+name)
		respondWithJSON(w, http.StatusOK, map[string]string{"deleted": name})
	}
}
