package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pauljbernard/content-sub002/pkg/audit"
	"github.com/pauljbernard/content-sub002/pkg/identity"
	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/server"
	"github.com/pauljbernard/content-sub002/pkg/server/middleware"
	"github.com/pauljbernard/content-sub002/pkg/store"
)

// InstanceRequest is the body of instance create/update requests.
type InstanceRequest struct {
	Data   map[string]any       `json:"data"`
	Status model.InstanceStatus `json:"status,omitempty"`
}

// RelationshipsRequest is the body of the relationship replace request.
type RelationshipsRequest struct {
	Attribute string   `json:"attribute"`
	TargetIDs []string `json:"target_ids"`
}

// RegisterInstanceEndpoints registers content-instance CRUD under
// /content-types/{type}/instances.
func RegisterInstanceEndpoints(s *server.Server) {
	bearer := middleware.NewBearerAuthenticator(s.Tokens, s.Access)

	r := s.Router.PathPrefix("/content-types/{type}/instances").Subrouter()
	r.Use(bearer.Middleware)

	r.HandleFunc("", handleListInstances(s)).Methods("GET")
	r.HandleFunc("", handleCreateInstance(s)).Methods("POST")
	r.HandleFunc("/{id}", handleGetInstance(s)).Methods("GET")
	r.HandleFunc("/{id}", handleUpdateInstance(s)).Methods("PUT")
	r.HandleFunc("/{id}", handleDeleteInstance(s)).Methods("DELETE")
	r.HandleFunc("/{id}/relationships", handleListRelationships(s)).Methods("GET")
	r.HandleFunc("/{id}/relationships", handleReplaceRelationships(s)).Methods("PUT")
}

// resolveTypeForRequest loads the content type from the route and checks
// the caller's permission for the given action on it. A nil return means
// the response has already been written.
func resolveTypeForRequest(s *server.Server, w http.ResponseWriter, r *http.Request, action string) (*model.ContentType, *identity.Identity) {
	id, _ := identity.Get(r.Context())
	typeName := mux.Vars(r)["type"]

	ct, err := s.Types.GetTypeByName(typeName)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "content type not found")
		return nil, nil
	}

	if !s.Access.CheckPermission(id, action, "content:"+typeName) {
		s.Recorder.LogDenied(id.UserID, action, "content:"+typeName)
		respondWithError(w, http.StatusForbidden, "permission denied")
		return nil, nil
	}
	return ct, id
}

// tenantScope returns the tenant filter for a type: system types are
// tenant-exempt, everything else is scoped to the caller's tenant.
func tenantScope(s *server.Server, ct *model.ContentType, id *identity.Identity) string {
	if s.Access.IsSystemType(ct.Name) {
		return ""
	}
	return id.TenantID
}

// guardInstanceTenant rejects cross-tenant access to non-system
// instances.
func guardInstanceTenant(s *server.Server, ct *model.ContentType, id *identity.Identity, inst *model.ContentInstance) bool {
	if s.Access.IsSystemType(ct.Name) || id.Superuser {
		return true
	}
	return inst.TenantID == "" || inst.TenantID == id.TenantID
}

func handleListInstances(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct, id := resolveTypeForRequest(s, w, r, "read")
		if ct == nil {
			return
		}

		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		if limit <= 0 || limit > s.Config.APIListLimitMax {
			limit = s.Config.APIListLimitMax
		}

		opts := store.ListOptions{
			TenantID:        tenantScope(s, ct, id),
			Status:          model.InstanceStatus(q.Get("status")),
			IncludeArchived: q.Get("include_archived") == "true",
			Limit:           limit,
			Offset:          offset,
		}
		if opts.Status != "" && !opts.Status.Valid() {
			respondWithError(w, http.StatusBadRequest, "invalid status filter")
			return
		}

		insts, err := s.Instances.ListInstances(ct.ID, opts)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot list instances")
			return
		}

		out := make([]model.ContentInstance, 0, len(insts))
		for _, inst := range insts {
			masked, err := s.Engine.RevealSecrets(ct.Attributes, inst.Data, true)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "cannot prepare response")
				return
			}
			inst.Data = masked
			out = append(out, inst)
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleCreateInstance(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct, id := resolveTypeForRequest(s, w, r, "create")
		if ct == nil {
			return
		}

		var req InstanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if req.Status != "" && !req.Status.Valid() {
			respondWithError(w, http.StatusBadRequest, "invalid status")
			return
		}

		data, result, err := s.Engine.ValidateWrite(ct.Attributes, req.Data)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "validation failed")
			return
		}
		if !result.OK() {
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": result.Errors})
			return
		}

		inst := &model.ContentInstance{
			ContentTypeID: ct.ID,
			TenantID:      tenantScope(s, ct, id),
			Status:        req.Status,
			Data:          data,
			CreatedBy:     id.UserID,
			UpdatedBy:     id.UserID,
		}
		if inst.TenantID != "" {
			inst.Data["tenant_id"] = inst.TenantID
		}
		if err := s.Instances.CreateInstance(inst); err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot create instance")
			return
		}

		s.Recorder.LogCreate(id.UserID, "content:"+ct.Name+":"+inst.ID)
		masked, err := s.Engine.RevealSecrets(ct.Attributes, inst.Data, true)
		if err == nil {
			inst.Data = masked
		}
		respondWithJSON(w, http.StatusCreated, inst)
	}
}

func handleGetInstance(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct, id := resolveTypeForRequest(s, w, r, "read")
		if ct == nil {
			return
		}

		inst, err := s.Instances.GetInstance(mux.Vars(r)["id"])
		if err != nil || inst.ContentTypeID != ct.ID {
			respondWithError(w, http.StatusNotFound, "instance not found")
			return
		}
		if !guardInstanceTenant(s, ct, id, inst) {
			// A cross-tenant id probe looks identical to a miss.
			respondWithError(w, http.StatusNotFound, "instance not found")
			return
		}

		// Secrets come back masked unless the caller asks for, and is
		// allowed, a reveal.
		reveal := r.URL.Query().Get("reveal") == "true"
		if reveal && !s.Access.CheckPermission(id, "reveal", "content:"+ct.Name) {
			s.Recorder.LogDenied(id.UserID, "reveal", "content:"+ct.Name+":"+inst.ID)
			respondWithError(w, http.StatusForbidden, "permission denied")
			return
		}

		data, err := s.Engine.RevealSecrets(ct.Attributes, inst.Data, !reveal)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot decrypt secret attributes")
			return
		}
		inst.Data = data

		if reveal {
			s.Recorder.LogEvent(id.UserID, "reveal", "content:"+ct.Name+":"+inst.ID, audit.DecisionAllowed, "secrets revealed", id.UserID)
		}
		respondWithJSON(w, http.StatusOK, inst)
	}
}

func handleUpdateInstance(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct, id := resolveTypeForRequest(s, w, r, "update")
		if ct == nil {
			return
		}

		inst, err := s.Instances.GetInstance(mux.Vars(r)["id"])
		if err != nil || inst.ContentTypeID != ct.ID {
			respondWithError(w, http.StatusNotFound, "instance not found")
			return
		}
		if !guardInstanceTenant(s, ct, id, inst) {
			respondWithError(w, http.StatusNotFound, "instance not found")
			return
		}

		var req InstanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		if req.Data != nil {
			data, result, err := s.Engine.ValidateWrite(ct.Attributes, req.Data)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "validation failed")
				return
			}
			if !result.OK() {
				respondWithJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": result.Errors})
				return
			}
			if inst.TenantID != "" {
				data["tenant_id"] = inst.TenantID
			}
			inst.Data = data
		}
		if req.Status != "" {
			if !req.Status.Valid() {
				respondWithError(w, http.StatusBadRequest, "invalid status")
				return
			}
			inst.Status = req.Status
		}
		inst.UpdatedBy = id.UserID

		if err := s.Instances.UpdateInstance(inst); err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot update instance")
			return
		}

		s.Recorder.LogUpdate(id.UserID, "content:"+ct.Name+":"+inst.ID)
		masked, err := s.Engine.RevealSecrets(ct.Attributes, inst.Data, true)
		if err == nil {
			inst.Data = masked
		}
		respondWithJSON(w, http.StatusOK, inst)
	}
}

func handleDeleteInstance(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct, id := resolveTypeForRequest(s, w, r, "delete")
		if ct == nil {
			return
		}

		instID := mux.Vars(r)["id"]
		inst, err := s.Instances.GetInstance(instID)
		if err != nil || inst.ContentTypeID != ct.ID {
			respondWithError(w, http.StatusNotFound, "instance not found")
			return
		}
		if !guardInstanceTenant(s, ct, id, inst) {
			respondWithError(w, http.StatusNotFound, "instance not found")
			return
		}

		if err := s.Instances.DeleteInstance(instID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "instance not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "cannot delete instance")
			return
		}

		s.Recorder.LogDelete(id.UserID, "content:"+ct.Name+":"+instID)
		respondWithJSON(w, http.StatusOK, map[string]string{"deleted": instID})
	}
}

func handleListRelationships(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct, id := resolveTypeForRequest(s, w, r, "read")
		if ct == nil {
			return
		}

		inst, err := s.Instances.GetInstance(mux.Vars(r)["id"])
		if err != nil || inst.ContentTypeID != ct.ID || !guardInstanceTenant(s, ct, id, inst) {
			respondWithError(w, http.StatusNotFound, "instance not found")
			return
		}

		rels, err := s.Instances.ListRelationships(inst.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot list relationships")
			return
		}
		respondWithJSON(w, http.StatusOK, rels)
	}
}

func handleReplaceRelationships(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct, id := resolveTypeForRequest(s, w, r, "update")
		if ct == nil {
			return
		}

		inst, err := s.Instances.GetInstance(mux.Vars(r)["id"])
		if err != nil || inst.ContentTypeID != ct.ID || !guardInstanceTenant(s, ct, id, inst) {
			respondWithError(w, http.StatusNotFound, "instance not found")
			return
		}

		var req RelationshipsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if req.Attribute == "" {
			respondWithError(w, http.StatusBadRequest, "attribute is required")
			return
		}
		if attr := ct.Attribute(req.Attribute); attr == nil {
			respondWithError(w, http.StatusBadRequest, "unknown referencing attribute")
			return
		}

		if err := s.Instances.ReplaceRelationships(inst.ID, req.Attribute, req.TargetIDs); err != nil {
			respondWithError(w, http.StatusInternalServerError, "cannot replace relationships")
			return
		}

		s.Recorder.LogUpdate(id.UserID, "content:"+ct.Name+":"+inst.ID+":relationships")
		respondWithJSON(w, http.StatusOK, map[string]any{
			"source_id": inst.ID,
			"attribute": req.Attribute,
			"targets":   len(req.TargetIDs),
		})
	}
}
