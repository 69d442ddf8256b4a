package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/pauljbernard/content-sub002/pkg/model"
	"github.com/pauljbernard/content-sub002/pkg/schema"
	"github.com/pauljbernard/content-sub002/pkg/server"
	"github.com/pauljbernard/content-sub002/pkg/token"
)

func registerAndLogin(t *testing.T, srv *server.Server, email string) (string, token.Pair) {
	t.Helper()

	w := postJSON(t, srv.Router, "/auth/register", RegisterRequest{
		Email: email, Password: "test password 123", FullName: "Test User",
	})
	if w.Code != http.StatusCreated {
		body, _ := io.ReadAll(w.Result().Body)
		t.Fatalf("register failed: %d: %s", w.Code, string(body))
	}
	var reg RegisterResponse
	_ = json.NewDecoder(w.Result().Body).Decode(&reg)

	w = postJSON(t, srv.Router, "/auth/login", LoginRequest{
		Email: email, Password: "test password 123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d", w.Code)
	}
	var pair token.Pair
	_ = json.NewDecoder(w.Result().Body).Decode(&pair)
	return reg.UserID, pair
}

func doJSON(t *testing.T, router http.Handler, method, path, accessToken string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func intPtr(i int) *int { return &i }

func TestInstanceEndpoints(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	testServer, err := NewTestServer(dbURL, testDataKey())
	if err != nil {
		t.Fatalf("failed to create test server: %v", err)
	}

	_ = CleanupTestData(testServer.DB, "test-tenant")
	defer func() { _ = CleanupTestData(testServer.DB, "test-tenant") }()
	defer testServer.DB.Exec(`DELETE FROM content_types WHERE name = 'ApiCredential'`)

	RegisterAll(testServer)

	_, pair := registerAndLogin(t, testServer, "creator@example.com")
	accessToken := pair.AccessToken

	t.Run("create content type", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "POST", "/content-types", accessToken, ContentTypeRequest{
			Name:        "ApiCredential",
			Description: "Integration credentials for external tools",
			Attributes: []schema.AttributeDefinition{
				{Name: "name", Type: schema.AttributeTypeText, Required: true,
					Config: schema.AttributeConfig{MinLength: intPtr(3)}},
				{Name: "api_key", Type: schema.AttributeTypePasswordSecret, Required: true},
			},
		})
		if w.Code != http.StatusCreated {
			body, _ := io.ReadAll(w.Result().Body)
			t.Fatalf("expected status 201, got %d: %s", w.Code, string(body))
		}
	})

	t.Run("create type with reserved name fails", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "POST", "/content-types", accessToken, ContentTypeRequest{
			Name: "UserAccount",
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", w.Code)
		}
	})

	var instanceID string

	t.Run("create instance", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "POST", "/content-types/ApiCredential/instances", accessToken, InstanceRequest{
			Data: map[string]any{"name": "openai", "api_key": "sk-abcdef1234567890"},
		})
		if w.Code != http.StatusCreated {
			body, _ := io.ReadAll(w.Result().Body)
			t.Fatalf("expected status 201, got %d: %s", w.Code, string(body))
		}

		var inst model.ContentInstance
		if err := json.NewDecoder(w.Result().Body).Decode(&inst); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		instanceID = inst.ID

		// Secrets never come back in the clear on write paths.
		got, _ := inst.Data["api_key"].(string)
		if strings.Contains(got, "abcdef") {
			t.Errorf("secret leaked in create response: %q", got)
		}
	})

	t.Run("create instance missing required field", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "POST", "/content-types/ApiCredential/instances", accessToken, InstanceRequest{
			Data: map[string]any{"api_key": "sk-abcdef1234567890"},
		})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status 422, got %d", w.Code)
		}
	})

	t.Run("create instance violating constraint", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "POST", "/content-types/ApiCredential/instances", accessToken, InstanceRequest{
			Data: map[string]any{"name": "ab", "api_key": "sk-abcdef1234567890"},
		})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status 422, got %d", w.Code)
		}
	})

	t.Run("get instance masks secret", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "GET", "/content-types/ApiCredential/instances/"+instanceID, accessToken, nil)
		if w.Code != http.StatusOK {
			body, _ := io.ReadAll(w.Result().Body)
			t.Fatalf("expected status 200, got %d: %s", w.Code, string(body))
		}

		var inst model.ContentInstance
		_ = json.NewDecoder(w.Result().Body).Decode(&inst)
		got, _ := inst.Data["api_key"].(string)
		if got != "sk-a...7890" {
			t.Errorf("expected masked secret sk-a...7890, got %q", got)
		}
	})

	t.Run("get instance with reveal", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "GET", "/content-types/ApiCredential/instances/"+instanceID+"?reveal=true", accessToken, nil)
		// The default teacher role has no reveal grant.
		if w.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", w.Code)
		}
	})

	t.Run("update instance", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "PUT", "/content-types/ApiCredential/instances/"+instanceID, accessToken, InstanceRequest{
			Data:   map[string]any{"name": "openai-prod", "api_key": "sk-0987654321fedcba"},
			Status: model.StatusPublished,
		})
		if w.Code != http.StatusOK {
			body, _ := io.ReadAll(w.Result().Body)
			t.Fatalf("expected status 200, got %d: %s", w.Code, string(body))
		}
	})

	t.Run("list instances", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "GET", "/content-types/ApiCredential/instances", accessToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var insts []model.ContentInstance
		_ = json.NewDecoder(w.Result().Body).Decode(&insts)
		if len(insts) != 1 {
			t.Errorf("expected 1 instance, got %d", len(insts))
		}
	})

	t.Run("archived instances are hidden by default", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "PUT", "/content-types/ApiCredential/instances/"+instanceID, accessToken, InstanceRequest{
			Status: model.StatusArchived,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("archive failed: %d", w.Code)
		}

		w = doJSON(t, testServer.Router, "GET", "/content-types/ApiCredential/instances", accessToken, nil)
		var insts []model.ContentInstance
		_ = json.NewDecoder(w.Result().Body).Decode(&insts)
		if len(insts) != 0 {
			t.Errorf("expected archived instance hidden, got %d instances", len(insts))
		}

		w = doJSON(t, testServer.Router, "GET", "/content-types/ApiCredential/instances?include_archived=true", accessToken, nil)
		_ = json.NewDecoder(w.Result().Body).Decode(&insts)
		if len(insts) != 1 {
			t.Errorf("expected archived instance with include_archived, got %d", len(insts))
		}
	})

	t.Run("delete requires permission", func(t *testing.T) {
		// The default teacher role has no delete grant.
		w := doJSON(t, testServer.Router, "DELETE", "/content-types/ApiCredential/instances/"+instanceID, accessToken, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected status 403, got %d", w.Code)
		}
	})

	t.Run("unauthenticated request rejected", func(t *testing.T) {
		w := doJSON(t, testServer.Router, "GET", "/content-types/ApiCredential/instances", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})
}
