package endpoints

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
)

func TestStatusEndpoint(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	testServer, err := NewTestServer(dbURL, testDataKey())
	if err != nil {
		t.Fatalf("failed to create test server: %v", err)
	}

	RegisterStatusEndpoints(testServer)

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()
	testServer.Router.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp StatusResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if resp.Database != "ok" {
		t.Errorf("expected database ok, got %q", resp.Database)
	}
}
