package e2e

import (
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/health", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	if result["status"] != "ok" {
		t.Errorf("expected status ok, got %v", result["status"])
	}

	services, ok := result["services"].(map[string]interface{})
	if !ok {
		t.Fatal("expected services object")
	}
	if services["openai"] != false || services["fal"] != false {
		t.Error("test app runs with unconfigured collaborators")
	}
}
