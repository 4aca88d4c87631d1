package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/gamevideogen/api/internal/client"
	"github.com/gamevideogen/api/internal/config"
	"github.com/gamevideogen/api/internal/handler"
	"github.com/gamevideogen/api/internal/service"
	"github.com/gamevideogen/api/internal/store"
	ws "github.com/gamevideogen/api/internal/websocket"
	"github.com/gamevideogen/api/internal/worker"
)

// testApp holds all components needed for testing
type testApp struct {
	app   *fiber.App
	store *store.TaskStore
}

// setupApp creates a Fiber app wired like main.go but with unconfigured
// external clients, so the script and video stages run on their mock
// fallbacks. The rate limiter is left out to keep tests free of Redis.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	validate := validator.New()

	// External clients — no API keys, so services use mock fallbacks
	openaiClient := client.NewOpenAIClient(&config.OpenAIConfig{})
	falClient := client.NewFalClient(&config.FalConfig{})

	hub := ws.NewHub()
	go hub.Run()

	taskStore := store.NewTaskStore(time.Hour)

	scriptService := service.NewScriptService(openaiClient)
	videoWorker := worker.NewVideoWorker(taskStore, scriptService, falClient, hub)
	videoService := service.NewVideoService(taskStore, videoWorker)

	scriptHandler := handler.NewScriptHandler(scriptService, validate)
	videoHandler := handler.NewVideoHandler(videoService, validate)

	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"openai": openaiClient.IsConfigured(),
				"fal":    falClient.IsConfigured(),
			},
			"tasks": taskStore.Len(),
		})
	})

	api := app.Group("/api")

	script := api.Group("/script")
	script.Post("/generate", scriptHandler.Generate)

	video := api.Group("/video")
	video.Post("/generate", videoHandler.Generate)
	video.Get("/status", videoHandler.Status)

	return &testApp{app: app, store: taskStore}
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return app.Test(req, -1)
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// assertErrorCode checks the error envelope code.
func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected error object in response")
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v", code, errObj["code"])
	}
}

// pollUntilTerminal polls the status endpoint until the task reaches a
// terminal state or the deadline passes, returning the final snapshot.
func pollUntilTerminal(t *testing.T, app *fiber.App, taskID string, maxWait time.Duration) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(maxWait)

	for time.Now().Before(deadline) {
		resp, err := doRequest(app, http.MethodGet, "/api/video/status?taskId="+taskID, "")
		if err != nil {
			t.Fatalf("poll failed: %v", err)
		}
		assertStatus(t, resp, http.StatusOK)
		result := parseJSON(t, resp)

		status, _ := result["status"].(string)
		if status == "completed" || status == "failed" {
			return result
		}
		if status != "pending" && status != "processing" {
			t.Fatalf("unexpected status %q", status)
		}

		time.Sleep(20 * time.Millisecond)
	}

	t.Fatalf("task %s did not reach a terminal state within %v", taskID, maxWait)
	return nil
}
