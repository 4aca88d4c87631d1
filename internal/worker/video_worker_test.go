package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gamevideogen/api/internal/client"
	"github.com/gamevideogen/api/internal/model"
	"github.com/gamevideogen/api/internal/store"
	"github.com/gamevideogen/api/internal/websocket"
)

type stubScriptGenerator struct {
	script *model.VideoScript
	err    error
	calls  int
}

func (s *stubScriptGenerator) Generate(ctx context.Context, req *model.ScriptGenerateRequest) (*model.VideoScript, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.script, nil
}

type stubVideoGenerator struct {
	result     *client.VideoGenerationResult
	err        error
	calls      int
	lastReq    *client.VideoGenerationRequest
	configured bool
}

func (s *stubVideoGenerator) GenerateVideo(ctx context.Context, req *client.VideoGenerationRequest) (*client.VideoGenerationResult, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubVideoGenerator) IsConfigured() bool {
	return s.configured
}

func testScript() *model.VideoScript {
	return &model.VideoScript{
		Scenes: []model.ScriptScene{
			{Duration: 2, VisualPrompt: "A starship emerges from a nebula", AudioPrompt: "Synth swell"},
			{Duration: 2, VisualPrompt: "The pilot grins at the camera", AudioPrompt: "Voice-over"},
		},
		TotalDuration: 4,
	}
}

func testRequest() *model.VideoGenerateRequest {
	return &model.VideoGenerateRequest{
		GameName:        "Orbit",
		GameDescription: "A physics puzzler about slingshotting probes between planets",
		Platform:        model.PlatformYoutube,
		Duration:        model.Duration4,
		AspectRatio:     model.AspectLandscape,
		Language:        model.LanguageEN,
	}
}

func newTestWorker(scripts *stubScriptGenerator, videos *stubVideoGenerator) (*VideoWorker, *store.TaskStore) {
	s := store.NewTaskStore(time.Hour)
	hub := websocket.NewHub()
	go hub.Run()
	return NewVideoWorker(s, scripts, videos, hub), s
}

func TestProcess_Success(t *testing.T) {
	scripts := &stubScriptGenerator{script: testScript()}
	videos := &stubVideoGenerator{
		configured: true,
		result: &client.VideoGenerationResult{
			VideoURL:     "https://cdn.example.com/orbit.mp4",
			ThumbnailURL: "https://cdn.example.com/orbit.jpg",
			Cost:         0.13,
		},
	}
	w, s := newTestWorker(scripts, videos)

	s.Create("task-1")
	w.Process("task-1", testRequest())

	task, err := s.Get("task-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != model.TaskStatusCompleted {
		t.Fatalf("expected completed, got %s", task.Status)
	}
	if task.VideoURL != "https://cdn.example.com/orbit.mp4" {
		t.Errorf("unexpected video url %q", task.VideoURL)
	}
	if task.Cost == nil || *task.Cost != 0.13 {
		t.Errorf("expected cost 0.13, got %v", task.Cost)
	}
	if task.Error != nil {
		t.Errorf("completed task must not carry an error, got %v", *task.Error)
	}
	if videos.calls != 1 {
		t.Errorf("expected 1 video call, got %d", videos.calls)
	}
}

func TestProcess_ScriptFailureStopsPipeline(t *testing.T) {
	scripts := &stubScriptGenerator{err: errors.New("quota exceeded")}
	videos := &stubVideoGenerator{configured: true}
	w, s := newTestWorker(scripts, videos)

	s.Create("task-1")
	w.Process("task-1", testRequest())

	task, _ := s.Get("task-1")
	if task.Status != model.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", task.Status)
	}
	if task.Error == nil || !strings.Contains(*task.Error, "Script generation failed") {
		t.Errorf("expected a script failure message, got %v", task.Error)
	}
	if task.VideoURL != "" {
		t.Error("failed task must not carry a video url")
	}
	if videos.calls != 0 {
		t.Errorf("video generator must not be called after a script failure, got %d calls", videos.calls)
	}
}

func TestProcess_VideoFailureAfterScriptSuccess(t *testing.T) {
	scripts := &stubScriptGenerator{script: testScript()}
	videos := &stubVideoGenerator{configured: true, err: errors.New("service timeout")}
	w, s := newTestWorker(scripts, videos)

	s.Create("task-1")
	w.Process("task-1", testRequest())

	task, _ := s.Get("task-1")
	if task.Status != model.TaskStatusFailed {
		t.Fatalf("expected failed, got %s", task.Status)
	}
	if task.Error == nil || !strings.Contains(*task.Error, "Video generation failed") {
		t.Errorf("expected a video failure message, got %v", task.Error)
	}
	// The successful script step is not exposed on the record
	if task.VideoURL != "" || task.Cost != nil {
		t.Error("failed task must not carry result fields")
	}
	if scripts.calls != 1 || videos.calls != 1 {
		t.Errorf("expected 1 call each, got scripts=%d videos=%d", scripts.calls, videos.calls)
	}
}

func TestProcess_InvalidParamsRejectedBeforeVideoCall(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.VideoGenerateRequest)
		want   string
	}{
		{"bad duration", func(r *model.VideoGenerateRequest) { r.Duration = 6 }, "duration"},
		{"bad aspect ratio", func(r *model.VideoGenerateRequest) { r.AspectRatio = "4:3" }, "aspect ratio"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scripts := &stubScriptGenerator{script: testScript()}
			videos := &stubVideoGenerator{configured: true}
			w, s := newTestWorker(scripts, videos)

			req := testRequest()
			tc.mutate(req)

			s.Create("task-1")
			w.Process("task-1", req)

			task, _ := s.Get("task-1")
			if task.Status != model.TaskStatusFailed {
				t.Fatalf("expected failed, got %s", task.Status)
			}
			if task.Error == nil || !strings.Contains(*task.Error, tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, task.Error)
			}
			if videos.calls != 0 {
				t.Errorf("video generator must not be called with invalid params, got %d calls", videos.calls)
			}
		})
	}
}

func TestProcess_MockVideoWhenUnconfigured(t *testing.T) {
	scripts := &stubScriptGenerator{script: testScript()}
	videos := &stubVideoGenerator{configured: false}
	w, s := newTestWorker(scripts, videos)

	s.Create("task-1")
	w.Process("task-1", testRequest())

	task, _ := s.Get("task-1")
	if task.Status != model.TaskStatusCompleted {
		t.Fatalf("expected completed, got %s", task.Status)
	}
	if task.VideoURL == "" {
		t.Error("mock path must still produce a video url")
	}
	if task.Cost == nil || *task.Cost != 0.13 {
		t.Errorf("expected mapped cost 0.13 for a 4s video, got %v", task.Cost)
	}
	if videos.calls != 0 {
		t.Errorf("unconfigured generator must not be called, got %d calls", videos.calls)
	}
}

func TestBuildVideoRequest(t *testing.T) {
	req := testRequest()
	req.Duration = model.Duration8

	videoReq, err := buildVideoRequest(testScript(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "A starship emerges from a nebula. The pilot grins at the camera"
	if videoReq.Prompt != want {
		t.Errorf("expected combined prompt %q, got %q", want, videoReq.Prompt)
	}
	if videoReq.Duration != "8s" {
		t.Errorf("expected duration 8s, got %q", videoReq.Duration)
	}
	if videoReq.AspectRatio != "16:9" {
		t.Errorf("expected aspect ratio 16:9, got %q", videoReq.AspectRatio)
	}
}

func TestBuildVideoRequest_NoUsablePrompts(t *testing.T) {
	script := &model.VideoScript{
		Scenes:        []model.ScriptScene{{Duration: 2, VisualPrompt: "   "}},
		TotalDuration: 4,
	}

	if _, err := buildVideoRequest(script, testRequest()); err == nil {
		t.Error("expected an error for a script without visual prompts")
	}
}
