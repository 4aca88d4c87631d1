package worker

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gamevideogen/api/internal/client"
	"github.com/gamevideogen/api/internal/model"
	"github.com/gamevideogen/api/internal/service"
	"github.com/gamevideogen/api/internal/store"
	"github.com/gamevideogen/api/internal/websocket"
)

// VideoWorker drives one task from pending to a terminal state: script
// generation, then video generation. A failure at either stage is terminal
// for the task; there are no retries.
type VideoWorker struct {
	store   *store.TaskStore
	scripts service.ScriptGenerator
	videos  client.VideoGenerator
	hub     *websocket.Hub
}

// NewVideoWorker creates a new video worker
func NewVideoWorker(taskStore *store.TaskStore, scripts service.ScriptGenerator, videos client.VideoGenerator, hub *websocket.Hub) *VideoWorker {
	return &VideoWorker{
		store:   taskStore,
		scripts: scripts,
		videos:  videos,
		hub:     hub,
	}
}

// Process runs the generation pipeline for one task. It is called on its
// own goroutine and never reports back to the submitting request; the
// outcome lands on the task store.
func (w *VideoWorker) Process(taskID string, req *model.VideoGenerateRequest) {
	ctx := context.Background()
	log.Printf("Starting video task: %s", taskID)

	if err := w.store.MarkProcessing(taskID); err != nil {
		log.Printf("Task %s: failed to mark processing: %v", taskID, err)
		return
	}
	w.hub.BroadcastStatus(taskID, model.TaskStatusProcessing)

	// Stage 1: script generation
	scriptReq := &model.ScriptGenerateRequest{
		GameName:        req.GameName,
		GameDescription: req.GameDescription,
		Platform:        req.Platform,
		Duration:        req.Duration,
		Language:        req.Language,
	}

	script, err := w.scripts.Generate(ctx, scriptReq)
	if err != nil {
		w.failTask(taskID, fmt.Sprintf("Script generation failed: %v", err))
		return
	}

	// Stage 2: derive and validate video parameters
	videoReq, err := buildVideoRequest(script, req)
	if err != nil {
		w.failTask(taskID, err.Error())
		return
	}

	// Stage 3: video generation
	var result *client.VideoGenerationResult
	if w.videos == nil || !w.videos.IsConfigured() {
		result = w.generateMockVideo(videoReq)
	} else {
		result, err = w.videos.GenerateVideo(ctx, videoReq)
		if err != nil {
			w.failTask(taskID, fmt.Sprintf("Video generation failed: %v", err))
			return
		}
	}

	videoResult := model.VideoResult{
		VideoURL:     result.VideoURL,
		ThumbnailURL: result.ThumbnailURL,
		Cost:         result.Cost,
	}
	if err := w.store.Complete(taskID, videoResult); err != nil {
		log.Printf("Task %s: failed to save result: %v", taskID, err)
		return
	}

	w.hub.BroadcastComplete(taskID, videoResult)
	log.Printf("Video task %s completed", taskID)
}

// buildVideoRequest turns a script into video generation parameters: every
// scene's visual prompt joined into one combined prompt, the duration in
// the provider's "Ns" form, and the aspect ratio checked against the
// supported set. A mismatch here is terminal for the task.
func buildVideoRequest(script *model.VideoScript, req *model.VideoGenerateRequest) (*client.VideoGenerationRequest, error) {
	prompts := make([]string, 0, len(script.Scenes))
	for _, scene := range script.Scenes {
		if strings.TrimSpace(scene.VisualPrompt) != "" {
			prompts = append(prompts, scene.VisualPrompt)
		}
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("script contains no usable visual prompts")
	}

	if !req.Duration.IsValid() {
		return nil, fmt.Errorf("duration must be 4, 8 or 12 seconds, got %d", req.Duration)
	}
	if !req.AspectRatio.IsValid() {
		return nil, fmt.Errorf("aspect ratio must be 16:9 or 9:16, got %q", req.AspectRatio)
	}

	return &client.VideoGenerationRequest{
		Prompt:      strings.Join(prompts, ". "),
		Duration:    fmt.Sprintf("%ds", req.Duration),
		AspectRatio: string(req.AspectRatio),
	}, nil
}

// generateMockVideo fabricates a result for development when FAL is not
// configured, with a short delay to exercise the processing state.
func (w *VideoWorker) generateMockVideo(req *client.VideoGenerationRequest) *client.VideoGenerationResult {
	time.Sleep(100 * time.Millisecond)
	return &client.VideoGenerationResult{
		VideoURL:     fmt.Sprintf("https://cdn.gamevideogen.dev/videos/mock-%s.mp4", req.Duration),
		ThumbnailURL: fmt.Sprintf("https://cdn.gamevideogen.dev/thumbs/mock-%s.jpg", req.Duration),
		Cost:         client.VideoCost(req.Duration),
	}
}

func (w *VideoWorker) failTask(taskID, errMsg string) {
	if err := w.store.Fail(taskID, errMsg); err != nil {
		log.Printf("Task %s: failed to mark failed: %v", taskID, err)
	}
	w.hub.BroadcastError(taskID, "GENERATION_FAILED", errMsg)
	log.Printf("Video task %s failed: %s", taskID, errMsg)
}
