package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gamevideogen/api/internal/client"
	"github.com/gamevideogen/api/internal/model"
	"github.com/gamevideogen/api/internal/store"
)

// scriptCost is the flat estimate for the script-generation call in USD
const scriptCost = 0.01

// TaskProcessor runs the generation pipeline for one task. The call is
// detached; its outcome is observed only through the task store.
type TaskProcessor interface {
	Process(taskID string, req *model.VideoGenerateRequest)
}

// VideoService handles video generation task management
type VideoService struct {
	store     *store.TaskStore
	processor TaskProcessor
}

func NewVideoService(taskStore *store.TaskStore, processor TaskProcessor) *VideoService {
	return &VideoService{
		store:     taskStore,
		processor: processor,
	}
}

// StartGeneration creates a pending task and kicks off the pipeline in the
// background. The caller gets the task id back immediately and polls for
// the outcome.
func (s *VideoService) StartGeneration(req *model.VideoGenerateRequest) (*model.VideoGenerateResponse, error) {
	taskID := uuid.New().String()

	if _, err := s.store.Create(taskID); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	go s.processor.Process(taskID, req)

	estimate := EstimateCost(req.Duration)
	return &model.VideoGenerateResponse{
		TaskID:  taskID,
		Status:  model.TaskStatusProcessing,
		Message: fmt.Sprintf("Video generation started. Estimated cost: $%.2f", estimate.TotalCost),
	}, nil
}

// GetTaskStatus returns the current snapshot of a task
func (s *VideoService) GetTaskStatus(taskID string) (*model.TaskStatusResponse, error) {
	task, err := s.store.Get(taskID)
	if err != nil {
		return nil, err
	}

	return &model.TaskStatusResponse{
		TaskID:       task.ID,
		Status:       task.Status,
		VideoURL:     task.VideoURL,
		ThumbnailURL: task.ThumbnailURL,
		Cost:         task.Cost,
		Error:        task.Error,
	}, nil
}

// EstimateCost breaks down the expected cost for a duration
func EstimateCost(duration model.VideoDuration) model.CostEstimate {
	videoCost := client.VideoCost(fmt.Sprintf("%ds", duration))
	return model.CostEstimate{
		ScriptCost: scriptCost,
		VideoCost:  videoCost,
		TotalCost:  scriptCost + videoCost,
	}
}
