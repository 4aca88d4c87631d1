package store

import (
	"errors"
	"sync"
	"time"

	"github.com/gamevideogen/api/internal/model"
)

var (
	// ErrTaskNotFound is returned when a task id is unknown or has expired.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskExists is returned when creating a task with an id already in use.
	ErrTaskExists = errors.New("task already exists")
	// ErrInvalidTransition is returned for a status change outside
	// pending -> processing -> {completed, failed}.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// TaskStore is an in-memory registry of video generation tasks. All access
// is serialized through a single mutex; records expire after the TTL and
// are swept lazily on Create.
type TaskStore struct {
	mu    sync.Mutex
	tasks map[string]*model.VideoTask
	ttl   time.Duration
}

// NewTaskStore creates a task store whose records expire after ttl.
func NewTaskStore(ttl time.Duration) *TaskStore {
	return &TaskStore{
		tasks: make(map[string]*model.VideoTask),
		ttl:   ttl,
	}
}

// Create inserts a new pending task keyed by id. The caller is responsible
// for id uniqueness; a duplicate id is rejected with ErrTaskExists. Expired
// records are swept as a side effect.
func (s *TaskStore) Create(id string) (model.VideoTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()

	if _, ok := s.tasks[id]; ok {
		return model.VideoTask{}, ErrTaskExists
	}

	task := &model.VideoTask{
		ID:        id,
		Status:    model.TaskStatusPending,
		CreatedAt: time.Now(),
	}
	s.tasks[id] = task
	return *task, nil
}

// Get returns a snapshot of the task, or ErrTaskNotFound if the id is
// unknown or the record has been evicted.
func (s *TaskStore) Get(id string) (model.VideoTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.VideoTask{}, ErrTaskNotFound
	}
	return *task, nil
}

// MarkProcessing transitions a pending task to processing.
func (s *TaskStore) MarkProcessing(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if task.Status != model.TaskStatusPending {
		return ErrInvalidTransition
	}
	task.Status = model.TaskStatusProcessing
	return nil
}

// Complete transitions a processing task to completed and records the result.
func (s *TaskStore) Complete(id string, result model.VideoResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if task.Status != model.TaskStatusProcessing {
		return ErrInvalidTransition
	}
	cost := result.Cost
	task.Status = model.TaskStatusCompleted
	task.VideoURL = result.VideoURL
	task.ThumbnailURL = result.ThumbnailURL
	task.Cost = &cost
	return nil
}

// Fail transitions a processing task to failed and records the error message.
func (s *TaskStore) Fail(id string, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	if task.Status != model.TaskStatusProcessing {
		return ErrInvalidTransition
	}
	task.Status = model.TaskStatusFailed
	task.Error = &errMsg
	return nil
}

// Len returns the number of live records.
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// evictExpired removes every record older than the TTL, regardless of
// status. Caller must hold the mutex.
func (s *TaskStore) evictExpired() {
	now := time.Now()
	for id, task := range s.tasks {
		if now.Sub(task.CreatedAt) > s.ttl {
			delete(s.tasks, id)
		}
	}
}
