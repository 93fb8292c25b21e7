package service

import (
	"context"
	"errors"
	"fmt"

	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
	"taskmanager/internal/repository"
)

var ErrTaskNotFound = errors.New("task not found")

// EventPublisher receives task change events after successful writes.
type EventPublisher interface {
	Publish(ev domain.TaskEvent)
}

// TaskService implements the task operations over a TaskStore.
type TaskService struct {
	store  repository.TaskStore
	events EventPublisher
}

// NewTaskService creates a task service. events may be nil.
func NewTaskService(store repository.TaskStore, events EventPublisher) *TaskService {
	return &TaskService{store: store, events: events}
}

// Create stores a new, incomplete task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID int64, in domain.NewTask) (*domain.Task, error) {
	t := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     domain.InUTC(in.DueDate),
		Completed:   false,
		UserID:      ownerID,
	}

	id, err := s.store.Insert(ctx, t)
	if err != nil {
		observe("create", err)
		return nil, err
	}
	t.ID = id

	observe("create", nil)
	logger.WithContext(ctx).Info("task created", "task_id", id, "user_id", ownerID)
	s.publish(domain.TaskEvent{Type: domain.TaskCreated, TaskID: id, Task: t})
	return t, nil
}

func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.store.List(ctx)
	observe("list", err)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		observe("get", ErrTaskNotFound)
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	observe("get", err)
	return t, err
}

// Update applies only the fields present in p. Not-found is decided by the
// read-back that follows the write.
func (s *TaskService) Update(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	t, err := s.store.Update(ctx, id, p)
	if errors.Is(err, repository.ErrNotFound) {
		observe("update", ErrTaskNotFound)
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	observe("update", err)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("task updated", "task_id", id)
	s.publish(domain.TaskEvent{Type: domain.TaskUpdated, TaskID: id, Task: t})
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		observe("delete", err)
		return err
	}
	if !deleted {
		observe("delete", ErrTaskNotFound)
		return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}

	observe("delete", nil)
	logger.WithContext(ctx).Info("task deleted", "task_id", id)
	s.publish(domain.TaskEvent{Type: domain.TaskDeleted, TaskID: id})
	return nil
}

func (s *TaskService) publish(ev domain.TaskEvent) {
	if s.events != nil {
		s.events.Publish(ev)
	}
}
