package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/repository"
)

type memTaskStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Task
	fail   error
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{rows: map[int64]domain.Task{}}
}

func (m *memTaskStore) Insert(_ context.Context, t *domain.Task) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	m.nextID++
	row := *t
	row.ID = m.nextID
	row.Completed = false
	m.rows[row.ID] = row
	return row.ID, nil
}

func (m *memTaskStore) List(context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := []domain.Task{}
	for _, t := range m.rows {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *memTaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (m *memTaskStore) Update(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	m.mu.Lock()
	if t, ok := m.rows[id]; ok {
		m.rows[id] = p.Apply(t)
	}
	m.mu.Unlock()
	return m.GetByID(ctx, id)
}

func (m *memTaskStore) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

type recordingPublisher struct {
	events []domain.TaskEvent
}

func (r *recordingPublisher) Publish(ev domain.TaskEvent) {
	r.events = append(r.events, ev)
}

func TestTaskService_CreateThenGet(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTaskService(newMemTaskStore(), pub)
	ctx := context.Background()

	desc := "whole"
	due := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, 1, domain.NewTask{Title: "Buy milk", Description: &desc, DueDate: &due})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 || created.Completed || created.UserID != 1 {
		t.Fatalf("unexpected created task: %+v", created)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != created.Title || *got.Description != *created.Description || !got.DueDate.Equal(*created.DueDate) || got.Completed {
		t.Fatalf("get = %+v; want %+v", got, created)
	}

	if len(pub.events) != 1 || pub.events[0].Type != domain.TaskCreated || pub.events[0].TaskID != 1 {
		t.Fatalf("unexpected events: %+v", pub.events)
	}
}

func TestTaskService_CreateNormalizesDueDateToUTC(t *testing.T) {
	svc := NewTaskService(newMemTaskStore(), nil)

	due := time.Date(2025, 7, 1, 11, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	created, err := svc.Create(context.Background(), 1, domain.NewTask{Title: "call", DueDate: &due})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.DueDate == nil || !created.DueDate.Equal(due) || created.DueDate.Location() != time.UTC {
		t.Fatalf("due date = %v; want %v", created.DueDate, due.UTC())
	}
}

func TestTaskService_UpdatePreservesUntouchedFields(t *testing.T) {
	svc := NewTaskService(newMemTaskStore(), nil)
	ctx := context.Background()

	desc := "original"
	due := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	created, err := svc.Create(ctx, 1, domain.NewTask{Title: "a", Description: &desc, DueDate: &due})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "b"
	got, err := svc.Update(ctx, created.ID, domain.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "b" || *got.Description != "original" || !got.DueDate.Equal(due) {
		t.Fatalf("unexpected task after title-only update: %+v", got)
	}

	done := true
	got, err = svc.Update(ctx, created.ID, domain.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !got.Completed || got.Title != "b" {
		t.Fatalf("unexpected task after completing: %+v", got)
	}
}

func TestTaskService_NotFound(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTaskService(newMemTaskStore(), pub)
	ctx := context.Background()

	if _, err := svc.Get(ctx, 42); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("get: %v; want ErrTaskNotFound", err)
	}
	if err := svc.Delete(ctx, 42); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("delete: %v; want ErrTaskNotFound", err)
	}
	title := "x"
	if _, err := svc.Update(ctx, 42, domain.TaskPatch{Title: &title}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("update: %v; want ErrTaskNotFound", err)
	}

	created, _ := svc.Create(ctx, 1, domain.NewTask{Title: "gone"})
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("get after delete: %v; want ErrTaskNotFound", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("second delete: %v; want ErrTaskNotFound", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("deleted task still listed: %+v", list)
	}

	last := pub.events[len(pub.events)-1]
	if last.Type != domain.TaskDeleted || last.Task != nil {
		t.Fatalf("unexpected delete event: %+v", last)
	}
}

func TestTaskService_StorageErrorPropagates(t *testing.T) {
	store := newMemTaskStore()
	store.fail = errors.New("foreign key violation")
	pub := &recordingPublisher{}
	svc := NewTaskService(store, pub)

	_, err := svc.Create(context.Background(), 99, domain.NewTask{Title: "orphan"})
	if err == nil || errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event expected on failure")
	}
}
