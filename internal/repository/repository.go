// Package repository implements the task operations on top of the store.
package repository

import (
	"context"
	"math"
	"strconv"
	"time"

	"todo-app/internal/domain"
	"todo-app/internal/errors"
	"todo-app/internal/logging"
	"todo-app/internal/store"
)

// TaskRepository defines the task operations the handlers and CLI rely on
type TaskRepository interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (domain.Task, error)
	CreateTask(ctx context.Context, input domain.NewTask) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)
}

// Repository implements TaskRepository on a store.Store
type Repository struct {
	store *store.Store
	now   func() time.Time
}

// New creates a new repository over the given store
func New(s *store.Store) *Repository {
	return &Repository{store: s, now: time.Now}
}

// ListTasks returns every task in insertion order
func (r *Repository) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := r.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns the task with the given id
func (r *Repository) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	tasks, err := r.store.ReadAll(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	task, ok := tasks.Find(id)
	if !ok {
		return domain.Task{}, errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
	}
	return task, nil
}

// CreateTask appends a new task and returns it with its assigned id
func (r *Repository) CreateTask(ctx context.Context, input domain.NewTask) (domain.Task, error) {
	var created domain.Task
	err := r.store.Mutate(ctx, func(tasks domain.TaskCollection) (domain.TaskCollection, error) {
		created = input.WithID(nextID(tasks, r.now()))
		return append(tasks, created), nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	logging.Debugf("created task %d", created.ID)
	return created, nil
}

// DeleteTask removes the task with the given id and reports whether one was
// removed. Deleting an unknown id is not an error.
func (r *Repository) DeleteTask(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := r.store.Mutate(ctx, func(tasks domain.TaskCollection) (domain.TaskCollection, error) {
		var remaining domain.TaskCollection
		remaining, removed = tasks.Without(id)
		if !removed {
			return nil, store.ErrUnchanged
		}
		return remaining, nil
	})
	if err != nil {
		return false, err
	}
	logging.Debugf("delete task %d: removed=%t", id, removed)
	return removed, nil
}

// nextID derives an id from the clock in milliseconds, bumped past the largest
// id already stored. Once the largest id is math.MaxInt64 there is nothing
// above it, so the first free id at or after the clock is reused instead.
// It must run inside the store's mutation section.
func nextID(tasks domain.TaskCollection, now time.Time) int64 {
	id := now.UnixMilli()
	highest := tasks.MaxID()
	if id > highest {
		return id
	}
	if highest < math.MaxInt64 {
		return highest + 1
	}

	start := max(id, 1)
	if free, ok := firstFreeID(tasks, start, math.MaxInt64); ok {
		return free
	}
	free, _ := firstFreeID(tasks, 1, start)
	return free
}

// firstFreeID scans [from, to) for an id no task holds.
func firstFreeID(tasks domain.TaskCollection, from, to int64) (int64, bool) {
	for id := from; id < to; id++ {
		if _, taken := tasks.Find(id); !taken {
			return id, true
		}
	}
	return 0, false
}
