package service

import (
	"context"
	"errors"
	"strings"

	"github.com/itsupport/helpdesk-api/internal/model"
	"github.com/itsupport/helpdesk-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, t model.Task) (model.Task, error) {
	if err := s.validate(t); err != nil { // Валидация модели на корректность введенных данных
		return t, err
	}
	return s.repo.Create(ctx, t)
}

func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	if filter.Urgency != nil && !filter.Urgency.Valid() {
		return nil, ErrValidation
	}
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, ErrValidation
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrValidation
	}
	return s.repo.List(ctx, filter)
}

// Update применяет частичное обновление; поля nil остаются как есть.
// Перевод статуса в RESOLVED/PENDING выставляет или сбрасывает
// resolved_at на стороне репозитория тем же запросом.
func (s *TaskService) Update(ctx context.Context, id string, upd model.TaskUpdate) (model.Task, error) {
	if upd.Description != nil && strings.TrimSpace(*upd.Description) == "" {
		return model.Task{}, ErrValidation
	}
	if upd.Requester != nil && strings.TrimSpace(*upd.Requester) == "" {
		return model.Task{}, ErrValidation
	}
	if upd.Urgency != nil && !upd.Urgency.Valid() {
		return model.Task{}, ErrValidation
	}
	if upd.Category != nil && !upd.Category.Valid() {
		return model.Task{}, ErrValidation
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return model.Task{}, ErrValidation
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) Stats(ctx context.Context) (model.TaskStats, error) {
	return s.repo.Stats(ctx)
}

func (s *TaskService) validate(t model.Task) error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrValidation
	}
	if strings.TrimSpace(t.Requester) == "" {
		return ErrValidation
	}
	if !t.Urgency.Valid() {
		return ErrValidation
	}
	if !t.Category.Valid() {
		return ErrValidation
	}
	return nil
}
