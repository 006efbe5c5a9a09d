package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskmanager/internal/logger"
	"taskmanager/internal/models"
	repo "taskmanager/internal/repository"

	"go.uber.org/zap"
)

// проверки бизнес-логики живут здесь, предикат владельца - в репозитории

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(taskRepo repo.TaskRepository) TaskService {
	return TaskService{
		repo: taskRepo,
	}
}

func (s *TaskService) ListTasks(ctx context.Context, userID int64) ([]*models.Task, error) {
	tasks, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID int64, title string, description *string, status models.Status, priority models.Priority, dueDate *string) (*models.Task, error) {
	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		CreatedAt:   time.Now().UTC(),
		DueDate:     dueDate,
		UserID:      userID,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена",
				zap.Int64("task_id", taskID),
				zap.Int64("user_id", userID))
			return nil, NewTaskNotFound(taskID)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return task, nil
}

// UpdateTask перечитывает задачу и применяет только переданные опции -
// остальные поля сохраняют прежние значения.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID int64, options ...models.TaskOption) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена",
				zap.Int64("task_id", taskID),
				zap.Int64("user_id", userID))
			return nil, NewTaskNotFound(taskID)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	for _, opt := range options {
		opt(task)
	}

	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewTaskNotFound(taskID)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID int64) error {
	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена",
				zap.Int64("task_id", taskID),
				zap.Int64("user_id", userID))
			return NewTaskNotFound(taskID)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}
