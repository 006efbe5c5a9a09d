package handlers

import (
	"context"

	"taskmanager/internal/models"
)

type TaskService interface {
	ListTasks(ctx context.Context, userID int64) ([]*models.Task, error)
	CreateTask(ctx context.Context, userID int64, title string, description *string, status models.Status, priority models.Priority, dueDate *string) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID int64) (*models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int64, options ...models.TaskOption) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
}

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, int64, error)
	AuthenticateToken(ctx context.Context, token string) (*models.User, error)
}
