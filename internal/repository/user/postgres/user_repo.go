package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskmanager/internal/logger"
	"taskmanager/internal/models"
	repo "taskmanager/internal/repository"
	"taskmanager/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type UserStorage struct {
	storage *postgres.Storage
}

func New(storage *postgres.Storage) *UserStorage {
	return &UserStorage{storage: storage}
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *models.User) error {
	start := time.Now()

	query := `INSERT INTO users
				(username, email, password, created_at)
				VALUES ($1, $2, $3, $4)
				RETURNING id, created_at`

	err := s.storage.Pool().QueryRow(ctx, query,
		userToCreate.Username,
		userToCreate.Email,
		userToCreate.Password,
		userToCreate.CreatedAt,
	).Scan(&userToCreate.ID, &userToCreate.CreatedAt)

	if err != nil {
		// гонка check-then-insert закрывается уникальными индексами
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return repo.ErrUsernameTaken
			case "users_email_key":
				return repo.ErrEmailTaken
			}
		}
		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getBy(ctx, "id = $1", id)
}

func (s *UserStorage) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getBy(ctx, "username = $1", username)
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getBy(ctx, "email = $1", email)
}

func (s *UserStorage) getBy(ctx context.Context, predicate string, arg any) (*models.User, error) {
	start := time.Now()

	query := `SELECT
				id,
				username,
				email,
				password,
				created_at
				FROM users
				WHERE ` + predicate

	user := &models.User{}
	err := s.storage.Pool().QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return user, nil
}
