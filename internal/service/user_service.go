package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskmanager/internal/logger"
	"taskmanager/internal/models"
	repo "taskmanager/internal/repository"

	"go.uber.org/zap"
)

type UserService struct {
	repo repo.UserRepository
}

func NewUserService(userRepo repo.UserRepository) UserService {
	return UserService{
		repo: userRepo,
	}
}

// Register проверяет уникальность username, затем email - именно в этом
// порядке, конфликт возвращается по первому совпавшему полю.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		logger.Info("Service: Имя пользователя занято", zap.String("username", username))
		return nil, NewUsernameTaken()
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("проверка имени пользователя: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		logger.Info("Service: Email уже зарегистрирован", zap.String("email", email))
		return nil, NewEmailTaken()
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("проверка email: %w", err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		Password:  password, // без хеширования - паритет с исходным контрактом
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			return nil, NewUsernameTaken()
		}
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, NewEmailTaken()
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	return user, nil
}

// Login сверяет пароль побайтово и выдаёт токен вида user_id:<id>.
// Токен не подписан и не истекает.
func (s *UserService) Login(ctx context.Context, username, password string) (string, int64, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", 0, NewInvalidCredentials()
		}
		return "", 0, fmt.Errorf("получение пользователя: %w", err)
	}

	if user.Password != password {
		return "", 0, NewInvalidCredentials()
	}

	token := fmt.Sprintf("user_id:%d", user.ID)
	return token, user.ID, nil
}

// AuthenticateToken разбирает токен: второй сегмент после ":" должен быть
// целым id существующего пользователя. Префикс не проверяется.
func (s *UserService) AuthenticateToken(ctx context.Context, token string) (*models.User, error) {
	parts := strings.Split(token, ":")
	if len(parts) < 2 {
		return nil, NewInvalidTokenFormat()
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, NewInvalidTokenFormat()
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewInvalidToken()
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	return user, nil
}
