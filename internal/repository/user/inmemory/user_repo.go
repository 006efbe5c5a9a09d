package inmemory

import (
	"context"
	"sync"
	"time"

	"taskmanager/internal/models"
	repo "taskmanager/internal/repository"
)

type UserStorage struct {
	storage    map[int64]*models.User
	byUsername map[string]int64
	byEmail    map[string]int64
	mtx        *sync.RWMutex
	nextID     int64
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		storage:    make(map[int64]*models.User),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
		mtx:        &sync.RWMutex{},
		nextID:     1,
	}
}

func (s *UserStorage) Create(ctx context.Context, userToCreate *models.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.byUsername[userToCreate.Username]; ok {
		return repo.ErrUsernameTaken
	}
	if _, ok := s.byEmail[userToCreate.Email]; ok {
		return repo.ErrEmailTaken
	}

	userToCreate.ID = s.nextID
	s.nextID++
	if userToCreate.CreatedAt.IsZero() {
		userToCreate.CreatedAt = time.Now().UTC()
	}

	s.storage[userToCreate.ID] = userToCreate
	s.byUsername[userToCreate.Username] = userToCreate.ID
	s.byEmail[userToCreate.Email] = userToCreate.ID
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, id int64) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	userToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return userToGet, nil
}

func (s *UserStorage) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return s.storage[id], nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return s.storage[id], nil
}
