package inmemory

import (
	"context"
	"sync"
	"time"

	"taskmanager/internal/models"
	repo "taskmanager/internal/repository"
)

type TaskStorage struct {
	storage map[int64]*models.Task
	mtx     *sync.RWMutex
	ids     []int64 // порядок вставки
	nextID  int64
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*models.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		nextID:  1,
	}
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.ID = s.nextID
	s.nextID++
	if taskToCreate.CreatedAt.IsZero() {
		taskToCreate.CreatedAt = time.Now().UTC()
	}

	s.storage[taskToCreate.ID] = taskToCreate
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[taskID]
	if !ok || taskToGet.UserID != userID {
		return nil, repo.ErrNotFound
	}
	return taskToGet, nil
}

func (s *TaskStorage) GetByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*models.Task{}
	for _, id := range s.ids {
		taskToGet := s.storage[id]
		if taskToGet.UserID != userID {
			continue
		}
		res = append(res, taskToGet)
	}

	return res, nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *models.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToUpdate.ID]
	if !ok || existing.UserID != taskToUpdate.UserID {
		return repo.ErrNotFound
	}

	s.storage[taskToUpdate.ID] = taskToUpdate
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, userID, taskID int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToDelete, ok := s.storage[taskID]
	if !ok || taskToDelete.UserID != userID {
		return repo.ErrNotFound
	}

	delete(s.storage, taskID)
	for ind, val := range s.ids {
		if val == taskID {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}
