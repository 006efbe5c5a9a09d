package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskmanager/internal/logger"
	"taskmanager/internal/models"
	repo "taskmanager/internal/repository"
	storagepg "taskmanager/internal/repository/postgres"
	taskpostgres "taskmanager/internal/repository/task/postgres"
	userpostgres "taskmanager/internal/repository/user/postgres"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestSuite - интеграционные тесты репозитория задач
type PostgresTestSuite struct {
	suite.Suite
	container testcontainers.Container
	storage   *storagepg.Storage
	tasks     *taskpostgres.TaskStorage
	users     *userpostgres.UserStorage
	ctx       context.Context

	alice int64
	bob   int64
}

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()
	logger.Init(true)

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb", host, port.Port())

	s.storage, err = storagepg.NewFromURL(s.ctx, connString)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.storage.Migrate(s.ctx, "../../../migrations"))

	s.tasks = taskpostgres.New(s.storage)
	s.users = userpostgres.New(s.storage)
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		s.container.Terminate(s.ctx)
	}
}

// перед каждым тестом чистим задачи и заводим двух владельцев
func (s *PostgresTestSuite) SetupTest() {
	_, err := s.storage.Pool().Exec(s.ctx, "TRUNCATE tasks, users RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err)

	alice := &models.User{Username: "alice", Email: "alice@x.com", Password: "pw", CreatedAt: time.Now().UTC()}
	bob := &models.User{Username: "bob", Email: "bob@x.com", Password: "pw", CreatedAt: time.Now().UTC()}
	require.NoError(s.T(), s.users.Create(s.ctx, alice))
	require.NoError(s.T(), s.users.Create(s.ctx, bob))
	s.alice = alice.ID
	s.bob = bob.ID
}

func (s *PostgresTestSuite) newTask(userID int64, title string) *models.Task {
	return &models.Task{
		Title:     title,
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		CreatedAt: time.Now().UTC(),
		UserID:    userID,
	}
}

func (s *PostgresTestSuite) TestCreateAndGet() {
	description := "2 литра"
	dueDate := "завтра"
	task := s.newTask(s.alice, "Buy milk")
	task.Description = &description
	task.DueDate = &dueDate

	require.NoError(s.T(), s.tasks.Create(s.ctx, task))
	s.NotZero(task.ID)

	got, err := s.tasks.GetByID(s.ctx, s.alice, task.ID)
	require.NoError(s.T(), err)

	s.Equal("Buy milk", got.Title)
	s.Equal(models.StatusTodo, got.Status)
	s.Equal(models.PriorityMedium, got.Priority)
	require.NotNil(s.T(), got.Description)
	s.Equal("2 литра", *got.Description)
	require.NotNil(s.T(), got.DueDate)
	s.Equal("завтра", *got.DueDate)
	s.Equal(s.alice, got.UserID)
}

func (s *PostgresTestSuite) TestGetScopedToOwner() {
	task := s.newTask(s.alice, "secret")
	require.NoError(s.T(), s.tasks.Create(s.ctx, task))

	_, err := s.tasks.GetByID(s.ctx, s.bob, task.ID)
	s.ErrorIs(err, repo.ErrNotFound)

	_, err = s.tasks.GetByID(s.ctx, s.alice, 9999)
	s.ErrorIs(err, repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestGetByUser() {
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(s.T(), s.tasks.Create(s.ctx, s.newTask(s.alice, title)))
	}
	require.NoError(s.T(), s.tasks.Create(s.ctx, s.newTask(s.bob, "bob's")))

	tasks, err := s.tasks.GetByUser(s.ctx, s.alice)
	require.NoError(s.T(), err)
	s.Len(tasks, 3)

	for _, task := range tasks {
		s.Equal(s.alice, task.UserID)
	}
}

func (s *PostgresTestSuite) TestUpdate() {
	task := s.newTask(s.alice, "Buy milk")
	require.NoError(s.T(), s.tasks.Create(s.ctx, task))

	task.Status = models.StatusDone
	require.NoError(s.T(), s.tasks.Update(s.ctx, task))

	got, err := s.tasks.GetByID(s.ctx, s.alice, task.ID)
	require.NoError(s.T(), err)
	s.Equal(models.StatusDone, got.Status)
	s.Equal("Buy milk", got.Title)

	// обновление от чужого имени не проходит
	foreign := *task
	foreign.UserID = s.bob
	s.ErrorIs(s.tasks.Update(s.ctx, &foreign), repo.ErrNotFound)
}

func (s *PostgresTestSuite) TestDelete() {
	task := s.newTask(s.alice, "Buy milk")
	require.NoError(s.T(), s.tasks.Create(s.ctx, task))

	s.ErrorIs(s.tasks.Delete(s.ctx, s.bob, task.ID), repo.ErrNotFound)

	require.NoError(s.T(), s.tasks.Delete(s.ctx, s.alice, task.ID))

	_, err := s.tasks.GetByID(s.ctx, s.alice, task.ID)
	s.ErrorIs(err, repo.ErrNotFound)

	s.ErrorIs(s.tasks.Delete(s.ctx, s.alice, task.ID), repo.ErrNotFound)
}

func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("пропуск интеграционных тестов в -short режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}
