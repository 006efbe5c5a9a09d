package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/handlers"
	"taskmanager/internal/logger"
	"taskmanager/internal/middleware"
	"taskmanager/internal/repository"
	"taskmanager/internal/repository/postgres"
	taskinmemory "taskmanager/internal/repository/task/inmemory"
	taskpostgres "taskmanager/internal/repository/task/postgres"
	userinmemory "taskmanager/internal/repository/user/inmemory"
	userpostgres "taskmanager/internal/repository/user/postgres"
	"taskmanager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const migrationsDir = "internal/migrations"

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	shutdowns []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	taskRepo, userRepo, err := a.initRepositories(ctx)
	if err != nil {
		return err
	}

	taskService := service.NewTaskService(taskRepo)
	userService := service.NewUserService(userRepo)

	taskHandler := handlers.NewTaskHandler(&taskService)
	userHandler := handlers.NewUserHandler(&userService)
	systemHandler := handlers.NewSystemHandler()

	a.router = NewRouter(taskHandler, userHandler, systemHandler, &userService)
	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

func (a *App) initRepositories(ctx context.Context) (repository.TaskRepository, repository.UserRepository, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("подключение к PostgreSQL: %w", err)
		}

		a.shutdowns = append(a.shutdowns, storage.Close)

		if err := storage.Migrate(ctx, migrationsDir); err != nil {
			return nil, nil, fmt.Errorf("миграции: %w", err)
		}

		if err := storage.HealthCheck(ctx); err != nil {
			return nil, nil, fmt.Errorf("проверка хранилища: %w", err)
		}

		return taskpostgres.New(storage), userpostgres.New(storage), nil

	case "inmemory", "":
		return taskinmemory.NewTaskStorage(), userinmemory.NewUserStorage(), nil

	default:
		return nil, nil, fmt.Errorf("неизвестный тип репозитория: %s", a.config.Repository.Type)
	}
}

// NewRouter собирает маршруты API. Аутентификация навешивается только
// на /tasks - регистрация, вход и системные ручки открыты.
func NewRouter(taskHandler handlers.TaskHandler, userHandler handlers.UserHandler, systemHandler handlers.SystemHandler, auth middleware.TokenAuthenticator) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "x-token"},
	}))

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.Register) // POST /users/register
		r.Post("/login", userHandler.Login)       // POST /users/login
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(middleware.Auth(auth))

		r.Get("/", taskHandler.ListTasks) // GET /tasks/
		r.Post("/", taskHandler.PostTask) // POST /tasks/

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}
		})
	})

	r.Get("/health", systemHandler.HealthCheck)
	r.Get("/status", systemHandler.Status)

	return r
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("Server started")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("запуск сервера: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}

	return nil
}
