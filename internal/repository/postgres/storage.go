package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskmanager/internal/config"
	"taskmanager/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage владеет пулом соединений. Репозитории задач и пользователей
// работают с одним и тем же пулом.
type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnIdleTime = time.Duration(cfg.IdleTimeout)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool}, nil
}

func NewFromURL(ctx context.Context, connString string) (*Storage, error) {
	return New(ctx, config.DatabaseConfig{
		URL:            connString,
		MaxConnections: 10,
		MinConnections: 2,
		IdleTimeout:    config.Duration(time.Minute * 5),
	})
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

var migrationsUp = []string{"001_init.up.sql", "002_indexes.up.sql"}
var migrationsDown = []string{"002_indexes.down.sql", "001_init.down.sql"}

func (s *Storage) Migrate(ctx context.Context, dir string) error {
	logger.Info("Repository: Применение миграций")

	for _, name := range migrationsUp {
		if err := s.applyFile(ctx, filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

func (s *Storage) Down(ctx context.Context, dir string) error {
	logger.Info("Repository: Откат миграций")

	for _, name := range migrationsDown {
		if err := s.applyFile(ctx, filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	logger.Info("Repository: Миграции откачены")
	return nil
}

func (s *Storage) applyFile(ctx context.Context, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Repository: Не удалось прочитать миграцию", err)
		return fmt.Errorf("чтение миграции %s: %w", path, err)
	}

	if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
		logger.Error("Repository: Не удалось применить миграцию", err)
		return fmt.Errorf("применение миграции %s: %w", path, err)
	}
	return nil
}
