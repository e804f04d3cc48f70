package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/GravitixAI/bolt-mail-operations/internal/config"
	"github.com/GravitixAI/bolt-mail-operations/internal/database"
	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// setupTestDB запускает PostgreSQL контейнер, применяет миграции.
// Возвращает pgxpool.Pool и функцию очистки.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("mailops_test"),
		postgres.WithUsername("mailops"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	// Настраиваем env для config.Load()
	os.Setenv("MO_DB_HOST", host)
	os.Setenv("MO_DB_PORT", port.Port())
	os.Setenv("MO_DB_NAME", "mailops_test")
	os.Setenv("MO_DB_USER", "mailops")
	os.Setenv("MO_DB_PASSWORD", "test-password")
	os.Setenv("MO_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Применяем миграции
	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	// Подключаемся
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return pool
}

// --- Тесты AppConfigRepository ---

func TestAppConfigSetGet(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAppConfigRepository(pool)

	// Get несуществующего ключа
	if _, err := repo.Get(ctx, "unc_path_certified"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() ошибка = %v, хотели ErrNotFound", err)
	}

	// Set
	if err := repo.Set(ctx, "unc_path_certified", `\\scan01\certified`); err != nil {
		t.Fatalf("Set() ошибка: %v", err)
	}

	got, err := repo.Get(ctx, "unc_path_certified")
	if err != nil {
		t.Fatalf("Get() ошибка: %v", err)
	}
	if got.Value != `\\scan01\certified` {
		t.Errorf("Value = %q, хотели %q", got.Value, `\\scan01\certified`)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("CreatedAt/UpdatedAt не установлены")
	}

	// Upsert существующего ключа
	if err := repo.Set(ctx, "unc_path_certified", `\\scan02\certified`); err != nil {
		t.Fatalf("Set() upsert ошибка: %v", err)
	}
	got, err = repo.Get(ctx, "unc_path_certified")
	if err != nil {
		t.Fatalf("Get() ошибка: %v", err)
	}
	if got.Value != `\\scan02\certified` {
		t.Errorf("Value после upsert = %q, хотели %q", got.Value, `\\scan02\certified`)
	}

	// List
	if err := repo.Set(ctx, "auto_sync_enabled", "true"); err != nil {
		t.Fatalf("Set() ошибка: %v", err)
	}
	settings, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(settings) != 2 {
		t.Errorf("len(List()) = %d, хотели 2", len(settings))
	}
	// Сортировка по ключу
	if settings[0].Key != "auto_sync_enabled" {
		t.Errorf("первый ключ = %q, хотели auto_sync_enabled", settings[0].Key)
	}
}

// --- Тесты SyncLogRepository ---

func TestSyncLogAppendList(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewSyncLogRepository(pool)

	now := time.Now().UTC()
	entries := []*model.SyncLogEntry{
		{
			QueueType: model.QueueCertified, UNCPath: `\\scan01\certified`,
			FilesScanned: 10, FilesAdded: 3, FilesUpdated: 7,
			Status: model.SyncStatusSuccess, SyncedAt: now.Add(-2 * time.Hour),
		},
		{
			QueueType: model.QueueRegular, UNCPath: `\\scan01\regular`,
			FilesScanned: 5, Errors: 1,
			Status: model.SyncStatusPartial, Message: "ошибок 1",
			SyncedAt: now.Add(-1 * time.Hour),
		},
		{
			QueueType: model.QueueCertified, UNCPath: `\\scan01\certified`,
			Status: model.SyncStatusError, Message: "mail store недоступен",
			Errors: 1, SyncedAt: now,
		},
	}
	for _, e := range entries {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append() ошибка: %v", err)
		}
		if e.ID == 0 {
			t.Error("Append() не вернул ID")
		}
	}

	// List — новейшие вперёд
	got, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(List()) = %d, хотели 3", len(got))
	}
	if got[0].Status != model.SyncStatusError {
		t.Errorf("первая запись Status = %q, хотели error (новейшая)", got[0].Status)
	}
	if got[2].FilesAdded != 3 {
		t.Errorf("последняя запись FilesAdded = %d, хотели 3", got[2].FilesAdded)
	}
	// Пустое сообщение читается как пустая строка
	if got[2].Message != "" {
		t.Errorf("Message = %q, хотели пустую строку", got[2].Message)
	}

	// Limit
	got, err = repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len(List(1)) = %d, хотели 1", len(got))
	}

	// DeleteOlderThan — удаляет только старые записи
	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-90*time.Minute))
	if err != nil {
		t.Fatalf("DeleteOlderThan() ошибка: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, хотели 1", deleted)
	}
	got, err = repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("после очистки len = %d, хотели 2", len(got))
	}
}
