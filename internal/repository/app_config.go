package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// AppSetting — запись из таблицы app_config.
type AppSetting struct {
	// Ключ настройки (snake_case, например "unc_path_certified")
	Key string
	// Строковое значение настройки
	Value string
	// Время создания
	CreatedAt time.Time
	// Время последнего обновления
	UpdatedAt time.Time
}

// AppConfigRepository — интерфейс key-value хранилища настроек приложения.
type AppConfigRepository interface {
	// Get возвращает настройку по ключу. Если не найдена — ErrNotFound.
	Get(ctx context.Context, key string) (*AppSetting, error)
	// Set создаёт или обновляет настройку (upsert).
	Set(ctx context.Context, key, value string) error
	// List возвращает все настройки, отсортированные по ключу.
	List(ctx context.Context) ([]AppSetting, error)
}

// appConfigRepo — реализация AppConfigRepository.
type appConfigRepo struct {
	db DBTX
}

// NewAppConfigRepository создаёт репозиторий настроек приложения.
func NewAppConfigRepository(db DBTX) AppConfigRepository {
	return &appConfigRepo{db: db}
}

// Get возвращает настройку по ключу.
func (r *appConfigRepo) Get(ctx context.Context, key string) (*AppSetting, error) {
	query := `
		SELECT key, value, created_at, updated_at
		FROM app_config
		WHERE key = $1`

	s := &AppSetting{}
	err := r.db.QueryRow(ctx, query, key).Scan(
		&s.Key, &s.Value, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения app_config[%s]: %w", key, err)
	}
	return s, nil
}

// Set создаёт или обновляет настройку (INSERT ... ON CONFLICT DO UPDATE).
func (r *appConfigRepo) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_config (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
			updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("ошибка сохранения app_config[%s]: %w", key, err)
	}
	return nil
}

// List возвращает все настройки, отсортированные по ключу.
func (r *appConfigRepo) List(ctx context.Context) ([]AppSetting, error) {
	query := `
		SELECT key, value, created_at, updated_at
		FROM app_config
		ORDER BY key`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка app_config: %w", err)
	}
	defer rows.Close()

	var settings []AppSetting
	for rows.Next() {
		var s AppSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования app_config: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
