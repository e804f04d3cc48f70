package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
)

// SyncLogRepository — интерфейс журнала синхронизации (append-only).
type SyncLogRepository interface {
	// Append вставляет новую запись журнала. Записи никогда не изменяются.
	Append(ctx context.Context, e *model.SyncLogEntry) error
	// List возвращает записи журнала, новейшие вперёд.
	List(ctx context.Context, limit int) ([]*model.SyncLogEntry, error)
	// DeleteOlderThan удаляет записи с synced_at раньше cutoff.
	// Возвращает количество удалённых записей.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// syncLogRepo — реализация SyncLogRepository.
type syncLogRepo struct {
	db DBTX
}

// NewSyncLogRepository создаёт репозиторий журнала синхронизации.
func NewSyncLogRepository(db DBTX) SyncLogRepository {
	return &syncLogRepo{db: db}
}

func (r *syncLogRepo) Append(ctx context.Context, e *model.SyncLogEntry) error {
	query := `
		INSERT INTO sync_log (queue_type, unc_path, files_scanned, files_added,
			files_updated, files_deleted, errors, status, message, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		e.QueueType, e.UNCPath, e.FilesScanned, e.FilesAdded,
		e.FilesUpdated, e.FilesDeleted, e.Errors, e.Status,
		nullIfEmpty(e.Message), e.SyncedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("ошибка добавления записи журнала: %w", err)
	}
	return nil
}

func (r *syncLogRepo) List(ctx context.Context, limit int) ([]*model.SyncLogEntry, error) {
	query := `
		SELECT id, queue_type, unc_path, files_scanned, files_added,
			files_updated, files_deleted, errors, status, COALESCE(message, ''), synced_at
		FROM sync_log
		ORDER BY synced_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала: %w", err)
	}
	defer rows.Close()

	var entries []*model.SyncLogEntry
	for rows.Next() {
		e := &model.SyncLogEntry{}
		if err := rows.Scan(
			&e.ID, &e.QueueType, &e.UNCPath, &e.FilesScanned, &e.FilesAdded,
			&e.FilesUpdated, &e.FilesDeleted, &e.Errors, &e.Status, &e.Message, &e.SyncedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *syncLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM sync_log WHERE synced_at < $1`

	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ошибка очистки журнала: %w", err)
	}
	return tag.RowsAffected(), nil
}

// nullIfEmpty превращает пустую строку в NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
