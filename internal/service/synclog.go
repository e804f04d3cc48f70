// synclog.go — сервис журнала синхронизации.
//
// Журнал append-only с окном хранения 24 часа: очистка выполняется
// перед каждой записью и каждым чтением, так что окно поддерживается
// непрерывно, а не периодической задачей.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
	"github.com/GravitixAI/bolt-mail-operations/internal/repository"
)

// syncLogRetention — окно хранения записей журнала.
const syncLogRetention = 24 * time.Hour

// defaultSyncLogLimit — лимит выборки журнала по умолчанию.
const defaultSyncLogLimit = 100

// SyncLogService — сервис журнала синхронизации.
type SyncLogService struct {
	repo   repository.SyncLogRepository
	logger *slog.Logger
}

// NewSyncLogService создаёт сервис журнала синхронизации.
func NewSyncLogService(repo repository.SyncLogRepository, logger *slog.Logger) *SyncLogService {
	return &SyncLogService{
		repo:   repo,
		logger: logger.With(slog.String("component", "sync_log_service")),
	}
}

// Append добавляет запись журнала, предварительно удалив устаревшие.
func (s *SyncLogService) Append(ctx context.Context, e *model.SyncLogEntry) error {
	s.cleanup(ctx)

	if e.SyncedAt.IsZero() {
		e.SyncedAt = time.Now().UTC()
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return fmt.Errorf("запись журнала синхронизации: %w", err)
	}
	return nil
}

// List возвращает записи журнала, новейшие вперёд,
// предварительно удалив устаревшие.
func (s *SyncLogService) List(ctx context.Context, limit int) ([]*model.SyncLogEntry, error) {
	s.cleanup(ctx)

	if limit < 1 || limit > 1000 {
		limit = defaultSyncLogLimit
	}
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("чтение журнала синхронизации: %w", err)
	}
	return entries, nil
}

// cleanup удаляет записи старше окна хранения.
// Ошибка очистки не блокирует основную операцию.
func (s *SyncLogService) cleanup(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-syncLogRetention)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn("Ошибка очистки журнала синхронизации", slog.String("error", err.Error()))
		return
	}
	if deleted > 0 {
		s.logger.Debug("Журнал синхронизации очищен", slog.Int64("deleted", deleted))
	}
}
