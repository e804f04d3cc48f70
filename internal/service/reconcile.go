// reconcile.go — движок реконсиляции: приведение реестра mail_scans
// в соответствие со свежим листингом каталога очереди.
//
// Алгоритм (одна транзакция mail store):
//  1. Снапшот имён файлов, известных реестру для unc_path (existing)
//  2. Upsert каждого файла листинга по ключу (unc_path, filename);
//     вставка или обновление определяется членством в existing
//  3. Удаление записей existing − current (файлы, исчезнувшие с диска)
//  4. Commit; любая транзакционная ошибка откатывает всё целиком
//
// Построчные ошибки upsert считаются и не прерывают пакет (status partial);
// ошибка соединения или транзакции даёт status error с нулевыми счётчиками.
//
// Prometheus-метрики:
//   - mo_sync_duration_seconds — длительность реконсиляции (по очередям)
//   - mo_sync_files_total — обработанные файлы (по очередям и операциям)
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
	"github.com/GravitixAI/bolt-mail-operations/internal/mailstore"
	"github.com/GravitixAI/bolt-mail-operations/internal/names"
)

// Prometheus-метрики реконсиляции.
var (
	syncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mo_sync_duration_seconds",
		Help:    "Длительность реконсиляции очереди",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms … ~102s
	}, []string{"queue"})

	syncFilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mo_sync_files_total",
		Help: "Количество обработанных файлов при реконсиляции",
	}, []string{"queue", "operation"}) // operation: added, updated, deleted, failed
)

// MailStore — соединение с mail store, открываемое на одну реконсиляцию.
type MailStore interface {
	Begin(ctx context.Context) (MailTx, error)
	Exists(ctx context.Context, uncPath, filename string) (bool, error)
	Close() error
}

// MailTx — транзакция реконсиляции.
type MailTx interface {
	FilenamesByPath(ctx context.Context, uncPath string) ([]string, error)
	Upsert(ctx context.Context, rec *model.MailRecord) error
	DeleteByFilenames(ctx context.Context, uncPath string, filenames []string) (int64, error)
	Commit() error
	Rollback() error
}

// MailStoreOpener открывает соединение с mail store по учётным данным.
// Вынесено в функцию для подмены в тестах.
type MailStoreOpener func(ctx context.Context, creds mailstore.Credentials) (MailStore, error)

// NewMailStoreOpener возвращает производственный MailStoreOpener
// с фиксированным таймаутом установления соединения.
func NewMailStoreOpener(connectTimeout time.Duration) MailStoreOpener {
	return func(ctx context.Context, creds mailstore.Credentials) (MailStore, error) {
		store, err := mailstore.Open(ctx, creds, connectTimeout)
		if err != nil {
			return nil, err
		}
		return &realMailStore{store}, nil
	}
}

// realMailStore — адаптер *mailstore.Store к интерфейсу MailStore.
type realMailStore struct {
	*mailstore.Store
}

func (s *realMailStore) Begin(ctx context.Context) (MailTx, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ReconcileService — движок реконсиляции реестра почтовых очередей.
type ReconcileService struct {
	settings  *SettingsService
	openStore MailStoreOpener
	syncLog   *SyncLogService
	logger    *slog.Logger
}

// NewReconcileService создаёт движок реконсиляции.
func NewReconcileService(
	settings *SettingsService,
	openStore MailStoreOpener,
	syncLog *SyncLogService,
	logger *slog.Logger,
) *ReconcileService {
	return &ReconcileService{
		settings:  settings,
		openStore: openStore,
		syncLog:   syncLog,
		logger:    logger.With(slog.String("component", "reconcile_service")),
	}
}

// Reconcile приводит реестр в соответствие с листингом files для uncPath.
//
// Пишет ровно одну запись журнала синхронизации, если suppressLog=false;
// агрегатор автосинхронизации передаёт true и журналирует результаты
// по очередям сам. Возвращаемый SyncResult заполнен и при ошибке.
func (s *ReconcileService) Reconcile(
	ctx context.Context,
	files []model.ScannedFile,
	uncPath string,
	queueType model.QueueType,
	suppressLog bool,
) (*model.SyncResult, error) {
	startedAt := time.Now()
	result := &model.SyncResult{FilesScanned: len(files)}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return s.fail(ctx, result, uncPath, queueType, suppressLog,
			fmt.Errorf("чтение настроек: %w", err))
	}
	if !cfg.MailDB.Complete() {
		return s.fail(ctx, result, uncPath, queueType, suppressLog, ErrMailDBNotConfigured)
	}

	store, err := s.openStore(ctx, cfg.MailDB)
	if err != nil {
		return s.fail(ctx, result, uncPath, queueType, suppressLog,
			fmt.Errorf("%w: %w", ErrMailDBUnavailable, err))
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			s.logger.Warn("Ошибка закрытия соединения mail store", slog.String("error", closeErr.Error()))
		}
	}()

	tx, err := store.Begin(ctx)
	if err != nil {
		return s.fail(ctx, result, uncPath, queueType, suppressLog,
			fmt.Errorf("%w: %w", ErrMailDBUnavailable, err))
	}
	// Откат после успешного коммита — no-op
	defer func() { _ = tx.Rollback() }()

	// 1. Снапшот известных реестру имён для этого пути
	existingList, err := tx.FilenamesByPath(ctx, uncPath)
	if err != nil {
		return s.fail(ctx, result, uncPath, queueType, suppressLog,
			fmt.Errorf("%w: %w", ErrMailDBUnavailable, err))
	}
	existing := make(map[string]bool, len(existingList))
	for _, name := range existingList {
		existing[name] = true
	}

	// 2. Upsert всех файлов листинга; построчные ошибки не прерывают пакет
	current := make(map[string]bool, len(files))
	for i := range files {
		f := &files[i]
		current[f.Name] = true

		rec := &model.MailRecord{
			UNCPath:     uncPath,
			Filename:    f.Name,
			MailType:    f.MailType,
			Username:    f.User,
			DisplayName: names.Format(f.User),
			CreatedDate: f.CreatedDate,
			CreatedTime: f.CreatedTime,
			FileSize:    f.Size,
			ModifiedAt:  f.ModifiedAt,
			IsSmallFile: f.IsSmallFile,
		}

		if err := tx.Upsert(ctx, rec); err != nil {
			result.Errors++
			s.logger.Warn("Ошибка upsert записи реестра",
				slog.String("unc_path", uncPath),
				slog.String("filename", f.Name),
				slog.String("error", err.Error()),
			)
			continue
		}

		// Вставка или обновление решается членством в снапшоте,
		// а не сравнением полей: каждый sync переписывает живые строки
		if existing[f.Name] {
			result.Updated++
		} else {
			result.Inserted++
		}
	}

	// 3. Удаление записей о файлах, исчезнувших из каталога
	var stale []string
	for _, name := range existingList {
		if !current[name] {
			stale = append(stale, name)
		}
	}
	deleted, err := tx.DeleteByFilenames(ctx, uncPath, stale)
	if err != nil {
		return s.fail(ctx, result, uncPath, queueType, suppressLog,
			fmt.Errorf("%w: удаление устаревших записей: %w", ErrMailDBUnavailable, err))
	}
	result.Deleted = int(deleted)

	// 4. Фиксация: любая транзакционная ошибка откатывает всё
	if err := tx.Commit(); err != nil {
		return s.fail(ctx, result, uncPath, queueType, suppressLog,
			fmt.Errorf("%w: фиксация транзакции: %w", ErrMailDBUnavailable, err))
	}

	if result.Errors == 0 {
		result.Status = model.SyncStatusSuccess
	} else {
		result.Status = model.SyncStatusPartial
	}
	result.Message = buildSummary(result)

	duration := time.Since(startedAt).Seconds()
	syncDuration.WithLabelValues(string(queueType)).Observe(duration)
	syncFilesTotal.WithLabelValues(string(queueType), "added").Add(float64(result.Inserted))
	syncFilesTotal.WithLabelValues(string(queueType), "updated").Add(float64(result.Updated))
	syncFilesTotal.WithLabelValues(string(queueType), "deleted").Add(float64(result.Deleted))
	syncFilesTotal.WithLabelValues(string(queueType), "failed").Add(float64(result.Errors))

	s.logger.Info("Реконсиляция завершена",
		slog.String("queue", string(queueType)),
		slog.String("unc_path", uncPath),
		slog.Int("scanned", result.FilesScanned),
		slog.Int("inserted", result.Inserted),
		slog.Int("updated", result.Updated),
		slog.Int("deleted", result.Deleted),
		slog.Int("errors", result.Errors),
		slog.String("duration", fmt.Sprintf("%.2fs", duration)),
	)

	if !suppressLog {
		s.appendLog(ctx, result, uncPath, queueType)
	}

	return result, nil
}

// Exists проверяет наличие файла в реестре (для отдачи PDF и заявок
// на удаление). Подключается к mail store по текущим настройкам.
func (s *ReconcileService) Exists(ctx context.Context, uncPath, filename string) (bool, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("чтение настроек: %w", err)
	}
	if !cfg.MailDB.Complete() {
		return false, ErrMailDBNotConfigured
	}

	store, err := s.openStore(ctx, cfg.MailDB)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMailDBUnavailable, err)
	}
	defer func() { _ = store.Close() }()

	return store.Exists(ctx, uncPath, filename)
}

// fail оформляет фатальную для вызова ошибку: нулевые счётчики,
// status error, запись журнала (если не подавлена).
func (s *ReconcileService) fail(
	ctx context.Context,
	result *model.SyncResult,
	uncPath string,
	queueType model.QueueType,
	suppressLog bool,
	err error,
) (*model.SyncResult, error) {
	result.Inserted = 0
	result.Updated = 0
	result.Deleted = 0
	result.Errors = 1
	result.Status = model.SyncStatusError
	result.Message = err.Error()

	s.logger.Error("Реконсиляция прервана",
		slog.String("queue", string(queueType)),
		slog.String("unc_path", uncPath),
		slog.String("error", err.Error()),
	)

	if !suppressLog {
		s.appendLog(ctx, result, uncPath, queueType)
	}
	return result, err
}

// appendLog пишет запись журнала синхронизации. Журнал — best-effort
// аудит: ошибка записи не меняет исход реконсиляции.
func (s *ReconcileService) appendLog(ctx context.Context, result *model.SyncResult, uncPath string, queueType model.QueueType) {
	entry := &model.SyncLogEntry{
		QueueType:    queueType,
		UNCPath:      uncPath,
		FilesScanned: result.FilesScanned,
		FilesAdded:   result.Inserted,
		FilesUpdated: result.Updated,
		FilesDeleted: result.Deleted,
		Errors:       result.Errors,
		Status:       result.Status,
		Message:      result.Message,
	}
	if err := s.syncLog.Append(ctx, entry); err != nil {
		s.logger.Warn("Ошибка записи журнала синхронизации", slog.String("error", err.Error()))
	}
}

// buildSummary строит человекочитаемую сводку из счётчиков.
func buildSummary(r *model.SyncResult) string {
	msg := fmt.Sprintf("Просканировано %d, добавлено %d, обновлено %d, удалено %d",
		r.FilesScanned, r.Inserted, r.Updated, r.Deleted)
	if r.Errors > 0 {
		msg += fmt.Sprintf(", ошибок %d", r.Errors)
	}
	return msg
}
