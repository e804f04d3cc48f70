// autosync.go — фоновая автосинхронизация очередей.
//
// Сервис периодически (раз в AutoSyncInterval минут) запускает полную
// синхронизацию обеих очередей. Параметры автосинхронизации — настройки
// времени выполнения: сервис перечитывает их каждые pollInterval и
// перестраивает тикер при изменении enabled или интервала.
//
// Запуски не накладываются: если предыдущий цикл ещё идёт, очередной
// тик пропускается, а не ставится в очередь.
package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
	"github.com/GravitixAI/bolt-mail-operations/internal/scan"
)

var autoSyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mo_autosync_runs_total",
	Help: "Количество запусков автосинхронизации",
}, []string{"result"}) // result: success, error, skipped

// AutoSyncStatus — текущее состояние автосинхронизации для API.
type AutoSyncStatus struct {
	Enabled  bool `json:"enabled"`
	Interval int  `json:"interval_minutes"`
	Running  bool `json:"running"`
}

// AutoSyncService — планировщик автосинхронизации.
type AutoSyncService struct {
	settings  *SettingsService
	reconcile *ReconcileService
	syncLog   *SyncLogService

	pollInterval time.Duration
	logger       *slog.Logger

	// scanDir вынесен в поле для подмены в тестах
	scanDir func(path string) ([]model.ScannedFile, error)

	syncing atomic.Bool

	mu       sync.Mutex
	enabled  bool
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewAutoSyncService создаёт планировщик автосинхронизации.
// pollInterval — период перечитывания настроек.
func NewAutoSyncService(
	settings *SettingsService,
	reconcile *ReconcileService,
	syncLog *SyncLogService,
	pollInterval time.Duration,
	logger *slog.Logger,
) *AutoSyncService {
	return &AutoSyncService{
		settings:     settings,
		reconcile:    reconcile,
		syncLog:      syncLog,
		pollInterval: pollInterval,
		logger:       logger.With(slog.String("component", "autosync_service")),
		scanDir:      scan.Scan,
	}
}

// Start запускает фоновый цикл планировщика.
func (s *AutoSyncService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx)

	s.logger.Info("Автосинхронизация запущена",
		slog.String("poll_interval", s.pollInterval.String()))
}

// Stop останавливает фоновый цикл и дожидается его завершения.
func (s *AutoSyncService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.logger.Info("Автосинхронизация остановлена")
}

// loop — основной цикл: тикер синхронизации + тикер перечитывания настроек.
func (s *AutoSyncService) loop(ctx context.Context) {
	defer close(s.done)

	var ticker *time.Ticker
	var tickerC <-chan time.Time

	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tickerC = nil
		}
	}
	defer stopTicker()

	// rebuild перечитывает настройки и перестраивает тикер,
	// если enabled или интервал изменились.
	rebuild := func() {
		cfg, err := s.settings.Get(ctx)
		if err != nil {
			s.logger.Warn("Ошибка чтения настроек автосинхронизации", slog.String("error", err.Error()))
			return
		}
		newInterval := time.Duration(cfg.AutoSyncInterval) * time.Minute

		s.mu.Lock()
		changed := cfg.AutoSyncEnabled != s.enabled || newInterval != s.interval
		wasEnabled := s.enabled
		s.enabled = cfg.AutoSyncEnabled
		s.interval = newInterval
		s.mu.Unlock()

		if !changed {
			return
		}

		stopTicker()
		if cfg.AutoSyncEnabled {
			ticker = time.NewTicker(newInterval)
			tickerC = ticker.C
			s.logger.Info("Автосинхронизация включена",
				slog.String("interval", newInterval.String()))
			if !wasEnabled {
				// Первый цикл сразу при включении, не дожидаясь тика
				go s.trySync(ctx)
			}
		} else {
			s.logger.Info("Автосинхронизация выключена")
		}
	}

	rebuild()

	poll := time.NewTicker(s.pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			rebuild()
		case <-tickerC:
			go s.trySync(ctx)
		}
	}
}

// trySync запускает цикл синхронизации, если предыдущий завершён.
// Возвращает false, если цикл уже идёт.
func (s *AutoSyncService) trySync(ctx context.Context) bool {
	if !s.syncing.CompareAndSwap(false, true) {
		s.logger.Warn("Цикл автосинхронизации пропущен: предыдущий ещё выполняется")
		autoSyncRuns.WithLabelValues("skipped").Inc()
		return false
	}
	defer s.syncing.Store(false)

	if err := s.syncAll(ctx); err != nil {
		autoSyncRuns.WithLabelValues("error").Inc()
	} else {
		autoSyncRuns.WithLabelValues("success").Inc()
	}
	return true
}

// syncAll синхронизирует обе очереди с настроенными путями.
// Журнал пишется по очередям здесь, а не движком реконсиляции.
func (s *AutoSyncService) syncAll(ctx context.Context) error {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("Автосинхронизация: ошибка чтения настроек", slog.String("error", err.Error()))
		return err
	}

	var firstErr error
	for _, queue := range []model.QueueType{model.QueueCertified, model.QueueRegular} {
		path := cfg.PathFor(queue)
		if path == "" {
			continue
		}

		files, err := s.scanDir(path)
		if err != nil {
			s.logger.Error("Автосинхронизация: ошибка сканирования",
				slog.String("queue", string(queue)),
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			s.appendLog(ctx, &model.SyncLogEntry{
				QueueType: queue,
				UNCPath:   path,
				Errors:    1,
				Status:    model.SyncStatusError,
				Message:   err.Error(),
			})
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		result, err := s.reconcile.Reconcile(ctx, files, path, queue, true)
		if err != nil && firstErr == nil {
			firstErr = err
		}

		s.appendLog(ctx, &model.SyncLogEntry{
			QueueType:    queue,
			UNCPath:      path,
			FilesScanned: result.FilesScanned,
			FilesAdded:   result.Inserted,
			FilesUpdated: result.Updated,
			FilesDeleted: result.Deleted,
			Errors:       result.Errors,
			Status:       result.Status,
			Message:      result.Message,
		})
	}
	return firstErr
}

func (s *AutoSyncService) appendLog(ctx context.Context, entry *model.SyncLogEntry) {
	if err := s.syncLog.Append(ctx, entry); err != nil {
		s.logger.Warn("Ошибка записи журнала автосинхронизации", slog.String("error", err.Error()))
	}
}

// RunNow запускает цикл синхронизации немедленно, вне расписания.
// Возвращает false, если цикл уже выполняется.
func (s *AutoSyncService) RunNow(ctx context.Context) bool {
	return s.trySync(ctx)
}

// Status возвращает текущее состояние планировщика.
func (s *AutoSyncService) Status() AutoSyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AutoSyncStatus{
		Enabled:  s.enabled,
		Interval: int(s.interval / time.Minute),
		Running:  s.syncing.Load(),
	}
}
