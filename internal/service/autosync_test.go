package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
)

func newTestAutoSync(t *testing.T, repo *mockAppConfigRepo, store *fakeMailStore) (*AutoSyncService, *mockSyncLogRepo) {
	t.Helper()
	logger := slog.Default()
	settings := NewSettingsService(repo, time.Second, logger)
	logRepo := &mockSyncLogRepo{}
	syncLog := NewSyncLogService(logRepo, logger)
	reconcile := NewReconcileService(settings, store.opener(), syncLog, logger)
	return NewAutoSyncService(settings, reconcile, syncLog, time.Second, logger), logRepo
}

// TestAutoSync_RunNow проверяет ручной запуск: обе очереди синхронизируются,
// журнал получает по записи на очередь.
func TestAutoSync_RunNow(t *testing.T) {
	repo := configuredRepo()
	repo.values["unc_path_certified"] = `\\scan01\certified`
	repo.values["unc_path_regular"] = `\\scan01\regular`

	store := newFakeMailStore()
	svc, logRepo := newTestAutoSync(t, repo, store)
	svc.scanDir = func(path string) ([]model.ScannedFile, error) {
		return scanned("a.pdf", "b.pdf"), nil
	}

	if !svc.RunNow(context.Background()) {
		t.Fatal("RunNow вернул false")
	}

	if len(logRepo.entries) != 2 {
		t.Fatalf("записей журнала %d, ожидалось 2 (по одной на очередь)", len(logRepo.entries))
	}
	for _, e := range logRepo.entries {
		if e.Status != model.SyncStatusSuccess {
			t.Errorf("Status = %q, ожидался success", e.Status)
		}
		if e.FilesAdded != 2 {
			t.Errorf("FilesAdded = %d, ожидалось 2", e.FilesAdded)
		}
	}

	if len(store.records(`\\scan01\certified`)) != 2 || len(store.records(`\\scan01\regular`)) != 2 {
		t.Error("реестр обеих очередей должен содержать по 2 записи")
	}
}

// TestAutoSync_SkipsUnconfiguredQueue проверяет пропуск очереди без пути.
func TestAutoSync_SkipsUnconfiguredQueue(t *testing.T) {
	repo := configuredRepo()
	repo.values["unc_path_certified"] = `\\scan01\certified`

	store := newFakeMailStore()
	svc, logRepo := newTestAutoSync(t, repo, store)
	svc.scanDir = func(path string) ([]model.ScannedFile, error) {
		return scanned("a.pdf"), nil
	}

	if !svc.RunNow(context.Background()) {
		t.Fatal("RunNow вернул false")
	}

	if len(logRepo.entries) != 1 {
		t.Fatalf("записей журнала %d, ожидалась 1", len(logRepo.entries))
	}
	if logRepo.entries[0].QueueType != model.QueueCertified {
		t.Errorf("QueueType = %q, ожидался certified", logRepo.entries[0].QueueType)
	}
}

// TestAutoSync_ScanErrorLogged проверяет: ошибка сканирования одной очереди
// журналируется и не мешает синхронизации другой.
func TestAutoSync_ScanErrorLogged(t *testing.T) {
	repo := configuredRepo()
	repo.values["unc_path_certified"] = `\\scan01\broken`
	repo.values["unc_path_regular"] = `\\scan01\regular`

	store := newFakeMailStore()
	svc, logRepo := newTestAutoSync(t, repo, store)
	svc.scanDir = func(path string) ([]model.ScannedFile, error) {
		if path == `\\scan01\broken` {
			return nil, errors.New("путь не найден или недоступен")
		}
		return scanned("a.pdf"), nil
	}

	svc.RunNow(context.Background())

	if len(logRepo.entries) != 2 {
		t.Fatalf("записей журнала %d, ожидалось 2", len(logRepo.entries))
	}

	byQueue := map[model.QueueType]*model.SyncLogEntry{}
	for _, e := range logRepo.entries {
		byQueue[e.QueueType] = e
	}
	if byQueue[model.QueueCertified].Status != model.SyncStatusError {
		t.Error("ошибка сканирования certified должна дать status error")
	}
	if byQueue[model.QueueRegular].Status != model.SyncStatusSuccess {
		t.Error("вторая очередь должна синхронизироваться несмотря на ошибку первой")
	}
}

// TestAutoSync_OverlapGuard проверяет: пока цикл идёт, новый не запускается.
func TestAutoSync_OverlapGuard(t *testing.T) {
	store := newFakeMailStore()
	svc, _ := newTestAutoSync(t, configuredRepo(), store)

	svc.syncing.Store(true)
	if svc.RunNow(context.Background()) {
		t.Error("RunNow должен вернуть false при идущем цикле")
	}
	svc.syncing.Store(false)

	if !svc.RunNow(context.Background()) {
		t.Error("RunNow должен вернуть true после завершения цикла")
	}
}

// TestAutoSync_StartStop проверяет запуск и остановку фонового цикла
// с перечитыванием настроек.
func TestAutoSync_StartStop(t *testing.T) {
	repo := configuredRepo()
	repo.values["auto_sync_enabled"] = "false"

	store := newFakeMailStore()
	svc, _ := newTestAutoSync(t, repo, store)
	svc.pollInterval = 10 * time.Millisecond

	svc.Start()
	time.Sleep(30 * time.Millisecond)

	status := svc.Status()
	if status.Enabled {
		t.Error("автосинхронизация должна быть выключена")
	}

	svc.Stop()
}
