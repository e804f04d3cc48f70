// Точка входа сервиса очередей сканированной почты.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт сервисный слой и API handlers, запускает фоновую
// автосинхронизацию и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/GravitixAI/bolt-mail-operations/internal/api/handlers"
	"github.com/GravitixAI/bolt-mail-operations/internal/config"
	"github.com/GravitixAI/bolt-mail-operations/internal/database"
	"github.com/GravitixAI/bolt-mail-operations/internal/helpspot"
	"github.com/GravitixAI/bolt-mail-operations/internal/repository"
	"github.com/GravitixAI/bolt-mail-operations/internal/server"
	"github.com/GravitixAI/bolt-mail-operations/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Сервис запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5. Repositories
	appConfigRepo := repository.NewAppConfigRepository(pool)
	syncLogRepo := repository.NewSyncLogRepository(pool)

	// 6. Services
	settingsSvc := service.NewSettingsService(appConfigRepo, cfg.MailDBConnectTimeout, logger)
	syncLogSvc := service.NewSyncLogService(syncLogRepo, logger)
	openStore := service.NewMailStoreOpener(cfg.MailDBConnectTimeout)
	reconcileSvc := service.NewReconcileService(settingsSvc, openStore, syncLogSvc, logger)
	autoSyncSvc := service.NewAutoSyncService(
		settingsSvc, reconcileSvc, syncLogSvc,
		cfg.SettingsPollInterval,
		logger,
	)

	// 7. Readiness checkers (PostgreSQL + mail store)
	pgChecker := database.NewReadinessChecker(pool)
	mailChecker := service.NewMailDBReadiness(settingsSvc, openStore)
	healthHandler := handlers.NewHealthHandler(pgChecker, mailChecker)

	// 8. API handlers
	pdfHandler := handlers.NewPDFHandler(settingsSvc, reconcileSvc, helpspot.NewClient(), logger)
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		settingsSvc,
		reconcileSvc,
		syncLogSvc,
		autoSyncSvc,
		pdfHandler,
		logger,
	)

	// 9. Запуск фоновой автосинхронизации
	autoSyncSvc.Start()

	// 10. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Graceful shutdown фоновых задач
	logger.Info("Останавливаем фоновые задачи...")
	autoSyncSvc.Stop()

	logger.Info("Сервис остановлен")
}
