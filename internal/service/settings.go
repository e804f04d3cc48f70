// settings.go — сервис настроек времени выполнения поверх key-value
// таблицы app_config: пути очередей, учётные данные mail store,
// параметры автосинхронизации, интеграция HelpSpot.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
	"github.com/GravitixAI/bolt-mail-operations/internal/mailstore"
	"github.com/GravitixAI/bolt-mail-operations/internal/repository"
	"github.com/GravitixAI/bolt-mail-operations/internal/scan"
)

// Ключи таблицы app_config.
const (
	keyUNCPathCertified = "unc_path_certified"
	keyUNCPathRegular   = "unc_path_regular"
	// keyUNCPathLegacy — ключ старых установок, где была одна очередь.
	// Читается как fallback для certified, никогда не пишется.
	keyUNCPathLegacy = "unc_path"

	keyMySQLHost     = "mysql_host"
	keyMySQLPort     = "mysql_port"
	keyMySQLDatabase = "mysql_database"
	keyMySQLUser     = "mysql_user"
	keyMySQLPassword = "mysql_password"

	keyAutoSyncEnabled  = "auto_sync_enabled"
	keyAutoSyncInterval = "auto_sync_interval"

	keyHelpSpotEndpoint   = "helpspot_endpoint"
	keyHelpSpotUsername   = "helpspot_username"
	keyHelpSpotPassword   = "helpspot_password"
	keyHelpSpotCategoryID = "helpspot_category_id"
)

// defaultAutoSyncIntervalMinutes — интервал автосинхронизации по умолчанию.
const defaultAutoSyncIntervalMinutes = 5

// Settings — типизированное представление настроек времени выполнения.
type Settings struct {
	UNCPathCertified string
	UNCPathRegular   string

	MailDB mailstore.Credentials

	AutoSyncEnabled bool
	// Интервал автосинхронизации в минутах (>= 1)
	AutoSyncInterval int

	HelpSpotEndpoint   string
	HelpSpotUsername   string
	HelpSpotPassword   string
	HelpSpotCategoryID string
}

// PathFor возвращает настроенный путь для очереди.
func (s *Settings) PathFor(queue model.QueueType) string {
	if queue == model.QueueCertified {
		return s.UNCPathCertified
	}
	return s.UNCPathRegular
}

// SettingsService — сервис настроек приложения.
type SettingsService struct {
	repo           repository.AppConfigRepository
	connectTimeout time.Duration
	logger         *slog.Logger
}

// NewSettingsService создаёт сервис настроек.
// connectTimeout используется проверкой соединения с mail store.
func NewSettingsService(repo repository.AppConfigRepository, connectTimeout time.Duration, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:           repo,
		connectTimeout: connectTimeout,
		logger:         logger.With(slog.String("component", "settings_service")),
	}
}

// Get читает все настройки из app_config и собирает Settings
// со значениями по умолчанию для незаданных ключей.
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	certified, err := s.value(ctx, keyUNCPathCertified)
	if err != nil {
		return nil, err
	}
	if certified == "" {
		// Установки до разделения очередей хранили один путь
		certified, err = s.value(ctx, keyUNCPathLegacy)
		if err != nil {
			return nil, err
		}
	}

	cfg := &Settings{UNCPathCertified: certified}

	if cfg.UNCPathRegular, err = s.value(ctx, keyUNCPathRegular); err != nil {
		return nil, err
	}

	if cfg.MailDB.Host, err = s.value(ctx, keyMySQLHost); err != nil {
		return nil, err
	}
	portStr, err := s.value(ctx, keyMySQLPort)
	if err != nil {
		return nil, err
	}
	cfg.MailDB.Port = 3306
	if portStr != "" {
		if port, convErr := strconv.Atoi(portStr); convErr == nil && port > 0 {
			cfg.MailDB.Port = port
		}
	}
	if cfg.MailDB.Database, err = s.value(ctx, keyMySQLDatabase); err != nil {
		return nil, err
	}
	if cfg.MailDB.User, err = s.value(ctx, keyMySQLUser); err != nil {
		return nil, err
	}
	if cfg.MailDB.Password, err = s.value(ctx, keyMySQLPassword); err != nil {
		return nil, err
	}

	enabledStr, err := s.value(ctx, keyAutoSyncEnabled)
	if err != nil {
		return nil, err
	}
	cfg.AutoSyncEnabled = enabledStr == "true"

	intervalStr, err := s.value(ctx, keyAutoSyncInterval)
	if err != nil {
		return nil, err
	}
	cfg.AutoSyncInterval = defaultAutoSyncIntervalMinutes
	if intervalStr != "" {
		if n, convErr := strconv.Atoi(intervalStr); convErr == nil && n >= 1 {
			cfg.AutoSyncInterval = n
		}
	}

	if cfg.HelpSpotEndpoint, err = s.value(ctx, keyHelpSpotEndpoint); err != nil {
		return nil, err
	}
	if cfg.HelpSpotUsername, err = s.value(ctx, keyHelpSpotUsername); err != nil {
		return nil, err
	}
	if cfg.HelpSpotPassword, err = s.value(ctx, keyHelpSpotPassword); err != nil {
		return nil, err
	}
	if cfg.HelpSpotCategoryID, err = s.value(ctx, keyHelpSpotCategoryID); err != nil {
		return nil, err
	}
	if cfg.HelpSpotCategoryID == "" {
		cfg.HelpSpotCategoryID = "7"
	}

	return cfg, nil
}

// Save записывает настройки в app_config.
// Пустые пароли не перезаписывают сохранённые значения: UI отдаёт
// пароли замаскированными и шлёт пустую строку, если поле не менялось.
func (s *SettingsService) Save(ctx context.Context, cfg *Settings) error {
	if cfg.AutoSyncInterval < 1 {
		return fmt.Errorf("%w: интервал автосинхронизации должен быть не меньше 1 минуты", ErrValidation)
	}

	pairs := map[string]string{
		keyUNCPathCertified:   cfg.UNCPathCertified,
		keyUNCPathRegular:     cfg.UNCPathRegular,
		keyMySQLHost:          cfg.MailDB.Host,
		keyMySQLPort:          strconv.Itoa(cfg.MailDB.Port),
		keyMySQLDatabase:      cfg.MailDB.Database,
		keyMySQLUser:          cfg.MailDB.User,
		keyAutoSyncEnabled:    strconv.FormatBool(cfg.AutoSyncEnabled),
		keyAutoSyncInterval:   strconv.Itoa(cfg.AutoSyncInterval),
		keyHelpSpotEndpoint:   cfg.HelpSpotEndpoint,
		keyHelpSpotUsername:   cfg.HelpSpotUsername,
		keyHelpSpotCategoryID: cfg.HelpSpotCategoryID,
	}
	if cfg.MailDB.Password != "" {
		pairs[keyMySQLPassword] = cfg.MailDB.Password
	}
	if cfg.HelpSpotPassword != "" {
		pairs[keyHelpSpotPassword] = cfg.HelpSpotPassword
	}

	for key, value := range pairs {
		if err := s.repo.Set(ctx, key, value); err != nil {
			return fmt.Errorf("сохранение настройки %s: %w", key, err)
		}
	}

	s.logger.Info("Настройки сохранены",
		slog.Bool("auto_sync_enabled", cfg.AutoSyncEnabled),
		slog.Int("auto_sync_interval", cfg.AutoSyncInterval),
	)

	return nil
}

// TestResult — результат проверки соединения или пути.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TestMailDB проверяет соединение с mail store по переданным учётным
// данным: подключение, SELECT VERSION(). Ошибки переводятся в
// пользовательские сообщения по категории.
func (s *SettingsService) TestMailDB(ctx context.Context, creds mailstore.Credentials) TestResult {
	if !creds.Complete() {
		return TestResult{Success: false, Message: "заполните обязательные поля: хост, база данных, пользователь"}
	}

	store, err := mailstore.Open(ctx, creds, s.connectTimeout)
	if err != nil {
		return TestResult{Success: false, Message: err.Error()}
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			s.logger.Warn("Ошибка закрытия соединения mail store", slog.String("error", closeErr.Error()))
		}
	}()

	version, err := store.Version(ctx)
	if err != nil {
		return TestResult{Success: false, Message: err.Error()}
	}

	return TestResult{
		Success: true,
		Message: fmt.Sprintf("Соединение установлено, сервер MySQL %s, база %s", version, creds.Database),
	}
}

// TestPath проверяет доступность каталога очереди и считает PDF-файлы.
func (s *SettingsService) TestPath(_ context.Context, path string) TestResult {
	files, err := scan.Scan(path)
	if err != nil {
		return TestResult{Success: false, Message: err.Error()}
	}
	return TestResult{
		Success: true,
		Message: fmt.Sprintf("Путь доступен, найдено PDF-файлов: %d", len(files)),
	}
}

// value возвращает значение ключа или пустую строку, если ключ не задан.
func (s *SettingsService) value(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("чтение настройки %s: %w", key, err)
	}
	return setting.Value, nil
}
