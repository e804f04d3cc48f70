// settings.go — обработчики настроек времени выполнения:
// чтение и сохранение, проверки соединения с mail store и путей очередей.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/GravitixAI/bolt-mail-operations/internal/api/errors"
	"github.com/GravitixAI/bolt-mail-operations/internal/mailstore"
	"github.com/GravitixAI/bolt-mail-operations/internal/service"
)

// maskedPassword — плейсхолдер вместо сохранённого пароля в GET-ответе.
// PUT с этим значением (или пустой строкой) оставляет пароль без изменений.
const maskedPassword = "********"

// settingsDTO — представление настроек в API.
type settingsDTO struct {
	UNCPathCertified string `json:"unc_path_certified"`
	UNCPathRegular   string `json:"unc_path_regular"`

	MySQLHost     string `json:"mysql_host"`
	MySQLPort     int    `json:"mysql_port"`
	MySQLDatabase string `json:"mysql_database"`
	MySQLUser     string `json:"mysql_user"`
	MySQLPassword string `json:"mysql_password"`

	AutoSyncEnabled  bool `json:"auto_sync_enabled"`
	AutoSyncInterval int  `json:"auto_sync_interval"`

	HelpSpotEndpoint   string `json:"helpspot_endpoint"`
	HelpSpotUsername   string `json:"helpspot_username"`
	HelpSpotPassword   string `json:"helpspot_password"`
	HelpSpotCategoryID string `json:"helpspot_category_id"`
}

// GetSettings — GET /api/v1/settings. Пароли маскируются.
func (h *APIHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error("Ошибка чтения настроек", slog.String("error", err.Error()))
		apierrors.InternalError(w, "ошибка чтения настроек")
		return
	}

	dto := settingsDTO{
		UNCPathCertified:   cfg.UNCPathCertified,
		UNCPathRegular:     cfg.UNCPathRegular,
		MySQLHost:          cfg.MailDB.Host,
		MySQLPort:          cfg.MailDB.Port,
		MySQLDatabase:      cfg.MailDB.Database,
		MySQLUser:          cfg.MailDB.User,
		AutoSyncEnabled:    cfg.AutoSyncEnabled,
		AutoSyncInterval:   cfg.AutoSyncInterval,
		HelpSpotEndpoint:   cfg.HelpSpotEndpoint,
		HelpSpotUsername:   cfg.HelpSpotUsername,
		HelpSpotCategoryID: cfg.HelpSpotCategoryID,
	}
	if cfg.MailDB.Password != "" {
		dto.MySQLPassword = maskedPassword
	}
	if cfg.HelpSpotPassword != "" {
		dto.HelpSpotPassword = maskedPassword
	}

	writeJSON(w, http.StatusOK, dto)
}

// UpdateSettings — PUT /api/v1/settings.
func (h *APIHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var dto settingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}

	cfg := &service.Settings{
		UNCPathCertified: dto.UNCPathCertified,
		UNCPathRegular:   dto.UNCPathRegular,
		MailDB: mailstore.Credentials{
			Host:     dto.MySQLHost,
			Port:     dto.MySQLPort,
			Database: dto.MySQLDatabase,
			User:     dto.MySQLUser,
			Password: realPassword(dto.MySQLPassword),
		},
		AutoSyncEnabled:    dto.AutoSyncEnabled,
		AutoSyncInterval:   dto.AutoSyncInterval,
		HelpSpotEndpoint:   dto.HelpSpotEndpoint,
		HelpSpotUsername:   dto.HelpSpotUsername,
		HelpSpotPassword:   realPassword(dto.HelpSpotPassword),
		HelpSpotCategoryID: dto.HelpSpotCategoryID,
	}
	if cfg.MailDB.Port == 0 {
		cfg.MailDB.Port = 3306
	}

	if err := h.settings.Save(r.Context(), cfg); err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.logger.Error("Ошибка сохранения настроек", slog.String("error", err.Error()))
		apierrors.InternalError(w, "ошибка сохранения настроек")
		return
	}

	h.GetSettings(w, r)
}

// TestMailDB — POST /api/v1/settings/test-maildb.
// Проверяет соединение с mail store по учётным данным из тела запроса.
// Маскированный или пустой пароль означает сохранённый.
func (h *APIHandler) TestMailDB(w http.ResponseWriter, r *http.Request) {
	var dto settingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}

	creds := mailstore.Credentials{
		Host:     dto.MySQLHost,
		Port:     dto.MySQLPort,
		Database: dto.MySQLDatabase,
		User:     dto.MySQLUser,
		Password: realPassword(dto.MySQLPassword),
	}
	if creds.Port == 0 {
		creds.Port = 3306
	}
	if creds.Password == "" {
		stored, err := h.settings.Get(r.Context())
		if err != nil {
			h.logger.Error("Ошибка чтения настроек", slog.String("error", err.Error()))
			apierrors.InternalError(w, "ошибка чтения настроек")
			return
		}
		creds.Password = stored.MailDB.Password
	}

	writeJSON(w, http.StatusOK, h.settings.TestMailDB(r.Context(), creds))
}

// testPathRequest — тело запроса проверки пути.
type testPathRequest struct {
	Path string `json:"path"`
}

// TestPath — POST /api/v1/settings/test-path.
// Проверяет доступность каталога очереди и считает PDF-файлы.
func (h *APIHandler) TestPath(w http.ResponseWriter, r *http.Request) {
	var req testPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.settings.TestPath(r.Context(), req.Path))
}

// realPassword переводит маскированное значение в «без изменений».
func realPassword(p string) string {
	if p == maskedPassword {
		return ""
	}
	return p
}
