// pdf.go — отдача PDF-файлов очередей и заявки на удаление писем.
//
// Файл отдаётся только если он известен реестру: прямые запросы на
// произвольные имена (в том числе с обходом каталога) отклоняются.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/GravitixAI/bolt-mail-operations/internal/api/errors"
	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
	"github.com/GravitixAI/bolt-mail-operations/internal/helpspot"
	"github.com/GravitixAI/bolt-mail-operations/internal/service"
)

// PDFHandler — обработчик отдачи PDF и заявок на удаление.
type PDFHandler struct {
	settings  *service.SettingsService
	reconcile *service.ReconcileService
	helpspot  *helpspot.Client
	logger    *slog.Logger
}

// NewPDFHandler создаёт обработчик PDF.
func NewPDFHandler(
	settings *service.SettingsService,
	reconcile *service.ReconcileService,
	hsClient *helpspot.Client,
	logger *slog.Logger,
) *PDFHandler {
	return &PDFHandler{
		settings:  settings,
		reconcile: reconcile,
		helpspot:  hsClient,
		logger:    logger.With(slog.String("component", "pdf_handler")),
	}
}

// validFilename отклоняет имена с разделителями пути и не-PDF расширения.
func validFilename(name string) bool {
	if name == "" || name != filepath.Base(name) {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// ServePDF — GET /api/v1/pdf/{filename}?queue=&download=.
// Отдаёт файл inline либо attachment (download=1).
func (h *PDFHandler) ServePDF(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	queue := model.QueueType(r.URL.Query().Get("queue"))

	if !queue.Valid() {
		apierrors.ValidationError(w, "неизвестный тип очереди, допустимы: certified, regular")
		return
	}
	if !validFilename(filename) {
		apierrors.ValidationError(w, "некорректное имя файла")
		return
	}

	cfg, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error("Ошибка чтения настроек", slog.String("error", err.Error()))
		apierrors.InternalError(w, "ошибка чтения настроек")
		return
	}
	dir := cfg.PathFor(queue)
	if dir == "" {
		apierrors.ValidationError(w, "путь очереди не настроен")
		return
	}

	known, err := h.reconcile.Exists(r.Context(), dir, filename)
	if err != nil {
		if errors.Is(err, service.ErrMailDBNotConfigured) || errors.Is(err, service.ErrMailDBUnavailable) {
			apierrors.MailDBUnavailable(w, err.Error())
			return
		}
		h.logger.Error("Ошибка проверки реестра", slog.String("error", err.Error()))
		apierrors.InternalError(w, "ошибка проверки реестра")
		return
	}
	if !known {
		apierrors.NotFound(w, "файл не найден в реестре")
		return
	}

	fullPath := filepath.Join(dir, filename)
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		apierrors.NotFound(w, "файл не найден в каталоге очереди")
		return
	}

	disposition := "inline"
	if r.URL.Query().Get("download") == "1" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`%s; filename="%s"`, disposition, filename))

	http.ServeFile(w, r, fullPath)
}

// removalRequest — тело заявки на удаление письма.
type removalRequest struct {
	Queue          model.QueueType `json:"queue"`
	Filename       string          `json:"filename"`
	RequesterEmail string          `json:"requester_email"`
	Reason         string          `json:"reason"`
}

// removalResponse — ответ на заявку.
type removalResponse struct {
	// ID — внутренний идентификатор заявки (для логов и трассировки)
	ID string `json:"id"`
	// TicketID — номер заявки в HelpSpot
	TicketID string `json:"ticket_id"`
}

// CreateRemovalRequest — POST /api/v1/pdf/removal-request.
// Создаёт в HelpSpot заявку на удаление ошибочно отсканированного письма.
func (h *PDFHandler) CreateRemovalRequest(w http.ResponseWriter, r *http.Request) {
	var req removalRequest
	if err := decodeJSON(r, &req); err != nil {
		apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
		return
	}

	if !req.Queue.Valid() {
		apierrors.ValidationError(w, "неизвестный тип очереди, допустимы: certified, regular")
		return
	}
	if !validFilename(req.Filename) {
		apierrors.ValidationError(w, "некорректное имя файла")
		return
	}
	if req.RequesterEmail == "" {
		apierrors.ValidationError(w, "не указан email заявителя")
		return
	}

	cfg, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error("Ошибка чтения настроек", slog.String("error", err.Error()))
		apierrors.InternalError(w, "ошибка чтения настроек")
		return
	}
	if cfg.HelpSpotEndpoint == "" || cfg.HelpSpotUsername == "" {
		apierrors.HelpSpotUnavailable(w, service.ErrHelpSpotNotConfigured.Error())
		return
	}

	dir := cfg.PathFor(req.Queue)
	known, err := h.reconcile.Exists(r.Context(), dir, req.Filename)
	if err != nil {
		if errors.Is(err, service.ErrMailDBNotConfigured) || errors.Is(err, service.ErrMailDBUnavailable) {
			apierrors.MailDBUnavailable(w, err.Error())
			return
		}
		h.logger.Error("Ошибка проверки реестра", slog.String("error", err.Error()))
		apierrors.InternalError(w, "ошибка проверки реестра")
		return
	}
	if !known {
		apierrors.NotFound(w, "файл не найден в реестре")
		return
	}

	requestID := uuid.New().String()
	note := fmt.Sprintf("Файл: %s\nОчередь: %s\nПуть: %s\nЗаявка: %s",
		req.Filename, req.Queue, dir, requestID)
	if req.Reason != "" {
		note += "\nПричина: " + req.Reason
	}

	ticketID, err := h.helpspot.CreateRemovalRequest(r.Context(), helpspot.Config{
		Endpoint:   cfg.HelpSpotEndpoint,
		Username:   cfg.HelpSpotUsername,
		Password:   cfg.HelpSpotPassword,
		CategoryID: cfg.HelpSpotCategoryID,
	}, req.RequesterEmail, note)
	if err != nil {
		h.logger.Error("Ошибка создания заявки HelpSpot",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		apierrors.HelpSpotUnavailable(w, err.Error())
		return
	}

	h.logger.Info("Создана заявка на удаление письма",
		slog.String("request_id", requestID),
		slog.String("ticket_id", ticketID),
		slog.String("queue", string(req.Queue)),
		slog.String("filename", req.Filename),
	)

	writeJSON(w, http.StatusCreated, removalResponse{
		ID:       requestID,
		TicketID: ticketID,
	})
}
