// handler.go — основной обработчик HTTP API.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GravitixAI/bolt-mail-operations/internal/service"
)

// APIHandler — основной обработчик API.
type APIHandler struct {
	health    *HealthHandler
	settings  *service.SettingsService
	reconcile *service.ReconcileService
	syncLog   *service.SyncLogService
	autoSync  *service.AutoSyncService
	pdf       *PDFHandler
	logger    *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	settings *service.SettingsService,
	reconcile *service.ReconcileService,
	syncLog *service.SyncLogService,
	autoSync *service.AutoSyncService,
	pdf *PDFHandler,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:    health,
		settings:  settings,
		reconcile: reconcile,
		syncLog:   syncLog,
		autoSync:  autoSync,
		pdf:       pdf,
		logger:    logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// ServePDF — отдача PDF (делегируется в PDFHandler).
func (h *APIHandler) ServePDF(w http.ResponseWriter, r *http.Request) {
	h.pdf.ServePDF(w, r)
}

// CreateRemovalRequest — заявка на удаление письма (делегируется в PDFHandler).
func (h *APIHandler) CreateRemovalRequest(w http.ResponseWriter, r *http.Request) {
	h.pdf.CreateRemovalRequest(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает JSON-тело запроса в dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
