// synclog.go — обработчик журнала синхронизации.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	apierrors "github.com/GravitixAI/bolt-mail-operations/internal/api/errors"
	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
)

// syncLogResponse — ответ выборки журнала синхронизации.
type syncLogResponse struct {
	Count   int                   `json:"count"`
	Entries []*model.SyncLogEntry `json:"entries"`
}

// ListSyncLog — GET /api/v1/sync-log?limit=N.
// Возвращает записи журнала за окно хранения, новейшие вперёд.
func (h *APIHandler) ListSyncLog(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.ValidationError(w, "limit должен быть целым числом")
			return
		}
		limit = n
	}

	entries, err := h.syncLog.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("Ошибка чтения журнала синхронизации", slog.String("error", err.Error()))
		apierrors.InternalError(w, "ошибка чтения журнала синхронизации")
		return
	}
	if entries == nil {
		entries = []*model.SyncLogEntry{}
	}

	writeJSON(w, http.StatusOK, syncLogResponse{
		Count:   len(entries),
		Entries: entries,
	})
}
