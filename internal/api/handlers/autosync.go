// autosync.go — обработчики автосинхронизации: состояние и ручной запуск.
package handlers

import (
	"net/http"

	apierrors "github.com/GravitixAI/bolt-mail-operations/internal/api/errors"
)

// AutoSyncStatus — GET /api/v1/autosync/status.
func (h *APIHandler) AutoSyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.autoSync.Status())
}

// AutoSyncRun — POST /api/v1/autosync/run.
// Синхронно выполняет цикл синхронизации всех очередей вне расписания.
// 409, если цикл уже выполняется.
func (h *APIHandler) AutoSyncRun(w http.ResponseWriter, r *http.Request) {
	if !h.autoSync.RunNow(r.Context()) {
		apierrors.Conflict(w, "цикл синхронизации уже выполняется")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}
