// queues.go — обработчики очередей сканирования:
// листинг PDF-файлов каталога и ручная синхронизация с реестром.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/GravitixAI/bolt-mail-operations/internal/api/errors"
	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
	"github.com/GravitixAI/bolt-mail-operations/internal/scan"
	"github.com/GravitixAI/bolt-mail-operations/internal/service"
)

// filesResponse — ответ листинга очереди.
type filesResponse struct {
	Queue model.QueueType     `json:"queue"`
	Path  string              `json:"path"`
	Count int                 `json:"count"`
	Files []model.ScannedFile `json:"files"`
}

// queuePath определяет рабочий путь очереди: явный ?path= из запроса
// либо путь из настроек.
func (h *APIHandler) queuePath(r *http.Request, queue model.QueueType) (string, error) {
	if path := r.URL.Query().Get("path"); path != "" {
		return path, nil
	}
	cfg, err := h.settings.Get(r.Context())
	if err != nil {
		return "", err
	}
	return cfg.PathFor(queue), nil
}

// queueParam извлекает и валидирует тип очереди из пути запроса.
func queueParam(r *http.Request) (model.QueueType, bool) {
	queue := model.QueueType(chi.URLParam(r, "queueType"))
	return queue, queue.Valid()
}

// ListQueueFiles — GET /api/v1/queues/{queueType}/files.
// Сканирует каталог очереди и возвращает отсортированный листинг.
func (h *APIHandler) ListQueueFiles(w http.ResponseWriter, r *http.Request) {
	queue, ok := queueParam(r)
	if !ok {
		apierrors.ValidationError(w, "неизвестный тип очереди, допустимы: certified, regular")
		return
	}

	path, err := h.queuePath(r, queue)
	if err != nil {
		h.logger.Error("Ошибка чтения настроек", slog.String("error", err.Error()))
		apierrors.InternalError(w, "ошибка чтения настроек")
		return
	}

	files, err := scan.Scan(path)
	if err != nil {
		writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, filesResponse{
		Queue: queue,
		Path:  path,
		Count: len(files),
		Files: files,
	})
}

// syncRequest — необязательное тело запроса синхронизации.
// Клиент может передать свой листинг (files) и путь; без тела
// сервис сканирует настроенный каталог сам.
type syncRequest struct {
	UNCPath string              `json:"unc_path"`
	Files   []model.ScannedFile `json:"files"`
}

// SyncQueue — POST /api/v1/queues/{queueType}/sync.
// Сканирует каталог (или принимает листинг из тела) и приводит
// реестр в соответствие с листингом.
func (h *APIHandler) SyncQueue(w http.ResponseWriter, r *http.Request) {
	queue, ok := queueParam(r)
	if !ok {
		apierrors.ValidationError(w, "неизвестный тип очереди, допустимы: certified, regular")
		return
	}

	var req syncRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			apierrors.ValidationError(w, "некорректное тело запроса: "+err.Error())
			return
		}
	}

	path := req.UNCPath
	if path == "" {
		var err error
		path, err = h.queuePath(r, queue)
		if err != nil {
			h.logger.Error("Ошибка чтения настроек", slog.String("error", err.Error()))
			apierrors.InternalError(w, "ошибка чтения настроек")
			return
		}
	}

	files := req.Files
	if files == nil {
		var err error
		files, err = scan.Scan(path)
		if err != nil {
			writeScanError(w, err)
			return
		}
	}

	result, err := h.reconcile.Reconcile(r.Context(), files, path, queue, false)
	if err != nil {
		// Результат заполнен и при ошибке: клиент получает статус
		// и сообщение, код ответа отражает категорию сбоя
		switch {
		case errors.Is(err, service.ErrMailDBNotConfigured),
			errors.Is(err, service.ErrMailDBUnavailable):
			apierrors.MailDBUnavailable(w, result.Message)
		default:
			apierrors.InternalError(w, result.Message)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeScanError переводит ошибку сканирования каталога в HTTP-ответ.
func writeScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scan.ErrEmptyPath):
		apierrors.ValidationError(w, "путь очереди не задан")
	case errors.Is(err, scan.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, scan.ErrAccessDenied),
		errors.Is(err, scan.ErrNotADirectory):
		apierrors.ValidationError(w, err.Error())
	default:
		apierrors.InternalError(w, err.Error())
	}
}
