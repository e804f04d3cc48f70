package model

import "time"

// Статусы записи журнала синхронизации.
const (
	// SyncStatusSuccess — реконсиляция прошла без ошибок.
	SyncStatusSuccess = "success"
	// SyncStatusPartial — часть строк не удалось записать (errors > 0).
	SyncStatusPartial = "partial"
	// SyncStatusError — реконсиляция не началась или была откатана целиком.
	SyncStatusError = "error"
)

// SyncResult — счётчики одной реконсиляции.
type SyncResult struct {
	// Количество файлов в листинге каталога
	FilesScanned int `json:"files_scanned"`
	// Количество вставленных записей (файл впервые замечен)
	Inserted int `json:"inserted"`
	// Количество обновлённых записей (файл уже был в снапшоте)
	Updated int `json:"updated"`
	// Количество удалённых записей (файл исчез из каталога)
	Deleted int `json:"deleted"`
	// Количество построчных ошибок upsert
	Errors int `json:"errors"`
	// Итоговый статус: success, partial или error
	Status string `json:"status"`
	// Человекочитаемая сводка
	Message string `json:"message"`
}

// SyncLogEntry — запись журнала синхронизации (append-only).
// После вставки не изменяется; записи старше 24 часов удаляются
// при каждом чтении и каждой записи журнала.
type SyncLogEntry struct {
	ID           int64     `json:"id"`
	QueueType    QueueType `json:"queue_type"`
	UNCPath      string    `json:"unc_path"`
	FilesScanned int       `json:"files_scanned"`
	FilesAdded   int       `json:"files_added"`
	FilesUpdated int       `json:"files_updated"`
	FilesDeleted int       `json:"files_deleted"`
	Errors       int       `json:"errors"`
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	SyncedAt     time.Time `json:"synced_at"`
}
