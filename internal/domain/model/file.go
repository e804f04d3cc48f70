// Пакет model — доменные модели сервиса mail-operations.
package model

import "time"

// SmallFileThreshold — порог размера файла в байтах, ниже которого
// скан считается подозрительным (вероятно пустая или оборванная страница).
const SmallFileThreshold = 5000

// QueueType — тип почтовой очереди.
type QueueType string

const (
	// QueueCertified — очередь заказной почты.
	QueueCertified QueueType = "certified"
	// QueueRegular — очередь обычной почты.
	QueueRegular QueueType = "regular"
)

// Valid проверяет, что тип очереди — одно из допустимых значений.
func (q QueueType) Valid() bool {
	return q == QueueCertified || q == QueueRegular
}

// ScannedFile — результат сканирования одного PDF-файла в каталоге очереди.
// Эфемерная структура: живёт от сканирования до реконсиляции.
type ScannedFile struct {
	// Имя файла (уникально в пределах листинга каталога)
	Name string `json:"name"`
	// Размер файла в байтах
	Size int64 `json:"size"`
	// Время последней модификации файла
	ModifiedAt time.Time `json:"modified_at"`
	// Тип письма из имени файла (пусто, если имя не распарсилось)
	MailType string `json:"mail_type,omitempty"`
	// Логин отправителя в форме firstname.lastname (пусто, если не распарсилось)
	User string `json:"user,omitempty"`
	// Дата создания в формате YYYY-MM-DD (пусто, если не распарсилось)
	CreatedDate string `json:"created_date,omitempty"`
	// Время создания в формате HH:MM:SS (пусто, если не распарсилось)
	CreatedTime string `json:"created_time,omitempty"`
	// Признак подозрительно маленького файла (size < SmallFileThreshold)
	IsSmallFile bool `json:"is_small_file"`
}

// MailRecord — долговременная запись о файле очереди в mail store.
// Идентичность — пара (UNCPath, Filename). Записи полностью принадлежат
// движку реконсиляции: никакой другой компонент их не изменяет.
type MailRecord struct {
	UNCPath     string
	Filename    string
	MailType    string
	Username    string
	DisplayName string
	CreatedDate string
	CreatedTime string
	FileSize    int64
	ModifiedAt  time.Time
	IsSmallFile bool
}
