// errors.go — категоризация ошибок mail store (MySQL).
//
// Сообщения драйвера нестабильны между версиями, поэтому классификация
// ведётся таблицами: сначала по коду ошибки MySQL, затем по подстроке
// сетевой ошибки. Таблицы легко расширяются при смене версии сервера.
package mailstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrorKind — категория ошибки mail store для пользовательских сообщений.
type ErrorKind int

const (
	// KindUnknown — неклассифицированная ошибка.
	KindUnknown ErrorKind = iota
	// KindUnreachable — сервер недостижим (connection refused, no such host).
	KindUnreachable
	// KindAccessDenied — неверные учётные данные или нет прав.
	KindAccessDenied
	// KindUnknownDatabase — база данных не существует.
	KindUnknownDatabase
	// KindUnknownTable — таблица не существует.
	KindUnknownTable
	// KindTimeout — истёк таймаут соединения или запроса.
	KindTimeout
)

// mysqlErrorKinds — соответствие кодов ошибок MySQL категориям.
var mysqlErrorKinds = map[uint16]ErrorKind{
	1044: KindAccessDenied,   // ER_DBACCESS_DENIED_ERROR
	1045: KindAccessDenied,   // ER_ACCESS_DENIED_ERROR
	1049: KindUnknownDatabase, // ER_BAD_DB_ERROR
	1146: KindUnknownTable,   // ER_NO_SUCH_TABLE
}

// substringKinds — запасная классификация по подстроке текста ошибки.
var substringKinds = []struct {
	needle string
	kind   ErrorKind
}{
	{"connection refused", KindUnreachable},
	{"no such host", KindUnreachable},
	{"network is unreachable", KindUnreachable},
	{"i/o timeout", KindTimeout},
	{"invalid connection", KindUnreachable},
	{"access denied", KindAccessDenied},
	{"unknown database", KindUnknownDatabase},
}

// StoreError — ошибка mail store с категорией и пользовательским сообщением.
type StoreError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Classify определяет категорию ошибки mail store.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if kind, ok := mysqlErrorKinds[mysqlErr.Number]; ok {
			return kind
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	msg := strings.ToLower(err.Error())
	for _, s := range substringKinds {
		if strings.Contains(msg, s.needle) {
			return s.kind
		}
	}
	return KindUnknown
}

// wrapError оборачивает ошибку в StoreError с сообщением по категории.
func wrapError(err error, creds Credentials) *StoreError {
	kind := Classify(err)

	var message string
	switch kind {
	case KindUnreachable:
		message = fmt.Sprintf("не удалось подключиться к серверу MySQL %s:%d — сервер запущен?", creds.Host, creds.Port)
	case KindAccessDenied:
		message = "доступ запрещён — проверьте имя пользователя и пароль"
	case KindUnknownDatabase:
		message = fmt.Sprintf("база данных %q не существует", creds.Database)
	case KindUnknownTable:
		message = "таблица mail_scans не существует"
	case KindTimeout:
		message = "истёк таймаут подключения — проверьте хост и порт"
	default:
		message = "ошибка mail store"
	}

	return &StoreError{Kind: kind, Message: message, Err: err}
}
