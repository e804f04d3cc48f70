// Пакет mailstore — доступ к таблице mail_scans в MySQL.
//
// В отличие от app store (PostgreSQL, живёт всё время работы процесса),
// mail store подключается на каждую операцию: его учётные данные —
// настройки времени выполнения и могут меняться без рестарта.
// Соединение всегда закрывается вызывающей стороной через Close.
package mailstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
)

// Credentials — параметры подключения к mail store.
type Credentials struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// Complete проверяет, что заданы все обязательные параметры.
func (c Credentials) Complete() bool {
	return c.Host != "" && c.Database != "" && c.User != ""
}

// schemaDDL — таблица реестра сканов. Создаётся при подключении,
// если её ещё нет: mail store может быть свежей базой.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS mail_scans (
	id               BIGINT AUTO_INCREMENT PRIMARY KEY,
	unc_path         VARCHAR(512) NOT NULL,
	filename         VARCHAR(255) NOT NULL,
	mail_type        VARCHAR(128) NULL,
	username         VARCHAR(128) NULL,
	display_name     VARCHAR(255) NULL,
	created_date     VARCHAR(10) NULL,
	created_time     VARCHAR(8) NULL,
	file_size        BIGINT NOT NULL DEFAULT 0,
	file_modified_at DATETIME NULL,
	is_small_file    TINYINT(1) NOT NULL DEFAULT 0,
	first_seen_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_synced_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uq_mail_scans_path_file (unc_path, filename),
	KEY idx_mail_scans_path (unc_path)
)`

// Store — открытое соединение с mail store.
type Store struct {
	db    *sql.DB
	creds Credentials
}

// Open подключается к MySQL с заданным таймаутом установления соединения,
// проверяет доступность и гарантирует наличие схемы.
// Ошибки подключения возвращаются как *StoreError с категорией.
func Open(ctx context.Context, creds Credentials, connectTimeout time.Duration) (*Store, error) {
	dsnCfg := mysql.NewConfig()
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%d", creds.Host, creds.Port)
	dsnCfg.DBName = creds.Database
	dsnCfg.User = creds.User
	dsnCfg.Passwd = creds.Password
	dsnCfg.Timeout = connectTimeout
	dsnCfg.ParseTime = true

	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return nil, wrapError(err, creds)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, wrapError(err, creds)
	}

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, wrapError(err, creds)
	}

	return &Store{db: db, creds: creds}, nil
}

// Close закрывает соединение с mail store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Version возвращает версию сервера MySQL (для проверки соединения).
func (s *Store) Version(ctx context.Context) (string, error) {
	var version string
	if err := s.db.QueryRowContext(ctx, `SELECT VERSION()`).Scan(&version); err != nil {
		return "", wrapError(err, s.creds)
	}
	return version, nil
}

// Exists проверяет, известен ли файл реестру для данного пути.
// Используется отдачей PDF и созданием заявок на удаление: запросы на
// файлы, которых нет в реестре, отклоняются.
func (s *Store) Exists(ctx context.Context, uncPath, filename string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM mail_scans WHERE unc_path = ? AND filename = ? LIMIT 1`,
		uncPath, filename,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, wrapError(err, s.creds)
	}
	return true, nil
}

// Begin открывает транзакцию реконсиляции.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapError(err, s.creds)
	}
	return &Tx{tx: tx, creds: s.creds}, nil
}

// Tx — транзакция mail store. Все шаги реконсиляции выполняются
// внутри одной транзакции и фиксируются либо откатываются целиком.
type Tx struct {
	tx    *sql.Tx
	creds Credentials
}

// FilenamesByPath возвращает все имена файлов, известные реестру
// для данного пути (снапшот до начала изменений).
func (t *Tx) FilenamesByPath(ctx context.Context, uncPath string) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT filename FROM mail_scans WHERE unc_path = ?`, uncPath)
	if err != nil {
		return nil, wrapError(err, t.creds)
	}
	defer rows.Close()

	var filenames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrapError(err, t.creds)
		}
		filenames = append(filenames, name)
	}
	return filenames, rows.Err()
}

// Upsert вставляет или обновляет запись по ключу (unc_path, filename).
func (t *Tx) Upsert(ctx context.Context, rec *model.MailRecord) error {
	query := `
		INSERT INTO mail_scans (unc_path, filename, mail_type, username, display_name,
			created_date, created_time, file_size, file_modified_at, is_small_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			mail_type = VALUES(mail_type),
			username = VALUES(username),
			display_name = VALUES(display_name),
			created_date = VALUES(created_date),
			created_time = VALUES(created_time),
			file_size = VALUES(file_size),
			file_modified_at = VALUES(file_modified_at),
			is_small_file = VALUES(is_small_file)`

	_, err := t.tx.ExecContext(ctx, query,
		rec.UNCPath, rec.Filename,
		nullable(rec.MailType), nullable(rec.Username), nullable(rec.DisplayName),
		nullable(rec.CreatedDate), nullable(rec.CreatedTime),
		rec.FileSize, rec.ModifiedAt, rec.IsSmallFile,
	)
	if err != nil {
		return wrapError(err, t.creds)
	}
	return nil
}

// DeleteByFilenames удаляет записи данного пути с перечисленными именами.
// Единственный путь удаления записей реестра.
func (t *Tx) DeleteByFilenames(ctx context.Context, uncPath string, filenames []string) (int64, error) {
	if len(filenames) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?,", len(filenames))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(filenames)+1)
	args = append(args, uncPath)
	for _, name := range filenames {
		args = append(args, name)
	}

	query := fmt.Sprintf(
		`DELETE FROM mail_scans WHERE unc_path = ? AND filename IN (%s)`, placeholders)

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapError(err, t.creds)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, wrapError(err, t.creds)
	}
	return affected, nil
}

// Commit фиксирует транзакцию.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return wrapError(err, t.creds)
	}
	return nil
}

// Rollback откатывает транзакцию. Откат после коммита — no-op.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return wrapError(err, t.creds)
	}
	return nil
}

// nullable превращает пустую строку в NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
