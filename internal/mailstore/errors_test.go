package mailstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
)

// TestClassify проверяет категоризацию ошибок mail store.
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"mysql 1045 access denied", &mysql.MySQLError{Number: 1045, Message: "Access denied for user"}, KindAccessDenied},
		{"mysql 1044 db access denied", &mysql.MySQLError{Number: 1044, Message: "Access denied for user to database"}, KindAccessDenied},
		{"mysql 1049 unknown database", &mysql.MySQLError{Number: 1049, Message: "Unknown database 'mail'"}, KindUnknownDatabase},
		{"mysql 1146 unknown table", &mysql.MySQLError{Number: 1146, Message: "Table 'mail.mail_scans' doesn't exist"}, KindUnknownTable},
		{"mysql незнакомый код по подстроке", &mysql.MySQLError{Number: 9999, Message: "Unknown database 'x'"}, KindUnknownDatabase},
		{"context deadline", context.DeadlineExceeded, KindTimeout},
		{"обёрнутый deadline", fmt.Errorf("ping: %w", context.DeadlineExceeded), KindTimeout},
		{"connection refused", errors.New("dial tcp 10.0.0.1:3306: connect: connection refused"), KindUnreachable},
		{"no such host", errors.New("dial tcp: lookup badhost: no such host"), KindUnreachable},
		{"i/o timeout", errors.New("dial tcp 10.0.0.1:3306: i/o timeout"), KindTimeout},
		{"прочее", errors.New("что-то пошло не так"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, ожидалось %v", tt.err, got, tt.want)
			}
		})
	}
}

// TestWrapError проверяет пользовательские сообщения по категориям.
func TestWrapError(t *testing.T) {
	creds := Credentials{Host: "dbhost", Port: 3306, Database: "mail", User: "scanner"}

	t.Run("unreachable упоминает хост и порт", func(t *testing.T) {
		werr := wrapError(errors.New("connection refused"), creds)
		if werr.Kind != KindUnreachable {
			t.Fatalf("Kind = %v, ожидался KindUnreachable", werr.Kind)
		}
		if want := "dbhost:3306"; !strings.Contains(werr.Message, want) {
			t.Errorf("Message = %q, должно содержать %q", werr.Message, want)
		}
	})

	t.Run("unknown database упоминает имя базы", func(t *testing.T) {
		werr := wrapError(&mysql.MySQLError{Number: 1049, Message: "Unknown database"}, creds)
		if !strings.Contains(werr.Message, `"mail"`) {
			t.Errorf("Message = %q, должно содержать имя базы", werr.Message)
		}
	})

	t.Run("Unwrap возвращает исходную ошибку", func(t *testing.T) {
		orig := errors.New("connection refused")
		werr := wrapError(orig, creds)
		if !errors.Is(werr, orig) {
			t.Error("errors.Is не находит исходную ошибку")
		}
	})
}
