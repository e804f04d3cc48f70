package scan

import "testing"

// TestParse проверяет разбор имён файлов сканов.
func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     ParsedName
	}{
		{
			name:     "полное имя с суффиксом страницы",
			filename: "MailCert_Jennifer.Ruiz_20260209-155008-01.pdf",
			want: ParsedName{
				MailType:    "MailCert",
				User:        "Jennifer.Ruiz",
				CreatedDate: "2026-02-09",
				CreatedTime: "15:50:08",
			},
		},
		{
			name:     "без суффикса страницы",
			filename: "Mail_john.smith_20251231-081500.pdf",
			want: ParsedName{
				MailType:    "Mail",
				User:        "john.smith",
				CreatedDate: "2025-12-31",
				CreatedTime: "08:15:00",
			},
		},
		{
			name:     "тип с подчёркиванием",
			filename: "Mail_Special_anna.kovaleva_20260101-120000.pdf",
			want: ParsedName{
				MailType:    "Mail_Special",
				User:        "anna.kovaleva",
				CreatedDate: "2026-01-01",
				CreatedTime: "12:00:00",
			},
		},
		{
			name:     "фамилия с дефисом",
			filename: "MailCert_maria.petrova-ivanova_20260315-093045.pdf",
			want: ParsedName{
				MailType:    "MailCert",
				User:        "maria.petrova-ivanova",
				CreatedDate: "2026-03-15",
				CreatedTime: "09:30:45",
			},
		},
		{
			name:     "восемь цифр времени, берутся первые шесть",
			filename: "Mail_ivan.orlov_20260401-15500801.pdf",
			want: ParsedName{
				MailType:    "Mail",
				User:        "ivan.orlov",
				CreatedDate: "2026-04-01",
				CreatedTime: "15:50:08",
			},
		},
		{
			name:     "расширение в верхнем регистре",
			filename: "Mail_pavel.volkov_20260501-101010.PDF",
			want: ParsedName{
				MailType:    "Mail",
				User:        "pavel.volkov",
				CreatedDate: "2026-05-01",
				CreatedTime: "10:10:10",
			},
		},
		{
			name:     "произвольное имя не разбирается",
			filename: "random_file.pdf",
			want:     ParsedName{},
		},
		{
			name:     "пользователь без точки не разбирается",
			filename: "Mail_johnsmith_20260101-120000.pdf",
			want:     ParsedName{},
		},
		{
			name:     "цифры в имени пользователя не разбираются",
			filename: "Mail_john2.smith_20260101-120000.pdf",
			want:     ParsedName{},
		},
		{
			name:     "короткая дата не разбирается",
			filename: "Mail_john.smith_2026011-120000.pdf",
			want:     ParsedName{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.filename)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, ожидалось %+v", tt.filename, got, tt.want)
			}
		})
	}
}
