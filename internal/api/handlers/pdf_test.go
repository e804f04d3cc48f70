package handlers

import "testing"

// TestValidFilename проверяет фильтрацию имён файлов для отдачи PDF.
func TestValidFilename(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"MailCert_Jennifer.Ruiz_20260209-155008-01.pdf", true},
		{"letter.PDF", true},
		{"", false},
		{"notes.txt", false},
		{"../secret.pdf", false},
		{"..\\secret.pdf", false},
		{"dir/letter.pdf", false},
		{"dir\\letter.pdf", false},
		{"..pdf", false},
	}

	for _, tt := range tests {
		if got := validFilename(tt.name); got != tt.want {
			t.Errorf("validFilename(%q) = %v, ожидалось %v", tt.name, got, tt.want)
		}
	}
}
