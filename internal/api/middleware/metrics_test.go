package middleware

import "testing"

// TestNormalizePath проверяет нормализацию путей для лейблов метрик.
func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health/live", "/health/live"},
		{"/metrics", "/metrics"},
		{"/api/v1/sync-log", "/api/v1/sync-log"},
		{"/api/v1/settings", "/api/v1/settings"},
		{"/api/v1/queues/certified/files", "/api/v1/queues/{queueType}/files"},
		{"/api/v1/queues/regular/sync", "/api/v1/queues/{queueType}/sync"},
		{"/api/v1/pdf/MailCert_Jennifer.Ruiz_20260209-155008-01.pdf", "/api/v1/pdf/{filename}"},
		{"/api/v1/pdf/removal-request", "/api/v1/pdf/removal-request"},
		{"/unknown", "/unknown"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, ожидалось %q", tt.path, got, tt.want)
		}
	}
}
