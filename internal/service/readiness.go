// readiness.go — проверка готовности mail store для readiness probe.
package service

import (
	"context"
	"time"
)

// readinessTimeout — таймаут одной проверки готовности.
const readinessTimeout = 2 * time.Second

// MailDBReadiness — проверка доступности mail store по текущим настройкам.
// Незаполненные учётные данные — штатное состояние свежей установки,
// поэтому дают degraded, а не fail.
type MailDBReadiness struct {
	settings  *SettingsService
	openStore MailStoreOpener
}

// NewMailDBReadiness создаёт проверку готовности mail store.
func NewMailDBReadiness(settings *SettingsService, openStore MailStoreOpener) *MailDBReadiness {
	return &MailDBReadiness{settings: settings, openStore: openStore}
}

// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
func (c *MailDBReadiness) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
	defer cancel()

	cfg, err := c.settings.Get(ctx)
	if err != nil {
		return "fail", "ошибка чтения настроек: " + err.Error()
	}
	if !cfg.MailDB.Complete() {
		return "degraded", "учётные данные mail store не настроены"
	}

	store, err := c.openStore(ctx, cfg.MailDB)
	if err != nil {
		return "degraded", err.Error()
	}
	_ = store.Close()

	return "ok", ""
}
