package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/GravitixAI/bolt-mail-operations/internal/mailstore"
)

func newTestSettings(repo *mockAppConfigRepo) *SettingsService {
	return NewSettingsService(repo, time.Second, slog.Default())
}

// TestSettingsGet_Defaults проверяет значения по умолчанию для пустого хранилища.
func TestSettingsGet_Defaults(t *testing.T) {
	svc := newTestSettings(&mockAppConfigRepo{values: map[string]string{}})

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}

	if cfg.MailDB.Port != 3306 {
		t.Errorf("MailDB.Port = %d, ожидался 3306", cfg.MailDB.Port)
	}
	if cfg.AutoSyncInterval != defaultAutoSyncIntervalMinutes {
		t.Errorf("AutoSyncInterval = %d, ожидался %d", cfg.AutoSyncInterval, defaultAutoSyncIntervalMinutes)
	}
	if cfg.AutoSyncEnabled {
		t.Error("AutoSyncEnabled должен быть false по умолчанию")
	}
	if cfg.HelpSpotCategoryID != "7" {
		t.Errorf("HelpSpotCategoryID = %q, ожидался \"7\"", cfg.HelpSpotCategoryID)
	}
	if cfg.MailDB.Complete() {
		t.Error("пустые учётные данные не должны считаться полными")
	}
}

// TestSettingsGet_LegacyPathFallback проверяет чтение старого ключа unc_path.
func TestSettingsGet_LegacyPathFallback(t *testing.T) {
	svc := newTestSettings(&mockAppConfigRepo{values: map[string]string{
		"unc_path": `\\scan01\legacy`,
	}})

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if cfg.UNCPathCertified != `\\scan01\legacy` {
		t.Errorf("UNCPathCertified = %q, ожидался legacy-путь", cfg.UNCPathCertified)
	}

	// Новый ключ имеет приоритет над старым
	svc = newTestSettings(&mockAppConfigRepo{values: map[string]string{
		"unc_path":           `\\scan01\legacy`,
		"unc_path_certified": `\\scan01\certified`,
	}})
	cfg, err = svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if cfg.UNCPathCertified != `\\scan01\certified` {
		t.Errorf("UNCPathCertified = %q, новый ключ должен иметь приоритет", cfg.UNCPathCertified)
	}
}

// TestSettingsSave_EmptyPasswordKeepsStored проверяет: пустой пароль
// не перезаписывает сохранённый.
func TestSettingsSave_EmptyPasswordKeepsStored(t *testing.T) {
	repo := &mockAppConfigRepo{values: map[string]string{
		"mysql_password":    "stored-secret",
		"helpspot_password": "hs-secret",
	}}
	svc := newTestSettings(repo)

	err := svc.Save(context.Background(), &Settings{
		MailDB:           mailstore.Credentials{Host: "dbhost", Port: 3306, Database: "mail", User: "scanner"},
		AutoSyncInterval: 5,
	})
	if err != nil {
		t.Fatalf("Save ошибка: %v", err)
	}

	if repo.values["mysql_password"] != "stored-secret" {
		t.Errorf("mysql_password = %q, пустой пароль не должен затирать сохранённый", repo.values["mysql_password"])
	}
	if repo.values["helpspot_password"] != "hs-secret" {
		t.Errorf("helpspot_password = %q, пустой пароль не должен затирать сохранённый", repo.values["helpspot_password"])
	}

	// Непустой пароль перезаписывает
	err = svc.Save(context.Background(), &Settings{
		MailDB:           mailstore.Credentials{Host: "dbhost", Port: 3306, Database: "mail", User: "scanner", Password: "new-secret"},
		AutoSyncInterval: 5,
	})
	if err != nil {
		t.Fatalf("Save ошибка: %v", err)
	}
	if repo.values["mysql_password"] != "new-secret" {
		t.Errorf("mysql_password = %q, ожидался new-secret", repo.values["mysql_password"])
	}
}

// TestSettingsSave_ValidatesInterval проверяет валидацию интервала.
func TestSettingsSave_ValidatesInterval(t *testing.T) {
	svc := newTestSettings(&mockAppConfigRepo{})

	err := svc.Save(context.Background(), &Settings{AutoSyncInterval: 0})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, ожидался ErrValidation", err)
	}
}

// TestSettings_PathFor проверяет выбор пути по типу очереди.
func TestSettings_PathFor(t *testing.T) {
	cfg := &Settings{
		UNCPathCertified: `\\scan01\certified`,
		UNCPathRegular:   `\\scan01\regular`,
	}
	if cfg.PathFor("certified") != `\\scan01\certified` {
		t.Error("PathFor(certified) вернул не тот путь")
	}
	if cfg.PathFor("regular") != `\\scan01\regular` {
		t.Error("PathFor(regular) вернул не тот путь")
	}
}
