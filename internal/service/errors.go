// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrMailDBNotConfigured — учётные данные mail store не заданы в настройках.
	ErrMailDBNotConfigured = errors.New("учётные данные mail store не настроены")
	// ErrMailDBUnavailable — mail store недоступен.
	ErrMailDBUnavailable = errors.New("mail store недоступен")
	// ErrHelpSpotNotConfigured — интеграция HelpSpot не настроена.
	ErrHelpSpotNotConfigured = errors.New("интеграция HelpSpot не настроена")
)
