package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidSimulation  = errors.New("invalid simulation input")
	ErrMatchNotCancelable = errors.New("completed matches cannot be cancelled")

	// Ошибки конфликтов
	ErrWeekAlreadyScheduled = errors.New("week is already scheduled for this category")
	ErrScheduleConflict     = errors.New("schedule conflicts with stored matches")

	// Хранилище недоступно или вернуло неожиданную ошибку
	ErrDataUnavailable = errors.New("tournament data unavailable")

	ErrWeekNotFound  = errors.New("week not found")
	ErrMatchNotFound = errors.New("match not found")
)
