package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/FChavez82/highlander-tennis/models"
	"github.com/FChavez82/highlander-tennis/repositories"
)

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисного слоя.
func handleRepositoryError(err error, action string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repositories.ErrWeekNotFound):
		return ErrWeekNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchConflict):
		return fmt.Errorf("%s: %w", action, ErrScheduleConflict)
	case errors.Is(err, repositories.ErrMatchWeekInvalid), errors.Is(err, repositories.ErrMatchParticipantInvalid):
		return fmt.Errorf("%s: %w: %v", action, ErrValidationFailed, err)
	default:
		return fmt.Errorf("%s: %w: %v", action, ErrDataUnavailable, err)
	}
}

func validateCategory(category models.Category) error {
	if _, err := models.ParseCategory(string(category)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return nil
}

// keyedMutex выдаёт отдельный мьютекс на каждый ключ.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until key is free and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
