package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Запись затронула ноль строк
	ErrNoChanges = errors.New("no changes were applied")

	// Запись из хранилища не прошла проверку формы результата
	ErrInvalidRecord = errors.New("stored record failed result validation")

	ErrPlayerNotFound       = errors.New("player not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrEntryNotFound        = errors.New("entry not found")
	ErrSeedNotFound         = errors.New("This seed could not be found")
	ErrRelationshipNotFound = errors.New("entry relationship not found")

	ErrConflict         = errors.New("record already exists")
	ErrInvalidReference = errors.New("referenced record does not exist")

	ErrStorageDisabled = errors.New("report storage is not configured")
)

// noChanges names the write target that matched nothing.
func noChanges(target string) error {
	return fmt.Errorf("%s: %w", target, ErrNoChanges)
}
