// Package entry provides CRUD operations on the key value entries table.
package entry

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/clay-auth/clay-auth/internal/db/models"
)

const (
	keyQueryPattern    = "entry_key = ?"
	prefixQueryPattern = "entry_key LIKE ? ESCAPE '!'"
)

var (
	// ErrEntryNotFound is returned when an entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrEntryKeyEmpty is returned when a key is empty.
	ErrEntryKeyEmpty = errors.New("entry key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves an entry by its key.
func Get(db *gorm.DB, key string) (*models.Entry, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrEntryKeyEmpty
	}

	var entry models.Entry
	result := db.Where(keyQueryPattern, key).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, result.Error
	}

	return &entry, nil
}

// ListByPrefix retrieves all entries whose key starts with prefix, ordered by key.
func ListByPrefix(db *gorm.DB, prefix string) ([]models.Entry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entries []models.Entry
	result := db.Where(prefixQueryPattern, escapeLike(prefix)+"%").Order("entry_key").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// Set creates or updates an entry by key (upsert operation).
func Set(db *gorm.DB, key string, value []byte) (*models.Entry, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrEntryKeyEmpty
	}

	var entry models.Entry
	result := db.Where(keyQueryPattern, key).First(&entry)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		entry = models.Entry{Key: key, Value: value}
		if result = db.Create(&entry); result.Error != nil {
			return nil, result.Error
		}

		return &entry, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	entry.Value = value
	result = db.Save(&entry)
	if result.Error != nil {
		return nil, result.Error
	}

	return &entry, nil
}

// Delete deletes an entry by key.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrEntryKeyEmpty
	}

	result := db.Where(keyQueryPattern, key).Delete(&models.Entry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// escapeLike escapes LIKE wildcards using '!' as escape character.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
