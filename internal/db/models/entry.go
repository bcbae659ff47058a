// Package models contains database model definitions.
package models

// Entry is a single key value pair of the user store.
type Entry struct {
	ID    uint64 `gorm:"primaryKey"`
	Key   string `gorm:"column:entry_key;uniqueIndex;size:512;not null"`
	Value []byte
}

// TableName pins the table name for all gorm dialects.
func (Entry) TableName() string {
	return "entries"
}
