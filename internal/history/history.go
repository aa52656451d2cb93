// Package history keeps a local snapshot trail of the content file. Each
// successful save records the serialized text, so an editing mistake can
// be rolled back past the single rolling backup.
package history

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Snapshot is one saved revision of the content file.
type Snapshot struct {
	gorm.Model
	Label   string `gorm:"size:255"`
	Content string
}

// ErrNotFound is returned when a snapshot ID does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Store persists snapshots in a local SQLite database.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the snapshot database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Record stores a new snapshot and returns its ID.
func (s *Store) Record(label, content string) (uint, error) {
	snap := Snapshot{Label: label, Content: content}
	if err := s.db.Create(&snap).Error; err != nil {
		return 0, fmt.Errorf("record snapshot: %w", err)
	}
	return snap.ID, nil
}

// List returns the most recent snapshots, newest first, without content.
func (s *Store) List(limit int) ([]Snapshot, error) {
	var snaps []Snapshot
	err := s.db.
		Select("id", "created_at", "updated_at", "label").
		Order("id desc").
		Limit(limit).
		Find(&snaps).Error
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

// Get returns one snapshot with its content.
func (s *Store) Get(id uint) (Snapshot, error) {
	var snap Snapshot
	if err := s.db.First(&snap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("load snapshot %d: %w", id, err)
	}
	return snap, nil
}
