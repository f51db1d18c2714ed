package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkravets/tickle/internal/models"
)

// Sentinel errors returned by store services.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrAreaNotFound    = errors.New("area not found")
)

// Store owns the SQLite database and the task change stream. Every
// mutating service publishes the matching Change after its write
// committed, never before.
type Store struct {
	db     *gorm.DB
	stream *stream
}

// Options tunes Store behavior. The zero value is usable.
type Options struct {
	// StreamBuffer is the per-subscriber channel capacity.
	// Zero means DefaultStreamBuffer.
	StreamBuffer int
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations.
func Open(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{
		db:     db,
		stream: newStream(opts.StreamBuffer),
	}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// migrate creates/updates the database schema
func (s *Store) migrate() error {
	return s.db.AutoMigrate(
		&models.Task{},
		&models.Project{},
		&models.Area{},
		&models.Tag{},
		&models.TaskTag{},
	)
}

// Subscribe registers a new consumer of task changes.
func (s *Store) Subscribe() *Subscription {
	return s.stream.subscribe()
}

// Close closes the change stream and the database connection.
func (s *Store) Close() error {
	s.stream.close()

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
