package testutil

import (
	"testing"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/database"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
// The pool is pinned to one connection since every :memory: connection is a separate database.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// MustDB is NewInMemoryDB for tests, closing the DB on cleanup.
func MustDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := NewInMemoryDB()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedTask inserts a task for userID with the given due date and completion state.
func SeedTask(t testing.TB, db *gorm.DB, userID, subject string, due *time.Time, completedAt *time.Time) models.Task {
	t.Helper()
	task := models.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "task " + subject,
		Subject:     subject,
		DueDate:     utc(due),
		Completed:   completedAt != nil,
		CompletedAt: utc(completedAt),
		Priority:    models.PriorityMedium,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

// Ptr returns a pointer to t.
func Ptr(t time.Time) *time.Time {
	return &t
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
