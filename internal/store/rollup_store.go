package store

import (
	"context"
	"fmt"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RollupStore is a database-backed progress.RollupCache over the daily_progress table.
// Rows older than ttl are treated as misses.
type RollupStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewRollupStore(db *gorm.DB, ttl time.Duration) *RollupStore {
	return &RollupStore{db: db, ttl: ttl, now: time.Now}
}

func (s *RollupStore) GetMany(ctx context.Context, userID string, dates []string) (map[string]progress.DailyRollup, error) {
	out := make(map[string]progress.DailyRollup, len(dates))
	if len(dates) == 0 {
		return out, nil
	}

	query := s.db.WithContext(ctx).Where("user_id = ? AND date IN ?", userID, dates)
	if s.ttl > 0 {
		query = query.Where("computed_at > ?", s.now().UTC().Add(-s.ttl))
	}

	var rows []models.DailyProgress
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read daily progress: %w", err)
	}
	for _, r := range rows {
		out[r.Date] = progress.DailyRollup{
			Date:           r.Date,
			CompletedCount: r.CompletedCount,
			TotalCount:     r.TotalCount,
			Percentage:     r.Percentage,
		}
	}
	return out, nil
}

// Put upserts rollups; the latest write for a (user, date) wins.
func (s *RollupStore) Put(ctx context.Context, userID string, rollups []progress.DailyRollup) error {
	if len(rollups) == 0 {
		return nil
	}
	computedAt := s.now().UTC()
	rows := make([]models.DailyProgress, len(rollups))
	for i, r := range rollups {
		rows[i] = models.DailyProgress{
			UserID:         userID,
			Date:           r.Date,
			CompletedCount: r.CompletedCount,
			TotalCount:     r.TotalCount,
			Percentage:     r.Percentage,
			ComputedAt:     computedAt,
		}
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed_count", "total_count", "percentage", "computed_at"}),
	}).CreateInBatches(rows, 100).Error
	if err != nil {
		return fmt.Errorf("upsert daily progress: %w", err)
	}
	return nil
}

func (s *RollupStore) Invalidate(ctx context.Context, userID string, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date IN ?", userID, dates).
		Delete(&models.DailyProgress{}).Error
	if err != nil {
		return fmt.Errorf("invalidate daily progress: %w", err)
	}
	return nil
}

// PruneBefore deletes cached rows for dates strictly before cutoff (YYYY-MM-DD).
func (s *RollupStore) PruneBefore(ctx context.Context, cutoff string) (int64, error) {
	res := s.db.WithContext(ctx).Where("date < ?", cutoff).Delete(&models.DailyProgress{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune daily progress: %w", res.Error)
	}
	return res.RowsAffected, nil
}

var _ progress.RollupCache = (*RollupStore)(nil)
