package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskFilter narrows List results. Zero values mean "no constraint".
type TaskFilter struct {
	DueFrom   *time.Time
	DueTo     *time.Time
	Completed *bool
	Subject   string
	Limit     int
	Offset    int
}

// TaskStore persists learning tasks with gorm.
type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create validates and inserts task, assigning its ID and default priority.
func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" || task.UserID == "" {
		return ErrInvalidTask
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, task.Priority)
	}
	if task.Completed != (task.CompletedAt != nil) {
		return fmt.Errorf("%w: completedAt must be set exactly when completed", ErrInvalidTask)
	}
	normalizeTimes(task)
	task.ID = uuid.NewString()

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Get returns the task with id owned by userID.
func (s *TaskStore) Get(ctx context.Context, userID, id string) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// List returns a user's tasks ordered by due date (undated last), then creation time.
func (s *TaskStore) List(ctx context.Context, userID string, f TaskFilter) ([]models.Task, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)
	if f.DueFrom != nil {
		query = query.Where("due_date >= ?", f.DueFrom.UTC())
	}
	if f.DueTo != nil {
		query = query.Where("due_date < ?", f.DueTo.UTC())
	}
	if f.Completed != nil {
		query = query.Where("completed = ?", *f.Completed)
	}
	if subject := strings.TrimSpace(f.Subject); subject != "" {
		query = query.Where("subject = ?", subject)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	page := query.Session(&gorm.Session{}).Order("due_date IS NULL, due_date asc, created_at desc")
	if f.Limit > 0 {
		page = page.Limit(f.Limit).Offset(f.Offset)
	}

	var tasks []models.Task
	if err := page.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

// Update saves every column of task. The caller is expected to have loaded it via Get.
func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" || !task.Priority.Valid() {
		return ErrInvalidTask
	}
	if task.Completed != (task.CompletedAt != nil) {
		return fmt.Errorf("%w: completedAt must be set exactly when completed", ErrInvalidTask)
	}

	normalizeTimes(task)
	task.UpdatedAt = time.Now().UTC()

	res := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]any{
			"title":        task.Title,
			"subject":      task.Subject,
			"description":  task.Description,
			"due_date":     task.DueDate,
			"completed":    task.Completed,
			"completed_at": task.CompletedAt,
			"priority":     task.Priority,
			"updated_at":   task.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes the task and returns it as it was, so callers can tell which days it touched.
func (s *TaskStore) Delete(ctx context.Context, userID, id string) (models.Task, error) {
	var deleted models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		return tx.Delete(&deleted).Error
	})
	if errors.Is(err, ErrTaskNotFound) {
		return models.Task{}, err
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("delete task: %w", err)
	}
	return deleted, nil
}

// ListTasksDueInRange returns tasks whose due date lies in [start, end).
func (s *TaskStore) ListTasksDueInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND due_date >= ? AND due_date < ?", userID, start.UTC(), end.UTC()).
		Order("due_date asc").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks due in range: %w", err)
	}
	return tasks, nil
}

// ListTasksCompletedInRange returns completed tasks whose completion time lies in [start, end),
// in completion order.
func (s *TaskStore) ListTasksCompletedInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND completed = ? AND completed_at >= ? AND completed_at < ?", userID, true, start.UTC(), end.UTC()).
		Order("completed_at asc").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks completed in range: %w", err)
	}
	return tasks, nil
}

// normalizeTimes stores timestamps in UTC so SQLite's text comparison orders them correctly.
func normalizeTimes(task *models.Task) {
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		task.DueDate = &due
	}
	if task.CompletedAt != nil {
		done := task.CompletedAt.UTC()
		task.CompletedAt = &done
	}
}
