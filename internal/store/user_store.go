package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStore persists accounts.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user with a fresh ID. Usernames are unique.
func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	username = strings.TrimSpace(username)
	if _, err := s.FindByUsername(ctx, username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findOne(ctx, "username = ?", strings.TrimSpace(username))
}

func (s *UserStore) Get(ctx context.Context, id string) (models.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

// ListIDs returns every user ID, used by maintenance commands.
func (s *UserStore) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).Order("created_at asc").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

func (s *UserStore) findOne(ctx context.Context, cond string, arg any) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where(cond, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
