// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions accept a *gorm.DB handle, making them safe for use within
// transactions or connection-scoped operations. They follow the "thin
// repository" approach: no business logic, only CRUD persistence and query
// composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/go-messager/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateUser inserts a new User row with the given name and token. The
// public-chat rate window starts at the moment of creation.
func CreateUser(ctx context.Context, db *gorm.DB, userName, token string) (*domain.User, error) {
	u := &domain.User{
		UserName:                  userName,
		Token:                     token,
		StartChattingInPublicChat: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByID fetches a user by primary key, or ErrNotFound.
func GetUserByID(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByName fetches a user by exact user_name, or ErrNotFound.
func GetUserByName(ctx context.Context, db *gorm.DB, userName string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("user_name = ?", userName).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByToken fetches a user by exact token equality, or ErrNotFound.
func GetUserByToken(ctx context.Context, db *gorm.DB, token string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("token = ?", token).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// TokenExists reports whether any user already holds the given token.
func TokenExists(ctx context.Context, db *gorm.DB, token string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.User{}).Where("token = ?", token).Count(&n).Error
	return n > 0, err
}

// UpdateRateWindow persists the public-chat rate counters of a user.
func UpdateRateWindow(ctx context.Context, db *gorm.DB, userID uint, count int, start time.Time) error {
	return db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"messages_in_hour_in_public_chat": count,
			"start_chatting_in_public_chat":   start,
		}).Error
}

// IncrementRateCounter takes one slot of the public-chat window: the counter
// is bumped by one, but only while the stored value is below limit. It
// reports whether a slot was taken. The guarded UPDATE reads the live row, so
// requests holding a stale in-memory counter cannot overshoot the limit.
func IncrementRateCounter(ctx context.Context, db *gorm.DB, userID uint, limit int) (bool, error) {
	res := db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND messages_in_hour_in_public_chat < ?", userID, limit).
		Update("messages_in_hour_in_public_chat", gorm.Expr("messages_in_hour_in_public_chat + 1"))
	return res.RowsAffected > 0, res.Error
}

// ResetRateWindowIfElapsed restarts an exhausted window at now with this post
// already counted, but only while the stored window started at or before
// cutoff. It reports whether the reset was applied; losing the race to a
// concurrent reset returns false with no change.
func ResetRateWindowIfElapsed(ctx context.Context, db *gorm.DB, userID uint, limit int, cutoff, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND messages_in_hour_in_public_chat >= ? AND start_chatting_in_public_chat <= ?",
			userID, limit, cutoff).
		Updates(map[string]any{
			"messages_in_hour_in_public_chat": 1,
			"start_chatting_in_public_chat":   now,
		})
	return res.RowsAffected > 0, res.Error
}
