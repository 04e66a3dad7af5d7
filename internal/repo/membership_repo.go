// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ChatUser
// membership link carrying per-(chat,user) read and moderation state.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/go-messager/internal/domain"
)

// GetMembership fetches the membership row for (chatID, userID), or
// ErrNotFound.
func GetMembership(ctx context.Context, db *gorm.DB, chatID, userID uint) (*domain.ChatUser, error) {
	var m domain.ChatUser
	err := db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMembership inserts a membership row with default moderation state.
func CreateMembership(db *gorm.DB, chatID, userID uint) error {
	return db.Create(&domain.ChatUser{ChatID: chatID, UserID: userID}).Error
}

// TouchLastConnect sets the membership's last_connect to t.
func TouchLastConnect(ctx context.Context, db *gorm.DB, chatID, userID uint, t time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.ChatUser{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("last_connect", t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateModeration persists the cautions/ban fields of a membership row.
// BannedTill may be nil to clear the ban expiry.
func UpdateModeration(ctx context.Context, db *gorm.DB, chatID, userID uint, cautions int16, banned bool, bannedTill *time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.ChatUser{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Updates(map[string]any{
			"cautions":    cautions,
			"banned":      banned,
			"banned_till": bannedTill,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
