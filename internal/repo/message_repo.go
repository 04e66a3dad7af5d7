// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// and Comment models.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/go-messager/internal/domain"
)

// CreateMessage inserts a new message row with a server-assigned pub_date.
func CreateMessage(db *gorm.DB, chatID, authorID uint, text string) (*domain.Message, error) {
	m := &domain.Message{
		Text:     text,
		PubDate:  time.Now().UTC(),
		AuthorID: authorID,
		ChatID:   chatID,
	}
	return m, db.Create(m).Error
}

// ListMessagesBefore returns up to limit messages with pub_date strictly
// before the cutoff, newest first, with the Author association loaded. These
// form the already-read tail.
func ListMessagesBefore(ctx context.Context, db *gorm.DB, chatID uint, before time.Time, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.WithContext(ctx).
		Preload("Author").
		Where("chat_id = ? AND pub_date < ?", chatID, before).
		Order("pub_date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// ListMessagesAfter returns all messages with pub_date strictly after the
// cutoff, oldest first, with the Author association loaded. These are the
// unread messages.
func ListMessagesAfter(ctx context.Context, db *gorm.DB, chatID uint, after time.Time) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Preload("Author").
		Where("chat_id = ? AND pub_date > ?", chatID, after).
		Order("pub_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

// GetMessage fetches a message by ID, or ErrNotFound.
func GetMessage(ctx context.Context, db *gorm.DB, id uint) (*domain.Message, error) {
	var m domain.Message
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMessageByText fetches the first message with the given text. Intended
// for tests and diagnostics.
func GetMessageByText(ctx context.Context, db *gorm.DB, text string) (*domain.Message, error) {
	var m domain.Message
	if err := db.WithContext(ctx).Where("text = ?", text).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateComment inserts a comment row for a message.
func CreateComment(db *gorm.DB, messageID, authorID uint, text string) (*domain.Comment, error) {
	c := &domain.Comment{
		MessageID: messageID,
		AuthorID:  authorID,
		Text:      text,
		Created:   time.Now().UTC(),
	}
	return c, db.Create(c).Error
}

// ListComments returns the comments of a message, oldest first, with the
// Author association loaded.
func ListComments(ctx context.Context, db *gorm.DB, messageID uint) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Preload("Author").
		Where("message_id = ?", messageID).
		Order("created ASC, id ASC").
		Find(&out).Error
	return out, err
}
