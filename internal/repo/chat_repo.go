// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Chat model
// and the ChatUser membership link.
//
// Functions:
//
//   - GetPublicChat(ctx, db) -> *domain.Chat, error
//     Fetches the singleton public chat (seeded at startup).
//
//   - FindPrivateChat(ctx, db, userA, userB) -> *domain.Chat, error
//     Finds the private chat whose members are exactly the two users.
//
//   - CreatePrivateChat(db, name, userA, userB) -> *domain.Chat, error
//     Inserts a private chat together with both membership rows. Call inside
//     a transaction so the chat never becomes visible without its members.
//
//   - ListUserChats(ctx, db, userID) -> []domain.Chat, error
//     Returns all chats the user is a member of, ordered by creation time.
//
//   - OtherMember(ctx, db, chatID, userID) -> *domain.User, error
//     Resolves the second participant of a private chat.
//
//   - CountChatMessages / CountChatUsers
//     Aggregates for the /status summary.
package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/go-messager/internal/domain"
)

// GetPublicChat fetches the singleton public chat, or ErrNotFound when the
// seed has not run.
func GetPublicChat(ctx context.Context, db *gorm.DB) (*domain.Chat, error) {
	var chat domain.Chat
	err := db.WithContext(ctx).
		Where("name = ? AND type = ?", domain.PublicChatName, domain.ChatPublic).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindPrivateChat returns the private chat whose members are exactly
// {userA, userB}, or ErrNotFound. Private chats always have two distinct
// memberships, so a double join on chats_users identifies the pair.
func FindPrivateChat(ctx context.Context, db *gorm.DB, userA, userB uint) (*domain.Chat, error) {
	var chat domain.Chat
	err := db.WithContext(ctx).
		Joins("JOIN chats_users a ON a.chat_id = chats.id AND a.user_id = ?", userA).
		Joins("JOIN chats_users b ON b.chat_id = chats.id AND b.user_id = ?", userB).
		Where("chats.type = ?", domain.ChatPrivate).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// PrivatePairKey returns the canonical identity of a user pair, independent
// of argument order. It is stored on the chat row under a unique index.
func PrivatePairKey(userA, userB uint) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%d:%d", userA, userB)
}

// CreatePrivateChat inserts a private chat with the given name and both
// membership rows. The caller is expected to run it inside a transaction.
// A second private chat for the same pair is rejected by the pair-key index,
// whichever order the users are given in.
func CreatePrivateChat(db *gorm.DB, name string, userA, userB uint) (*domain.Chat, error) {
	key := PrivatePairKey(userA, userB)
	chat := &domain.Chat{
		Name:    name,
		Type:    domain.ChatPrivate,
		PairKey: &key,
		Created: time.Now().UTC(),
	}
	if err := db.Create(chat).Error; err != nil {
		return nil, err
	}
	for _, uid := range []uint{userA, userB} {
		if err := db.Create(&domain.ChatUser{ChatID: chat.ID, UserID: uid}).Error; err != nil {
			return nil, err
		}
	}
	return chat, nil
}

// ListUserChats returns every chat the user is a member of, oldest first.
func ListUserChats(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Chat, error) {
	var out []domain.Chat
	err := db.WithContext(ctx).
		Joins("JOIN chats_users cu ON cu.chat_id = chats.id AND cu.user_id = ?", userID).
		Order("chats.created ASC, chats.id ASC").
		Find(&out).Error
	return out, err
}

// OtherMember resolves the participant of chatID that is not userID. For the
// two-party private chats this is always a single row.
func OtherMember(ctx context.Context, db *gorm.DB, chatID, userID uint) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Joins("JOIN chats_users cu ON cu.user_id = users.id AND cu.chat_id = ?", chatID).
		Where("users.id <> ?", userID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CountChatMessages returns the number of messages in a chat. A raw COUNT is
// used so a missing table surfaces as an error.
func CountChatMessages(ctx context.Context, db *gorm.DB, chatID uint) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).
		Scan(&total).Error
	return total, err
}

// CountChatUsers returns the number of memberships in a chat.
func CountChatUsers(ctx context.Context, db *gorm.DB, chatID uint) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ChatUser{}).
		Where("chat_id = ?", chatID).
		Count(&total).Error
	return total, err
}
