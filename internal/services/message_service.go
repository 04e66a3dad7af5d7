// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns posting messages and comments. It validates inputs, applies the
// moderation checks (ban, public rate window), lazily creates private chats
// on the first message between a pair of users, and persists every mutation
// in a single transaction so observers never see half-applied writes.
//
// Observability: Send is OpenTelemetry-instrumented; spans carry the sender
// and target identifiers.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/avolkov/go-messager/internal/domain"
	"github.com/avolkov/go-messager/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxTextRunes caps message and comment texts (storage column limit).
const maxTextRunes = 255

// SendOutcome describes the result of a /send call.
type SendOutcome int

const (
	// SendDelivered: the message was persisted.
	SendDelivered SendOutcome = iota
	// SendBanned: the sender is banned in the target chat; nothing persisted.
	SendBanned
	// SendRateLimited: the public-chat window is exhausted; nothing persisted.
	SendRateLimited
)

// SendResult is the outcome of Send plus the data the handler needs to
// compose the response: the persisted message on delivery, or the window
// finish time on refusal.
type SendResult struct {
	Outcome SendOutcome
	// RetryAt is set for SendRateLimited: when the window elapses.
	RetryAt time.Time
	// Message is set for SendDelivered.
	Message *domain.Message
}

// MessageService coordinates message and comment persistence.
type MessageService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Send posts text on behalf of sender. sendTo is either "public_chat" or the
// user_name of the private-chat counterpart. Failures: ErrEmptyMessage,
// ErrTextTooLong (both 400), ErrUserNotFound (404 for a private target).
func (s *MessageService) Send(ctx context.Context, sender *domain.User, sendTo, text string) (*SendResult, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("sender.name", sender.UserName),
			attribute.String("send.to", sendTo),
		),
	)
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > maxTextRunes {
		return nil, ErrTextTooLong
	}
	if sendTo == "" {
		sendTo = domain.PublicChatName
	}

	if sendTo == domain.PublicChatName {
		return s.sendPublic(ctx, sender, text)
	}
	return s.sendPrivate(ctx, sender, sendTo, text)
}

// sendPublic runs the ban check, the rate window, and the insert in one
// transaction against the public chat.
func (s *MessageService) sendPublic(ctx context.Context, sender *domain.User, text string) (*SendResult, error) {
	res := &SendResult{Outcome: SendDelivered}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chat, err := repo.GetPublicChat(ctx, tx)
		if err != nil {
			return err
		}
		now := time.Now().UTC()

		allowed, err := ensureNotBanned(ctx, tx, chat.ID, sender.ID, now)
		if err != nil {
			return err
		}
		if !allowed {
			res.Outcome = SendBanned
			return nil
		}

		ok, finish, err := allowPublicPost(ctx, tx, sender.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			res.Outcome = SendRateLimited
			res.RetryAt = finish
			return nil
		}

		msg, err := repo.CreateMessage(tx, chat.ID, sender.ID, text)
		if err != nil {
			return err
		}
		res.Message = msg
		return repo.TouchLastConnect(ctx, tx, chat.ID, sender.ID, now)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// sendPrivate resolves the counterpart and posts into the shared private
// chat, creating it atomically with the first message when absent.
func (s *MessageService) sendPrivate(ctx context.Context, sender *domain.User, sendTo, text string) (*SendResult, error) {
	target, err := repo.GetUserByName(ctx, s.DB, sendTo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	res, createdChat, err := s.postPrivate(ctx, sender, target, text)
	if err != nil && createdChat {
		// A concurrent first message can create the pair chat between our
		// lookup and insert; the pair-key index rejects the duplicate. One
		// retry routes this message into the surviving chat. The failed
		// transaction persisted nothing, so the retry starts clean.
		res, _, err = s.postPrivate(ctx, sender, target, text)
	}
	return res, err
}

// postPrivate runs one find-or-create attempt in a single transaction. The
// second return value reports whether the attempt took the chat-creation
// path, which is the only path that can lose a uniqueness race.
func (s *MessageService) postPrivate(ctx context.Context, sender, target *domain.User, text string) (*SendResult, bool, error) {
	createdChat := false
	res := &SendResult{Outcome: SendDelivered}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		chat, err := repo.FindPrivateChat(ctx, tx, sender.ID, target.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First-ever message: chat, memberships, and message become
			// visible together. Fresh memberships are unbanned, so no ban
			// check applies here.
			createdChat = true
			name := fmt.Sprintf("private-%d", now.Unix())
			chat, err = repo.CreatePrivateChat(tx, name, sender.ID, target.ID)
			if err != nil {
				return err
			}
			msg, err := repo.CreateMessage(tx, chat.ID, sender.ID, text)
			if err != nil {
				return err
			}
			res.Message = msg
			return repo.TouchLastConnect(ctx, tx, chat.ID, sender.ID, now)
		}
		if err != nil {
			return err
		}

		allowed, err := ensureNotBanned(ctx, tx, chat.ID, sender.ID, now)
		if err != nil {
			return err
		}
		if !allowed {
			res.Outcome = SendBanned
			return nil
		}
		msg, err := repo.CreateMessage(tx, chat.ID, sender.ID, text)
		if err != nil {
			return err
		}
		res.Message = msg
		return repo.TouchLastConnect(ctx, tx, chat.ID, sender.ID, now)
	})
	if err != nil {
		return nil, createdChat, err
	}
	return res, createdChat, nil
}

// Comment attaches text to the message identified by messageID. Failures:
// ErrEmptyComment, ErrTextTooLong, and ErrMessageNotFound for an unknown id
// (mapped to 400, not 404, for client compatibility).
func (s *MessageService) Comment(ctx context.Context, author *domain.User, messageID uint, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	if utf8.RuneCountInString(text) > maxTextRunes {
		return ErrTextTooLong
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetMessage(ctx, tx, messageID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return err
		}
		_, err := repo.CreateComment(tx, messageID, author.ID, text)
		return err
	})
}
