// Package services – ChatService
//
// This file implements the ChatService, which serves chat history (/connect)
// and the caller's chat summary (/status). History is split around the
// caller's last_connect watermark: a fixed tail of already-read messages and
// everything unread. Reading a chat atomically advances the watermark, so a
// message is reported as unread exactly once per member.
//
// Observability: History is OpenTelemetry-instrumented; spans carry the
// caller and target chat identifiers.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/go-messager/internal/domain"
	"github.com/avolkov/go-messager/internal/repo"
	"github.com/avolkov/go-messager/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// defaultHistoryTail is the number of already-read messages returned when the
// client does not ask for a specific amount.
const defaultHistoryTail = 20

// CommentView is the wire shape of one comment inside message_comments.
type CommentView struct {
	ID      uint   `json:"id"`
	Created string `json:"created"`
	Author  string `json:"author"`
	Text    string `json:"text"`
}

// MessageView is the wire shape of one history entry.
type MessageView struct {
	ID              uint          `json:"id"`
	PubDate         string        `json:"pub_date"`
	Author          string        `json:"author"`
	MessageText     string        `json:"message_text"`
	MessageComments []CommentView `json:"message_comments"`
}

// ChatHistory is the result of a /connect call. Exists is false when the
// private chat has not been created yet; the chat is NOT created by reading
// (only the first /send does that), and the response is an empty messages
// list.
type ChatHistory struct {
	Exists   bool
	Messages []MessageView
	Unread   []MessageView
}

// ChatSummary is one entry of the /status chat list. Name is the literal
// chat name for the public chat and the other participant's user_name for a
// private chat.
type ChatSummary struct {
	Name           string          `json:"name"`
	ChatType       domain.ChatType `json:"chat_type"`
	Created        string          `json:"created"`
	MessagesNumber int64           `json:"messages_number"`
	UsersNumber    int64           `json:"users_number"`
}

// StatusView is the /status response body.
type StatusView struct {
	ConnectedAs string        `json:"connected_as"`
	Chats       []ChatSummary `json:"chats"`
}

// ChatService serves chat history and per-user chat summaries.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// History returns the caller's view of the chat named by chatWith: the
// tailLen most recent messages published before the caller's last_connect
// (descending) and every message published after it (ascending). The
// watermark falls back to the chat's creation time when the caller has never
// connected, and is advanced to now atomically with the read.
//
// chatWith is "public_chat" or a user_name; an unknown user_name yields
// ErrUserNotFound (404 on the wire).
func (s *ChatService) History(ctx context.Context, caller *domain.User, chatWith string, tailLen int) (*ChatHistory, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(
			attribute.String("caller.name", caller.UserName),
			attribute.String("chat.with", chatWith),
		),
	)
	defer span.End()

	if chatWith == "" {
		chatWith = domain.PublicChatName
	}
	if tailLen <= 0 {
		tailLen = defaultHistoryTail
	}

	var chat *domain.Chat
	var err error
	if chatWith == domain.PublicChatName {
		chat, err = repo.GetPublicChat(ctx, s.DB)
		if err != nil {
			return nil, err
		}
	} else {
		target, err := repo.GetUserByName(ctx, s.DB, chatWith)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		chat, err = repo.FindPrivateChat(ctx, s.DB, caller.ID, target.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ChatHistory{Exists: false, Messages: []MessageView{}}, nil
		}
		if err != nil {
			return nil, err
		}
	}

	hist := &ChatHistory{Exists: true}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.GetMembership(ctx, tx, chat.ID, caller.ID)
		if err != nil {
			return err
		}
		watermark := chat.Created
		if m.LastConnect != nil {
			watermark = *m.LastConnect
		}

		read, err := repo.ListMessagesBefore(ctx, tx, chat.ID, watermark, tailLen)
		if err != nil {
			return err
		}
		unread, err := repo.ListMessagesAfter(ctx, tx, chat.ID, watermark)
		if err != nil {
			return err
		}

		if hist.Messages, err = s.viewMessages(ctx, tx, read); err != nil {
			return err
		}
		if hist.Unread, err = s.viewMessages(ctx, tx, unread); err != nil {
			return err
		}
		return repo.TouchLastConnect(ctx, tx, chat.ID, caller.ID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return hist, nil
}

// Status returns the caller's chat summary for /status.
func (s *ChatService) Status(ctx context.Context, caller *domain.User) (*StatusView, error) {
	chats, err := repo.ListUserChats(ctx, s.DB, caller.ID)
	if err != nil {
		return nil, err
	}

	view := &StatusView{ConnectedAs: caller.UserName, Chats: []ChatSummary{}}
	for _, chat := range chats {
		name := chat.Name
		if chat.Type == domain.ChatPrivate {
			other, err := repo.OtherMember(ctx, s.DB, chat.ID, caller.ID)
			if err != nil {
				return nil, err
			}
			name = other.UserName
		}
		msgs, err := repo.CountChatMessages(ctx, s.DB, chat.ID)
		if err != nil {
			return nil, err
		}
		users, err := repo.CountChatUsers(ctx, s.DB, chat.ID)
		if err != nil {
			return nil, err
		}
		view.Chats = append(view.Chats, ChatSummary{
			Name:           name,
			ChatType:       chat.Type,
			Created:        utils.FormatWireTime(chat.Created),
			MessagesNumber: msgs,
			UsersNumber:    users,
		})
	}
	return view, nil
}

// viewMessages renders rows into wire views, attaching each message's
// comments.
func (s *ChatService) viewMessages(ctx context.Context, tx *gorm.DB, msgs []domain.Message) ([]MessageView, error) {
	out := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		comments, err := repo.ListComments(ctx, tx, m.ID)
		if err != nil {
			return nil, err
		}
		cv := make([]CommentView, 0, len(comments))
		for _, c := range comments {
			cv = append(cv, CommentView{
				ID:      c.ID,
				Created: utils.FormatWireTime(c.Created),
				Author:  c.Author.UserName,
				Text:    c.Text,
			})
		}
		out = append(out, MessageView{
			ID:              m.ID,
			PubDate:         utils.FormatWireTime(m.PubDate),
			Author:          m.Author.UserName,
			MessageText:     m.Text,
			MessageComments: cv,
		})
	}
	return out, nil
}
