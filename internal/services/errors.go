// Package services defines the business logic for accounts, chats, messages,
// and moderation. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into the canonical wire bodies and HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrUserNotFound indicates that a user named in a chat operation does
	// not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrMessageNotFound indicates that the message targeted by a comment
	// does not exist. The wire contract maps it to 400, not 404.
	ErrMessageNotFound = errors.New("message not found")

	// ErrEmptyMessage is returned when a /send request carries an empty or
	// missing message text.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrEmptyComment is returned when a /comment request carries an empty
	// comment text.
	ErrEmptyComment = errors.New("comment is empty")

	// ErrTextTooLong is returned when a message or comment exceeds the
	// 255-character storage limit.
	ErrTextTooLong = errors.New("text exceeds 255 characters")

	// ErrInvalidChatType is returned when /report names a chat_type outside
	// {"public", "private"}.
	ErrInvalidChatType = errors.New(`chat_type must be "public" or "private"`)
)
