// Package services – AccountService
//
// This file implements the AccountService, which owns user registration and
// token issuance. A token is a cryptographically random 16-byte hex secret,
// issued exactly once per user_name; re-requesting a token never rotates it.
// Creating the user and their public-chat membership happens in a single
// transaction so an account is never visible without its membership.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"gorm.io/gorm"

	"github.com/avolkov/go-messager/internal/domain"
	"github.com/avolkov/go-messager/internal/repo"
)

// tokenBytes is the entropy of an issued token; hex-encoded it yields the
// 32-character wire form.
const tokenBytes = 16

// AccountService provides user registration and token issuance.
type AccountService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// IssueToken registers userName and returns its fresh token with created=true.
// When the name is already taken it returns created=false and an empty token:
// the stored token is never re-issued or rotated.
//
// Token uniqueness is enforced by retrying generation on the astronomically
// rare collision with an existing token.
func (s *AccountService) IssueToken(ctx context.Context, userName string) (token string, created bool, err error) {
	if _, err := repo.GetUserByName(ctx, s.DB, userName); err == nil {
		return "", false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	for {
		token, err = newToken()
		if err != nil {
			return "", false, err
		}
		exists, err := repo.TokenExists(ctx, s.DB, token)
		if err != nil {
			return "", false, err
		}
		if !exists {
			break
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := repo.CreateUser(ctx, tx, userName, token)
		if err != nil {
			return err
		}
		publicChat, err := repo.GetPublicChat(ctx, tx)
		if err != nil {
			return err
		}
		return repo.CreateMembership(tx, publicChat.ID, user.ID)
	})
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

// Authenticate resolves a bearer token to its user, or ErrUserNotFound.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	u, err := repo.GetUserByToken(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// newToken returns a random 32-hex-char secret.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
