// Package services – ModerationService
//
// This file implements the moderation subsystem: the cautions→ban state
// machine driven by /report, the ban check applied before every post, and the
// public-chat rate window. All state lives on the ChatUser membership and
// User rows; it is only read and mutated inside scoped transactions, never
// cached in memory between requests.
//
// State machine, keyed by (chat, reported user):
//
//	CLEAN(0) → WARNED1(1) → WARNED2(2) → BANNED(banned_till = now+4h)
//
// Reporting an actively banned user is idempotent. A ban expires lazily: the
// next post attempt after banned_till clears both the flag and the cautions.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/go-messager/internal/domain"
	"github.com/avolkov/go-messager/internal/repo"
)

const (
	// banThreshold is the number of cautions at which the next report bans.
	banThreshold = 2
	// banDuration is how long a ban lasts.
	banDuration = 4 * time.Hour

	// publicWindow is the public-chat rate window length.
	publicWindow = 60 * time.Minute
	// publicWindowLimit is the number of posts accepted per window.
	publicWindowLimit = 20
)

// ReportOutcome describes the result of a /report call.
type ReportOutcome int

const (
	// ReportRecorded: a caution was added or a ban was issued.
	ReportRecorded ReportOutcome = iota
	// ReportAlreadyBanned: the target is under an active ban; nothing changed.
	ReportAlreadyBanned
	// ReportNoSharedChat: reporter and target share no private chat.
	ReportNoSharedChat
)

// ModerationService runs the cautions→ban state machine.
type ModerationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Report runs the state machine against the user named reportOn within the
// chat selected by chatType: the public chat, or the private chat between
// reporter and the target. Possible failures: ErrInvalidChatType,
// ErrUserNotFound (both mapped to 400 by the handler).
func (s *ModerationService) Report(ctx context.Context, reporter *domain.User, reportOn string, chatType domain.ChatType) (ReportOutcome, error) {
	if chatType != domain.ChatPublic && chatType != domain.ChatPrivate {
		return 0, ErrInvalidChatType
	}

	target, err := repo.GetUserByName(ctx, s.DB, reportOn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	var chat *domain.Chat
	if chatType == domain.ChatPublic {
		chat, err = repo.GetPublicChat(ctx, s.DB)
	} else {
		chat, err = repo.FindPrivateChat(ctx, s.DB, reporter.ID, target.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReportNoSharedChat, nil
		}
	}
	if err != nil {
		return 0, err
	}

	outcome := ReportRecorded
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.GetMembership(ctx, tx, chat.ID, target.ID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()

		switch {
		case m.Banned && m.BannedTill != nil && m.BannedTill.After(now):
			outcome = ReportAlreadyBanned
			return nil
		case m.Banned:
			// The ban has expired but no post attempt cleared it yet; the
			// report lands on a clean slate.
			return repo.UpdateModeration(ctx, tx, chat.ID, target.ID, 1, false, nil)
		case m.Cautions >= banThreshold:
			till := now.Add(banDuration)
			return repo.UpdateModeration(ctx, tx, chat.ID, target.ID, m.Cautions, true, &till)
		default:
			return repo.UpdateModeration(ctx, tx, chat.ID, target.ID, m.Cautions+1, false, nil)
		}
	})
	if err != nil {
		return 0, err
	}
	return outcome, nil
}

// ensureNotBanned reports whether (chatID, userID) may post right now. An
// expired ban is cleared in place (banned=false, cautions=0) before allowing
// the post to proceed. Must run inside the caller's transaction.
func ensureNotBanned(ctx context.Context, tx *gorm.DB, chatID, userID uint, now time.Time) (bool, error) {
	m, err := repo.GetMembership(ctx, tx, chatID, userID)
	if err != nil {
		return false, err
	}
	if !m.Banned {
		return true, nil
	}
	if m.BannedTill != nil && m.BannedTill.After(now) {
		return false, nil
	}
	// Implicit BANNED → CLEAN transition on expiry.
	if err := repo.UpdateModeration(ctx, tx, chatID, userID, 0, false, nil); err != nil {
		return false, err
	}
	return true, nil
}

// allowPublicPost applies the 20-per-60-minutes window to the stored row of
// userID. When refused it returns the time the window elapses. The window
// start only advances on reset, never on accepted posts under the limit.
//
// Every decision runs against the live row through guarded UPDATEs, never
// against an in-memory user snapshot: requests authenticated before a
// concurrent post went through must not re-observe its slot as free. Must run
// inside the caller's transaction.
func allowPublicPost(ctx context.Context, tx *gorm.DB, userID uint, now time.Time) (allowed bool, finish time.Time, err error) {
	ok, err := repo.IncrementRateCounter(ctx, tx, userID, publicWindowLimit)
	if err != nil {
		return false, time.Time{}, err
	}
	if ok {
		return true, time.Time{}, nil
	}

	// The stored counter is at the limit. Re-read to decide between refusal
	// and window reset.
	u, err := repo.GetUserByID(ctx, tx, userID)
	if err != nil {
		return false, time.Time{}, err
	}
	finish = u.StartChattingInPublicChat.Add(publicWindow)
	if now.Before(finish) {
		return false, finish, nil
	}

	// Window elapsed: restart it with this post counted. The guard keeps two
	// racing resets from each claiming the first slot.
	ok, err = repo.ResetRateWindowIfElapsed(ctx, tx, userID, publicWindowLimit, now.Add(-publicWindow), now)
	if err != nil {
		return false, time.Time{}, err
	}
	if ok {
		return true, time.Time{}, nil
	}

	// A concurrent request restarted the window first; take a slot in the
	// fresh one.
	ok, err = repo.IncrementRateCounter(ctx, tx, userID, publicWindowLimit)
	if err != nil {
		return false, time.Time{}, err
	}
	if ok {
		return true, time.Time{}, nil
	}
	u, err = repo.GetUserByID(ctx, tx, userID)
	if err != nil {
		return false, time.Time{}, err
	}
	return false, u.StartChattingInPublicChat.Add(publicWindow), nil
}
