package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/avolkov/go-messager/internal/domain"
	"github.com/avolkov/go-messager/internal/repo"
)

// registerUser issues a token and returns the persisted user row.
func registerUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	svc := &AccountService{DB: db}
	if _, created, err := svc.IssueToken(context.Background(), name); err != nil || !created {
		t.Fatalf("register %s: created=%v err=%v", name, created, err)
	}
	u, err := repo.GetUserByName(context.Background(), db, name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return u
}

func publicMembership(t *testing.T, db *gorm.DB, userID uint) *domain.ChatUser {
	t.Helper()
	pub, err := repo.GetPublicChat(context.Background(), db)
	if err != nil {
		t.Fatalf("public chat: %v", err)
	}
	m, err := repo.GetMembership(context.Background(), db, pub.ID, userID)
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	return m
}

func TestReport_InvalidChatType(t *testing.T) {
	db := newServicesDB(t)
	alice := registerUser(t, db, "alice")
	svc := &ModerationService{DB: db}

	if _, err := svc.Report(context.Background(), alice, "bob", "group"); !errors.Is(err, ErrInvalidChatType) {
		t.Fatalf("expected ErrInvalidChatType, got %v", err)
	}
}

func TestReport_UnknownTarget(t *testing.T) {
	db := newServicesDB(t)
	alice := registerUser(t, db, "alice")
	svc := &ModerationService{DB: db}

	if _, err := svc.Report(context.Background(), alice, "nobody", domain.ChatPublic); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestReport_ThirdReportBans(t *testing.T) {
	db := newServicesDB(t)
	alice := registerUser(t, db, "alice")
	bob := registerUser(t, db, "bob")
	svc := &ModerationService{DB: db}

	for i := 1; i <= 2; i++ {
		out, err := svc.Report(context.Background(), alice, "bob", domain.ChatPublic)
		if err != nil || out != ReportRecorded {
			t.Fatalf("report %d: out=%v err=%v", i, out, err)
		}
		if m := publicMembership(t, db, bob.ID); int(m.Cautions) != i || m.Banned {
			t.Fatalf("after report %d: %+v", i, m)
		}
	}

	out, err := svc.Report(context.Background(), alice, "bob", domain.ChatPublic)
	if err != nil || out != ReportRecorded {
		t.Fatalf("third report: out=%v err=%v", out, err)
	}
	m := publicMembership(t, db, bob.ID)
	if !m.Banned || m.BannedTill == nil {
		t.Fatalf("third report did not ban: %+v", m)
	}
	if until := time.Until(*m.BannedTill); until < 3*time.Hour+59*time.Minute || until > 4*time.Hour+time.Minute {
		t.Fatalf("ban length not ~4h: %v", until)
	}
}

func TestReport_ActiveBanIsIdempotent(t *testing.T) {
	db := newServicesDB(t)
	alice := registerUser(t, db, "alice")
	bob := registerUser(t, db, "bob")
	svc := &ModerationService{DB: db}

	pub, _ := repo.GetPublicChat(context.Background(), db)
	till := time.Now().UTC().Add(time.Hour)
	if err := repo.UpdateModeration(context.Background(), db, pub.ID, bob.ID, 2, true, &till); err != nil {
		t.Fatalf("seed ban: %v", err)
	}

	out, err := svc.Report(context.Background(), alice, "bob", domain.ChatPublic)
	if err != nil || out != ReportAlreadyBanned {
		t.Fatalf("expected ReportAlreadyBanned, got out=%v err=%v", out, err)
	}
	m := publicMembership(t, db, bob.ID)
	if !m.Banned || m.Cautions != 2 || m.BannedTill == nil || !m.BannedTill.Equal(till) {
		t.Fatalf("state must be unchanged: %+v", m)
	}
}

func TestReport_ExpiredBanStartsFresh(t *testing.T) {
	db := newServicesDB(t)
	alice := registerUser(t, db, "alice")
	bob := registerUser(t, db, "bob")
	svc := &ModerationService{DB: db}

	pub, _ := repo.GetPublicChat(context.Background(), db)
	till := time.Now().UTC().Add(-time.Minute)
	if err := repo.UpdateModeration(context.Background(), db, pub.ID, bob.ID, 2, true, &till); err != nil {
		t.Fatalf("seed expired ban: %v", err)
	}

	out, err := svc.Report(context.Background(), alice, "bob", domain.ChatPublic)
	if err != nil || out != ReportRecorded {
		t.Fatalf("expected ReportRecorded, got out=%v err=%v", out, err)
	}
	m := publicMembership(t, db, bob.ID)
	if m.Banned || m.Cautions != 1 || m.BannedTill != nil {
		t.Fatalf("expired ban should land on a clean slate with one caution: %+v", m)
	}
}

func TestReport_PrivateWithoutSharedChat(t *testing.T) {
	db := newServicesDB(t)
	alice := registerUser(t, db, "alice")
	registerUser(t, db, "bob")
	svc := &ModerationService{DB: db}

	out, err := svc.Report(context.Background(), alice, "bob", domain.ChatPrivate)
	if err != nil || out != ReportNoSharedChat {
		t.Fatalf("expected ReportNoSharedChat, got out=%v err=%v", out, err)
	}
}

func TestReport_PrivateChat(t *testing.T) {
	db := newServicesDB(t)
	alice := registerUser(t, db, "alice")
	bob := registerUser(t, db, "bob")
	svc := &ModerationService{DB: db}

	chat, err := repo.CreatePrivateChat(db, "private-ab", alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create private chat: %v", err)
	}

	out, err := svc.Report(context.Background(), alice, "bob", domain.ChatPrivate)
	if err != nil || out != ReportRecorded {
		t.Fatalf("expected ReportRecorded, got out=%v err=%v", out, err)
	}
	m, err := repo.GetMembership(context.Background(), db, chat.ID, bob.ID)
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	if m.Cautions != 1 {
		t.Fatalf("private caution not recorded: %+v", m)
	}

	// The public membership stays untouched; cautions are per chat.
	if pm := publicMembership(t, db, bob.ID); pm.Cautions != 0 {
		t.Fatalf("public membership affected by private report: %+v", pm)
	}
}
