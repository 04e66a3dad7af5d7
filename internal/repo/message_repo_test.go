package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avolkov/go-messager/internal/domain"
)

func TestCreateMessage_AssignsPubDate(t *testing.T) {
	db := newRepoDB(t)

	pub, _ := SeedPublicChat(db)
	a, _ := CreateUser(context.Background(), db, "alice", "tok-a")

	before := time.Now().UTC().Add(-time.Minute)
	m, err := CreateMessage(db, pub.ID, a.ID, "hello")
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if m.ID == 0 || m.Text != "hello" || m.ChatID != pub.ID || m.AuthorID != a.ID {
		t.Fatalf("unexpected message: %+v", m)
	}
	if m.PubDate.Before(before) {
		t.Fatalf("pub_date seems unset: %v", m.PubDate)
	}
}

func TestListMessages_SplitAroundCutoff(t *testing.T) {
	db := newRepoDB(t)

	pub, _ := SeedPublicChat(db)
	a, _ := CreateUser(context.Background(), db, "alice", "tok-a")

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"m0", "m1", "m2", "m3", "m4"} {
		msg := domain.Message{
			Text:     text,
			PubDate:  base.Add(time.Duration(i) * time.Minute),
			AuthorID: a.ID,
			ChatID:   pub.ID,
		}
		if err := db.Create(&msg).Error; err != nil {
			t.Fatalf("seed %s: %v", text, err)
		}
	}
	cutoff := base.Add(2 * time.Minute) // pub_date of m2

	read, err := ListMessagesBefore(context.Background(), db, pub.ID, cutoff, 10)
	if err != nil {
		t.Fatalf("ListMessagesBefore: %v", err)
	}
	// Strictly before, newest first: m1, m0. m2 itself is excluded.
	if len(read) != 2 || read[0].Text != "m1" || read[1].Text != "m0" {
		t.Fatalf("unexpected read tail: %+v", read)
	}
	if read[0].Author.UserName != "alice" {
		t.Fatalf("author not preloaded: %+v", read[0])
	}

	unread, err := ListMessagesAfter(context.Background(), db, pub.ID, cutoff)
	if err != nil {
		t.Fatalf("ListMessagesAfter: %v", err)
	}
	// Strictly after, oldest first: m3, m4.
	if len(unread) != 2 || unread[0].Text != "m3" || unread[1].Text != "m4" {
		t.Fatalf("unexpected unread list: %+v", unread)
	}
}

func TestListMessagesBefore_LimitsTail(t *testing.T) {
	db := newRepoDB(t)

	pub, _ := SeedPublicChat(db)
	a, _ := CreateUser(context.Background(), db, "alice", "tok-a")

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		msg := domain.Message{
			Text:     "m",
			PubDate:  base.Add(time.Duration(i) * time.Minute),
			AuthorID: a.ID,
			ChatID:   pub.ID,
		}
		if err := db.Create(&msg).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := ListMessagesBefore(context.Background(), db, pub.ID, base.Add(time.Hour), 3)
	if err != nil {
		t.Fatalf("ListMessagesBefore: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected tail of 3, got %d", len(got))
	}
}

func TestGetMessage(t *testing.T) {
	db := newRepoDB(t)

	pub, _ := SeedPublicChat(db)
	a, _ := CreateUser(context.Background(), db, "alice", "tok-a")
	m, _ := CreateMessage(db, pub.ID, a.ID, "hello")

	got, err := GetMessage(context.Background(), db, m.ID)
	if err != nil || got.Text != "hello" {
		t.Fatalf("GetMessage = %+v, %v", got, err)
	}

	if _, err := GetMessage(context.Background(), db, m.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestComments_RoundTripAndOrder(t *testing.T) {
	db := newRepoDB(t)

	pub, _ := SeedPublicChat(db)
	a, _ := CreateUser(context.Background(), db, "alice", "tok-a")
	b, _ := CreateUser(context.Background(), db, "bob", "tok-b")
	m, _ := CreateMessage(db, pub.ID, a.ID, "hello")

	if _, err := CreateComment(db, m.ID, b.ID, "first"); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if _, err := CreateComment(db, m.ID, a.ID, "second"); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	got, err := ListComments(context.Background(), db, m.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(got) != 2 || got[0].Text != "first" || got[1].Text != "second" {
		t.Fatalf("unexpected comments: %+v", got)
	}
	if got[0].Author.UserName != "bob" {
		t.Fatalf("author not preloaded: %+v", got[0])
	}
}
