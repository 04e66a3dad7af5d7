package domain

import "testing"

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		User{}.TableName():     "users",
		Chat{}.TableName():     "chats",
		ChatUser{}.TableName(): "chats_users",
		Message{}.TableName():  "messages",
		Comment{}.TableName():  "comments",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("table name %q, want %q", got, want)
		}
	}
}

func TestChatTypeValues(t *testing.T) {
	if ChatPublic != "public" || ChatPrivate != "private" {
		t.Fatalf("chat type constants changed: %q %q", ChatPublic, ChatPrivate)
	}
	if PublicChatName != "public_chat" {
		t.Fatalf("public chat name changed: %q", PublicChatName)
	}
}
