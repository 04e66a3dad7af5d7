// Package domain defines the persistence models for users, chats,
// memberships, messages, and comments. These types are mapped with GORM and
// form the core data layer of the messager application.
package domain

import "time"

// ChatType distinguishes the single public chat from two-party private chats.
// It is stored and serialized as its lowercase value ("public"/"private"),
// which is also the representation compared at the wire boundary (/report).
type ChatType string

const (
	// ChatPublic is the type of the singleton public chat.
	ChatPublic ChatType = "public"
	// ChatPrivate is the type of lazily created two-party chats.
	ChatPrivate ChatType = "private"
)

// PublicChatName is the fixed name of the singleton public chat. The chat is
// provisioned before the server first accepts traffic.
const PublicChatName = "public_chat"

// User is an account identified by a unique name and authenticated by a
// unique 32-hex-char bearer token. Users are created on the first successful
// /get-token call and are never deleted by the system.
//
// The two rate-window fields track the public-chat posting quota:
//   - MessagesInHourInPublicChat: posts accepted since the window started.
//   - StartChattingInPublicChat: UTC start of the current 60-minute window.
type User struct {
	ID                         uint      `json:"id"        gorm:"primaryKey;autoIncrement"`
	UserName                   string    `json:"user_name" gorm:"uniqueIndex;not null"`
	Token                      string    `json:"-"         gorm:"uniqueIndex;not null"`
	MessagesInHourInPublicChat int       `json:"-"         gorm:"not null;default:0"`
	StartChattingInPublicChat  time.Time `json:"-"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Chat is a named venue holding messages with a fixed set of participating
// users. Exactly one public chat exists; private chats are created lazily on
// the first message between a pair of users and named "private-<unix_seconds>".
//
// PairKey holds the canonical "<minID>:<maxID>" identity of a private chat's
// two members; its unique index guarantees a single chat per pair even when
// two first messages race. It is null for the public chat.
type Chat struct {
	ID      uint      `json:"id"      gorm:"primaryKey;autoIncrement"`
	Name    string    `json:"name"    gorm:"not null"`
	Type    ChatType  `json:"type"    gorm:"type:varchar(16);not null"`
	PairKey *string   `json:"-"       gorm:"uniqueIndex"`
	Created time.Time `json:"created"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// ChatUser is the membership link between a User and a Chat, carrying the
// per-pair read and moderation state:
//   - LastConnect: when the user last fetched this chat's history (nullable;
//     the chat's Created timestamp is used as a fallback).
//   - Cautions: strikes accumulated from /report; the third one bans.
//   - Banned/BannedTill: a time-bounded posting prohibition. Banned implies
//     BannedTill is set; an expired ban is cleared on the next post attempt.
//
// A public-chat membership is created together with every user; the two
// memberships of a private chat are created together with the chat.
type ChatUser struct {
	ChatID      uint       `json:"chat_id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"primaryKey"`
	LastConnect *time.Time `json:"last_connect"`
	Cautions    int16      `json:"cautions"    gorm:"not null;default:0"`
	Banned      bool       `json:"banned"      gorm:"not null;default:false"`
	BannedTill  *time.Time `json:"banned_till"`

	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ChatUser.
func (ChatUser) TableName() string { return "chats_users" }

// Message is a single utterance within a chat. PubDate is server-assigned at
// insert time (UTC) and is strictly increasing within a chat.
type Message struct {
	ID       uint      `json:"id"        gorm:"primaryKey;autoIncrement"`
	Text     string    `json:"text"      gorm:"type:varchar(255);not null"`
	PubDate  time.Time `json:"pub_date"  gorm:"index:idx_chat_pub,priority:2"`
	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	ChatID   uint      `json:"chat_id"   gorm:"not null;index:idx_chat_pub,priority:1"`

	// Author and Chat are the owning rows. Messages are cascade-deleted with
	// either of them; deleting a message cascades its comments.
	Author User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Chat   Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Comment is a remark attached to a single message.
type Comment struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	MessageID uint      `json:"message_id" gorm:"not null;index"`
	AuthorID  uint      `json:"author_id"  gorm:"not null;index"`
	Text      string    `json:"text"       gorm:"type:varchar(255);not null"`
	Created   time.Time `json:"created"`

	Message Message `json:"-" gorm:"foreignKey:MessageID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Author  User    `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }
