// Handler wiring.
//
// Handlers are transport-thin: they validate and bind input, call application
// services, and translate results into the fixed wire responses. They depend
// on abstract service interfaces so transport concerns stay separate from
// business logic.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/go-messager/internal/domain"
	"github.com/avolkov/go-messager/internal/http/middleware"
	"github.com/avolkov/go-messager/internal/services"
)

// AccountService defines token issuance as consumed by HTTP handlers.
type AccountService interface {
	// IssueToken registers userName and returns its fresh token, or
	// created=false when the name is already taken.
	IssueToken(ctx context.Context, userName string) (token string, created bool, err error)
}

// ChatService defines history and status reads as consumed by HTTP handlers.
type ChatService interface {
	// History returns the caller's read/unread split for a chat and advances
	// the last_connect watermark.
	History(ctx context.Context, caller *domain.User, chatWith string, tailLen int) (*services.ChatHistory, error)
	// Status returns the caller's chat summary.
	Status(ctx context.Context, caller *domain.User) (*services.StatusView, error)
}

// MessageService defines posting operations as consumed by HTTP handlers.
type MessageService interface {
	// Send posts a message to the public chat or a private counterpart.
	Send(ctx context.Context, sender *domain.User, sendTo, text string) (*services.SendResult, error)
	// Comment attaches a comment to an existing message.
	Comment(ctx context.Context, author *domain.User, messageID uint, text string) error
}

// ModerationService defines the /report operation as consumed by handlers.
type ModerationService interface {
	// Report runs the cautions→ban state machine against the named user.
	Report(ctx context.Context, reporter *domain.User, reportOn string, chatType domain.ChatType) (services.ReportOutcome, error)
}

// Handlers groups the HTTP endpoints of the chat API.
type Handlers struct {
	accountSvc AccountService
	chatSvc    ChatService
	msgSvc     MessageService
	modSvc     ModerationService
}

// New constructs a Handlers instance bound to the given services.
func New(accountSvc AccountService, chatSvc ChatService, msgSvc MessageService, modSvc ModerationService) *Handlers {
	return &Handlers{accountSvc: accountSvc, chatSvc: chatSvc, msgSvc: msgSvc, modSvc: modSvc}
}

// caller returns the authenticated user attached by the auth gate. Routes
// registered behind BearerAuth always have one; a nil return means a wiring
// bug, surfaced as a 401 by the calling handler.
func caller(c *gin.Context) *domain.User {
	return middleware.UserFrom(c)
}
