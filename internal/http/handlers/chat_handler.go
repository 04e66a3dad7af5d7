// Chat HTTP handlers.
//
// This file exposes the authenticated read endpoints:
//   - POST /connect   (fetch chat history, split into read tail and unread)
//   - GET  /status    (caller's chat summary)
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/go-messager/internal/services"
)

// ConnectRequest is the JSON payload for /connect. Both fields are optional:
// the public chat and a 20-message tail are the defaults.
type ConnectRequest struct {
	// ChatWith is "public_chat" or the user_name of a private counterpart.
	ChatWith string `json:"chat_with" example:"public_chat"`
	// MessagesNumber caps the already-read tail.
	MessagesNumber int `json:"messages_number" example:"20"`
}

// ConnectResponse is the /connect body for an existing chat.
type ConnectResponse struct {
	Messages       []services.MessageView `json:"messages"`
	UnreadMessages []services.MessageView `json:"unread_messages"`
}

// emptyChatResponse is the /connect body for a private chat that has not
// been created yet. The chat is only created by the first /send.
type emptyChatResponse struct {
	Messages []services.MessageView `json:"messages"`
}

// Connect godoc
// @ID          connect
// @Summary     Fetch chat history
// @Description Returns the most recent already-read messages (descending) and
// @Description every unread message (ascending), then advances the caller's
// @Description last_connect watermark.
// @Tags        Chats
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.ConnectRequest  false  "Target chat"
//
// @Success     200  {object}  handlers.ConnectResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid JSON body"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing/invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "Named user not found"
// @Router      /connect [post]
func (h *Handlers) Connect(c *gin.Context) {
	user := caller(c)
	if user == nil {
		Unauthorized(c)
		return
	}

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	hist, err := h.chatSvc.History(c.Request.Context(), user, req.ChatWith, req.MessagesNumber)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, MsgNotFound)
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !hist.Exists {
		respond(c, http.StatusOK, emptyChatResponse{Messages: []services.MessageView{}})
		return
	}
	respond(c, http.StatusOK, ConnectResponse{
		Messages:       hist.Messages,
		UnreadMessages: hist.Unread,
	})
}

// Status godoc
// @ID          status
// @Summary     Summarize the caller's chats
// @Description Lists every chat the caller is a member of with message and
// @Description member counts. Private chats are named after the other
// @Description participant.
// @Tags        Chats
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
//
// @Success     200  {object}  services.StatusView
// @Failure     401  {object}  handlers.ErrorResponse  "Missing/invalid token"
// @Router      /status [get]
func (h *Handlers) Status(c *gin.Context) {
	user := caller(c)
	if user == nil {
		Unauthorized(c)
		return
	}

	view, err := h.chatSvc.Status(c.Request.Context(), user)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	respond(c, http.StatusOK, view)
}
