// Message HTTP handlers.
//
// This file exposes the authenticated write endpoints:
//   - POST /send      (post a message to the public chat or a private peer)
//   - POST /comment   (attach a comment to an existing message)
//
// Moderation refusals (ban, rate window) are not errors: they come back as
// 200 with a "warning" key so clients can distinguish them without branching
// on status.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/go-messager/internal/services"
	"github.com/avolkov/go-messager/internal/utils"
)

// SendRequest is the JSON payload for /send.
type SendRequest struct {
	// SendTo is "public_chat" (default) or the recipient's user_name.
	SendTo string `json:"send_to" example:"public_chat"`
	// Message is the text to post; non-empty, at most 255 characters.
	Message string `json:"message" example:"hi"`
}

// CommentRequest is the JSON payload for /comment.
type CommentRequest struct {
	// MessageID identifies the commented message.
	MessageID uint `json:"message_id" example:"42"`
	// Comment is the text to attach; non-empty, at most 255 characters.
	Comment string `json:"comment" example:"nice one"`
}

// Send godoc
// @ID          send
// @Summary     Post a message
// @Description Posts to the public chat (ban check + 20/hour window) or to a
// @Description private chat, creating the latter atomically with its first
// @Description message.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.SendRequest  true  "Message payload"
//
// @Success     201  {object}  handlers.InfoResponse
// @Success     200  {object}  handlers.WarningResponse  "Ban or rate-window refusal"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing/empty message"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing/invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "Recipient not found"
// @Router      /send [post]
func (h *Handlers) Send(c *gin.Context) {
	user := caller(c)
	if user == nil {
		Unauthorized(c)
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	res, err := h.msgSvc.Send(c.Request.Context(), user, req.SendTo, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyMessage), errors.Is(err, services.ErrTextTooLong):
			fail(c, http.StatusBadRequest, MsgBadRequest)
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, MsgNotFound)
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	switch res.Outcome {
	case services.SendBanned:
		respond(c, http.StatusOK, WarningResponse{Warning: warnBanned})
	case services.SendRateLimited:
		respond(c, http.StatusOK, WarningResponse{
			Warning: warnLimitPrefix + utils.FormatWireTime(res.RetryAt),
		})
	default:
		respond(c, http.StatusCreated, InfoResponse{Info: infoMessageSent})
	}
}

// Comment godoc
// @ID          comment
// @Summary     Comment on a message
// @Description Attaches a comment to an existing message. An unknown
// @Description message_id yields 400 (not 404), kept for client
// @Description compatibility.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.CommentRequest  true  "Comment payload"
//
// @Success     201  {object}  handlers.InfoResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing field or unknown message"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing/invalid token"
// @Router      /comment [post]
func (h *Handlers) Comment(c *gin.Context) {
	user := caller(c)
	if user == nil {
		Unauthorized(c)
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, MsgBadRequest)
		return
	}
	if req.MessageID == 0 || req.Comment == "" {
		fail(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	err := h.msgSvc.Comment(c.Request.Context(), user, req.MessageID, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMessageNotFound),
			errors.Is(err, services.ErrEmptyComment),
			errors.Is(err, services.ErrTextTooLong):
			fail(c, http.StatusBadRequest, MsgBadRequest)
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respond(c, http.StatusCreated, InfoResponse{Info: infoCommentCreated})
}
