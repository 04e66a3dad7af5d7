// Moderation HTTP handlers.
//
// This file exposes the authenticated moderation endpoint:
//   - POST /report   (report a user you share a chat with)
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/go-messager/internal/domain"
	"github.com/avolkov/go-messager/internal/services"
)

// ReportRequest is the JSON payload for /report.
type ReportRequest struct {
	// ReportOn is the user_name being reported.
	ReportOn string `json:"report_on" example:"bob"`
	// ChatType is "public" or "private", naming the shared chat kind the
	// report refers to.
	ChatType string `json:"chat_type" example:"public"`
}

// Report godoc
// @ID          report
// @Summary     Report a user
// @Description Records a report against a user sharing a chat with the
// @Description caller. The third report within the caution window bans the
// @Description reported user for four hours.
// @Tags        Moderation
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.ReportRequest  true  "Report payload"
//
// @Success     201  {object}  handlers.InfoResponse
// @Success     200  {object}  handlers.WarningResponse  "No shared chat with the target"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing field, bad chat_type or unknown user"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing/invalid token"
// @Router      /report [post]
func (h *Handlers) Report(c *gin.Context) {
	user := caller(c)
	if user == nil {
		Unauthorized(c)
		return
	}

	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, MsgBadRequest)
		return
	}
	if req.ReportOn == "" || req.ChatType == "" {
		fail(c, http.StatusBadRequest, MsgBadRequest)
		return
	}

	outcome, err := h.modSvc.Report(c.Request.Context(), user, req.ReportOn, domain.ChatType(req.ChatType))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidChatType), errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusBadRequest, MsgBadRequest)
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	switch outcome {
	case services.ReportNoSharedChat:
		respond(c, http.StatusOK, WarningResponse{Warning: warnReportStranger})
	case services.ReportAlreadyBanned:
		respond(c, http.StatusCreated, InfoResponse{Info: infoCurrentlyBanned})
	default:
		respond(c, http.StatusCreated, InfoResponse{Info: infoReportSent})
	}
}
