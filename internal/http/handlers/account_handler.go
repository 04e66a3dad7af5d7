// Account HTTP handlers.
//
// This file exposes the unauthenticated registration endpoint:
//   - POST /get-token   (register a user_name, issue its bearer token once)
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetTokenRequest is the JSON payload for /get-token.
type GetTokenRequest struct {
	// UserName is the unique account name; must be non-empty.
	UserName string `json:"user_name" example:"alice"`
}

// GetToken godoc
// @ID          getToken
// @Summary     Register and obtain a bearer token
// @Description Issues a 32-hex-char token for a new user_name. A name that is
// @Description already registered keeps its original token and gets an info
// @Description notice instead.
// @Tags        Account
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.GetTokenRequest  true  "User name"
//
// @Success     200  {object}  handlers.TokenResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid JSON body"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing user_name"
// @Router      /get-token [post]
func (h *Handlers) GetToken(c *gin.Context) {
	var req GetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, MsgBadRequest)
		return
	}
	if req.UserName == "" {
		fail(c, http.StatusUnauthorized, MsgUnauthorized)
		return
	}

	token, created, err := h.accountSvc.IssueToken(c.Request.Context(), req.UserName)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !created {
		respond(c, http.StatusOK, InfoResponse{Info: infoTokenAlreadyIssued})
		return
	}
	respond(c, http.StatusOK, TokenResponse{Token: token})
}
