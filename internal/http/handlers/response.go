// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints. Every body is serialized as indented JSON (the wire contract
// fixes the pretty-printed shape with exact Content-Length), and every error
// is the single-key envelope {"error": <canonical message>}.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/go-messager/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints. Message is
// one of the canonical strings in errors.go.
type ErrorResponse struct {
	Error string `json:"error" example:"BAD REQUEST"`
}

// InfoResponse is the envelope for successful idempotent notices.
type InfoResponse struct {
	Info string `json:"info" example:"Message have sent!"`
}

// WarningResponse is the envelope for soft policy refusals (ban, rate
// limit, reporting a stranger). Warnings travel with status 200, not 4xx.
type WarningResponse struct {
	Warning string `json:"warning" example:"You are banned!"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token" example:"9f86d081884c7d659a2feaa0c55ad015"`
}

// respond writes body as indented JSON with the given status.
func respond(c *gin.Context, status int, body any) {
	c.IndentedJSON(status, body)
}

// fail aborts the request with the canonical error envelope. Server errors
// (>= 500) are logged with the request-scoped logger.
func fail(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("message", msg).
			Msg("api error")
	}
	c.IndentedJSON(status, ErrorResponse{Error: msg})
	c.Abort()
}

// Fail is the exported variant of fail(), for router-level fallbacks
// (NoRoute, NoMethod) and the auth gate.
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }

// Unauthorized writes the canonical 401 body and aborts. The auth middleware
// uses it as its reject callback.
func Unauthorized(c *gin.Context) { fail(c, http.StatusUnauthorized, MsgUnauthorized) }
