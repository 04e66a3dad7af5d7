// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, a structured HTTP logger that scrubs
// secrets from request metadata before emitting logs. Bearer tokens are the
// credential of this API, so 32-hex-char token shapes are redacted wherever
// they appear, and the Authorization header is always fully masked.
//
// Design goals:
//   - Default-safe: never logs request or response bodies
//   - Redacts token-shaped values and email addresses
//   - Masks sensitive headers (Authorization, Cookie, Set-Cookie, plus custom)
//   - Produces structured JSON logs via zerolog
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures additional scrub behavior for RedactingLogger.
//
// MaskHeaders lists extra header names whose values are fully replaced with
// "[REDACTED]". Matching is case-insensitive and merged with the built-in
// sensitive headers.
type RedactOptions struct {
	MaskHeaders []string
}

// RedactingLogger returns a Gin middleware that logs requests and responses
// with secret values scrubbed. It logs method, path, query, status, response
// size, latency, and request headers (scrubbed); level is info/warn/error by
// status class.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	// 32 lowercase hex chars is the issued token shape; also catch longer
	// hex runs defensively capped at 64.
	tokenRE := regexp.MustCompile(`\b[0-9a-f]{32,64}\b`)
	emailRE := regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)

	redact := func(s string) string {
		if s == "" {
			return s
		}
		out := tokenRE.ReplaceAllString(s, "[REDACTED:token]")
		return emailRE.ReplaceAllString(out, "[REDACTED:email]")
	}

	// Build header mask set (case-insensitive).
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		maskHeaders[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		headers := map[string]string{}
		for name, vals := range c.Request.Header {
			if len(vals) == 0 {
				continue
			}
			if _, masked := maskHeaders[strings.ToLower(name)]; masked {
				headers[name] = "[REDACTED]"
				continue
			}
			headers[name] = redact(strings.Join(vals, ","))
		}

		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", redact(c.Request.URL.RawQuery)).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http")
	}
}
