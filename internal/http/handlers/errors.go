// Package handlers defines the canonical wire-level message strings used
// across all API endpoints.
//
// Clients of this API match on these strings, so they are fixed verbatim:
// changing any of them is a breaking change. Policy refusals (ban, rate
// limit, reporting a stranger) are NOT errors on the wire; they are soft 200
// responses with a "warning" key, distinguishable without branching on
// status.
package handlers

// Canonical error bodies, emitted as {"error": <msg>}.
const (
	// MsgUnauthorized is the fixed 401 body text, reproduced verbatim
	// (including its original spacing).
	MsgUnauthorized = `Unauthorized. Please name yourself, add "user_name" to request body (not empty)` +
		`and/or enter/check/recheck your Bearer Token in "Authorization" header. ` +
		`If you have not have token yet, get it by POST request to endpoint "get_token"`

	// MsgBadRequest is the fixed 400 body text.
	MsgBadRequest = "BAD REQUEST"

	// MsgNotFound is the fixed 404 body text.
	MsgNotFound = "Not found message/user_name/chat"

	// MsgMethodNotAllowed is the fixed 405 body text.
	MsgMethodNotAllowed = "METHOD NOT ALLOWED"
)

// Informational and warning bodies, emitted under "info" or "warning".
const (
	infoTokenAlreadyIssued = "You have already got token ."
	infoMessageSent        = "Message have sent!"
	infoCommentCreated     = "Comment have created!"
	infoReportSent         = "Report sent success."
	infoCurrentlyBanned    = "User is currently banned."

	warnBanned         = "You are banned!"
	warnLimitPrefix    = "message limit has been reached, please wait until "
	warnReportStranger = "You can not report a user you have not chat to."
)
