package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SemperAdmin/DutySync-sub000/pkg/response"
)

// MustGetUserID extracts the authenticated user id injected by the JWT
// middleware. Callers should return immediately when ok is false; the 401
// response has already been written.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	return s, true
}

// MustGetPersonnelID extracts the caller's linked personnel id. Accounts
// without a personnel link get a 403: the endpoint acts on a person's own
// duties.
func MustGetPersonnelID(c *gin.Context) (string, bool) {
	v, exists := c.Get("personnel_id")
	if !exists {
		response.Unauthorized(c, 10002, "unauthenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Forbidden(c, 10003, "account is not linked to a personnel record")
		return "", false
	}
	return s, true
}
