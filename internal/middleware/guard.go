package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/response"
	"github.com/quizdeck/quizdeck-gateway/internal/session"
)

const (
	// ContextKeySession is the Gin context key for the loaded session.
	ContextKeySession = "session"
	// ContextKeySessionID is the Gin context key for the opaque session id.
	ContextKeySessionID = "session_id"
)

// RequireSession loads the browser session named by the sid cookie and puts
// it in the Gin context. A missing cookie, an expired session or an
// unparseable stored bundle all mean "not logged in".
func RequireSession(store session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRequired)
			return
		}

		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionExpired)
				return
			}
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		c.Set(ContextKeySession, sess)
		c.Set(ContextKeySessionID, sid)
		c.Next()
	}
}

// RequireRole gates a route group to one role. Must run after RequireSession.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRequired)
			return
		}

		if sess.Identity.Role != role {
			code := response.ErrForbidden
			switch role {
			case model.RoleStudent:
				code = response.ErrStudentAccessOnly
			case model.RoleTeacher:
				code = response.ErrTeacherAccessOnly
			}
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}

		c.Next()
	}
}

// GetSession retrieves the loaded session from the Gin context.
func GetSession(c *gin.Context) *model.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	sess, ok := val.(*model.Session)
	if !ok {
		return nil
	}
	return sess
}

// GetSessionID retrieves the opaque session id from the Gin context.
func GetSessionID(c *gin.Context) string {
	val, exists := c.Get(ContextKeySessionID)
	if !exists {
		return ""
	}
	sid, ok := val.(string)
	if !ok {
		return ""
	}
	return sid
}
