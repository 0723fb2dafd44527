package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck/quizdeck-gateway/internal/config"
	"github.com/quizdeck/quizdeck-gateway/internal/gateway"
	"github.com/quizdeck/quizdeck-gateway/internal/middleware"
	"github.com/quizdeck/quizdeck-gateway/internal/model"
	"github.com/quizdeck/quizdeck-gateway/internal/response"
	"github.com/quizdeck/quizdeck-gateway/internal/session"
	"github.com/quizdeck/quizdeck-gateway/internal/validator"
	"github.com/rs/zerolog"
)

// AuthHandler handles login, registration and session lifecycle.
type AuthHandler struct {
	gw       *gateway.Client
	sessions session.Store
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(gw *gateway.Client, sessions session.Store, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{gw: gw, sessions: sessions, cfg: cfg, log: log}
}

// Login godoc
// POST /api/v1/auth/login
// Exchanges credentials upstream, derives the identity from the access
// token and opens a browser session. A failed login leaves no session
// behind.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.gw.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if ge, ok := gateway.AsError(err); ok && ge.StatusCode >= 400 && ge.StatusCode < 500 {
			// Wrong username/password, whatever exact 4xx the identity
			// endpoint used.
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		failUpstream(c, err, response.ErrInvalidCredentials)
		return
	}

	identity, err := session.DecodeIdentity(result.Access)
	if err != nil {
		h.log.Error().Err(err).Str("username", req.Username).Msg("Access token unreadable")
		response.Fail(c, http.StatusBadGateway, response.ErrTokenUnreadable)
		return
	}

	sess := model.Session{
		AccessToken:  result.Access,
		RefreshToken: result.Refresh,
		Identity:     identity,
	}
	sid, err := h.sessions.Create(c.Request.Context(), sess)
	if err != nil {
		h.log.Error().Err(err).Msg("Session create failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.setSessionCookie(c, sid, int(h.cfg.SessionTTL.Seconds()))
	h.log.Info().Int64("subject_id", identity.SubjectID).Str("role", string(identity.Role)).Msg("Login")
	response.Success(c, http.StatusOK, gin.H{"identity": identity})
}

// Register godoc
// POST /api/v1/auth/register
// Creates an account upstream. No session is opened; the user logs in next.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.gw.Register(c.Request.Context(), req); err != nil {
		failUpstream(c, err, response.ErrRegistrationFailed)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"registered": true})
}

// Logout godoc
// POST /api/v1/auth/logout
// Destroys the session and clears the cookie. Idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := middleware.GetSessionID(c)
	if sid != "" {
		if err := h.sessions.Delete(c.Request.Context(), sid); err != nil {
			h.log.Warn().Err(err).Msg("Session delete failed")
		}
	}

	h.setSessionCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the identity of the current session for page bootstrapping.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRequired)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"identity": sess.Identity})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sid string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookie, sid, maxAge, "/", "", h.cfg.CookieSecure, true)
}
