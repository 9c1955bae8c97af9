package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/fypdash/internal/app/views"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
	"github.com/yigit/fypdash/internal/pkg/apperrors"
	"github.com/yigit/fypdash/internal/pkg/auth"
	"github.com/yigit/fypdash/internal/pkg/helpers"
	"github.com/yigit/fypdash/internal/session"
)

// LoginPath is where unauthenticated visitors are sent
const LoginPath = "/auth/login"

// Context keys set by SessionMiddleware.Load
const (
	ContextSessionKey   = "session"
	ContextSessionIDKey = "sessionID"
	ContextUserIDKey    = "userID"

	contextMiddlewareKey = "sessionMiddleware"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionMiddleware loads the session behind the cookie and guards routes by authentication
type SessionMiddleware struct {
	jwtService *auth.JWTService
	sessions   *session.Manager
	cookie     CookieConfig
	logger     zerolog.Logger
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(jwtService *auth.JWTService, sessions *session.Manager, cookie CookieConfig, logger zerolog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		cookie:     cookie,
		logger:     logger.With().Str("component", "session_middleware").Logger(),
	}
}

// Load resolves the session cookie. It never aborts: requests without a valid session simply carry none.
// The backend token of an authenticated session is attached to the request context for the API client.
func (m *SessionMiddleware) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextMiddlewareKey, m)

		raw, err := c.Cookie(m.cookie.Name)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		sessionID, err := m.jwtService.ValidateToken(raw)
		if err != nil {
			if !errors.Is(err, auth.ErrExpiredToken) {
				m.logger.Debug().Err(err).Msg("Rejected session cookie")
			}
			m.clearCookie(c)
			c.Next()
			return
		}

		s, err := m.sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrSessionNotFound, apperrors.ErrSessionExpired) {
				m.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load session")
			}
			m.clearCookie(c)
			c.Next()
			return
		}

		c.Set(ContextSessionKey, s)
		c.Set(ContextSessionIDKey, s.ID)
		if s.User != nil {
			c.Set(ContextUserIDKey, s.User.ID)
		}
		if s.Authenticated() {
			c.Request = c.Request.WithContext(apiclient.WithToken(c.Request.Context(), s.Token))
		}
		c.Next()
	}
}

// Protected lets only authenticated sessions through; everyone else is redirected to the login page
func (m *SessionMiddleware) Protected() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).Authenticated() {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Public keeps signed-in users out of the auth pages by sending them to their school's colleges
func (m *SessionMiddleware) Public() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s := CurrentSession(c); s.Authenticated() {
			c.Redirect(http.StatusFound, views.CollegesPath(s.SchoolID()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Issue sets the signed cookie for s
func (m *SessionMiddleware) Issue(c *gin.Context, s *session.Session) error {
	token, expiresAt, err := m.jwtService.GenerateSessionToken(s.ID)
	if err != nil {
		return err
	}
	maxAge := int(helpers.Remaining(expiresAt, time.Now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, token, maxAge, "/", "", m.cookie.Secure, true)
	return nil
}

// End deletes the current session, if any, and its cookie
func (m *SessionMiddleware) End(c *gin.Context) {
	if s := CurrentSession(c); s != nil {
		if err := m.sessions.Clear(c.Request.Context(), s.ID); err != nil {
			m.logger.Error().Err(err).Str("session_id", s.ID).Msg("Failed to clear session")
		}
		c.Set(ContextSessionKey, (*session.Session)(nil))
	}
	m.clearCookie(c)
}

func (m *SessionMiddleware) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

// CurrentSession returns the session loaded for this request, or nil
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
