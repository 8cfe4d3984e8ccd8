package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mcruz/enrollsys/internal/app/models"
	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/pkg/apperrors"
	"github.com/mcruz/enrollsys/internal/pkg/auth"
	"github.com/mcruz/enrollsys/internal/pkg/logger"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "enrollsys_session"

// sessionContextKey is where the resolved session lives in the gin context
const sessionContextKey = "session"

// profileRoleStore is the single lookup the middleware needs to resolve
// the caller's current role.
type profileRoleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// SessionMiddleware resolves the session cookie and guards role areas
type SessionMiddleware struct {
	sessions *auth.SessionService
	profiles profileRoleStore
}

// NewSessionMiddleware creates a new SessionMiddleware
func NewSessionMiddleware(sessions *auth.SessionService, profiles profileRoleStore) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, profiles: profiles}
}

// Resolve validates the session cookie once per request and stores the
// claims in the request context. The role is never taken from the token:
// it is re-read from the profile row on every request, so a demotion or a
// deleted profile takes effect immediately instead of when the token
// expires. A credential without a profile counts as a student. It never
// aborts: downstream guards decide what an absent session means for their
// route.
func (m *SessionMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		claims, err := m.sessions.Validate(cookie)
		if err != nil {
			c.Next()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		profile, err := m.profiles.GetByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			claims.Role = string(profile.Role)
		case errors.Is(err, apperrors.ErrProfileNotFound):
			claims.Role = string(models.RoleStudent)
		default:
			// Fail closed: without the current role the session cannot be
			// trusted with any guarded route.
			logger.Warn().Err(err).Str("userId", claims.UserID).Msg("Profile lookup failed, dropping session")
			c.Next()
			return
		}

		c.Set(sessionContextKey, claims)
		c.Next()
	}
}

// SessionFromContext returns the resolved session claims, if any
func SessionFromContext(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// roleAllowed reports whether a session role may enter an area restricted to
// the given roles. An empty restriction means any authenticated user.
func roleAllowed(sessionRole string, allowed []models.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, role := range allowed {
		if sessionRole == string(role) {
			return true
		}
	}
	return false
}

// RequireAPIAuth guards JSON endpoints: an absent session is a 401
func (m *SessionMiddleware) RequireAPIAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionFromContext(c); !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// RequireAPIRole guards JSON endpoints restricted to specific roles
func (m *SessionMiddleware) RequireAPIRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := SessionFromContext(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}
		if !roleAllowed(claims.Role, roles) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Insufficient role for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// RequirePageRole guards browser-facing role areas. Visitors without a
// session are sent to the login page; authenticated users outside the
// allowed roles are bounced to their own area rather than shown an error.
func (m *SessionMiddleware) RequirePageRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := SessionFromContext(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		if !roleAllowed(claims.Role, roles) {
			c.Redirect(http.StatusSeeOther, homeFor(claims.Role))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in visitors from entry pages straight
// to their role area.
func (m *SessionMiddleware) RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := SessionFromContext(c); ok {
			c.Redirect(http.StatusSeeOther, homeFor(claims.Role))
			c.Abort()
			return
		}
		c.Next()
	}
}

// homeFor maps a session role to its area root. Unknown roles land on the
// student area, the least privileged one.
func homeFor(role string) string {
	if models.Role(role).Valid() {
		return "/" + role
	}
	return "/" + string(models.RoleStudent)
}
