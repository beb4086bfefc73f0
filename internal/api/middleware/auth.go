package middleware

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"insightboard/internal/authz"
	"insightboard/internal/models"
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie page routes authenticate with; API routes use
// the Authorization header. Both feed the same resolver.
const SessionCookie = "ib_session"

// DefaultLanding is where authenticated users go when no returnUrl applies.
const DefaultLanding = "/dashboard"

// credential pulls the raw token from the request: bearer header first, then
// the session cookie.
func credential(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// attach stores the resolved session on the context and sets the downstream
// identity headers.
func attach(c *gin.Context, session *models.Session) {
	checker := authz.NewChecker(&session.User)
	c.Set("user", &session.User)
	c.Set("user_id", session.UserID)
	c.Set("session", session)
	c.Set("checker", checker)

	c.Header("x-user-id", fmt.Sprintf("%d", session.UserID))
	c.Header("x-user-role", session.User.Role.Name)
}

// Checker returns the request's permission checker. Only present after Auth
// or PageAuth admitted the request.
func Checker(c *gin.Context) *authz.Checker {
	v, exists := c.Get("checker")
	if !exists {
		return nil
	}
	return v.(*authz.Checker)
}

// Auth guards API routes: it resolves the session fresh on every request so
// role and permission changes take effect without re-login.
func Auth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authService.ResolveSession(credential(c))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserInactive):
				c.AbortWithStatusJSON(401, gin.H{"error": "USER_INACTIVE", "message": "User account is deactivated"})
			case errors.Is(err, services.ErrTransient):
				c.AbortWithStatusJSON(503, gin.H{"error": "TRANSIENT_ERROR", "message": "Service temporarily unavailable"})
			default:
				c.AbortWithStatusJSON(401, gin.H{"error": "UNAUTHENTICATED", "message": "Authentication required"})
			}
			return
		}

		attach(c, session)
		c.Next()
	}
}

// Require adapts an authorization rule into a route guard. The rule returns
// a typed decision; only this adapter touches the transport.
func Require(rule authz.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		checker := Checker(c)
		if checker == nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "UNAUTHENTICATED", "message": "Authentication required"})
			return
		}

		decision := rule(checker)
		if !decision.Allowed {
			c.AbortWithStatusJSON(403, gin.H{"error": decision.Code, "message": decision.Message})
			return
		}

		c.Next()
	}
}

// RequireAdmin gates admin-only API routes by role membership.
func RequireAdmin() gin.HandlerFunc {
	return Require(authz.AdminOnly())
}

// PageAuth guards server-rendered pages. Missing or broken sessions redirect
// to /login with the original destination preserved; any resolution failure
// fails closed into the same redirect.
func PageAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := authService.ResolveSession(credential(c))
		if err != nil {
			loginURL := "/login?returnUrl=" + url.QueryEscape(c.Request.URL.Path)
			c.Redirect(302, loginURL)
			c.Abort()
			return
		}

		attach(c, session)
		c.Next()
	}
}

// PageAdmin gates admin pages after PageAuth. Non-admin users get a plain
// 403 page body.
func PageAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		checker := Checker(c)
		if checker == nil || !checker.IsAdmin() {
			c.String(403, "Forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the session when one resolves but never denies.
// Used by the root route, which redirects differently for each case.
func OptionalAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, err := authService.ResolveSession(credential(c)); err == nil {
			attach(c, session)
		}
		c.Next()
	}
}

// localRedirect reports whether target is a same-site path. A single leading
// slash is required; "//host" and "/\host" are protocol-relative and would
// leave the site.
func localRedirect(target string) bool {
	if len(target) == 0 || target[0] != '/' {
		return false
	}
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return false
	}
	return true
}

// RequireGuest guards the public-auth pages (/login, /register, ...): an
// already-authenticated visitor is sent back to returnUrl or the default
// landing page.
func RequireGuest(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := authService.ResolveSession(credential(c)); err == nil {
			target := c.Query("returnUrl")
			if !localRedirect(target) {
				target = DefaultLanding
			}
			c.Redirect(302, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
