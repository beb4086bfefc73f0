package handlers

import (
	"insightboard/internal/api/middleware"
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

// PageHandler backs the server-rendered page routes. Rendering itself is an
// external collaborator: these handlers return the page identity and the
// authorization decisions already made; the guard semantics (redirects,
// admin gating) are what this layer owns.
type PageHandler struct {
	authService *services.AuthService
}

func NewPageHandler(authService *services.AuthService) *PageHandler {
	return &PageHandler{authService: authService}
}

// Root sends authenticated visitors to the default landing page and everyone
// else to login.
func (h *PageHandler) Root(c *gin.Context) {
	if checker := middleware.Checker(c); checker != nil {
		c.Redirect(302, middleware.DefaultLanding)
		return
	}
	c.Redirect(302, "/login")
}

// Page serves a protected page shell.
func (h *PageHandler) Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		checker := middleware.Checker(c)
		c.JSON(200, gin.H{
			"page":  name,
			"admin": checker != nil && checker.IsAdmin(),
		})
	}
}

// GuestPage serves a public-auth page shell (login, register, ...).
func (h *PageHandler) GuestPage(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"page": name})
	}
}
