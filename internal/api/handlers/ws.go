package handlers

import (
	"insightboard/internal/realtime"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	hub *realtime.Hub
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect upgrades the request to a websocket for notifications and
// presence. The route guard has already resolved the session; the hub never
// trusts a client-supplied identity.
func (h *WSHandler) Connect(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondError(c, 401, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, userID.(uint)); err != nil {
		// Upgrade failures write their own response.
		return
	}
}
