package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications godoc
// @Summary The caller's notifications, newest first
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	caller := currentUser(c)
	list, err := h.Store.ListNotifications(c.Request.Context(), caller.ID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"count": len(list), "notifications": list})
}
