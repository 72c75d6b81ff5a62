package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me godoc
// @Summary Caller's profile (created on first authenticated request)
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/v1/users/me [get]
func (h *Handler) Me(c *gin.Context) {
	respondOK(c, http.StatusOK, "User profile fetched successfully", currentUser(c))
}

type updateProfileReq struct {
	Name         string `json:"name"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`
}

// UpdateMe godoc
// @Summary Update the caller's profile (partial)
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body updateProfileReq true "any subset of name, bio, profileImage"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	var in updateProfileReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	caller := currentUser(c)
	updated, err := h.Store.UpdateUserProfile(c.Request.Context(), caller.ID, in.Name, in.Bio, in.ProfileImage)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	if updated == nil {
		respondErr(c, http.StatusNotFound, "User not found")
		return
	}
	respondOK(c, http.StatusOK, "User updated successfully", updated)
}

// GetUser godoc
// @Summary Another user's public profile
// @Tags users
// @Produce json
// @Param userId path string true "user id"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/users/profile/{userId} [get]
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := parseOID(c.Param("userId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "invalid user id")
		return
	}
	u, err := h.Store.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	if u == nil {
		respondErr(c, http.StatusNotFound, "User not found")
		return
	}

	profile := u.Public()
	if h.Presence != nil {
		if online, err := h.Presence.IsOnline(c.Request.Context(), u.ID.Hex()); err == nil {
			profile.IsOnline = online
		}
	}
	respondOK(c, http.StatusOK, "", profile)
}
