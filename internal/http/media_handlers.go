package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type uploadURLReq struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// UploadURL godoc
// @Summary Presigned URL for a direct media upload
// @Tags media
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body uploadURLReq true "fileName, contentType"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 503 {object} envelope
// @Router /api/v1/media/upload-url [post]
func (h *Handler) UploadURL(c *gin.Context) {
	if h.Media == nil {
		respondErr(c, http.StatusServiceUnavailable, "media uploads are not configured")
		return
	}
	var in uploadURLReq
	if err := c.ShouldBindJSON(&in); err != nil || in.FileName == "" || in.ContentType == "" {
		respondErr(c, http.StatusBadRequest, "fileName and contentType required")
		return
	}
	url, key, err := h.Media.UploadURL(c.Request.Context(), in.FileName, in.ContentType)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"uploadUrl": url, "key": key})
}
