package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/social-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikePost godoc
// @Summary Like a post (re-like recycles the previous row)
// @Tags likes
// @Security BearerAuth
// @Produce json
// @Param postId path string true "post id"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/posts/{postId}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	postID, ok := parseOID(c.Param("postId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "Post ID required")
		return
	}
	post, err := h.Store.FindPostByID(c.Request.Context(), postID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	if post == nil {
		respondErr(c, http.StatusNotFound, "Post not found")
		return
	}

	caller := currentUser(c)
	existing, err := h.Store.FindLike(c.Request.Context(), postID, caller.ID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	if existing != nil && existing.IsLiked {
		respondErr(c, http.StatusBadRequest, "You already liked this post")
		return
	}
	if err := h.Store.SetLiked(c.Request.Context(), postID, caller.ID, true); err != nil {
		respondServiceErr(c, err)
		return
	}
	if err := h.Store.IncrementLikeCount(c.Request.Context(), postID, 1); err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Post liked successfully", nil)
}

// UnlikePost godoc
// @Summary Remove one's like from a post
// @Tags likes
// @Security BearerAuth
// @Produce json
// @Param postId path string true "post id"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/posts/{postId}/like [delete]
func (h *Handler) UnlikePost(c *gin.Context) {
	postID, ok := parseOID(c.Param("postId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "Post ID required")
		return
	}
	post, err := h.Store.FindPostByID(c.Request.Context(), postID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	if post == nil {
		respondErr(c, http.StatusNotFound, "Post not found")
		return
	}

	caller := currentUser(c)
	existing, err := h.Store.FindLike(c.Request.Context(), postID, caller.ID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	if existing == nil || !existing.IsLiked {
		respondErr(c, http.StatusBadRequest, "You haven't liked this post yet")
		return
	}
	if err := h.Store.SetLiked(c.Request.Context(), postID, caller.ID, false); err != nil {
		respondServiceErr(c, err)
		return
	}
	if err := h.Store.IncrementLikeCount(c.Request.Context(), postID, -1); err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Post unliked successfully", nil)
}

type likeEntry struct {
	domain.Like
	User domain.PublicProfile `json:"user"`
}

// ListLikes godoc
// @Summary Users who liked a post
// @Tags likes
// @Produce json
// @Param postId path string true "post id"
// @Success 200 {object} envelope
// @Router /api/v1/posts/{postId}/likes [get]
func (h *Handler) ListLikes(c *gin.Context) {
	postID, ok := parseOID(c.Param("postId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "Post ID required")
		return
	}
	likes, err := h.Store.ListLikes(c.Request.Context(), postID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	ids := make([]primitive.ObjectID, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.UserID)
	}
	profiles, err := h.Store.PublicProfiles(c.Request.Context(), ids)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	out := make([]likeEntry, 0, len(likes))
	for _, l := range likes {
		out = append(out, likeEntry{Like: l, User: profiles[l.UserID]})
	}
	respondOK(c, http.StatusOK, "Likes fetched successfully", gin.H{"count": len(out), "likes": out})
}
