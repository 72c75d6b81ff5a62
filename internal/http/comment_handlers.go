package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createCommentReq struct {
	Message  string `json:"message"`
	ParentID string `json:"parentId"`
}

// CreateComment godoc
// @Summary Add a comment or single-depth reply to a post
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param postId path string true "post id"
// @Param payload body createCommentReq true "message, optional parentId"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/posts/{postId}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	postID, ok := parseOID(c.Param("postId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "Post ID required")
		return
	}
	var in createCommentReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	var parentID *primitive.ObjectID
	if in.ParentID != "" {
		pid, ok := parseOID(in.ParentID)
		if !ok {
			respondErr(c, http.StatusBadRequest, "invalid parentId")
			return
		}
		parentID = &pid
	}

	caller := currentUser(c)
	comment, err := h.Comments.Create(c.Request.Context(), caller, postID, in.Message, parentID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Comment added successfully", comment)
}

// GetComments godoc
// @Summary List a post's comment threads
// @Tags comments
// @Produce json
// @Param postId path string true "post id"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/posts/{postId}/comments [get]
func (h *Handler) GetComments(c *gin.Context) {
	postID, ok := parseOID(c.Param("postId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "Post ID required")
		return
	}
	threads, err := h.Comments.List(c.Request.Context(), postID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"count": len(threads), "comments": threads})
}

type updateCommentReq struct {
	Message string `json:"message"`
}

// UpdateComment godoc
// @Summary Edit one's own comment
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param commentId path string true "comment id"
// @Param payload body updateCommentReq true "message"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 403 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/comments/{commentId} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	commentID, ok := parseOID(c.Param("commentId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "Comment ID required")
		return
	}
	var in updateCommentReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	caller := currentUser(c)
	comment, err := h.Comments.Update(c.Request.Context(), caller, commentID, in.Message)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Comment updated successfully", comment)
}

// DeleteComment godoc
// @Summary Soft-delete one's own comment
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Param commentId path string true "comment id"
// @Success 200 {object} envelope
// @Failure 403 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/comments/{commentId} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	commentID, ok := parseOID(c.Param("commentId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "Comment ID required")
		return
	}
	caller := currentUser(c)
	if err := h.Comments.Delete(c.Request.Context(), caller, commentID); err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Comment deleted successfully", nil)
}
