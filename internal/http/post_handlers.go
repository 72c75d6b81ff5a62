package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/social-service/internal/domain"
	"github.com/tazhibayda/social-service/internal/repo"
)

type createPostReq struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl"`
}

// CreatePost godoc
// @Summary Create a lost/found post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body createPostReq true "post fields; imageUrl comes from the media upload flow"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var in createPostReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Title == "" || in.Type == "" || in.Description == "" || in.Category == "" || in.Location == "" || in.ImageURL == "" {
		respondErr(c, http.StatusBadRequest, "All fields are required")
		return
	}
	postType := strings.ToLower(in.Type)
	if !domain.ValidPostType(postType) {
		respondErr(c, http.StatusBadRequest, "Type must be either 'lost' or 'found'")
		return
	}

	caller := currentUser(c)
	p := &domain.Post{
		UserID:      caller.ID,
		Title:       in.Title,
		Type:        postType,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
	}
	if err := h.Store.InsertPost(c.Request.Context(), p); err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Post created successfully", p)
}

// ListPosts godoc
// @Summary List posts, optionally filtered by type/category/location
// @Tags posts
// @Produce json
// @Param type query string false "lost|found"
// @Param category query string false "category"
// @Param location query string false "location substring"
// @Success 200 {object} envelope
// @Router /api/v1/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.Store.ListPosts(c.Request.Context(), repo.PostFilter{
		Type:     strings.ToLower(c.Query("type")),
		Category: strings.ToLower(c.Query("category")),
		Location: c.Query("location"),
	})
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"count": len(posts), "posts": posts})
}

type updatePostReq struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl"`
}

// UpdatePost godoc
// @Summary Update one's own post (partial)
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param postId path string true "post id"
// @Param payload body updatePostReq true "any subset of fields"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 403 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/posts/{postId} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	postID, ok := parseOID(c.Param("postId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "Post ID required")
		return
	}
	var in updatePostReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Type != "" && !domain.ValidPostType(strings.ToLower(in.Type)) {
		respondErr(c, http.StatusBadRequest, "Type must be either 'lost' or 'found'")
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
	if post.UserID != caller.ID {
		respondErr(c, http.StatusForbidden, "Not authorized")
		return
	}

	updated, err := h.Store.UpdatePostFields(c.Request.Context(), postID, map[string]string{
		"title":       in.Title,
		"type":        strings.ToLower(in.Type),
		"description": in.Description,
		"category":    in.Category,
		"location":    in.Location,
		"image_url":   in.ImageURL,
	})
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Post updated successfully", updated)
}

// DeletePost godoc
// @Summary Delete one's own post
// @Tags posts
// @Security BearerAuth
// @Produce json
// @Param postId path string true "post id"
// @Success 200 {object} envelope
// @Failure 403 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/posts/{postId} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
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
	if post.UserID != caller.ID {
		respondErr(c, http.StatusForbidden, "Not authorized")
		return
	}
	if _, err := h.Store.DeletePost(c.Request.Context(), postID); err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Post deleted successfully", nil)
}
