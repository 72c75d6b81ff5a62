package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/social-service/internal/domain"
	"github.com/tazhibayda/social-service/internal/queue"
)

type sendMessageReq struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

// SendMessage godoc
// @Summary Send a direct message
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body sendMessageReq true "receiverId, message"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Router /api/v1/chat/messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var in sendMessageReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	receiverID, ok := parseOID(in.ReceiverID)
	if !ok {
		respondErr(c, http.StatusBadRequest, "Receiver ID is required.")
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		respondErr(c, http.StatusBadRequest, "Message is required.")
		return
	}

	caller := currentUser(c)
	m := &domain.Message{
		SenderID:   caller.ID,
		ReceiverID: receiverID,
		Text:       in.Message,
		Status:     domain.MessageStatusSent,
	}
	if err := h.Store.InsertMessage(c.Request.Context(), m); err != nil {
		respondServiceErr(c, err)
		return
	}

	go h.Events.Publish(context.Background(), "message.sent", queue.MessageSent{
		MessageID:  m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
	}, requestID(c))

	respondOK(c, http.StatusCreated, "Message sent successfully.", m)
}

// GetConversation godoc
// @Summary Messages between the caller and another user
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Param otherId path string true "other user id"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Router /api/v1/chat/messages/{otherId} [get]
func (h *Handler) GetConversation(c *gin.Context) {
	otherID, ok := parseOID(c.Param("otherId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "Receiver ID is required.")
		return
	}
	caller := currentUser(c)

	// opening the conversation acknowledges the counterpart's messages
	if err := h.Store.MarkConversationSeen(c.Request.Context(), otherID, caller.ID); err != nil {
		respondServiceErr(c, err)
		return
	}
	msgs, err := h.Store.Conversation(c.Request.Context(), caller.ID, otherID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "All messages fetched.", msgs)
}
