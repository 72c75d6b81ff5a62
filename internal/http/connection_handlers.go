package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/social-service/internal/queue"
)

type sendRequestReq struct {
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

// SendRequest godoc
// @Summary Send a connection request
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body sendRequestReq true "receiverId, optional message"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/connections/sendRequest [post]
func (h *Handler) SendRequest(c *gin.Context) {
	var in sendRequestReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	receiverID, ok := parseOID(in.ReceiverID)
	if !ok {
		respondErr(c, http.StatusBadRequest, "receiverId required")
		return
	}
	caller := currentUser(c)
	conn, err := h.Connections.SendRequest(c.Request.Context(), caller, receiverID, in.Message)
	if err != nil {
		respondServiceErr(c, err)
		return
	}

	go h.Events.Publish(context.Background(), "connection.requested", queue.ConnectionRequested{
		ConnectionID: conn.ID,
		RequesterID:  conn.RequesterID,
		ReceiverID:   conn.ReceiverID,
	}, requestID(c))

	respondOK(c, http.StatusCreated, "Request sent successfully.", conn)
}

type decideRequestReq struct {
	RequesterID string `json:"requesterId"`
}

// AcceptRequest godoc
// @Summary Accept a pending connection request
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body decideRequestReq true "requesterId"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/connections/acceptRequest [post]
func (h *Handler) AcceptRequest(c *gin.Context) {
	var in decideRequestReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	requesterID, ok := parseOID(in.RequesterID)
	if !ok {
		respondErr(c, http.StatusBadRequest, "requesterId required")
		return
	}
	caller := currentUser(c)
	conn, err := h.Connections.Accept(c.Request.Context(), caller, requesterID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}

	go h.Events.Publish(context.Background(), "connection.accepted", queue.ConnectionAccepted{
		ConnectionID: conn.ID,
		RequesterID:  conn.RequesterID,
		ReceiverID:   conn.ReceiverID,
	}, requestID(c))

	respondOK(c, http.StatusOK, "Request accepted.", conn)
}

// RejectRequest godoc
// @Summary Reject a pending connection request
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body decideRequestReq true "requesterId"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/connections/rejectRequest [post]
func (h *Handler) RejectRequest(c *gin.Context) {
	var in decideRequestReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	requesterID, ok := parseOID(in.RequesterID)
	if !ok {
		respondErr(c, http.StatusBadRequest, "requesterId required")
		return
	}
	caller := currentUser(c)
	conn, err := h.Connections.Reject(c.Request.Context(), caller, requesterID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Request rejected.", conn)
}

type cancelRequestReq struct {
	ReceiverID string `json:"receiverId"`
}

// CancelRequest godoc
// @Summary Cancel a pending request the caller sent
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body cancelRequestReq true "receiverId"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/connections/cancelRequest [post]
func (h *Handler) CancelRequest(c *gin.Context) {
	var in cancelRequestReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	receiverID, ok := parseOID(in.ReceiverID)
	if !ok {
		respondErr(c, http.StatusBadRequest, "receiverId required")
		return
	}
	caller := currentUser(c)
	if err := h.Connections.Cancel(c.Request.Context(), caller, receiverID); err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Request cancelled.", nil)
}

type removeConnectionReq struct {
	ConnectionID string `json:"connectionId"`
}

// RemoveConnection godoc
// @Summary Remove an accepted connection
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body removeConnectionReq true "connectionId"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Router /api/v1/connections/removeConnection [delete]
func (h *Handler) RemoveConnection(c *gin.Context) {
	var in removeConnectionReq
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid json")
		return
	}
	connectionID, ok := parseOID(in.ConnectionID)
	if !ok {
		respondErr(c, http.StatusBadRequest, "connectionId required")
		return
	}
	caller := currentUser(c)
	if err := h.Connections.Remove(c.Request.Context(), caller, connectionID); err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Connection removed successfully.", nil)
}

// ConnectionStatus godoc
// @Summary Relationship between the caller and another user
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Param otherId path string true "other user id"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Router /api/v1/connections/status/{otherId} [get]
func (h *Handler) ConnectionStatus(c *gin.Context) {
	otherID, ok := parseOID(c.Param("otherId"))
	if !ok {
		respondErr(c, http.StatusBadRequest, "invalid user id")
		return
	}
	caller := currentUser(c)
	report, err := h.Connections.Status(c.Request.Context(), caller, otherID)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", report)
}

// PendingRequests godoc
// @Summary Pending requests awaiting the caller's decision
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/v1/connections/getPendingRequests [get]
func (h *Handler) PendingRequests(c *gin.Context) {
	list, err := h.Connections.Pending(c.Request.Context(), currentUser(c))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", list)
}

// SentRequests godoc
// @Summary Pending requests the caller sent
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/v1/connections/getSentRequests [get]
func (h *Handler) SentRequests(c *gin.Context) {
	list, err := h.Connections.Sent(c.Request.Context(), currentUser(c))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", list)
}

// MyConnections godoc
// @Summary Accepted connections from both directions
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/v1/connections/getMyConnections [get]
func (h *Handler) MyConnections(c *gin.Context) {
	list, err := h.Connections.Accepted(c.Request.Context(), currentUser(c))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", list)
}

// ConnectionCounts godoc
// @Summary Per-status connection totals
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope
// @Router /api/v1/connections/counts [get]
func (h *Handler) ConnectionCounts(c *gin.Context) {
	counts, err := h.Connections.Counts(c.Request.Context(), currentUser(c))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", counts)
}
