package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/social-service/internal/media"
	"github.com/tazhibayda/social-service/internal/queue"
	"github.com/tazhibayda/social-service/internal/repo"
	"github.com/tazhibayda/social-service/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	Store         *repo.Store
	Connections   *service.Connections
	Comments      *service.Comments
	Presence      *repo.Presence
	Events        queue.Publisher
	Media         *media.Presigner
	WebhookSecret string
}

func NewHandler(store *repo.Store, conns *service.Connections, comments *service.Comments,
	presence *repo.Presence, events queue.Publisher, presigner *media.Presigner, webhookSecret string) *Handler {
	if events == nil {
		events = queue.NewNoop()
	}
	return &Handler{
		Store:         store,
		Connections:   conns,
		Comments:      comments,
		Presence:      presence,
		Events:        events,
		Media:         presigner,
		WebhookSecret: webhookSecret,
	}
}

// Healthz godoc
// @Summary Liveness and dependency check
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseOID converts a hex path/body id; empty or malformed ids are
// validation errors.
func parseOID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	return id, err == nil
}
