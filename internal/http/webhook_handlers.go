package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/social-service/internal/log"
	"github.com/tazhibayda/social-service/internal/security"
	"go.uber.org/zap"
)

type identityWebhook struct {
	Type string `json:"type"`
	Data struct {
		ID           string `json:"id"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		Username     string `json:"username"`
		ImageURL     string `json:"image_url"`
		EmailAddress []struct {
			Email    string `json:"email_address"`
			Verified bool   `json:"verified"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// IdentityWebhook ingests user-lifecycle events from the identity
// provider: user.created and user.updated upsert the local mirror,
// user.deleted removes it. The request must carry a valid provider
// signature.
func (h *Handler) IdentityWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondErr(c, http.StatusBadRequest, "unreadable body")
		return
	}
	if !security.VerifyWebhook(
		h.WebhookSecret,
		c.GetHeader("Webhook-Id"),
		c.GetHeader("Webhook-Timestamp"),
		c.GetHeader("Webhook-Signature"),
		body,
	) {
		respondErr(c, http.StatusUnauthorized, "invalid signature")
		return
	}

	var evt identityWebhook
	if err := json.Unmarshal(body, &evt); err != nil {
		respondErr(c, http.StatusBadRequest, "invalid payload")
		return
	}

	switch evt.Type {
	case "user.created", "user.updated":
		name := evt.Data.FirstName
		if evt.Data.LastName != "" {
			name += " " + evt.Data.LastName
		}
		if name == "" {
			name = evt.Data.Username
		}
		var email string
		var verified bool
		if len(evt.Data.EmailAddress) > 0 {
			email = evt.Data.EmailAddress[0].Email
			verified = evt.Data.EmailAddress[0].Verified
		}
		if err := h.Store.UpsertUserByExternalID(c.Request.Context(),
			evt.Data.ID, name, email, evt.Data.ImageURL, verified); err != nil {
			respondServiceErr(c, err)
			return
		}
	case "user.deleted":
		if _, err := h.Store.DeleteUserByExternalID(c.Request.Context(), evt.Data.ID); err != nil {
			respondServiceErr(c, err)
			return
		}
	default:
		log.L().Info("ignoring identity webhook event", zap.String("type", evt.Type))
	}

	respondOK(c, http.StatusOK, "", nil)
}
