// Package handler contains the HTTP layer of the webhook gateway: it
// parses inbound message events, hands them to the command router, and
// writes the reply batch back to the bot host. No business logic lives
// here; a different transport could reuse the router untouched.
package handler

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/checkin-bot/internal/apperror"
	"github.com/sakif/checkin-bot/internal/command"
	"github.com/sakif/checkin-bot/internal/model"
)

// tokenHeader carries the shared webhook secret when one is configured.
const tokenHeader = "X-Webhook-Token"

// Reply is one outbound message. The ID lets the host deduplicate
// redelivered batches.
type Reply struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// EventResponse is the body returned for every accepted event.
type EventResponse struct {
	Replies []Reply `json:"replies"`
}

// WebhookHandler accepts message events from the bot host.
type WebhookHandler struct {
	router *command.Router
	logger *slog.Logger
	token  string // empty disables the check
}

// NewWebhookHandler creates the handler. token may be empty when the
// deployment trusts its network.
func NewWebhookHandler(router *command.Router, logger *slog.Logger, token string) *WebhookHandler {
	return &WebhookHandler{
		router: router,
		logger: logger,
		token:  token,
	}
}

// HandleEvent processes one inbound message event.
//
// HTTP: POST /webhook
//
// An event that matches no command still gets a 200 with an empty reply
// list: "nothing to say" is a normal outcome, not an error.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "missing or invalid webhook token",
		})
		return
	}

	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body is not a valid event"))
		return
	}

	texts := h.router.Dispatch(&ev)

	replies := make([]Reply, 0, len(texts))
	for _, text := range texts {
		replies = append(replies, Reply{
			ID:   xid.New().String(),
			Text: text,
		})
	}

	writeJSON(w, http.StatusOK, EventResponse{Replies: replies})
}

// HandleHealth reports liveness.
//
// HTTP: GET /healthz
func (h *WebhookHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authorized checks the shared token in constant time. With no token
// configured every request passes.
func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.token == "" {
		return true
	}
	got := r.Header.Get(tokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
