package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tazaticket/flight-concierge/internal/conversation"
	"github.com/tazaticket/flight-concierge/internal/observability/metrics"
	"github.com/tazaticket/flight-concierge/pkg/logging"
)

// TurnHandler processes one conversation turn.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req conversation.TurnRequest) (conversation.TurnResponse, error)
}

// WebhookHandler receives Twilio WhatsApp webhooks, runs the turn and answers
// with TwiML.
type WebhookHandler struct {
	turns      TurnHandler
	authToken  string
	webhookURL string
	metrics    *metrics.ConversationMetrics
	logger     *logging.Logger
}

func NewWebhookHandler(turns TurnHandler, authToken, webhookURL string, m *metrics.ConversationMetrics, logger *logging.Logger) *WebhookHandler {
	if turns == nil {
		panic("messaging: turn handler cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		turns:      turns,
		authToken:  authToken,
		webhookURL: webhookURL,
		metrics:    m,
		logger:     logger,
	}
}

// ServeHTTP handles POST /webhooks/twilio/whatsapp. Twilio retries non-2xx
// responses, so processing failures still answer 200 with an apology body.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	defer func() {
		h.metrics.ObserveWebhookLatency("whatsapp", time.Since(started).Seconds())
	}()

	if h.authToken != "" && !ValidateTwilioSignature(r, h.authToken, h.webhookURL) {
		h.logger.Warn("rejected webhook with invalid signature", "remote", r.RemoteAddr)
		http.Error(w, "Invalid signature", http.StatusForbidden)
		return
	}

	msg, err := ParseInbound(r)
	if err != nil {
		h.logger.Error("failed to parse webhook", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	turn := conversation.TurnRequest{
		UserID:   msg.From,
		Text:     msg.Body,
		Modality: conversation.ModalityText,
	}
	if msg.IsVoiceNote() {
		turn.Modality = conversation.ModalityVoice
		turn.MediaURL = msg.MediaURL
		turn.MediaType = msg.MediaType
	}

	resp, err := h.turns.HandleTurn(r.Context(), turn)
	if err != nil {
		h.logger.Error("turn processing failed", "user_id", msg.From, "error", err)
		h.writeTwiML(w, "Sorry, something went wrong on our side. Please try again.", "")
		return
	}

	h.writeTwiML(w, resp.Text, resp.VoiceURL)
}

func (h *WebhookHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "ok",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *WebhookHandler) writeTwiML(w http.ResponseWriter, body, mediaURL string) {
	doc, err := RenderTwiML(body, mediaURL)
	if err != nil {
		h.logger.Error("failed to render twiml", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.logger.Error("failed to write twiml response", "error", err)
	}
}
