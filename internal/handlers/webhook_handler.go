package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendchat/internal/logger"
	"spendchat/internal/services"
)

// WebhookHandler receives inbound WhatsApp messages and delivery receipts.
type WebhookHandler struct {
	conversation services.ConversationServicer
	messenger    services.Messenger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(conversation services.ConversationServicer, messenger services.Messenger) *WebhookHandler {
	return &WebhookHandler{conversation: conversation, messenger: messenger}
}

// InboundMessage is the inbound message webhook payload.
type InboundMessage struct {
	From string `json:"from" binding:"required"`
	Text string `json:"text"`
}

// WebhookAck is returned once an inbound message was processed.
type WebhookAck struct {
	Status string `json:"status" example:"ok"`
}

// WhatsApp handles an inbound chat message
// @Summary     Inbound WhatsApp message
// @Description Classifies the message, logs expenses or answers questions, and sends exactly one reply to the sender
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       request body InboundMessage true "Inbound message"
// @Success     200 {object} WebhookAck "Message processed"
// @Failure     400 {object} ErrorResponse "Invalid payload"
// @Failure     401 {object} ErrorResponse "Invalid signature"
// @Router      /webhook/whatsapp [post]
func (h *WebhookHandler) WhatsApp(c *gin.Context) {
	var msg InboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	reply := h.conversation.HandleMessage(ctx, msg.From, msg.Text)

	// The provider retries non-2xx webhooks, which would log the expense twice.
	if err := h.messenger.SendWhatsApp(ctx, msg.From, reply); err != nil {
		logger.For("webhook").Errorw("failed to deliver reply", "to", msg.From, "error", err)
	}

	c.JSON(http.StatusOK, WebhookAck{Status: "ok"})
}

// Status handles delivery status callbacks
// @Summary     Message status callback
// @Description Acknowledges delivery receipts for outbound messages
// @Tags        webhooks
// @Success     200
// @Router      /webhooks/status [post]
func (h *WebhookHandler) Status(c *gin.Context) {
	c.Status(http.StatusOK)
}
