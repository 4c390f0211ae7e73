package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/service"
	"storefront/internal/stripe"
)

// WebhookHandler handles inbound payment-gateway webhook deliveries.
type WebhookHandler struct {
	webhookService service.WebhookService
	signingSecret  string
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(webhookService service.WebhookService, signingSecret string) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		signingSecret:  signingSecret,
	}
}

// HandleStripeWebhook godoc
// @Summary Receive a payment-gateway webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Signature over the raw body"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /stripe/webhooks [post]
func (h *WebhookHandler) HandleStripeWebhook(c echo.Context) error {
	// The HMAC covers the raw bytes; the body must not go through Bind.
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unreadable body",
			Code:  "INVALID_REQUEST",
		})
	}

	event, err := stripe.ConstructEvent(payload, c.Request().Header.Get(stripe.SignatureHeader), h.signingSecret)
	if err != nil {
		zlog := logger.Get()
		zlog.Warn().Err(err).Msg("webhook signature verification failed")
		metrics.WebhookSignatureFailuresTotal.Inc()
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid webhook signature",
			Code:  "INVALID_SIGNATURE",
		})
	}

	// Past signature verification the gateway always gets a 200: it would
	// retry any other response into the same failure, and event-level
	// errors are logged inside the service instead.
	h.webhookService.HandleEvent(c.Request().Context(), event)
	return c.JSON(http.StatusOK, map[string]string{"received": "true"})
}
