package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/farmabill/backend/internal/application/billing"
	"github.com/farmabill/backend/internal/domain/billing"
	"github.com/farmabill/backend/internal/infrastructure/logger"
	"github.com/farmabill/backend/internal/interfaces/http/dto"
)

// WebhookHandler handles payment gateway notifications
type WebhookHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(paymentService *billingapp.PaymentService) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService}
}

// MercadoPago handles POST /webhooks/mercadopago. The endpoint is open;
// authenticity comes from the HMAC signature in the x-signature header.
func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "unable to read request body")
		return
	}

	signature := c.GetHeader("x-signature")
	gatewayRequestID := c.GetHeader("x-request-id")

	result, err := h.paymentService.ProcessWebhook(c.Request.Context(), payload, signature, gatewayRequestID)
	if err != nil {
		if errors.Is(err, billing.ErrGatewayInvalidCallback) {
			c.JSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid webhook signature", requestID(c)))
			return
		}
		// The gateway retries on non-2xx, so log and surface the failure
		logger.FromGin(c).Error("webhook processing failed", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
