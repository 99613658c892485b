package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/arigopay/backend/internal/audit"
	"github.com/arigopay/backend/internal/logger"
	"github.com/arigopay/backend/internal/metrics"
	"github.com/arigopay/backend/internal/services"
	"github.com/google/uuid"
)

const (
	maxWebhookBodyBytes = 1_048_576
	DeliveryIDHeader    = "X-Delivery-ID"
)

type WebhookHandler struct {
	verifier        *services.WebhookVerifier
	settlements     *services.SettlementService
	audit           *audit.Logger
	signatureHeader string
}

func NewWebhookHandler(
	verifier *services.WebhookVerifier,
	settlements *services.SettlementService,
	auditLogger *audit.Logger,
	signatureHeader string,
) *WebhookHandler {
	if signatureHeader == "" {
		signatureHeader = "x-paystack-signature"
	}
	return &WebhookHandler{
		verifier:        verifier,
		settlements:     settlements,
		audit:           auditLogger,
		signatureHeader: signatureHeader,
	}
}

// Handle settles a Paystack callback
// @Summary Paystack webhook
// @Description Verifies the HMAC-SHA512 signature over the raw body and settles charge.success / transfer.success events. Redeliveries and signed events that fail validation are acknowledged without effect.
// @Tags Webhook
// @Accept json
// @Produce plain
// @Param x-paystack-signature header string true "Hex HMAC-SHA512 of the raw body"
// @Param payload body services.PaystackEvent true "Provider event"
// @Success 200 {string} string "Webhook received"
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 413 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /webhook [post]
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deliveryID := uuid.NewString()
	w.Header().Set(DeliveryIDHeader, deliveryID)

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			services.SendErrorResponse(w, "Request body too large", http.StatusRequestEntityTooLarge, nil)
			return
		}
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	// Nothing is parsed or stored before this check.
	if err := h.verifier.Verify(raw, r.Header.Get(h.signatureHeader)); err != nil {
		logger.Warnf("[WEBHOOK] Rejected delivery %s from %s: %v", deliveryID, r.RemoteAddr, err)
		metrics.RecordSignatureFailure()
		h.audit.LogRejected(deliveryID, r.RemoteAddr, err.Error())
		services.SendErrorResponse(w, "Invalid signature", http.StatusUnauthorized, nil)
		return
	}

	report, err := h.settlements.Process(r.Context(), deliveryID, raw)
	switch {
	case errors.Is(err, services.ErrMalformedEvent):
		services.SendErrorResponse(w, "Malformed event payload", http.StatusBadRequest, nil)
		return
	case err != nil:
		logger.Errorf("[WEBHOOK] Delivery %s failed: %v", deliveryID, err)
		services.SendErrorResponse(w, "Webhook processing failed: "+err.Error(), http.StatusInternalServerError, nil)
		return
	}

	logger.Debugf("[WEBHOOK] Delivery %s: %s %s -> %s", deliveryID, report.Event, report.Reference, report.Outcome)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "Webhook received")
}
