package handlers

import (
	"errors"
	"net/http"

	"casaluna/models"
	"casaluna/services/payment"
	"casaluna/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// contactSupportMsg is shown for post-payment inconsistencies: the guest has
// already paid, so a generic error would be worse than useless.
const contactSupportMsg = "Your payment was received but the booking could not be finalized. Please contact support."

// PaymentHandler terminates both provider confirmation protocols.
type PaymentHandler struct {
	stripeGW   *payment.StripeGateway
	paypalGW   *payment.PayPalGateway
	reconciler payment.Reconciler
}

func NewPaymentHandler(stripeGW *payment.StripeGateway, paypalGW *payment.PayPalGateway, reconciler payment.Reconciler) *PaymentHandler {
	return &PaymentHandler{stripeGW: stripeGW, paypalGW: paypalGW, reconciler: reconciler}
}

// StripeWebhook handles POST /api/payments/stripe/webhook. The raw body is
// required for signature verification; a bad signature is rejected with no
// state change.
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unreadable webhook body", err.Error())
		return
	}

	reference, completed, err := h.stripeGW.VerifyWebhook(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "webhook rejected", err.Error())
		return
	}
	if !completed {
		// Event types we do not act on are acknowledged so the provider
		// stops redelivering them.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	res, err := h.reconciler.Confirm(c.Request.Context(), models.ProviderStripe, reference)
	if err != nil {
		h.confirmError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "reservationId": res.ID, "status": res.Status})
}

type captureInput struct {
	OrderID string `json:"orderId" binding:"required"`
}

// PayPalCapture handles POST /api/payments/paypal/capture: the synchronous
// confirmation path. The capture call and the ledger transition complete in
// the request before the guest sees a response.
func (h *PaymentHandler) PayPalCapture(c *gin.Context) {
	var input captureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	order, err := h.paypalGW.Capture(c.Request.Context(), input.OrderID)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "capture failed, please retry", err.Error())
		return
	}
	if !order.Paid {
		utils.JSONError(c, http.StatusPaymentRequired, "payment not completed", "")
		return
	}

	res, err := h.reconciler.Confirm(c.Request.Context(), models.ProviderPayPal, order.Reference)
	if err != nil {
		h.confirmError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PaymentHandler) confirmError(c *gin.Context, err error) {
	logger := utils.GetLogger()
	switch {
	case errors.Is(err, payment.ErrConsistency):
		logger.Error("payment consistency failure", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, contactSupportMsg, err.Error())
	case errors.Is(err, payment.ErrConfirmConflict):
		logger.Error("paid reservation lost the dates", zap.Error(err))
		utils.JSONError(c, http.StatusConflict, contactSupportMsg, err.Error())
	case errors.Is(err, payment.ErrNotPaid):
		utils.JSONError(c, http.StatusPaymentRequired, "payment not completed", err.Error())
	default:
		utils.JSONError(c, http.StatusBadGateway, "confirmation failed, please retry", err.Error())
	}
}
