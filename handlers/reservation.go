package handlers

import (
	"errors"
	"net/http"

	reservationRepo "casaluna/database/repository/reservation"
	"casaluna/models"
	"casaluna/services/payment"
	"casaluna/services/reservation"
	"casaluna/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler serves reservation creation, lookup, and cancellation.
type ReservationHandler struct {
	checkout     payment.CheckoutService
	reservations reservation.Service
}

func NewReservationHandler(checkout payment.CheckoutService, resSvc reservation.Service) *ReservationHandler {
	return &ReservationHandler{checkout: checkout, reservations: resSvc}
}

type createReservationInput struct {
	models.ReservationDraft
	Provider models.ProviderKind `json:"provider"`
}

// Create handles POST /api/reservations: validates the stay, opens the
// Pending record, and returns the provider approval reference the guest is
// redirected to.
func (h *ReservationHandler) Create(c *gin.Context) {
	var input createReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res, checkout, err := h.checkout.Begin(c.Request.Context(), input.ReservationDraft, input.Provider)
	switch {
	case errors.Is(err, reservation.ErrInvalidStay):
		utils.JSONError(c, http.StatusBadRequest, "invalid stay request", err.Error())
		return
	case errors.Is(err, reservation.ErrUnavailable):
		utils.JSONError(c, http.StatusConflict, "dates not available", err.Error())
		return
	case errors.Is(err, payment.ErrUnknownProvider):
		utils.JSONError(c, http.StatusBadRequest, "unknown payment provider", err.Error())
		return
	case err != nil:
		// Provider unreachable or ledger down: retryable from the guest's
		// point of view.
		utils.JSONError(c, http.StatusBadGateway, "could not start payment, please retry", err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reservationId": res.ID,
		"status":        res.Status,
		"provider":      checkout.Kind,
		"reference":     checkout.Reference,
		"approvalUrl":   checkout.ApprovalURL,
		"totalAmount":   res.TotalAmount,
		"currency":      res.Currency,
	})
}

// GetByReference handles GET /api/reservations/by-reference/:reference,
// used by the post-payment success page.
func (h *ReservationHandler) GetByReference(c *gin.Context) {
	res, err := h.reservations.GetByProviderRef(c.Request.Context(), c.Param("reference"))
	if errors.Is(err, reservationRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "reservation not found", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "lookup failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// Cancel handles POST /api/reservations/:id/cancel (guest-initiated).
func (h *ReservationHandler) Cancel(c *gin.Context) {
	res, err := h.reservations.Cancel(c.Request.Context(), c.Param("id"))
	if errors.Is(err, reservationRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "reservation not found", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "cancellation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}
