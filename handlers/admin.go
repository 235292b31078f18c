package handlers

import (
	"errors"
	"net/http"

	reservationRepo "casaluna/database/repository/reservation"
	"casaluna/services/reservation"
	"casaluna/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the owner's reservation listing and cancellation
// endpoints, guarded by the shared admin token middleware.
type AdminHandler struct {
	reservations reservation.Service
}

func NewAdminHandler(resSvc reservation.Service) *AdminHandler {
	return &AdminHandler{reservations: resSvc}
}

// ListReservations handles GET /api/admin/reservations.
func (h *AdminHandler) ListReservations(c *gin.Context) {
	all, err := h.reservations.ListAll(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "listing failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": all, "count": len(all)})
}

// CancelReservation handles DELETE /api/admin/reservations/:id.
func (h *AdminHandler) CancelReservation(c *gin.Context) {
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
