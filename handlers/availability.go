package handlers

import (
	"net/http"
	"time"

	"casaluna/models"
	"casaluna/services/availability"
	"casaluna/services/reservation"
	"casaluna/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves availability queries and price quotes.
type AvailabilityHandler struct {
	availability availability.Service
	reservations reservation.Service
}

func NewAvailabilityHandler(avail availability.Service, resSvc reservation.Service) *AvailabilityHandler {
	return &AvailabilityHandler{availability: avail, reservations: resSvc}
}

func parseDay(value string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return models.Day(t), true
}

// CheckAvailability handles GET /api/availability?checkIn=...&checkOut=...
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	checkIn, okIn := parseDay(c.Query("checkIn"))
	checkOut, okOut := parseDay(c.Query("checkOut"))
	if !okIn || !okOut {
		utils.JSONError(c, http.StatusBadRequest, "invalid dates", "checkIn and checkOut must be YYYY-MM-DD")
		return
	}

	available, err := h.availability.IsAvailable(c.Request.Context(), checkIn, checkOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "availability check failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

// Quote handles POST /api/quote with a stay draft and returns the price
// breakdown without creating any state.
func (h *AvailabilityHandler) Quote(c *gin.Context) {
	var draft models.ReservationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	quote, err := h.reservations.Quote(draft)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "quote failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, quote)
}
