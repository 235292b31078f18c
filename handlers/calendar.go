package handlers

import (
	"net/http"

	"casaluna/services/availability"
	"casaluna/utils"

	"github.com/gin-gonic/gin"
)

// CalendarHandler serves the outbound iCalendar feed third parties
// subscribe to.
type CalendarHandler struct {
	publisher *availability.Publisher
}

func NewCalendarHandler(publisher *availability.Publisher) *CalendarHandler {
	return &CalendarHandler{publisher: publisher}
}

// Export handles GET /calendar.ics.
func (h *CalendarHandler) Export(c *gin.Context) {
	data, err := h.publisher.ExportICS(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "calendar export failed", err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="casaluna.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
