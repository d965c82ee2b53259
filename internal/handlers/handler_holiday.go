package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vacaplanner/vacaplanner/internal/core/holidays"
)

// holidayHandler serves the Italian public holiday calendar.
type holidayHandler struct{}

// registerHolidayRoutes registers the holiday calendar routes.
func registerHolidayRoutes(rg *gin.RouterGroup) {
	h := &holidayHandler{}

	rg.GET("/holidays", h.listHolidays)
}

// listHolidays godoc
// @Summary List public holidays
// @Description Returns the Italian public holidays for a year, including the movable Easter-based ones. Defaults to the current year.
// @Tags holidays
// @Produce json
// @Param year query int false "Year (1583-4099)"
// @Success 200 {array} holidays.Holiday
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /holidays [get]
func (h *holidayHandler) listHolidays(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1583 || parsed > 4099 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Anno non valido"})
			return
		}
		year = parsed
	}

	c.JSON(http.StatusOK, holidays.ForYear(year))
}
