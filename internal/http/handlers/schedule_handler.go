// Schedule projection HTTP handlers.
//
// This file exposes the calendar-facing read endpoints:
//   - GET /slots/schedule  (projected schedule over a date range, exceptions applied)
//   - GET /slots/range     (slots whose effective window intersects a range)
//   - GET /stats           (aggregate schedule counts)
//
// Projection is a pure read: it materializes what the stored slots and
// exceptions imply for each calendar date without writing anything.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-schedule-backend/internal/domain"
	"github.com/tbourn/go-schedule-backend/internal/repo"
	"github.com/tbourn/go-schedule-backend/internal/services"
)

// ScheduleResponse wraps the per-day projections for a requested range.
type ScheduleResponse struct {
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Days      []services.DayProjection `json:"days"`
}

// rangeParams reads and requires the start_date and end_date query parameters.
func rangeParams(c *gin.Context) (startDate, endDate string, ok bool) {
	startDate = strings.TrimSpace(c.Query("start_date"))
	endDate = strings.TrimSpace(c.Query("end_date"))
	if startDate == "" || endDate == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start_date and end_date are required (YYYY-MM-DD)")
		return "", "", false
	}
	return startDate, endDate, true
}

// failRangeError maps the projection/range read errors onto HTTP responses.
// Returns false when err was nil. Matching uses errors.Is because the domain
// parse errors arrive wrapped with the offending input value.
func failRangeError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, domain.ErrDateFormat):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD")
	case errors.Is(err, services.ErrDateOrder):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start_date must not be after end_date")
	case errors.Is(err, services.ErrRangeTooLarge):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date range too large")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
	return true
}

// GetSchedule godoc
// @ID          getSchedule
// @Summary     Project the schedule over a date range
// @Description Returns one entry per calendar date in [start_date, end_date]: every slot
// @Description whose day of week matches the date, with exceptions applied (cancellations
// @Description flagged, time overrides substituted). The range length is capped.
// @Tags        Schedule
// @Produce     json
//
// @Param       start_date  query  string  true  "Range start (YYYY-MM-DD)"  example(2024-03-10)
// @Param       end_date    query  string  true  "Range end (YYYY-MM-DD)"    example(2024-03-16)
//
// @Success     200  {object} handlers.ScheduleResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /slots/schedule [get]
func (h *Handlers) GetSchedule(c *gin.Context) {
	startDate, endDate, okParams := rangeParams(c)
	if !okParams {
		return
	}

	days, err := h.schedSvc.ProjectRange(c.Request.Context(), startDate, endDate)
	if failRangeError(c, err) {
		return
	}
	ok(c, http.StatusOK, ScheduleResponse{
		StartDate: startDate,
		EndDate:   endDate,
		Days:      days,
	})
}

// ListSlotsInRange godoc
// @ID          listSlotsInRange
// @Summary     List slots effective within a date range
// @Description Returns the active slots whose effective window intersects the inclusive
// @Description [start_date, end_date] range. This filters on effective windows only; for
// @Description the per-date calendar view use GET /slots/schedule.
// @Tags        Slots
// @Produce     json
//
// @Param       start_date  query  string  true  "Range start (YYYY-MM-DD)"
// @Param       end_date    query  string  true  "Range end (YYYY-MM-DD)"
//
// @Success     200  {array}  domain.Slot
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /slots/range [get]
func (h *Handlers) ListSlotsInRange(c *gin.Context) {
	startDate, endDate, okParams := rangeParams(c)
	if !okParams {
		return
	}

	slots, err := h.slotSvc.EffectiveInRange(c.Request.Context(), startDate, endDate)
	if failRangeError(c, err) {
		return
	}
	ok(c, http.StatusOK, slots)
}

// GetStats godoc
// @ID          getStats
// @Summary     Aggregate schedule counts
// @Description Returns totals for slots and exceptions plus the per-day breakdown of
// @Description active slots (index 0 = Sunday).
// @Tags        Schedule
// @Produce     json
//
// @Success     200  {object} repo.ScheduleSummary
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	db := h.slotDB()
	if db == nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "stats unavailable")
		return
	}

	sum, err := repo.GetScheduleSummary(c.Request.Context(), db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, sum)
}
