// Exception HTTP handlers.
//
// This file exposes REST endpoints for slot exception resources:
//   - POST   /exceptions                          (create, Idempotency-Key supported)
//   - GET    /exceptions                          (list; ?slot_id / date range filters)
//   - GET    /exceptions/{id}                     (fetch one)
//   - PUT    /exceptions/{id}                     (partial update)
//   - DELETE /exceptions/{id}                     (remove; date reverts to recurring)
//   - GET    /exceptions/effective/{slotId}/{date} (resolve one slot on one date)
//
// An exception never mutates the slot row it points at: deleting the exception
// restores the recurring behavior for that date.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/domain"
	"github.com/tbourn/go-schedule-backend/internal/repo"
	"github.com/tbourn/go-schedule-backend/internal/services"
)

//
// DTOs
//

// CreateExceptionRequest is the JSON payload for creating an exception.
type CreateExceptionRequest struct {
	// SlotID references the slot being excepted (UUID).
	SlotID string `json:"slot_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// ExceptionDate selects the occurrence, "YYYY-MM-DD".
	ExceptionDate string `json:"exception_date" binding:"required" example:"2024-03-11"`
	// StartTime overrides the start for that date, "HH:MM".
	StartTime *string `json:"start_time" example:"14:00"`
	// EndTime overrides the end for that date, "HH:MM".
	EndTime *string `json:"end_time" example:"15:00"`
	// IsCancelled cancels the occurrence; any times are dropped.
	IsCancelled bool `json:"is_cancelled" example:"false"`
	// Reason optionally documents the change (max 500 chars).
	Reason string `json:"reason" binding:"max=500" example:"Public holiday"`
}

// UpdateExceptionRequest is the JSON payload for partially updating an
// exception. Omitted fields keep their stored value; an empty-string time
// clears that override.
type UpdateExceptionRequest struct {
	StartTime   *string `json:"start_time" example:"14:00"`
	EndTime     *string `json:"end_time" example:"15:00"`
	IsCancelled *bool   `json:"is_cancelled"`
	Reason      *string `json:"reason" binding:"omitempty,max=500"`
}

// ListExceptionsResponse wraps a page of exceptions and pagination information.
type ListExceptionsResponse struct {
	Exceptions []domain.SlotException `json:"exceptions"`
	Pagination Pagination             `json:"pagination"`
}

//
// Helpers
//

// failExceptionError maps exception service errors onto HTTP responses.
// Returns false when err was nil. Matching uses errors.Is because the domain
// parse errors arrive wrapped with the offending input value.
func failExceptionError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrSlotNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "slot not found")
	case errors.Is(err, services.ErrExceptionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "exception not found")
	case errors.Is(err, services.ErrDuplicateException):
		fail(c, http.StatusConflict, ErrCodeConflict, "an exception already exists for this slot and date")
	case errors.Is(err, services.ErrSlotConflict):
		fail(c, http.StatusConflict, ErrCodeConflict, "override time range overlaps another slot on that day")
	case errors.Is(err, domain.ErrTimeFormat):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "times must be HH:MM (24h)")
	case errors.Is(err, domain.ErrTimeOrder):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start_time must be before end_time")
	case errors.Is(err, domain.ErrDateFormat):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD")
	case errors.Is(err, services.ErrDateOrder):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start_date must not be after end_date")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
	return true
}

// exceptionDB exposes the concrete service's DB handle for best-effort
// idempotency without widening the ExceptionService contract.
func (h *Handlers) exceptionDB() *gorm.DB {
	if svc, ok := h.exSvc.(*services.ExceptionService); ok {
		return svc.DB
	}
	return nil
}

//
// Handlers
//

// CreateException godoc
// @ID          createException
// @Summary     Create an exception
// @Description Records a date-specific override or cancellation for a slot. At most one
// @Description exception may exist per (slot, date).
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Exceptions
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.CreateExceptionRequest  true  "Create exception payload"
//
// @Success     201  {object}  domain.SlotException
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Slot not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Duplicate exception or time conflict"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /exceptions [post]
func (h *Handlers) CreateException(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: slot_id and exception_date are required")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middlewareGetIdempotencyKey(c)
	if idemKey != "" {
		if db := h.exceptionDB(); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, currentUser, idemScopeExceptions, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := h.exSvc.Get(ctx, rec.ResourceID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	ex, err := h.exSvc.Create(ctx, services.CreateExceptionInput{
		SlotID:        req.SlotID,
		ExceptionDate: req.ExceptionDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		IsCancelled:   req.IsCancelled,
		Reason:        req.Reason,
	})
	if failExceptionError(c, err) {
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if db := h.exceptionDB(); db != nil {
			_, _ = repo.CreateIdempotency(ctx, db, currentUser, idemScopeExceptions, idemKey, ex.ID, http.StatusCreated, idemTTL)
		}
	}

	ok(c, http.StatusCreated, ex)
}

// ListExceptions godoc
// @ID          listExceptions
// @Summary     List exceptions
// @Description Returns exceptions ordered by date. With ?slot_id only that slot's
// @Description exceptions are returned; with ?start_date and ?end_date only those in the
// @Description inclusive range. Unfiltered requests are paginated.
// @Tags        Exceptions
// @Produce     json
//
// @Param       slot_id     query  string  false "Filter by slot (UUID)"
// @Param       start_date  query  string  false "Range start (YYYY-MM-DD)"
// @Param       end_date    query  string  false "Range end (YYYY-MM-DD)"
// @Param       page        query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size   query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListExceptionsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /exceptions [get]
func (h *Handlers) ListExceptions(c *gin.Context) {
	ctx := c.Request.Context()

	if slotID := strings.TrimSpace(c.Query("slot_id")); slotID != "" {
		items, err := h.exSvc.ListBySlot(ctx, slotID)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
			return
		}
		ok(c, http.StatusOK, items)
		return
	}

	startDate := strings.TrimSpace(c.Query("start_date"))
	endDate := strings.TrimSpace(c.Query("end_date"))
	if startDate != "" || endDate != "" {
		if startDate == "" || endDate == "" {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start_date and end_date must be supplied together")
			return
		}
		items, err := h.exSvc.ListInRange(ctx, startDate, endDate)
		if failExceptionError(c, err) {
			return
		}
		ok(c, http.StatusOK, items)
		return
	}

	page, pageSize := clampPagination(c)
	items, total, err := h.exSvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListExceptionsResponse{
		Exceptions: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetException godoc
// @ID          getException
// @Summary     Fetch one exception
// @Tags        Exceptions
// @Produce     json
//
// @Param       id  path  string  true  "Exception ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.SlotException
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Exception not found"
// @Router      /exceptions/{id} [get]
func (h *Handlers) GetException(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "exception id must be a UUID")
		return
	}

	ex, err := h.exSvc.Get(c.Request.Context(), id)
	if failExceptionError(c, err) {
		return
	}
	ok(c, http.StatusOK, ex)
}

// UpdateException godoc
// @ID          updateException
// @Summary     Update an exception
// @Description Merges the supplied fields into the exception. Setting is_cancelled drops
// @Description any time overrides; supplying both times re-runs the overlap check.
// @Tags        Exceptions
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Exception ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateExceptionRequest  true  "Partial update payload"
//
// @Success     200  {object} domain.SlotException
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Exception not found"
// @Failure     409  {object} handlers.ErrorResponse "Time conflict"
// @Router      /exceptions/{id} [put]
func (h *Handlers) UpdateException(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "exception id must be a UUID")
		return
	}

	var req UpdateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ex, err := h.exSvc.Update(c.Request.Context(), id, services.UpdateExceptionInput{
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsCancelled: req.IsCancelled,
		Reason:      req.Reason,
	})
	if failExceptionError(c, err) {
		return
	}
	ok(c, http.StatusOK, ex)
}

// DeleteException godoc
// @ID          deleteException
// @Summary     Delete an exception
// @Description Removes the exception; the slot reverts to its default recurring behavior
// @Description for that date.
// @Tags        Exceptions
// @Produce     json
//
// @Param       id  path  string  true  "Exception ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Exception not found"
// @Router      /exceptions/{id} [delete]
func (h *Handlers) DeleteException(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "exception id must be a UUID")
		return
	}

	if err := h.exSvc.Delete(c.Request.Context(), id); failExceptionError(c, err) {
		return
	}
	noContent(c)
}

// GetEffectiveSlot godoc
// @ID          getEffectiveSlot
// @Summary     Resolve one slot on one date
// @Description Returns the slot together with the exception for that date, when one
// @Description exists. The result is deterministic: two calls without intervening writes
// @Description return the same answer.
// @Tags        Exceptions
// @Produce     json
//
// @Param       slotId  path  string  true  "Slot ID (UUID)"       format(uuid)
// @Param       date    path  string  true  "Date (YYYY-MM-DD)"
//
// @Success     200  {object} services.EffectiveSlot
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Slot not found"
// @Router      /exceptions/effective/{slotId}/{date} [get]
func (h *Handlers) GetEffectiveSlot(c *gin.Context) {
	slotID := c.Param("slotId")
	if _, err := uuid.Parse(slotID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "slot id must be a UUID")
		return
	}

	eff, err := h.exSvc.GetEffectiveForDate(c.Request.Context(), slotID, c.Param("date"))
	if failExceptionError(c, err) {
		return
	}
	ok(c, http.StatusOK, eff)
}
