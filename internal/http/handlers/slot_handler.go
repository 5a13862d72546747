// Slot HTTP handlers.
//
// This file exposes REST endpoints for recurring slot resources:
//   - POST   /slots                 (create, Idempotency-Key supported)
//   - GET    /slots                 (list, paginated, ETag support)
//   - GET    /slots/weekly          (active slots grouped by day of week)
//   - GET    /slots/day/{dayOfWeek} (active slots for one day)
//   - GET    /slots/{id}            (fetch one)
//   - PUT    /slots/{id}            (update the recurring definition)
//   - PUT    /slots/{id}/exception  (override or cancel one date)
//   - DELETE /slots/{id}            (soft delete; ?permanent / ?date variants)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
//
// The recurring definition and its per-date overrides are deliberately split
// across two PUT endpoints. A `date` field in the PUT /slots/{id} payload is
// rejected so a caller cannot accidentally edit every week when they meant
// one occurrence.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/domain"
	"github.com/tbourn/go-schedule-backend/internal/repo"
	"github.com/tbourn/go-schedule-backend/internal/services"
	"github.com/tbourn/go-schedule-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// SlotService defines slot lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SlotService interface {
	// Create validates and persists a new recurring slot.
	Create(ctx context.Context, in services.CreateSlotInput) (*domain.Slot, error)
	// Get fetches one slot by ID (soft-deleted included).
	Get(ctx context.Context, id string) (*domain.Slot, error)
	// ListPage returns a page of slots and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Slot, int64, error)
	// ListByDay returns active slots for one day of week.
	ListByDay(ctx context.Context, dayOfWeek int) ([]domain.Slot, error)
	// WeeklySchedule groups active slots by day of week (0..6).
	WeeklySchedule(ctx context.Context) (map[int][]domain.Slot, error)
	// EffectiveInRange returns active slots effective within a date range.
	EffectiveInRange(ctx context.Context, startDate, endDate string) ([]domain.Slot, error)
	// Update merges partial changes into the recurring definition.
	Update(ctx context.Context, id string, in services.UpdateSlotInput) (*domain.Slot, error)
	// SoftDelete deactivates a slot.
	SoftDelete(ctx context.Context, id string) error
	// Delete removes a slot and its exceptions permanently.
	Delete(ctx context.Context, id string) error
}

// ExceptionService defines exception operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ExceptionService interface {
	// Create validates and persists a new exception.
	Create(ctx context.Context, in services.CreateExceptionInput) (*domain.SlotException, error)
	// Get fetches one exception by ID.
	Get(ctx context.Context, id string) (*domain.SlotException, error)
	// ListPage returns a page of exceptions and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.SlotException, int64, error)
	// ListBySlot returns one slot's exceptions, date ascending.
	ListBySlot(ctx context.Context, slotID string) ([]domain.SlotException, error)
	// ListInRange returns exceptions dated within the inclusive range.
	ListInRange(ctx context.Context, startDate, endDate string) ([]domain.SlotException, error)
	// Update merges partial changes into an exception.
	Update(ctx context.Context, id string, in services.UpdateExceptionInput) (*domain.SlotException, error)
	// UpsertForDate creates or updates the exception for (slot, date).
	UpsertForDate(ctx context.Context, slotID, date string, start, end *string, cancel bool, reason string) (*domain.SlotException, bool, error)
	// GetEffectiveForDate resolves one slot against one date's exception.
	GetEffectiveForDate(ctx context.Context, slotID, date string) (*services.EffectiveSlot, error)
	// Delete removes an exception permanently.
	Delete(ctx context.Context, id string) error
}

// ScheduleService projects the recurring schedule over calendar dates.
type ScheduleService interface {
	// ProjectRange materializes one DayProjection per date in the range.
	ProjectRange(ctx context.Context, startDate, endDate string) ([]services.DayProjection, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for slots, exceptions, and schedule
// projection. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	slotSvc  SlotService
	exSvc    ExceptionService
	schedSvc ScheduleService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(slotSvc SlotService, exSvc ExceptionService, schedSvc ScheduleService) *Handlers {
	return &Handlers{slotSvc: slotSvc, exSvc: exSvc, schedSvc: schedSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// CreateSlotRequest is the JSON payload for creating a recurring slot.
type CreateSlotRequest struct {
	// Title names the slot (1-100 chars).
	Title string `json:"title" binding:"required,min=1,max=100" example:"Morning standup"`
	// Description optionally elaborates on the slot (max 500 chars).
	Description string `json:"description" binding:"max=500" example:"Team sync in the main room"`
	// DayOfWeek selects the weekday: 0=Sunday .. 6=Saturday.
	DayOfWeek *int `json:"day_of_week" binding:"required" example:"1"`
	// StartTime is the start of the window, "HH:MM" 24h.
	StartTime string `json:"start_time" binding:"required" example:"09:00"`
	// EndTime is the end of the window, "HH:MM" 24h, strictly after StartTime.
	EndTime string `json:"end_time" binding:"required" example:"10:00"`
	// IsRecurring defaults to true when omitted.
	IsRecurring *bool `json:"is_recurring" example:"true"`
	// EffectiveFrom is the first date the slot applies, "YYYY-MM-DD".
	EffectiveFrom string `json:"effective_from" binding:"required" example:"2024-01-01"`
	// EffectiveUntil optionally ends the effective window, strictly after EffectiveFrom.
	EffectiveUntil *string `json:"effective_until" example:"2024-06-30"`
}

// UpdateSlotRequest is the JSON payload for updating a recurring slot
// definition. All fields are optional; omitted fields keep their stored value.
//
// Date is accepted only to be rejected: a payload carrying it gets a 400
// pointing at PUT /slots/{id}/exception, the endpoint for per-date changes.
type UpdateSlotRequest struct {
	Title          *string `json:"title" binding:"omitempty,min=1,max=100" example:"Morning standup"`
	Description    *string `json:"description" binding:"omitempty,max=500"`
	DayOfWeek      *int    `json:"day_of_week" example:"2"`
	StartTime      *string `json:"start_time" example:"09:30"`
	EndTime        *string `json:"end_time" example:"10:30"`
	IsRecurring    *bool   `json:"is_recurring"`
	EffectiveFrom  *string `json:"effective_from" example:"2024-01-01"`
	EffectiveUntil *string `json:"effective_until" example:"2024-06-30"`
	IsActive       *bool   `json:"is_active"`

	// Date is not a recurring-slot field; see UpsertSlotException.
	Date *string `json:"date"`
}

// UpsertSlotExceptionRequest is the JSON payload for overriding or cancelling
// one occurrence of a slot.
type UpsertSlotExceptionRequest struct {
	// Date selects the occurrence, "YYYY-MM-DD".
	Date string `json:"date" binding:"required" example:"2024-03-11"`
	// StartTime overrides the start for that date, "HH:MM".
	StartTime *string `json:"start_time" example:"14:00"`
	// EndTime overrides the end for that date, "HH:MM".
	EndTime *string `json:"end_time" example:"15:00"`
	// IsCancelled cancels the occurrence; any times are dropped.
	IsCancelled bool `json:"is_cancelled" example:"false"`
	// Reason optionally documents the change (max 500 chars).
	Reason string `json:"reason" binding:"max=500" example:"Room unavailable"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListSlotsResponse wraps a page of slots and pagination information.
type ListSlotsResponse struct {
	Slots      []domain.Slot `json:"slots"`
	Pagination Pagination    `json:"pagination"`
}

// WeeklyScheduleResponse maps day of week (0..6 as string keys in JSON) to the
// active slots recurring on that day.
type WeeklyScheduleResponse struct {
	Week map[int][]domain.Slot `json:"week"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// failSlotWriteError maps the service-level write errors shared by slot create
// and update onto HTTP responses. Returns false when err was nil. Matching uses
// errors.Is because the domain parse errors arrive wrapped with the offending
// input value.
func failSlotWriteError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrEmptyTitle):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required")
	case errors.Is(err, services.ErrInvalidDayOfWeek):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	case errors.Is(err, domain.ErrTimeFormat):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "times must be HH:MM (24h)")
	case errors.Is(err, domain.ErrTimeOrder):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start_time must be before end_time")
	case errors.Is(err, domain.ErrDateFormat):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD")
	case errors.Is(err, services.ErrEffectiveWindow):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "effective_until must be after effective_from")
	case errors.Is(err, services.ErrCapacityExceeded):
		fail(c, http.StatusConflict, ErrCodeCapacityExceeded,
			fmt.Sprintf("day already holds the maximum of %d slots", services.MaxSlotsPerDay))
	case errors.Is(err, services.ErrSlotConflict):
		fail(c, http.StatusConflict, ErrCodeConflict, "time range overlaps an existing slot on that day")
	case errors.Is(err, services.ErrSlotNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "slot not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
	return true
}

// slotDB exposes the concrete service's DB handle for best-effort extras
// (ETags, idempotency) without widening the SlotService contract.
func (h *Handlers) slotDB() *gorm.DB {
	if svc, ok := h.slotSvc.(*services.SlotService); ok {
		return svc.DB
	}
	return nil
}

//
// Handlers
//

// CreateSlot godoc
// @ID          createSlot
// @Summary     Create a recurring slot
// @Description Creates a weekly recurring slot. At most two active slots may share a day,
// @Description and time ranges on the same day must not overlap (touching boundaries are fine).
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Slots
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CreateSlotRequest  true  "Create slot payload"
//
// @Success     201  {object}  domain.Slot
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Capacity exceeded or time conflict"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /slots [post]
func (h *Handlers) CreateSlot(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: title, day_of_week, start_time, end_time and effective_from are required")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middlewareGetIdempotencyKey(c)
	if idemKey != "" {
		if db := h.slotDB(); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, currentUser, idemScopeSlots, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := h.slotSvc.Get(ctx, rec.ResourceID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	slot, err := h.slotSvc.Create(ctx, services.CreateSlotInput{
		Title:          req.Title,
		Description:    req.Description,
		DayOfWeek:      *req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsRecurring:    req.IsRecurring,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveUntil: req.EffectiveUntil,
	})
	if failSlotWriteError(c, err) {
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if db := h.slotDB(); db != nil {
			_, _ = repo.CreateIdempotency(ctx, db, currentUser, idemScopeSlots, idemKey, slot.ID, http.StatusCreated, idemTTL)
		}
	}

	ok(c, http.StatusCreated, slot)
}

// ListSlots godoc
// @ID          listSlots
// @Summary     List slots (paginated)
// @Description Returns a page of all slots (active and soft-deleted), ordered by day and start time.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Tags        Slots
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListSlotsResponse
// @Header      200  {string} ETag           "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /slots [get]
func (h *Handlers) ListSlots(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if db := h.slotDB(); db != nil {
		count, maxTS, err := repo.SlotsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"slots:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.slotSvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListSlotsResponse{
		Slots: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetSlot godoc
// @ID          getSlot
// @Summary     Fetch one slot
// @Description Returns a slot by ID. Soft-deleted slots remain addressable (is_active=false).
// @Tags        Slots
// @Produce     json
//
// @Param       id  path  string  true  "Slot ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Slot
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Slot not found"
// @Router      /slots/{id} [get]
func (h *Handlers) GetSlot(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "slot id must be a UUID")
		return
	}

	slot, err := h.slotSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSlotNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "slot not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, slot)
}

// UpdateSlot godoc
// @ID          updateSlot
// @Summary     Update a recurring slot definition
// @Description Merges the supplied fields into the recurring slot. Affects every future
// @Description occurrence; to change a single date, use PUT /slots/{id}/exception.
// @Description A `date` field in this payload is rejected with 400.
// @Tags        Slots
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Slot ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateSlotRequest  true  "Partial update payload"
//
// @Success     200  {object} domain.Slot
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Slot not found"
// @Failure     409  {object} handlers.ErrorResponse "Time conflict"
// @Router      /slots/{id} [put]
func (h *Handlers) UpdateSlot(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "slot id must be a UUID")
		return
	}

	var req UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if req.Date != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest,
			"date is not a recurring-slot field; use PUT /slots/{id}/exception to change a single date")
		return
	}

	slot, err := h.slotSvc.Update(c.Request.Context(), id, services.UpdateSlotInput{
		Title:          req.Title,
		Description:    req.Description,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsRecurring:    req.IsRecurring,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveUntil: req.EffectiveUntil,
		IsActive:       req.IsActive,
	})
	if failSlotWriteError(c, err) {
		return
	}
	ok(c, http.StatusOK, slot)
}

// UpsertSlotException godoc
// @ID          upsertSlotException
// @Summary     Override or cancel one occurrence
// @Description Creates or updates the exception for (slot, date): overriding the times for
// @Description that date, or cancelling the occurrence. The recurring definition is untouched.
// @Tags        Slots
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Slot ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpsertSlotExceptionRequest  true  "Per-date override payload"
//
// @Success     200  {object} domain.SlotException "Existing exception updated"
// @Success     201  {object} domain.SlotException "New exception created"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Slot not found"
// @Failure     409  {object} handlers.ErrorResponse "Time conflict"
// @Router      /slots/{id}/exception [put]
func (h *Handlers) UpsertSlotException(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "slot id must be a UUID")
		return
	}

	var req UpsertSlotExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: date is required")
		return
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		if req.IsCancelled {
			reason = "Slot cancelled for specific date"
		} else {
			reason = "Slot updated for specific date"
		}
	}

	ex, created, err := h.exSvc.UpsertForDate(c.Request.Context(), id, req.Date, req.StartTime, req.EndTime, req.IsCancelled, reason)
	if failExceptionError(c, err) {
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, ex)
}

// DeleteSlot godoc
// @ID          deleteSlot
// @Summary     Delete a slot (or cancel one date)
// @Description Without query params, soft-deletes the slot (is_active=false; it stops
// @Description appearing in day listings, conflict checks and projections but remains
// @Description addressable by ID). With ?permanent=true the slot and its exceptions are
// @Description removed for good. With ?date=YYYY-MM-DD only that occurrence is cancelled,
// @Description recorded as a cancellation exception.
// @Tags        Slots
// @Produce     json
//
// @Param       id         path   string  true   "Slot ID (UUID)"  format(uuid)
// @Param       date       query  string  false  "Cancel only this date (YYYY-MM-DD)"
// @Param       permanent  query  bool    false  "Hard delete the slot and its exceptions"
//
// @Success     200  {object} domain.SlotException "Occurrence cancelled (date variant)"
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Slot not found"
// @Router      /slots/{id} [delete]
func (h *Handlers) DeleteSlot(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "slot id must be a UUID")
		return
	}
	ctx := c.Request.Context()

	// Cancel a single occurrence instead of touching the recurring slot.
	if date := strings.TrimSpace(c.Query("date")); date != "" {
		ex, _, err := h.exSvc.UpsertForDate(ctx, id, date, nil, nil, true, "Slot cancelled for specific date")
		if failExceptionError(c, err) {
			return
		}
		ok(c, http.StatusOK, ex)
		return
	}

	var err error
	if c.Query("permanent") == "true" {
		err = h.slotSvc.Delete(ctx, id)
	} else {
		err = h.slotSvc.SoftDelete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, services.ErrSlotNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "slot not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// ListSlotsByDay godoc
// @ID          listSlotsByDay
// @Summary     List active slots for one day of week
// @Tags        Slots
// @Produce     json
//
// @Param       dayOfWeek  path  int  true  "Day of week: 0=Sunday .. 6=Saturday"  minimum(0) maximum(6)
//
// @Success     200  {array}  domain.Slot
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /slots/day/{dayOfWeek} [get]
func (h *Handlers) ListSlotsByDay(c *gin.Context) {
	day := utils.AtoiDefault(c.Param("dayOfWeek"), -1)

	slots, err := h.slotSvc.ListByDay(c.Request.Context(), day)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDayOfWeek) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "day_of_week must be between 0 (Sunday) and 6 (Saturday)")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, slots)
}

// GetWeeklySchedule godoc
// @ID          getWeeklySchedule
// @Summary     Weekly recurring template
// @Description Returns the active slots grouped by day of week, with an entry for every
// @Description day 0..6. This is the recurring template; for the calendar view with
// @Description exceptions applied, see GET /slots/schedule.
// @Tags        Slots
// @Produce     json
//
// @Success     200  {object} handlers.WeeklyScheduleResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /slots/weekly [get]
func (h *Handlers) GetWeeklySchedule(c *gin.Context) {
	week, err := h.slotSvc.WeeklySchedule(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, WeeklyScheduleResponse{Week: week})
}

// idempotency scopes separate key namespaces per resource so the same key can
// safely be reused across endpoints.
const (
	idemScopeSlots      = "slots"
	idemScopeExceptions = "exceptions"
)

// idemTTL bounds how long a stored idempotency result can be replayed.
const idemTTL = 24 * time.Hour

// middlewareGetIdempotencyKey extracts an idempotency key if an upstream
// middleware has already validated/stashed it. The fallback behavior reads
// the "Idempotency-Key" header directly when no dedicated middleware exists.
func middlewareGetIdempotencyKey(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}
