// Package services – ScheduleService
//
// This file implements the ScheduleService, which materializes the effective
// calendar: for each date in a range, the slots occurring that day with any
// exception applied. The projection owns no state of its own; it is a pure
// function of the slot and exception tables plus the requested range, so any
// call can be recomputed from scratch (a caller paging through weeks simply
// calls again with a shifted range).
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/domain"
)

// DefaultMaxProjectionDays caps a single projection when no explicit horizon
// is configured. A year plus a leap day covers every practical calendar view.
const DefaultMaxProjectionDays = 366

// ScheduleSlotReader is the slot-side view the projector needs.
type ScheduleSlotReader interface {
	ListSlotsEffectiveInRange(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]domain.Slot, error)
}

// ScheduleExceptionReader is the exception-side view the projector needs.
type ScheduleExceptionReader interface {
	ListExceptionsInRange(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]domain.SlotException, error)
}

// ScheduleService composes the slot and exception repositories into calendar
// projections.
type ScheduleService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Slots supplies the active slots effective within the range.
	Slots ScheduleSlotReader
	// Exceptions supplies the overrides dated within the range.
	Exceptions ScheduleExceptionReader

	// MaxProjectionDays bounds a single ProjectRange call; values <= 0
	// fall back to DefaultMaxProjectionDays.
	MaxProjectionDays int
}

// NewScheduleService constructs a ScheduleService with the default horizon.
func NewScheduleService(db *gorm.DB, slots ScheduleSlotReader, exceptions ScheduleExceptionReader) *ScheduleService {
	return &ScheduleService{
		DB:                db,
		Slots:             slots,
		Exceptions:        exceptions,
		MaxProjectionDays: DefaultMaxProjectionDays,
	}
}

// SlotOccurrence is one slot's appearance on one concrete date, after any
// exception has been applied. StartTime/EndTime are the effective times: the
// exception's override when present, the slot's own otherwise. Cancelled
// occurrences are included with IsCancelled set so callers can render them;
// filtering them out is the caller's choice.
type SlotOccurrence struct {
	SlotID      string `json:"slot_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsRecurring bool   `json:"is_recurring"`
	IsException bool   `json:"is_exception"`
	ExceptionID string `json:"exception_id,omitempty"`
	IsCancelled bool   `json:"is_cancelled"`
	Reason      string `json:"reason,omitempty"`
}

// DayProjection is the effective schedule for one calendar date.
type DayProjection struct {
	Date      string           `json:"date"`
	DayOfWeek int              `json:"day_of_week"`
	Slots     []SlotOccurrence `json:"slots"`
}

// ProjectRange materializes one DayProjection per calendar date in the
// inclusive [startDate, endDate] range.
//
// Algorithm: fetch the active slots effective within the range and the
// exceptions dated within it, then walk the range one day at a time. For each
// date, every slot whose day of week matches contributes an occurrence; an
// exception keyed by (slot, date) overrides it, cancelling it or replacing
// its times, with the slot's own times as the fallback when the exception
// does not specify them.
func (s *ScheduleService) ProjectRange(ctx context.Context, startDate, endDate string) ([]DayProjection, error) {
	start, err := domain.ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDate(endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrDateOrder
	}

	horizon := s.MaxProjectionDays
	if horizon <= 0 {
		horizon = DefaultMaxProjectionDays
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > horizon {
		return nil, ErrRangeTooLarge
	}

	slots, err := s.Slots.ListSlotsEffectiveInRange(ctx, s.DB, startDate, endDate)
	if err != nil {
		return nil, err
	}
	exceptions, err := s.Exceptions.ListExceptionsInRange(ctx, s.DB, startDate, endDate)
	if err != nil {
		return nil, err
	}

	// Index exceptions by (slot, date) for the per-day lookups.
	overrides := make(map[string]*domain.SlotException, len(exceptions))
	for i := range exceptions {
		ex := &exceptions[i]
		overrides[ex.SlotID+"|"+ex.ExceptionDate] = ex
	}

	var out []DayProjection
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(domain.DateLayout)
		day := DayProjection{
			Date:      dateStr,
			DayOfWeek: domain.DayOfWeek(d),
			Slots:     []SlotOccurrence{},
		}
		for _, slot := range slots {
			if slot.DayOfWeek != day.DayOfWeek {
				continue
			}
			day.Slots = append(day.Slots, occurrenceFor(slot, overrides[slot.ID+"|"+dateStr]))
		}
		out = append(out, day)
	}
	return out, nil
}

// ProjectDate is the single-date convenience form of ProjectRange.
func (s *ScheduleService) ProjectDate(ctx context.Context, date string) (*DayProjection, error) {
	days, err := s.ProjectRange(ctx, date, date)
	if err != nil {
		return nil, err
	}
	return &days[0], nil
}

// occurrenceFor resolves one slot on one date against its optional exception.
func occurrenceFor(slot domain.Slot, ex *domain.SlotException) SlotOccurrence {
	occ := SlotOccurrence{
		SlotID:      slot.ID,
		Title:       slot.Title,
		Description: slot.Description,
		DayOfWeek:   slot.DayOfWeek,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		IsRecurring: slot.IsRecurring,
	}
	if ex == nil {
		return occ
	}
	occ.IsException = true
	occ.ExceptionID = ex.ID
	occ.IsCancelled = ex.IsCancelled
	occ.Reason = ex.Reason
	if ex.StartTime != nil && *ex.StartTime != "" {
		occ.StartTime = *ex.StartTime
	}
	if ex.EndTime != nil && *ex.EndTime != "" {
		occ.EndTime = *ex.EndTime
	}
	return occ
}
