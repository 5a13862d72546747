// Package services defines the business logic for recurring slots, their
// date-specific exceptions, and schedule projection. This file centralizes
// common service-level error values so that they can be consistently returned
// by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Slot-related errors.
var (
	// ErrSlotNotFound indicates that the requested slot does not exist.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrEmptyTitle is returned when a slot is created or renamed with a
	// title that is empty after normalization.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrInvalidDayOfWeek is returned when a day-of-week value is outside
	// 0 (Sunday) through 6 (Saturday).
	ErrInvalidDayOfWeek = errors.New("day of week must be between 0 and 6")

	// ErrEffectiveWindow is returned when effective_until is not strictly
	// after effective_from.
	ErrEffectiveWindow = errors.New("effective_until must be after effective_from")

	// ErrCapacityExceeded is returned when creating a slot on a day that
	// already holds MaxSlotsPerDay active slots.
	ErrCapacityExceeded = errors.New("maximum slots per day reached")

	// ErrSlotConflict is returned when a time range overlaps another active
	// slot on the same day of week.
	ErrSlotConflict = errors.New("time conflict with existing slot")
)

// Exception-related errors.
var (
	// ErrExceptionNotFound indicates that the requested exception does not exist.
	ErrExceptionNotFound = errors.New("exception not found")

	// ErrDuplicateException is returned when an exception already exists
	// for the same (slot, date) pair.
	ErrDuplicateException = errors.New("exception already exists for this slot and date")
)

// Range/projection errors.
var (
	// ErrDateOrder is returned when a date range's end precedes its start.
	ErrDateOrder = errors.New("end date must not be before start date")

	// ErrRangeTooLarge is returned when a projection range exceeds the
	// configured horizon.
	ErrRangeTooLarge = errors.New("date range too large")
)
