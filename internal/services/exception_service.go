// Package services – ExceptionService
//
// This file implements the ExceptionService, which manages date-specific
// overrides and cancellations of recurring slots. It enforces existence of
// the referenced slot, the one-exception-per-slot-per-date rule, and the
// overlap invariant against other slots on the date's day of week.
//
// Service-level errors (e.g. ErrDuplicateException, ErrSlotConflict) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/domain"
	"github.com/tbourn/go-schedule-backend/internal/repo"
)

// ExceptionRepo defines the repository contract required by ExceptionService
// for exception rows.
type ExceptionRepo interface {
	// CreateException inserts a row, returning repo.ErrDuplicate when the
	// (slot_id, exception_date) unique index rejects it.
	CreateException(ctx context.Context, db *gorm.DB, ex *domain.SlotException) (*domain.SlotException, error)

	// GetException fetches an exception by ID.
	GetException(ctx context.Context, db *gorm.DB, id string) (*domain.SlotException, error)

	// GetExceptionBySlotAndDate fetches the exception for a (slot, date) pair.
	GetExceptionBySlotAndDate(ctx context.Context, db *gorm.DB, slotID, date string) (*domain.SlotException, error)

	// ListExceptions returns all exceptions, date ascending.
	ListExceptions(ctx context.Context, db *gorm.DB) ([]domain.SlotException, error)

	// CountExceptions returns the total number of exception rows.
	CountExceptions(ctx context.Context, db *gorm.DB) (int64, error)

	// ListExceptionsPage returns a page of exceptions in date order.
	ListExceptionsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.SlotException, error)

	// ListExceptionsBySlot returns one slot's exceptions, date ascending.
	ListExceptionsBySlot(ctx context.Context, db *gorm.DB, slotID string) ([]domain.SlotException, error)

	// ListExceptionsInRange returns exceptions dated within a range.
	ListExceptionsInRange(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]domain.SlotException, error)

	// UpdateException persists a loaded exception's full state.
	UpdateException(ctx context.Context, db *gorm.DB, ex *domain.SlotException) error

	// DeleteException removes an exception, reporting whether a row existed.
	DeleteException(ctx context.Context, db *gorm.DB, id string) (bool, error)
}

// SlotReader is the narrow view of the slot repository the exception rules
// need: resolving the referenced slot and listing overlap candidates.
type SlotReader interface {
	GetSlot(ctx context.Context, db *gorm.DB, id string) (*domain.Slot, error)
	ListConflictCandidates(ctx context.Context, db *gorm.DB, dayOfWeek int, excludeID string) ([]domain.Slot, error)
}

// ExceptionService provides the use-cases around slot exceptions. The
// (slot_id, exception_date) uniqueness pre-check and the insert are separate
// storage calls; the unique index backs the pre-check up, and a violation is
// reported as the same ErrDuplicateException the pre-check would have
// produced.
type ExceptionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the exception repository used by this service.
	Repo ExceptionRepo
	// Slots resolves slot references and conflict candidates.
	Slots SlotReader

	// ReasonMaxLen caps stored reasons by rune length.
	ReasonMaxLen int
}

// NewExceptionService constructs an ExceptionService with the documented
// field limits.
func NewExceptionService(db *gorm.DB, r ExceptionRepo, slots SlotReader) *ExceptionService {
	return &ExceptionService{DB: db, Repo: r, Slots: slots, ReasonMaxLen: 500}
}

// EffectiveSlot is the single-slot, single-date form of projection: the slot
// record plus the exception for that date, if one exists.
type EffectiveSlot struct {
	Slot      *domain.Slot          `json:"slot"`
	Exception *domain.SlotException `json:"exception,omitempty"`
}

// CreateExceptionInput carries the caller-supplied fields for a new exception.
type CreateExceptionInput struct {
	SlotID        string
	ExceptionDate string
	StartTime     *string
	EndTime       *string
	IsCancelled   bool
	Reason        string
}

// Create validates and persists a new exception.
//
// Validation and invariants, in order:
//   - exception_date parses as YYYY-MM-DD
//   - slot_id references an existing slot (ErrSlotNotFound)
//   - no exception exists yet for (slot_id, exception_date)
//     (ErrDuplicateException)
//   - when not cancelled and both times are supplied: the range parses with
//     start strictly before end, and does not overlap any *other* active
//     slot on the date's day of week (ErrSlotConflict); the excepted slot
//     itself is excluded since it is expected to occupy that day/time
//
// Cancellation drops any supplied times: a cancelled occurrence has no
// effective range.
func (s *ExceptionService) Create(ctx context.Context, in CreateExceptionInput) (*domain.SlotException, error) {
	date, err := domain.ParseDate(in.ExceptionDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.Slots.GetSlot(ctx, s.DB, in.SlotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	if _, err := s.Repo.GetExceptionBySlotAndDate(ctx, s.DB, in.SlotID, in.ExceptionDate); err == nil {
		return nil, ErrDuplicateException
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	start, end := normalizeOptionalTime(in.StartTime), normalizeOptionalTime(in.EndTime)
	if in.IsCancelled {
		start, end = nil, nil
	} else if start != nil && end != nil {
		rng, err := domain.NewTimeRange(*start, *end)
		if err != nil {
			return nil, err
		}
		ns, ne := rng.Start.String(), rng.End.String()
		start, end = &ns, &ne
		if err := s.checkConflict(ctx, domain.DayOfWeek(date), rng, in.SlotID); err != nil {
			return nil, err
		}
	}

	ex := &domain.SlotException{
		SlotID:        in.SlotID,
		ExceptionDate: in.ExceptionDate,
		StartTime:     start,
		EndTime:       end,
		IsCancelled:   in.IsCancelled,
		Reason:        s.clipReason(in.Reason),
	}
	created, err := s.Repo.CreateException(ctx, s.DB, ex)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateException
		}
		return nil, err
	}
	return created, nil
}

// UpdateExceptionInput carries partial updates; nil fields keep the stored
// value. An empty-string time clears the override for that bound.
type UpdateExceptionInput struct {
	StartTime   *string
	EndTime     *string
	IsCancelled *bool
	Reason      *string
}

// Update merges the supplied fields into an existing exception and persists
// it. Whenever the resulting state is not cancelled and both times resolve to
// non-empty values, the range and overlap invariants are re-validated exactly
// as in Create. Returns ErrExceptionNotFound when the ID is unknown.
func (s *ExceptionService) Update(ctx context.Context, id string, in UpdateExceptionInput) (*domain.SlotException, error) {
	ex, err := s.Repo.GetException(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExceptionNotFound
		}
		return nil, err
	}

	if in.StartTime != nil {
		ex.StartTime = normalizeOptionalTime(in.StartTime)
	}
	if in.EndTime != nil {
		ex.EndTime = normalizeOptionalTime(in.EndTime)
	}
	if in.IsCancelled != nil {
		ex.IsCancelled = *in.IsCancelled
	}
	if in.Reason != nil {
		ex.Reason = s.clipReason(*in.Reason)
	}

	if ex.IsCancelled {
		ex.StartTime, ex.EndTime = nil, nil
	} else if ex.StartTime != nil && ex.EndTime != nil {
		rng, err := domain.NewTimeRange(*ex.StartTime, *ex.EndTime)
		if err != nil {
			return nil, err
		}
		ns, ne := rng.Start.String(), rng.End.String()
		ex.StartTime, ex.EndTime = &ns, &ne

		date, err := domain.ParseDate(ex.ExceptionDate)
		if err != nil {
			return nil, err
		}
		if err := s.checkConflict(ctx, domain.DayOfWeek(date), rng, ex.SlotID); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.UpdateException(ctx, s.DB, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// UpsertForDate creates or updates the exception for (slotID, date) in one
// operation. It backs the explicit per-date slot endpoints: overriding times
// for one date, or cancelling one occurrence. The reported bool is true when
// a new exception row was created.
//
// When cancel is false and no times are supplied, the slot's own times are
// recorded so the override captures the occurrence as it stood.
func (s *ExceptionService) UpsertForDate(ctx context.Context, slotID, date string, start, end *string, cancel bool, reason string) (*domain.SlotException, bool, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, false, err
	}
	slot, err := s.Slots.GetSlot(ctx, s.DB, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrSlotNotFound
		}
		return nil, false, err
	}

	if !cancel {
		if normalizeOptionalTime(start) == nil {
			start = &slot.StartTime
		}
		if normalizeOptionalTime(end) == nil {
			end = &slot.EndTime
		}
	}

	existing, err := s.Repo.GetExceptionBySlotAndDate(ctx, s.DB, slotID, date)
	switch {
	case err == nil:
		cancelled := cancel
		updated, err := s.Update(ctx, existing.ID, UpdateExceptionInput{
			StartTime:   start,
			EndTime:     end,
			IsCancelled: &cancelled,
			Reason:      &reason,
		})
		return updated, false, err
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := s.Create(ctx, CreateExceptionInput{
			SlotID:        slotID,
			ExceptionDate: date,
			StartTime:     start,
			EndTime:       end,
			IsCancelled:   cancel,
			Reason:        reason,
		})
		return created, true, err
	default:
		return nil, false, err
	}
}

// Get fetches one exception by ID.
func (s *ExceptionService) Get(ctx context.Context, id string) (*domain.SlotException, error) {
	ex, err := s.Repo.GetException(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExceptionNotFound
		}
		return nil, err
	}
	return ex, nil
}

// List returns all exceptions ordered by date (legacy, non-paginated).
func (s *ExceptionService) List(ctx context.Context) ([]domain.SlotException, error) {
	return s.Repo.ListExceptions(ctx, s.DB)
}

// ListPage returns a page of exceptions and the total count.
func (s *ExceptionService) ListPage(ctx context.Context, page, pageSize int) ([]domain.SlotException, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountExceptions(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.SlotException{}, 0, nil
	}

	items, err := s.Repo.ListExceptionsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// ListBySlot returns a slot's exceptions, date ascending.
func (s *ExceptionService) ListBySlot(ctx context.Context, slotID string) ([]domain.SlotException, error) {
	return s.Repo.ListExceptionsBySlot(ctx, s.DB, slotID)
}

// ListInRange returns exceptions dated within the inclusive range.
func (s *ExceptionService) ListInRange(ctx context.Context, startDate, endDate string) ([]domain.SlotException, error) {
	if err := validateDateRange(startDate, endDate); err != nil {
		return nil, err
	}
	return s.Repo.ListExceptionsInRange(ctx, s.DB, startDate, endDate)
}

// GetEffectiveForDate resolves how one slot stands on one date: the slot
// record plus the exception for that date when one exists. Two calls without
// intervening writes return identical results.
func (s *ExceptionService) GetEffectiveForDate(ctx context.Context, slotID, date string) (*EffectiveSlot, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}
	slot, err := s.Slots.GetSlot(ctx, s.DB, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	ex, err := s.Repo.GetExceptionBySlotAndDate(ctx, s.DB, slotID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &EffectiveSlot{Slot: slot}, nil
		}
		return nil, err
	}
	return &EffectiveSlot{Slot: slot, Exception: ex}, nil
}

// Delete removes an exception permanently; the date reverts to the slot's
// default recurring behavior. Returns ErrExceptionNotFound when absent.
func (s *ExceptionService) Delete(ctx context.Context, id string) error {
	ok, err := s.Repo.DeleteException(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrExceptionNotFound
	}
	return nil
}

// checkConflict mirrors SlotService's overlap test: the proposed range must
// not intersect any active slot on the day, excluding the excepted slot.
func (s *ExceptionService) checkConflict(ctx context.Context, dayOfWeek int, rng domain.TimeRange, excludeSlotID string) error {
	others, err := s.Slots.ListConflictCandidates(ctx, s.DB, dayOfWeek, excludeSlotID)
	if err != nil {
		return err
	}
	for _, other := range others {
		w, err := other.Window()
		if err != nil {
			return err
		}
		if rng.Overlaps(w) {
			return ErrSlotConflict
		}
	}
	return nil
}

func (s *ExceptionService) clipReason(reason string) string {
	if s.ReasonMaxLen > 0 && utf8.RuneCountInString(reason) > s.ReasonMaxLen {
		return string([]rune(reason)[:s.ReasonMaxLen])
	}
	return reason
}

// normalizeOptionalTime maps nil and empty strings to nil, leaving other
// values untouched for later parsing.
func normalizeOptionalTime(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
