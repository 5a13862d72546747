// Package services – SlotService
//
// This file implements the SlotService, which manages the lifecycle of
// recurring weekly slots. It normalizes titles and times, enforces the
// per-day capacity rule and the no-overlap invariant, and coordinates
// repository operations for creating, listing, updating, and deleting slots.
//
// Service-level errors (e.g., ErrCapacityExceeded, ErrSlotConflict) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/domain"
	"github.com/tbourn/go-schedule-backend/internal/repo"
)

// MaxSlotsPerDay is the per-day capacity rule: at most this many active slots
// may share one day of week. It is a standalone business constant, not
// derived from any other invariant.
const MaxSlotsPerDay = 2

// SlotRepo defines the repository contract required by SlotService.
// Implementations are responsible for persistence of slot rows.
type SlotRepo interface {
	// CreateSlot inserts a new slot row, assigning an ID when absent.
	CreateSlot(ctx context.Context, db *gorm.DB, s *domain.Slot) (*domain.Slot, error)

	// GetSlot fetches a slot by ID regardless of its active flag.
	GetSlot(ctx context.Context, db *gorm.DB, id string) (*domain.Slot, error)

	// ListSlots returns all slots ordered by (day_of_week, start_time).
	ListSlots(ctx context.Context, db *gorm.DB) ([]domain.Slot, error)

	// CountSlots returns the total number of slot rows for pagination.
	CountSlots(ctx context.Context, db *gorm.DB) (int64, error)

	// ListSlotsPage returns a page of slots in (day_of_week, start_time) order.
	ListSlotsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Slot, error)

	// ListSlotsByDay returns active slots for a day, start_time ascending.
	ListSlotsByDay(ctx context.Context, db *gorm.DB, dayOfWeek int) ([]domain.Slot, error)

	// CountActiveSlotsForDay counts active slots on a day of week.
	CountActiveSlotsForDay(ctx context.Context, db *gorm.DB, dayOfWeek int) (int64, error)

	// ListConflictCandidates returns active slots on a day, excluding one ID.
	ListConflictCandidates(ctx context.Context, db *gorm.DB, dayOfWeek int, excludeID string) ([]domain.Slot, error)

	// ListSlotsEffectiveInRange returns active slots effective within a range.
	ListSlotsEffectiveInRange(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]domain.Slot, error)

	// UpdateSlot persists a loaded slot's full state.
	UpdateSlot(ctx context.Context, db *gorm.DB, s *domain.Slot) error

	// SoftDeleteSlot deactivates a slot, reporting whether a row changed.
	SoftDeleteSlot(ctx context.Context, db *gorm.DB, id string) (bool, error)

	// DeleteSlot removes a slot and its exceptions permanently.
	DeleteSlot(ctx context.Context, db *gorm.DB, id string) (bool, error)
}

// SlotService provides slot-level operations. It enforces the capacity and
// overlap invariants before every write; the storage layer's constraints
// remain the last-resort guard when two writers race between the pre-check
// and the insert (see Create).
type SlotService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the slot repository used by this service.
	Repo SlotRepo

	// TitleMaxLen caps stored titles by rune length.
	TitleMaxLen int
	// DescriptionMaxLen caps stored descriptions by rune length.
	DescriptionMaxLen int
	// TitleLocale selects the casing rules for title normalization.
	// The zero value falls back to English.
	TitleLocale language.Tag
}

// NewSlotService constructs a SlotService with the documented field limits.
func NewSlotService(db *gorm.DB, r SlotRepo) *SlotService {
	return &SlotService{
		DB:                db,
		Repo:              r,
		TitleMaxLen:       100,
		DescriptionMaxLen: 500,
	}
}

// CreateSlotInput carries the caller-supplied fields for a new slot.
type CreateSlotInput struct {
	Title          string
	Description    string
	DayOfWeek      int
	StartTime      string
	EndTime        string
	IsRecurring    *bool // nil defaults to true
	EffectiveFrom  string
	EffectiveUntil *string // nil means open-ended
}

// Create validates and persists a new recurring slot.
//
// Validation and invariants, in order:
//   - title non-empty after normalization; day of week in 0..6
//   - start/end parse as HH:MM with start strictly before end
//   - effective_from parses; effective_until, when present, parses and is
//     strictly after effective_from
//   - the target day holds fewer than MaxSlotsPerDay active slots
//     (ErrCapacityExceeded)
//   - the [start, end) range overlaps no active slot on the same day
//     (ErrSlotConflict); ranges that merely touch do not conflict
//
// The capacity/overlap pre-checks and the insert are separate storage calls,
// so two concurrent writers can both pass the checks. A unique-constraint
// violation surfaced by the insert is mapped to ErrSlotConflict so racing
// callers observe the same outcome as the pre-check.
func (s *SlotService) Create(ctx context.Context, in CreateSlotInput) (*domain.Slot, error) {
	title := s.normalizeTitle(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}
	rng, err := domain.NewTimeRange(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ParseDate(in.EffectiveFrom); err != nil {
		return nil, err
	}
	until, err := s.validateEffectiveWindow(in.EffectiveFrom, in.EffectiveUntil)
	if err != nil {
		return nil, err
	}

	count, err := s.Repo.CountActiveSlotsForDay(ctx, s.DB, in.DayOfWeek)
	if err != nil {
		return nil, err
	}
	if count >= MaxSlotsPerDay {
		return nil, ErrCapacityExceeded
	}

	if err := s.checkConflict(ctx, in.DayOfWeek, rng, ""); err != nil {
		return nil, err
	}

	recurring := true
	if in.IsRecurring != nil {
		recurring = *in.IsRecurring
	}
	slot := &domain.Slot{
		Title:          s.clip(title, s.TitleMaxLen),
		Description:    s.clip(in.Description, s.DescriptionMaxLen),
		DayOfWeek:      in.DayOfWeek,
		StartTime:      rng.Start.String(),
		EndTime:        rng.End.String(),
		IsRecurring:    recurring,
		EffectiveFrom:  in.EffectiveFrom,
		EffectiveUntil: until,
		IsActive:       true,
	}
	created, err := s.Repo.CreateSlot(ctx, s.DB, slot)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}
	return created, nil
}

// UpdateSlotInput carries partial updates; nil fields keep the stored value.
// An empty-string EffectiveUntil clears the end of the effective window,
// making the slot open-ended again.
type UpdateSlotInput struct {
	Title          *string
	Description    *string
	DayOfWeek      *int
	StartTime      *string
	EndTime        *string
	IsRecurring    *bool
	EffectiveFrom  *string
	EffectiveUntil *string
	IsActive       *bool
}

// Update merges the supplied fields into an existing slot and persists it.
// When the day of week or either time changes, the overlap invariant is
// re-checked against all other active slots on the resulting day, excluding
// the slot itself. Returns ErrSlotNotFound when the ID is unknown.
func (s *SlotService) Update(ctx context.Context, id string, in UpdateSlotInput) (*domain.Slot, error) {
	slot, err := s.Repo.GetSlot(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	if in.Title != nil {
		title := s.normalizeTitle(*in.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		slot.Title = s.clip(title, s.TitleMaxLen)
	}
	if in.Description != nil {
		slot.Description = s.clip(*in.Description, s.DescriptionMaxLen)
	}

	timingChanged := in.DayOfWeek != nil || in.StartTime != nil || in.EndTime != nil

	if in.DayOfWeek != nil {
		if *in.DayOfWeek < 0 || *in.DayOfWeek > 6 {
			return nil, ErrInvalidDayOfWeek
		}
		slot.DayOfWeek = *in.DayOfWeek
	}
	start, end := slot.StartTime, slot.EndTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	if timingChanged {
		rng, err := domain.NewTimeRange(start, end)
		if err != nil {
			return nil, err
		}
		slot.StartTime = rng.Start.String()
		slot.EndTime = rng.End.String()
		if err := s.checkConflict(ctx, slot.DayOfWeek, rng, slot.ID); err != nil {
			return nil, err
		}
	}

	if in.IsRecurring != nil {
		slot.IsRecurring = *in.IsRecurring
	}
	windowChanged := in.EffectiveFrom != nil || in.EffectiveUntil != nil
	if in.EffectiveFrom != nil {
		if _, err := domain.ParseDate(*in.EffectiveFrom); err != nil {
			return nil, err
		}
		slot.EffectiveFrom = *in.EffectiveFrom
	}
	if in.EffectiveUntil != nil {
		if *in.EffectiveUntil == "" {
			slot.EffectiveUntil = nil
		} else {
			u := *in.EffectiveUntil
			slot.EffectiveUntil = &u
		}
	}
	// Re-validate the merged window whenever either bound moved, so a new
	// effective_from cannot slide past a stored effective_until.
	if windowChanged && slot.EffectiveUntil != nil {
		until, err := s.validateEffectiveWindow(slot.EffectiveFrom, slot.EffectiveUntil)
		if err != nil {
			return nil, err
		}
		slot.EffectiveUntil = until
	}
	if in.IsActive != nil {
		slot.IsActive = *in.IsActive
	}

	if err := s.Repo.UpdateSlot(ctx, s.DB, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// Get fetches one slot by ID; soft-deleted slots remain addressable.
func (s *SlotService) Get(ctx context.Context, id string) (*domain.Slot, error) {
	slot, err := s.Repo.GetSlot(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

// List returns all slots regardless of active flag (legacy, non-paginated).
// Prefer ListPage for scalability on large datasets.
func (s *SlotService) List(ctx context.Context) ([]domain.Slot, error) {
	return s.Repo.ListSlots(ctx, s.DB)
}

// ListPage returns a page of slots and the total count. It applies defaults
// for invalid page/pageSize.
func (s *SlotService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Slot, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountSlots(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Slot{}, 0, nil
	}

	items, err := s.Repo.ListSlotsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// ListByDay returns the active slots for one day of week, ordered by start
// time ascending.
func (s *SlotService) ListByDay(ctx context.Context, dayOfWeek int) ([]domain.Slot, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}
	return s.Repo.ListSlotsByDay(ctx, s.DB, dayOfWeek)
}

// CountActiveForDay reports how many active slots a day of week holds.
func (s *SlotService) CountActiveForDay(ctx context.Context, dayOfWeek int) (int64, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return 0, ErrInvalidDayOfWeek
	}
	return s.Repo.CountActiveSlotsForDay(ctx, s.DB, dayOfWeek)
}

// WeeklySchedule groups the active slots by day of week, with an entry for
// every day 0..6 (empty slice when a day has no slots).
func (s *SlotService) WeeklySchedule(ctx context.Context) (map[int][]domain.Slot, error) {
	slots, err := s.Repo.ListSlots(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	week := make(map[int][]domain.Slot, 7)
	for day := 0; day < 7; day++ {
		week[day] = []domain.Slot{}
	}
	for _, slot := range slots {
		if slot.IsActive {
			week[slot.DayOfWeek] = append(week[slot.DayOfWeek], slot)
		}
	}
	return week, nil
}

// EffectiveInRange returns the active slots whose effective window intersects
// the inclusive [startDate, endDate] range.
func (s *SlotService) EffectiveInRange(ctx context.Context, startDate, endDate string) ([]domain.Slot, error) {
	if err := validateDateRange(startDate, endDate); err != nil {
		return nil, err
	}
	return s.Repo.ListSlotsEffectiveInRange(ctx, s.DB, startDate, endDate)
}

// SoftDelete deactivates a slot. Its exceptions stay in place but become
// inert, since projections and conflict checks skip inactive slots.
func (s *SlotService) SoftDelete(ctx context.Context, id string) error {
	ok, err := s.Repo.SoftDeleteSlot(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlotNotFound
	}
	return nil
}

// Delete removes a slot permanently, cascading removal of its exceptions.
func (s *SlotService) Delete(ctx context.Context, id string) error {
	ok, err := s.Repo.DeleteSlot(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlotNotFound
	}
	return nil
}

// checkConflict runs the half-open overlap test against all other active
// slots on a day. excludeID removes the slot being updated from the
// comparison set.
func (s *SlotService) checkConflict(ctx context.Context, dayOfWeek int, rng domain.TimeRange, excludeID string) error {
	others, err := s.Repo.ListConflictCandidates(ctx, s.DB, dayOfWeek, excludeID)
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

// validateEffectiveWindow checks that until, when supplied, parses and lies
// strictly after from. Returns the normalized pointer to store.
func (s *SlotService) validateEffectiveWindow(from string, until *string) (*string, error) {
	if until == nil || *until == "" {
		return nil, nil
	}
	fromDate, err := domain.ParseDate(from)
	if err != nil {
		return nil, err
	}
	untilDate, err := domain.ParseDate(*until)
	if err != nil {
		return nil, err
	}
	if !untilDate.After(fromDate) {
		return nil, ErrEffectiveWindow
	}
	u := *until
	return &u, nil
}

// validateDateRange parses both dates and checks ordering.
func validateDateRange(startDate, endDate string) error {
	start, err := domain.ParseDate(startDate)
	if err != nil {
		return err
	}
	end, err := domain.ParseDate(endDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return ErrDateOrder
	}
	return nil
}

// clip truncates a string to a maximum rune length.
func (s *SlotService) clip(v string, max int) string {
	if max > 0 && utf8.RuneCountInString(v) > max {
		return string([]rune(v)[:max])
	}
	return v
}

// normalizeTitle trims whitespace, collapses runs of spaces to one, and
// title-cases the leading word. NoLower keeps caller capitalization intact
// elsewhere in the title.
func (s *SlotService) normalizeTitle(v string) string {
	v = whitespaceRE.ReplaceAllString(strings.TrimSpace(v), " ")
	if v == "" {
		return ""
	}
	caser := cases.Title(s.TitleLocaleOrDefault(), cases.NoLower)
	if i := strings.IndexByte(v, ' '); i > 0 {
		return caser.String(v[:i]) + v[i:]
	}
	return caser.String(v)
}

// TitleLocaleOrDefault returns the configured locale for casing or English if unset.
func (s *SlotService) TitleLocaleOrDefault() language.Tag {
	if s.TitleLocale == language.Und {
		return language.English
	}
	return s.TitleLocale
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
