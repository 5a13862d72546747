package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/domain"
)

// ----- Fake repo -----

// fakeSlotRepo is an in-memory SlotRepo. Slots are stored in insertion order;
// the query helpers reproduce the ordering guarantees of the real repository
// closely enough for the service rules under test.
type fakeSlotRepo struct {
	slots []domain.Slot

	createErr error
	countErr  error
	listErr   error

	lastExcludeID string
}

func (r *fakeSlotRepo) CreateSlot(ctx context.Context, db *gorm.DB, s *domain.Slot) (*domain.Slot, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if s.ID == "" {
		s.ID = "generated-id"
	}
	r.slots = append(r.slots, *s)
	return s, nil
}

func (r *fakeSlotRepo) GetSlot(ctx context.Context, db *gorm.DB, id string) (*domain.Slot, error) {
	for i := range r.slots {
		if r.slots[i].ID == id {
			cp := r.slots[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSlotRepo) ListSlots(ctx context.Context, db *gorm.DB) ([]domain.Slot, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Slot(nil), r.slots...), nil
}

func (r *fakeSlotRepo) CountSlots(ctx context.Context, db *gorm.DB) (int64, error) {
	return int64(len(r.slots)), nil
}

func (r *fakeSlotRepo) ListSlotsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Slot, error) {
	if offset >= len(r.slots) {
		return []domain.Slot{}, nil
	}
	end := offset + limit
	if end > len(r.slots) {
		end = len(r.slots)
	}
	return append([]domain.Slot(nil), r.slots[offset:end]...), nil
}

func (r *fakeSlotRepo) ListSlotsByDay(ctx context.Context, db *gorm.DB, day int) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range r.slots {
		if s.DayOfWeek == day && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) CountActiveSlotsForDay(ctx context.Context, db *gorm.DB, day int) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, s := range r.slots {
		if s.DayOfWeek == day && s.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeSlotRepo) ListConflictCandidates(ctx context.Context, db *gorm.DB, day int, excludeID string) ([]domain.Slot, error) {
	r.lastExcludeID = excludeID
	var out []domain.Slot
	for _, s := range r.slots {
		if s.DayOfWeek == day && s.IsActive && s.ID != excludeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) ListSlotsEffectiveInRange(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range r.slots {
		if !s.IsActive {
			continue
		}
		if s.EffectiveFrom > endDate {
			continue
		}
		if s.EffectiveUntil != nil && *s.EffectiveUntil < startDate {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSlotRepo) UpdateSlot(ctx context.Context, db *gorm.DB, s *domain.Slot) error {
	for i := range r.slots {
		if r.slots[i].ID == s.ID {
			r.slots[i] = *s
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeSlotRepo) SoftDeleteSlot(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	for i := range r.slots {
		if r.slots[i].ID == id {
			r.slots[i].IsActive = false
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSlotRepo) DeleteSlot(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	for i := range r.slots {
		if r.slots[i].ID == id {
			r.slots = append(r.slots[:i], r.slots[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func seedSlot(id string, day int, start, end string) domain.Slot {
	return domain.Slot{
		ID:            id,
		Title:         "Slot " + id,
		DayOfWeek:     day,
		StartTime:     start,
		EndTime:       end,
		IsRecurring:   true,
		EffectiveFrom: "2024-01-01",
		IsActive:      true,
	}
}

func newSlotService(r *fakeSlotRepo) *SlotService { return NewSlotService(nil, r) }

// ----- Create -----

func TestSlotCreate_Success(t *testing.T) {
	r := &fakeSlotRepo{}
	svc := newSlotService(r)

	got, err := svc.Create(context.Background(), CreateSlotInput{
		Title:         "  Morning   session ",
		DayOfWeek:     1,
		StartTime:     "9:00",
		EndTime:       "10:00",
		EffectiveFrom: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Title != "Morning session" {
		t.Fatalf("title not normalized: %q", got.Title)
	}
	if got.StartTime != "09:00" || got.EndTime != "10:00" {
		t.Fatalf("times not normalized: %s-%s", got.StartTime, got.EndTime)
	}
	if !got.IsActive || !got.IsRecurring {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if got.EffectiveUntil != nil {
		t.Fatalf("expected open-ended slot, got until=%v", *got.EffectiveUntil)
	}
}

func TestSlotCreate_TitleCasesLeadingWord(t *testing.T) {
	r := &fakeSlotRepo{}
	svc := newSlotService(r)

	got, err := svc.Create(context.Background(), CreateSlotInput{
		Title:         "yoga with HIIT finisher",
		DayOfWeek:     2,
		StartTime:     "09:00",
		EndTime:       "10:00",
		EffectiveFrom: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Leading word is cased; existing capitals elsewhere stay untouched.
	if got.Title != "Yoga with HIIT finisher" {
		t.Fatalf("title casing: %q", got.Title)
	}
}

func TestSlotCreate_ValidationFailures(t *testing.T) {
	svc := newSlotService(&fakeSlotRepo{})
	base := CreateSlotInput{Title: "T", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", EffectiveFrom: "2024-01-01"}

	cases := []struct {
		name   string
		mutate func(*CreateSlotInput)
		want   error
	}{
		{"empty title", func(in *CreateSlotInput) { in.Title = "   " }, ErrEmptyTitle},
		{"day too small", func(in *CreateSlotInput) { in.DayOfWeek = -1 }, ErrInvalidDayOfWeek},
		{"day too large", func(in *CreateSlotInput) { in.DayOfWeek = 7 }, ErrInvalidDayOfWeek},
		{"bad start", func(in *CreateSlotInput) { in.StartTime = "25:00" }, domain.ErrTimeFormat},
		{"inverted range", func(in *CreateSlotInput) { in.StartTime = "11:00" }, domain.ErrTimeOrder},
		{"bad effective_from", func(in *CreateSlotInput) { in.EffectiveFrom = "01/01/2024" }, domain.ErrDateFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSlotCreate_EffectiveWindow(t *testing.T) {
	svc := newSlotService(&fakeSlotRepo{})
	for _, until := range []string{"2024-01-01", "2023-12-31"} {
		u := until
		_, err := svc.Create(context.Background(), CreateSlotInput{
			Title: "T", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00",
			EffectiveFrom: "2024-01-01", EffectiveUntil: &u,
		})
		if !errors.Is(err, ErrEffectiveWindow) {
			t.Fatalf("until=%s: expected ErrEffectiveWindow, got %v", until, err)
		}
	}

	u := "2024-06-30"
	got, err := svc.Create(context.Background(), CreateSlotInput{
		Title: "T", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00",
		EffectiveFrom: "2024-01-01", EffectiveUntil: &u,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.EffectiveUntil == nil || *got.EffectiveUntil != "2024-06-30" {
		t.Fatalf("effective_until not stored: %+v", got.EffectiveUntil)
	}
}

func TestSlotCreate_CapacityExceeded(t *testing.T) {
	r := &fakeSlotRepo{slots: []domain.Slot{
		seedSlot("a", 1, "08:00", "09:00"),
		seedSlot("b", 1, "12:00", "13:00"),
	}}
	svc := newSlotService(r)

	// A third slot on the same day fails even with a non-overlapping time.
	_, err := svc.Create(context.Background(), CreateSlotInput{
		Title: "T", DayOfWeek: 1, StartTime: "15:00", EndTime: "16:00", EffectiveFrom: "2024-01-01",
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	// Another day is unaffected.
	if _, err := svc.Create(context.Background(), CreateSlotInput{
		Title: "T", DayOfWeek: 2, StartTime: "15:00", EndTime: "16:00", EffectiveFrom: "2024-01-01",
	}); err != nil {
		t.Fatalf("other day should succeed: %v", err)
	}
}

func TestSlotCreate_CapacityIgnoresInactive(t *testing.T) {
	inactive := seedSlot("a", 1, "08:00", "09:00")
	inactive.IsActive = false
	r := &fakeSlotRepo{slots: []domain.Slot{inactive, seedSlot("b", 1, "12:00", "13:00")}}
	svc := newSlotService(r)

	if _, err := svc.Create(context.Background(), CreateSlotInput{
		Title: "T", DayOfWeek: 1, StartTime: "15:00", EndTime: "16:00", EffectiveFrom: "2024-01-01",
	}); err != nil {
		t.Fatalf("soft-deleted slots must not count toward capacity: %v", err)
	}
}

func TestSlotCreate_Conflict(t *testing.T) {
	r := &fakeSlotRepo{slots: []domain.Slot{seedSlot("a", 1, "09:00", "10:00")}}
	svc := newSlotService(r)

	_, err := svc.Create(context.Background(), CreateSlotInput{
		Title: "T", DayOfWeek: 1, StartTime: "09:30", EndTime: "10:30", EffectiveFrom: "2024-01-01",
	})
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
}

func TestSlotCreate_TouchingBoundaryDoesNotConflict(t *testing.T) {
	r := &fakeSlotRepo{slots: []domain.Slot{seedSlot("a", 1, "09:00", "10:00")}}
	svc := newSlotService(r)

	if _, err := svc.Create(context.Background(), CreateSlotInput{
		Title: "T", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", EffectiveFrom: "2024-01-01",
	}); err != nil {
		t.Fatalf("touching ranges must not conflict: %v", err)
	}
}

// ----- Update -----

func TestSlotUpdate_NotFound(t *testing.T) {
	svc := newSlotService(&fakeSlotRepo{})
	if _, err := svc.Update(context.Background(), "missing", UpdateSlotInput{}); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestSlotUpdate_MergesPartialFields(t *testing.T) {
	r := &fakeSlotRepo{slots: []domain.Slot{seedSlot("a", 1, "09:00", "10:00")}}
	svc := newSlotService(r)

	title := "Renamed"
	got, err := svc.Update(context.Background(), "a", UpdateSlotInput{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Renamed" || got.StartTime != "09:00" || got.DayOfWeek != 1 {
		t.Fatalf("partial update clobbered fields: %+v", got)
	}
}

func TestSlotUpdate_TimeChangeExcludesSelf(t *testing.T) {
	r := &fakeSlotRepo{slots: []domain.Slot{seedSlot("a", 1, "09:00", "10:00")}}
	svc := newSlotService(r)

	// Shifting a slot within its own window must not conflict with itself.
	start, end := "09:30", "10:30"
	got, err := svc.Update(context.Background(), "a", UpdateSlotInput{StartTime: &start, EndTime: &end})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.lastExcludeID != "a" {
		t.Fatalf("conflict check did not exclude the slot itself: %q", r.lastExcludeID)
	}
	if got.StartTime != "09:30" || got.EndTime != "10:30" {
		t.Fatalf("times not updated: %+v", got)
	}
}

func TestSlotUpdate_ConflictWithOther(t *testing.T) {
	r := &fakeSlotRepo{slots: []domain.Slot{
		seedSlot("a", 1, "09:00", "10:00"),
		seedSlot("b", 1, "11:00", "12:00"),
	}}
	svc := newSlotService(r)

	start := "11:30"
	end := "12:30"
	if _, err := svc.Update(context.Background(), "a", UpdateSlotInput{StartTime: &start, EndTime: &end}); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
}

func TestSlotUpdate_DayChangeRechecksConflict(t *testing.T) {
	r := &fakeSlotRepo{slots: []domain.Slot{
		seedSlot("a", 1, "09:00", "10:00"),
		seedSlot("b", 2, "09:00", "10:00"),
	}}
	svc := newSlotService(r)

	day := 2
	if _, err := svc.Update(context.Background(), "a", UpdateSlotInput{DayOfWeek: &day}); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict after day move, got %v", err)
	}
}

func TestSlotUpdate_EffectiveFromPastStoredUntil(t *testing.T) {
	s := seedSlot("a", 1, "09:00", "10:00")
	until := "2024-06-30"
	s.EffectiveUntil = &until
	r := &fakeSlotRepo{slots: []domain.Slot{s}}
	svc := newSlotService(r)

	// Moving only effective_from must be checked against the stored until.
	from := "2024-07-01"
	if _, err := svc.Update(context.Background(), "a", UpdateSlotInput{EffectiveFrom: &from}); !errors.Is(err, ErrEffectiveWindow) {
		t.Fatalf("expected ErrEffectiveWindow, got %v", err)
	}

	okFrom := "2024-06-01"
	got, err := svc.Update(context.Background(), "a", UpdateSlotInput{EffectiveFrom: &okFrom})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.EffectiveFrom != "2024-06-01" || got.EffectiveUntil == nil || *got.EffectiveUntil != "2024-06-30" {
		t.Fatalf("window not preserved: %+v", got)
	}
}

func TestSlotUpdate_ClearEffectiveUntil(t *testing.T) {
	s := seedSlot("a", 1, "09:00", "10:00")
	until := "2024-06-30"
	s.EffectiveUntil = &until
	r := &fakeSlotRepo{slots: []domain.Slot{s}}
	svc := newSlotService(r)

	empty := ""
	got, err := svc.Update(context.Background(), "a", UpdateSlotInput{EffectiveUntil: &empty})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.EffectiveUntil != nil {
		t.Fatalf("expected cleared effective_until, got %v", *got.EffectiveUntil)
	}
}

// ----- Reads and deletes -----

func TestSlotListByDay_RejectsBadDay(t *testing.T) {
	svc := newSlotService(&fakeSlotRepo{})
	if _, err := svc.ListByDay(context.Background(), 9); !errors.Is(err, ErrInvalidDayOfWeek) {
		t.Fatalf("expected ErrInvalidDayOfWeek, got %v", err)
	}
}

func TestSlotWeeklySchedule_GroupsActiveOnly(t *testing.T) {
	inactive := seedSlot("x", 3, "09:00", "10:00")
	inactive.IsActive = false
	r := &fakeSlotRepo{slots: []domain.Slot{
		seedSlot("a", 1, "09:00", "10:00"),
		seedSlot("b", 1, "11:00", "12:00"),
		inactive,
	}}
	svc := newSlotService(r)

	week, err := svc.WeeklySchedule(context.Background())
	if err != nil {
		t.Fatalf("WeeklySchedule: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 day buckets, got %d", len(week))
	}
	if len(week[1]) != 2 {
		t.Fatalf("day 1 should have 2 slots, got %d", len(week[1]))
	}
	if len(week[3]) != 0 {
		t.Fatalf("soft-deleted slot leaked into day 3: %+v", week[3])
	}
}

func TestSlotSoftDelete_ExcludedFromDayListButAddressable(t *testing.T) {
	r := &fakeSlotRepo{slots: []domain.Slot{seedSlot("a", 1, "09:00", "10:00")}}
	svc := newSlotService(r)

	if err := svc.SoftDelete(context.Background(), "a"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	day, err := svc.ListByDay(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByDay: %v", err)
	}
	if len(day) != 0 {
		t.Fatalf("soft-deleted slot still listed: %+v", day)
	}
	got, err := svc.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("Get after soft delete: %v", err)
	}
	if got.IsActive {
		t.Fatal("expected is_active=false")
	}
}

func TestSlotDelete_NotFound(t *testing.T) {
	svc := newSlotService(&fakeSlotRepo{})
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if err := svc.SoftDelete(context.Background(), "missing"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestSlotEffectiveInRange_ValidatesOrder(t *testing.T) {
	svc := newSlotService(&fakeSlotRepo{})
	if _, err := svc.EffectiveInRange(context.Background(), "2024-03-10", "2024-03-01"); !errors.Is(err, ErrDateOrder) {
		t.Fatalf("expected ErrDateOrder, got %v", err)
	}
}

func TestSlotListPage_Defaults(t *testing.T) {
	r := &fakeSlotRepo{}
	for i := 0; i < 3; i++ {
		r.slots = append(r.slots, seedSlot(string(rune('a'+i)), i, "09:00", "10:00"))
	}
	svc := newSlotService(r)

	items, total, err := svc.ListPage(context.Background(), 0, -5)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("total=%d len=%d", total, len(items))
	}
}
