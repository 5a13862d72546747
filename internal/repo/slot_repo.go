// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Slot model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. The capacity and overlap rules live in
// services.SlotService; this layer only answers the queries those rules need.
//
// Error semantics:
//   - When a slot is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated. Use IsUniqueViolation to detect
//     unique-constraint races in a driver-agnostic way.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// IsUniqueViolation detects unique-constraint violations across drivers that
// may not map to gorm.ErrDuplicatedKey. Callers treat a violation surfaced by
// the storage layer as equivalent to a failed pre-check, which is what closes
// the check-then-insert race window.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite: "UNIQUE constraint failed" / "constraint failed: UNIQUE"
	// Postgres: "duplicate key value violates unique constraint"
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// CreateSlot inserts a new slot row. A UUID primary key is generated when the
// caller has not assigned one, and CreatedAt is set to UTC.
//
// On success, it returns the persisted Slot. On failure, it returns a DB error.
func CreateSlot(ctx context.Context, db *gorm.DB, s *domain.Slot) (*domain.Slot, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSlot fetches a slot by ID regardless of its active flag, so soft-deleted
// slots remain addressable. Returns ErrNotFound when the row is absent.
func GetSlot(ctx context.Context, db *gorm.DB, id string) (*domain.Slot, error) {
	var s domain.Slot
	if err := db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSlots returns every slot (active and soft-deleted), ordered by
// (day_of_week, start_time). It returns an empty slice when the table is empty.
func ListSlots(ctx context.Context, db *gorm.DB) ([]domain.Slot, error) {
	var out []domain.Slot
	err := db.WithContext(ctx).
		Order("day_of_week asc, start_time asc").
		Find(&out).Error
	return out, err
}

// CountSlots returns the total number of slot rows (pagination support).
func CountSlots(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Slot{}).Count(&total).Error
	return total, err
}

// ListSlotsPage returns a page of slots in (day_of_week, start_time) order.
func ListSlotsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Slot, error) {
	var out []domain.Slot
	err := db.WithContext(ctx).
		Order("day_of_week asc, start_time asc").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

// ListSlotsByDay returns the active slots for one day of week, ordered by
// start_time ascending. Soft-deleted slots are excluded.
func ListSlotsByDay(ctx context.Context, db *gorm.DB, dayOfWeek int) ([]domain.Slot, error) {
	var out []domain.Slot
	err := db.WithContext(ctx).
		Where("day_of_week = ? AND is_active = ?", dayOfWeek, true).
		Order("start_time asc").
		Find(&out).Error
	return out, err
}

// CountActiveSlotsForDay returns how many active slots exist on a day of week.
// The per-day capacity rule in the service layer is evaluated against this.
func CountActiveSlotsForDay(ctx context.Context, db *gorm.DB, dayOfWeek int) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Slot{}).
		Where("day_of_week = ? AND is_active = ?", dayOfWeek, true).
		Count(&total).Error
	return total, err
}

// ListConflictCandidates returns the active slots on a day of week excluding
// the given slot ID (pass "" to exclude nothing). The caller runs the overlap
// test against the result; keeping the interval arithmetic in Go keeps the
// half-open semantics in one place (domain.TimeRange).
func ListConflictCandidates(ctx context.Context, db *gorm.DB, dayOfWeek int, excludeID string) ([]domain.Slot, error) {
	q := db.WithContext(ctx).
		Where("day_of_week = ? AND is_active = ?", dayOfWeek, true)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var out []domain.Slot
	err := q.Order("start_time asc").Find(&out).Error
	return out, err
}

// ListSlotsEffectiveInRange returns active slots whose effective window
// intersects the inclusive [startDate, endDate] range. A NULL effective_until
// is treated as open-ended. Dates are ISO strings, so lexicographic SQL
// comparison matches chronological order.
func ListSlotsEffectiveInRange(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]domain.Slot, error) {
	var out []domain.Slot
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("effective_from <= ?", endDate).
		Where("effective_until IS NULL OR effective_until >= ?", startDate).
		Order("day_of_week asc, start_time asc").
		Find(&out).Error
	return out, err
}

// UpdateSlot persists the full state of an already-loaded slot and stamps
// UpdatedAt. Callers merge partial updates into the loaded row first.
func UpdateSlot(ctx context.Context, db *gorm.DB, s *domain.Slot) error {
	s.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(s).Error
}

// SoftDeleteSlot flips is_active to false, leaving the row and its exceptions
// in place. Reports whether a row was updated.
func SoftDeleteSlot(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Slot{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

// DeleteSlot removes a slot permanently together with its exceptions. The
// explicit exception delete keeps the cascade driver-agnostic rather than
// relying on PRAGMA foreign_keys alone. Reports whether the slot existed.
func DeleteSlot(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var existed bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slot_id = ?", id).Delete(&domain.SlotException{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Slot{})
		if res.Error != nil {
			return res.Error
		}
		existed = res.RowsAffected > 0
		return nil
	})
	return existed, err
}
