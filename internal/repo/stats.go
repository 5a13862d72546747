// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// for conditional responses (ETag generation) and the admin stats endpoint.
// Each function is context-aware and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/domain"
)

// SlotsStats returns aggregate metadata for the slots table: the total number
// of rows and the maximum UpdatedAt timestamp among those rows. The HTTP
// layer derives list ETags from the pair.
//
// Return values:
//   - count:        total slot rows (active and soft-deleted)
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func SlotsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Slot{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// ScheduleSummary aggregates the counts served by GET /stats.
type ScheduleSummary struct {
	TotalSlots          int64    `json:"total_slots"`
	ActiveSlots         int64    `json:"active_slots"`
	ActiveSlotsPerDay   [7]int64 `json:"active_slots_per_day"` // index 0 = Sunday
	TotalExceptions     int64    `json:"total_exceptions"`
	CancelledExceptions int64    `json:"cancelled_exceptions"`
}

// GetScheduleSummary computes the schedule-wide aggregate counts. The per-day
// breakdown is produced with a single GROUP BY over the (day_of_week,
// is_active) index rather than seven separate counts.
func GetScheduleSummary(ctx context.Context, db *gorm.DB) (*ScheduleSummary, error) {
	var sum ScheduleSummary

	if err := db.WithContext(ctx).Model(&domain.Slot{}).Count(&sum.TotalSlots).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&domain.Slot{}).
		Where("is_active = ?", true).
		Count(&sum.ActiveSlots).Error; err != nil {
		return nil, err
	}

	var perDay []struct {
		DayOfWeek int
		N         int64
	}
	if err := db.WithContext(ctx).Model(&domain.Slot{}).
		Select("day_of_week, COUNT(*) as n").
		Where("is_active = ?", true).
		Group("day_of_week").
		Scan(&perDay).Error; err != nil {
		return nil, err
	}
	for _, row := range perDay {
		if row.DayOfWeek >= 0 && row.DayOfWeek < 7 {
			sum.ActiveSlotsPerDay[row.DayOfWeek] = row.N
		}
	}

	if err := db.WithContext(ctx).Model(&domain.SlotException{}).
		Count(&sum.TotalExceptions).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&domain.SlotException{}).
		Where("is_cancelled = ?", true).
		Count(&sum.CancelledExceptions).Error; err != nil {
		return nil, err
	}

	return &sum, nil
}
