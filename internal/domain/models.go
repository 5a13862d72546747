// Package domain defines the persistence models for recurring slots and their
// date-specific exceptions. These types are mapped with GORM and form the core
// data layer of the schedule application.
package domain

import (
	"time"
)

// Slot represents a recurring weekly time slot: a title, a day of week and a
// [start, end) time-of-day window, valid within an effective date window.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Title / Description: display metadata; lengths enforced upstream.
//   - DayOfWeek: 0 (Sunday) through 6 (Saturday); indexed with IsActive for
//     the per-day capacity and conflict queries.
//   - StartTime / EndTime: zero-padded "HH:MM" strings; ordering is enforced
//     by the service layer before persistence.
//   - IsRecurring: informational flag carried from the API; never gates logic.
//   - EffectiveFrom / EffectiveUntil: inclusive YYYY-MM-DD window; a nil
//     EffectiveUntil means the slot recurs indefinitely.
//   - IsActive: false marks a soft-deleted slot, excluded from projections
//     and conflict checks but still addressable by ID.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Slot struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Title          string    `json:"title"           gorm:"type:varchar(100);not null"`
	Description    string    `json:"description,omitempty" gorm:"type:varchar(500)"`
	DayOfWeek      int       `json:"day_of_week"     gorm:"not null;index:idx_day_active,priority:1"`
	StartTime      string    `json:"start_time"      gorm:"type:varchar(5);not null"`
	EndTime        string    `json:"end_time"        gorm:"type:varchar(5);not null"`
	IsRecurring    bool      `json:"is_recurring"    gorm:"not null;default:true"`
	EffectiveFrom  string    `json:"effective_from"  gorm:"type:varchar(10);not null"`
	EffectiveUntil *string   `json:"effective_until,omitempty" gorm:"type:varchar(10)"`
	IsActive       bool      `json:"is_active"       gorm:"not null;default:true;index:idx_day_active,priority:2"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for Slot.
func (Slot) TableName() string { return "slots" }

// Window returns the slot's own time range. Stored rows always hold
// normalized, ordered times, so the error only fires on hand-built values.
func (s Slot) Window() (TimeRange, error) {
	return NewTimeRange(s.StartTime, s.EndTime)
}

// SlotException overrides or cancels one occurrence of a slot on a specific
// calendar date. At most one exception may exist per (slot, date), enforced
// by a unique index.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - SlotID: foreign key to the overridden slot; exceptions are
//     cascade-deleted when their slot is hard-deleted.
//   - ExceptionDate: the YYYY-MM-DD date the override applies to.
//   - StartTime / EndTime: optional replacement times; nil keeps the slot's
//     own times (and both are nil when IsCancelled is true).
//   - IsCancelled: true means the slot does not occur on this date.
//   - Reason: optional free-text explanation.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type SlotException struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	SlotID        string    `json:"slot_id"        gorm:"type:char(36);not null;index;uniqueIndex:ux_slot_exception_date,priority:1"`
	ExceptionDate string    `json:"exception_date" gorm:"type:varchar(10);not null;uniqueIndex:ux_slot_exception_date,priority:2"`
	StartTime     *string   `json:"start_time,omitempty" gorm:"type:varchar(5)"`
	EndTime       *string   `json:"end_time,omitempty"   gorm:"type:varchar(5)"`
	IsCancelled   bool      `json:"is_cancelled"   gorm:"not null;default:false"`
	Reason        string    `json:"reason,omitempty" gorm:"type:varchar(500)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Slot is the overridden recurring definition. Exceptions are
	// cascade-deleted if the underlying slot is removed.
	Slot Slot `json:"-" gorm:"foreignKey:SlotID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for SlotException.
func (SlotException) TableName() string { return "slot_exceptions" }
