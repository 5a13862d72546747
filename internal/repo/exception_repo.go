// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// SlotException model.
//
// Exceptions are keyed by (slot_id, exception_date) with a unique index; the
// create path maps a violation of that index to ErrDuplicate so the service
// layer can treat a storage-level race loss the same as its own pre-check.
// All other error semantics follow slot_repo.go (ErrNotFound for missing
// rows, raw gorm errors otherwise).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-schedule-backend/internal/domain"
)

// CreateException inserts a new exception row. A UUID primary key is
// generated when the caller has not assigned one, and CreatedAt is set to
// UTC. A unique-constraint violation on (slot_id, exception_date) is
// returned as ErrDuplicate.
func CreateException(ctx context.Context, db *gorm.DB, ex *domain.SlotException) (*domain.SlotException, error) {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(ex).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return ex, nil
}

// GetException fetches an exception by ID or returns ErrNotFound.
func GetException(ctx context.Context, db *gorm.DB, id string) (*domain.SlotException, error) {
	var ex domain.SlotException
	if err := db.WithContext(ctx).First(&ex, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ex, nil
}

// GetExceptionBySlotAndDate fetches the single exception for a (slot, date)
// pair or returns ErrNotFound.
func GetExceptionBySlotAndDate(ctx context.Context, db *gorm.DB, slotID, date string) (*domain.SlotException, error) {
	var ex domain.SlotException
	err := db.WithContext(ctx).
		Where("slot_id = ? AND exception_date = ?", slotID, date).
		First(&ex).Error
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

// ListExceptions returns every exception ordered by exception_date ascending.
func ListExceptions(ctx context.Context, db *gorm.DB) ([]domain.SlotException, error) {
	var out []domain.SlotException
	err := db.WithContext(ctx).
		Order("exception_date asc").
		Find(&out).Error
	return out, err
}

// CountExceptions returns the total number of exception rows.
func CountExceptions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.SlotException{}).Count(&total).Error
	return total, err
}

// ListExceptionsPage returns a page of exceptions in date order.
func ListExceptionsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.SlotException, error) {
	var out []domain.SlotException
	err := db.WithContext(ctx).
		Order("exception_date asc").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

// ListExceptionsBySlot returns all exceptions for one slot, date ascending.
func ListExceptionsBySlot(ctx context.Context, db *gorm.DB, slotID string) ([]domain.SlotException, error) {
	var out []domain.SlotException
	err := db.WithContext(ctx).
		Where("slot_id = ?", slotID).
		Order("exception_date asc").
		Find(&out).Error
	return out, err
}

// ListExceptionsInRange returns exceptions whose date falls in the inclusive
// [startDate, endDate] range, date ascending.
func ListExceptionsInRange(ctx context.Context, db *gorm.DB, startDate, endDate string) ([]domain.SlotException, error) {
	var out []domain.SlotException
	err := db.WithContext(ctx).
		Where("exception_date BETWEEN ? AND ?", startDate, endDate).
		Order("exception_date asc").
		Find(&out).Error
	return out, err
}

// UpdateException persists the full state of an already-loaded exception and
// stamps UpdatedAt. Callers merge partial updates into the loaded row first.
func UpdateException(ctx context.Context, db *gorm.DB, ex *domain.SlotException) error {
	ex.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(ex).Error
}

// DeleteException removes an exception permanently. Reports whether a row
// was removed; the slot reverts to its default recurring behavior for that
// date.
func DeleteException(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.SlotException{})
	return res.RowsAffected > 0, res.Error
}
