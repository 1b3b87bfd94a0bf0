package overbooking

import (
	"context"
	"errors"
	"time"

	"harborstay-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service resolves and manages overbooking policies.
type Service struct {
	DB *gorm.DB
}

// ResolvePercent returns the permitted oversell percentage for one
// room-type/night: the room-type-specific policy wins over a hotel-wide
// one; with neither, 100 (no overbooking). Must be called on the same
// transaction as the availability decision it informs, so policy and
// inventory are read from one snapshot.
func (s *Service) ResolvePercent(tx *gorm.DB, roomTypeID uuid.UUID, night time.Time) (int, error) {
	night = domain.Date(night)

	var policy domain.OverbookingPolicy
	err := tx.Where("room_type_id = ? AND start_date <= ? AND end_date >= ?", roomTypeID, night, night).
		Order("created_at DESC").
		First(&policy).Error
	if err == nil {
		return policy.OverbookingPercent, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	err = tx.Where("room_type_id IS NULL AND start_date <= ? AND end_date >= ?", night, night).
		Order("created_at DESC").
		First(&policy).Error
	if err == nil {
		return policy.OverbookingPercent, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	return 100, nil
}

// CreatePolicy stores a new policy. Ranges may overlap; resolution order
// keeps the result deterministic.
func (s *Service) CreatePolicy(ctx context.Context, roomTypeID *uuid.UUID, startDate, endDate time.Time, percent int) (*domain.OverbookingPolicy, error) {
	startDate, endDate = domain.Date(startDate), domain.Date(endDate)
	if endDate.Before(startDate) {
		return nil, domain.ErrInvalidDateRange
	}
	if percent < 100 {
		return nil, domain.ErrInvalidQuantity
	}
	policy := domain.OverbookingPolicy{
		RoomTypeID:         roomTypeID,
		StartDate:          startDate,
		EndDate:            endDate,
		OverbookingPercent: percent,
	}
	if err := s.DB.WithContext(ctx).Create(&policy).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

// ListPolicies returns all policies, newest first.
func (s *Service) ListPolicies(ctx context.Context) ([]domain.OverbookingPolicy, error) {
	var policies []domain.OverbookingPolicy
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&policies).Error
	return policies, err
}

// DeletePolicy removes a policy by id.
func (s *Service) DeletePolicy(ctx context.Context, policyID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("policy_id = ?", policyID).Delete(&domain.OverbookingPolicy{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TrimExpired is night-audit step 4: policies fully in the past are
// deleted; policies straddling the business date have their start
// advanced to businessDate+1, keeping only the future portion. Fully
// future policies are untouched.
func (s *Service) TrimExpired(tx *gorm.DB, businessDate time.Time) (deleted, trimmed int64, err error) {
	businessDate = domain.Date(businessDate)

	res := tx.Where("end_date < ?", businessDate).Delete(&domain.OverbookingPolicy{})
	if res.Error != nil {
		return 0, 0, res.Error
	}
	deleted = res.RowsAffected

	res = tx.Model(&domain.OverbookingPolicy{}).
		Where("start_date <= ? AND end_date >= ?", businessDate, businessDate).
		Update("start_date", businessDate.AddDate(0, 0, 1))
	if res.Error != nil {
		return deleted, 0, res.Error
	}
	return deleted, res.RowsAffected, nil
}
