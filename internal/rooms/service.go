package rooms

import (
	"context"
	"errors"

	"harborstay-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is thin CRUD plumbing for room types, physical rooms and rate
// plans. No inventory logic lives here.
type Service struct {
	DB *gorm.DB
}

func (s *Service) CreateRoomType(ctx context.Context, roomType *domain.RoomType) error {
	return s.DB.WithContext(ctx).Create(roomType).Error
}

func (s *Service) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var roomTypes []domain.RoomType
	err := s.DB.WithContext(ctx).Order("name").Find(&roomTypes).Error
	return roomTypes, err
}

func (s *Service) CreateRoom(ctx context.Context, room *domain.Room) error {
	var roomType domain.RoomType
	if err := s.DB.WithContext(ctx).Where("room_type_id = ?", room.RoomTypeID).First(&roomType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRoomTypeNotFound
		}
		return err
	}
	if room.Status == "" {
		room.Status = domain.RoomStatusVacant
	}
	return s.DB.WithContext(ctx).Create(room).Error
}

func (s *Service) ListRooms(ctx context.Context, roomTypeID *uuid.UUID) ([]domain.Room, error) {
	q := s.DB.WithContext(ctx).Order("number")
	if roomTypeID != nil {
		q = q.Where("room_type_id = ?", *roomTypeID)
	}
	var rooms []domain.Room
	err := q.Find(&rooms).Error
	return rooms, err
}

func (s *Service) CreateRatePlan(ctx context.Context, plan *domain.RatePlan) error {
	return s.DB.WithContext(ctx).Create(plan).Error
}

func (s *Service) ListRatePlans(ctx context.Context) ([]domain.RatePlan, error) {
	var plans []domain.RatePlan
	err := s.DB.WithContext(ctx).Order("name").Find(&plans).Error
	return plans, err
}
