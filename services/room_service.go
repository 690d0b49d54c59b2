package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

type RoomInput struct {
	RoomTypeID uint   `json:"roomTypeId" binding:"required"`
	Name       string `json:"name" binding:"required,max=100"`
	IsActive   *bool  `json:"isActive" copier:"-"`
}

type RoomPatch struct {
	RoomTypeID *uint   `json:"roomTypeId"`
	Name       *string `json:"name" binding:"omitempty,min=1,max=100"`
	IsActive   *bool   `json:"isActive"`
}

func (s *RoomService) GetAll(ctx context.Context, roomTypeID uint) ([]models.Room, error) {
	q := s.DB.WithContext(ctx).Preload("RoomType")
	if roomTypeID != 0 {
		q = q.Where("room_type_id = ?", roomTypeID)
	}
	var rooms []models.Room
	err := q.Order("id").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) GetByID(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("RoomType").First(&room, id).Error; err != nil {
		return room, notFoundOr(err, "room", id)
	}
	return room, nil
}

func (s *RoomService) Create(ctx context.Context, in RoomInput) (models.Room, error) {
	db := s.DB.WithContext(ctx)
	var room models.Room
	if err := copier.Copy(&room, &in); err != nil {
		return room, fmt.Errorf("copy room input: %w", err)
	}
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return room, apperror.Validation("name_required", "room name is required")
	}
	room.IsActive = true
	if in.IsActive != nil {
		room.IsActive = *in.IsActive
	}
	if _, err := requireRoomType(db, room.RoomTypeID); err != nil {
		return room, err
	}
	if err := db.Create(&room).Error; err != nil {
		return room, writeErr(err, "create", "room")
	}
	return room, nil
}

// Update applies a partial change. Moving a room to another type keeps its
// booking history.
func (s *RoomService) Update(ctx context.Context, id uint, in RoomPatch) (models.Room, error) {
	db := s.DB.WithContext(ctx)
	var room models.Room
	if err := db.First(&room, id).Error; err != nil {
		return room, notFoundOr(err, "room", id)
	}
	if in.RoomTypeID != nil && *in.RoomTypeID != room.RoomTypeID {
		if _, err := requireRoomType(db, *in.RoomTypeID); err != nil {
			return room, err
		}
		room.RoomTypeID = *in.RoomTypeID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return room, apperror.Validation("name_required", "room name is required")
		}
		room.Name = name
	}
	if in.IsActive != nil {
		room.IsActive = *in.IsActive
	}
	if err := db.Omit("RoomType").Save(&room).Error; err != nil {
		return room, writeErr(err, "update", "room")
	}
	return s.GetByID(ctx, id)
}

// Delete refuses while the room has active bookings.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&models.Room{}, id).Error; err != nil {
			return notFoundOr(err, "room", id)
		}
		var n int64
		if err := tx.Model(&models.Booking{}).Where("room_id = ? AND status <> ?", id, models.StatusCancelled).Count(&n).Error; err != nil {
			return fmt.Errorf("count bookings: %w", err)
		}
		if n > 0 {
			return apperror.Conflict("room_in_use", "room has %d bookings", n).With("bookings", n)
		}
		return tx.Delete(&models.Room{}, id).Error
	})
}
