package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
)

type RoomTypeService struct {
	DB *gorm.DB
}

func NewRoomTypeService(db *gorm.DB) *RoomTypeService {
	return &RoomTypeService{DB: db}
}

type RoomTypeInput struct {
	BuildingID  uint                 `json:"buildingId" binding:"required"`
	Name        models.LocalizedText `json:"name"`
	Description models.LocalizedText `json:"description"`
	Capacity    int                  `json:"capacity" binding:"required,gte=1"`
}

func (s *RoomTypeService) GetAll(ctx context.Context, buildingID uint) ([]models.RoomType, error) {
	q := s.DB.WithContext(ctx).Preload("Rooms")
	if buildingID != 0 {
		q = q.Where("building_id = ?", buildingID)
	}
	var types []models.RoomType
	err := q.Order("id").Find(&types).Error
	return types, err
}

func (s *RoomTypeService) GetByID(ctx context.Context, id uint) (models.RoomType, error) {
	var rt models.RoomType
	err := s.DB.WithContext(ctx).
		Preload("Building").
		Preload("Rooms").
		Preload("DateRangePrices", func(db *gorm.DB) *gorm.DB { return db.Order("start_date") }).
		Preload("AdditionalPrices", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		First(&rt, id).Error
	if err != nil {
		return rt, notFoundOr(err, "room type", id)
	}
	return rt, nil
}

func (in RoomTypeInput) apply(tx *gorm.DB, rt *models.RoomType) error {
	if in.Name.IsEmpty() {
		return apperror.Validation("name_required", "room type name is required in at least one language")
	}
	if in.Capacity < 1 {
		return apperror.Validation("invalid_capacity", "capacity must be at least 1")
	}
	if err := tx.First(&models.Building{}, in.BuildingID).Error; err != nil {
		return notFoundOr(err, "building", in.BuildingID)
	}
	rt.BuildingID = in.BuildingID
	rt.Name = models.NewText(in.Name)
	rt.Slug = slugFor(in.Name)
	rt.Description = models.NewText(in.Description)
	rt.Capacity = in.Capacity
	return nil
}

func (s *RoomTypeService) Create(ctx context.Context, in RoomTypeInput) (models.RoomType, error) {
	db := s.DB.WithContext(ctx)
	var rt models.RoomType
	if err := in.apply(db, &rt); err != nil {
		return rt, err
	}
	if err := db.Create(&rt).Error; err != nil {
		return rt, writeErr(err, "create", "room type")
	}
	return rt, nil
}

func (s *RoomTypeService) Update(ctx context.Context, id uint, in RoomTypeInput) (models.RoomType, error) {
	db := s.DB.WithContext(ctx)
	var rt models.RoomType
	if err := db.First(&rt, id).Error; err != nil {
		return rt, notFoundOr(err, "room type", id)
	}
	if err := in.apply(db, &rt); err != nil {
		return rt, err
	}
	if err := db.Omit("Building").Save(&rt).Error; err != nil {
		return rt, writeErr(err, "update", "room type")
	}
	return rt, nil
}

// Delete removes a room type with its rooms and pricing configuration. Room
// types whose rooms carry bookings cannot be deleted.
func (s *RoomTypeService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.RoomType{}, id).Error; err != nil {
			return notFoundOr(err, "room type", id)
		}
		var booked int64
		err := tx.Model(&models.Booking{}).
			Joins("JOIN rooms ON rooms.id = bookings.room_id").
			Where("rooms.room_type_id = ?", id).
			Count(&booked).Error
		if err != nil {
			return fmt.Errorf("count bookings: %w", err)
		}
		if booked > 0 {
			return apperror.Conflict("room_type_in_use", "rooms of this type have %d bookings", booked).With("bookings", booked)
		}
		for _, m := range []interface{}{&models.DateRangePrice{}, &models.CalendarOverride{}, &models.AdditionalPrice{}, &models.Room{}} {
			if err := tx.Where("room_type_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("delete room type children: %w", err)
			}
		}
		return tx.Delete(&models.RoomType{}, id).Error
	})
}
