package services

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// AdditionalPriceService maintains the fee catalog of buildings and room types.
type AdditionalPriceService struct {
	DB *gorm.DB
}

func NewAdditionalPriceService(db *gorm.DB) *AdditionalPriceService {
	return &AdditionalPriceService{DB: db}
}

type AdditionalPriceInput struct {
	BuildingID *uint                `json:"buildingId"`
	RoomTypeID *uint                `json:"roomTypeId"`
	Title      models.LocalizedText `json:"title" copier:"-"`
	PriceEur   float64              `json:"priceEur" binding:"gte=0"`
	Mandatory  bool                 `json:"mandatory"`
	PerNight   bool                 `json:"perNight"`
	PerGuest   bool                 `json:"perGuest"`
	SortOrder  int                  `json:"order"`
}

type AdditionalPriceFilter struct {
	BuildingID uint
	RoomTypeID uint
}

func (in AdditionalPriceInput) validate(tx *gorm.DB) error {
	if (in.BuildingID == nil) == (in.RoomTypeID == nil) {
		return apperror.Validation("invalid_scope", "an additional price belongs to exactly one of buildingId or roomTypeId")
	}
	if in.Title.IsEmpty() {
		return apperror.Validation("title_required", "title is required in at least one language")
	}
	if in.PriceEur < 0 {
		return apperror.Validation("invalid_price", "price must not be negative")
	}
	if in.BuildingID != nil {
		if err := tx.First(&models.Building{}, *in.BuildingID).Error; err != nil {
			return notFoundOr(err, "building", *in.BuildingID)
		}
	}
	if in.RoomTypeID != nil {
		if _, err := requireRoomType(tx, *in.RoomTypeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *AdditionalPriceService) List(ctx context.Context, f AdditionalPriceFilter) ([]models.AdditionalPrice, error) {
	q := s.DB.WithContext(ctx)
	if f.BuildingID != 0 {
		q = q.Where("building_id = ?", f.BuildingID)
	}
	if f.RoomTypeID != 0 {
		q = q.Where("room_type_id = ?", f.RoomTypeID)
	}
	var out []models.AdditionalPrice
	err := q.Order("sort_order, id").Find(&out).Error
	return out, err
}

func (s *AdditionalPriceService) Create(ctx context.Context, in AdditionalPriceInput) (models.AdditionalPrice, error) {
	db := s.DB.WithContext(ctx)
	var ap models.AdditionalPrice
	if err := in.validate(db); err != nil {
		return ap, err
	}
	if err := copier.Copy(&ap, &in); err != nil {
		return ap, fmt.Errorf("copy additional price: %w", err)
	}
	ap.Title = models.NewText(in.Title)
	ap.PriceEur = utils.RoundMoney(in.PriceEur)
	if err := db.Create(&ap).Error; err != nil {
		return ap, writeErr(err, "create", "additional price")
	}
	return ap, nil
}

// Update edits a catalog entry. Price lines already attached to bookings keep
// their own copy.
func (s *AdditionalPriceService) Update(ctx context.Context, id uint, in AdditionalPriceInput) (models.AdditionalPrice, error) {
	db := s.DB.WithContext(ctx)
	var ap models.AdditionalPrice
	if err := db.First(&ap, id).Error; err != nil {
		return ap, notFoundOr(err, "additional price", id)
	}
	if err := in.validate(db); err != nil {
		return ap, err
	}
	ap.BuildingID, ap.RoomTypeID = in.BuildingID, in.RoomTypeID
	ap.Title = models.NewText(in.Title)
	ap.PriceEur = utils.RoundMoney(in.PriceEur)
	ap.Mandatory, ap.PerNight, ap.PerGuest = in.Mandatory, in.PerNight, in.PerGuest
	ap.SortOrder = in.SortOrder
	if err := db.Save(&ap).Error; err != nil {
		return ap, writeErr(err, "update", "additional price")
	}
	return ap, nil
}

func (s *AdditionalPriceService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.AdditionalPrice{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete additional price %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "additional price", id)
	}
	return nil
}
