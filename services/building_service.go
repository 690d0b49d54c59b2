package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
)

type BuildingService struct {
	DB *gorm.DB
}

func NewBuildingService(db *gorm.DB) *BuildingService {
	return &BuildingService{DB: db}
}

type BuildingInput struct {
	Name    models.LocalizedText `json:"name"`
	Address string               `json:"address" binding:"max=255"`
}

// slugFor builds a URL slug from the default-language name, falling back to
// any other language.
func slugFor(name models.LocalizedText) string {
	return slug.Make(name.Lookup(models.DefaultLanguage, "en"))
}

func (s *BuildingService) List(ctx context.Context) ([]models.Building, error) {
	var out []models.Building
	err := s.DB.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (s *BuildingService) Get(ctx context.Context, id uint) (models.Building, error) {
	var b models.Building
	err := s.DB.WithContext(ctx).
		Preload("RoomTypes").
		Preload("AdditionalPrices", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		First(&b, id).Error
	if err != nil {
		return b, notFoundOr(err, "building", id)
	}
	return b, nil
}

func (s *BuildingService) Create(ctx context.Context, in BuildingInput) (models.Building, error) {
	if in.Name.IsEmpty() {
		return models.Building{}, apperror.Validation("name_required", "building name is required in at least one language")
	}
	b := models.Building{Name: models.NewText(in.Name), Slug: slugFor(in.Name), Address: strings.TrimSpace(in.Address)}
	if err := s.DB.WithContext(ctx).Create(&b).Error; err != nil {
		return b, writeErr(err, "create", "building")
	}
	return b, nil
}

func (s *BuildingService) Update(ctx context.Context, id uint, in BuildingInput) (models.Building, error) {
	if in.Name.IsEmpty() {
		return models.Building{}, apperror.Validation("name_required", "building name is required in at least one language")
	}
	db := s.DB.WithContext(ctx)
	var b models.Building
	if err := db.First(&b, id).Error; err != nil {
		return b, notFoundOr(err, "building", id)
	}
	b.Name = models.NewText(in.Name)
	b.Slug = slugFor(in.Name)
	b.Address = strings.TrimSpace(in.Address)
	if err := db.Save(&b).Error; err != nil {
		return b, writeErr(err, "update", "building")
	}
	return b, nil
}

// Delete refuses while room types still belong to the building.
func (s *BuildingService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Building{}, id).Error; err != nil {
			return notFoundOr(err, "building", id)
		}
		var n int64
		if err := tx.Model(&models.RoomType{}).Where("building_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("count room types: %w", err)
		}
		if n > 0 {
			return apperror.Conflict("building_in_use", "building still has %d room types", n).With("roomTypes", n)
		}
		if err := tx.Where("building_id = ?", id).Delete(&models.AdditionalPrice{}).Error; err != nil {
			return fmt.Errorf("delete building fees: %w", err)
		}
		return tx.Delete(&models.Building{}, id).Error
	})
}
