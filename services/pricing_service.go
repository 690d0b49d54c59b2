package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
	"guesthouse-backend/pricing"
)

// PricingService quotes stays against the stored calendar and fee catalog.
type PricingService struct {
	DB      *gorm.DB
	Weekend pricing.WeekendRule
}

func NewPricingService(db *gorm.DB, weekend pricing.WeekendRule) *PricingService {
	return &PricingService{DB: db, Weekend: weekend}
}

type QuoteInput struct {
	CheckIn    string `json:"checkIn" binding:"required,isodate"`
	CheckOut   string `json:"checkOut" binding:"required,isodate"`
	GuestCount int    `json:"guestCount" binding:"required,gte=1"`
	Lang       string `json:"lang"`
}

type RoomGuests struct {
	RoomID     uint `json:"roomId" binding:"required"`
	GuestCount int  `json:"guestCount" binding:"required,gte=1"`
}

type GroupQuoteInput struct {
	CheckIn  string       `json:"checkIn" binding:"required,isodate"`
	CheckOut string       `json:"checkOut" binding:"required,isodate"`
	Rooms    []RoomGuests `json:"rooms" binding:"required,dive"`
	Lang     string       `json:"lang"`
}

func pricingErr(err error) error {
	switch {
	case errors.Is(err, pricing.ErrInvalidDateOrder):
		return apperror.Validation("invalid_date_order", "check-out must be after check-in")
	case errors.Is(err, pricing.ErrInvalidGuestCount):
		return apperror.Validation("invalid_guest_count", "guest count must be at least 1")
	}
	return err
}

// loadFees returns the room type's own fees followed by its building's.
func loadFees(tx *gorm.DB, rt models.RoomType, lang string) ([]pricing.Fee, error) {
	var rows []models.AdditionalPrice
	if err := tx.Where("room_type_id = ? OR building_id = ?", rt.ID, rt.BuildingID).
		Order("sort_order, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load additional prices: %w", err)
	}
	fees := make([]pricing.Fee, 0, len(rows))
	for _, r := range rows {
		scope := pricing.ScopeBuilding
		if r.RoomTypeID != nil {
			scope = pricing.ScopeRoomType
		}
		fees = append(fees, pricing.Fee{
			ID:        r.ID,
			Title:     r.Title.Data().Lookup(lang, models.DefaultLanguage),
			PriceEur:  r.PriceEur,
			Mandatory: r.Mandatory,
			PerNight:  r.PerNight,
			PerGuest:  r.PerGuest,
			SortOrder: r.SortOrder,
			Scope:     scope,
		})
	}
	return fees, nil
}

// quoteStay prices one room type for the given stay inside tx.
func quoteStay(tx *gorm.DB, weekend pricing.WeekendRule, rt models.RoomType, checkIn, checkOut time.Time, guests int, lang string) (pricing.StayBreakdown, error) {
	cal, err := loadCalendar(tx, weekend, rt.ID, checkIn, checkOut)
	if err != nil {
		return pricing.StayBreakdown{}, err
	}
	fees, err := loadFees(tx, rt, lang)
	if err != nil {
		return pricing.StayBreakdown{}, err
	}
	b, err := pricing.PriceStay(cal, fees, checkIn, checkOut, guests)
	if err != nil {
		return b, pricingErr(err)
	}
	return b, nil
}

func loadRoom(tx *gorm.DB, id uint) (models.Room, error) {
	var room models.Room
	if err := tx.Preload("RoomType").First(&room, id).Error; err != nil {
		return room, notFoundOr(err, "room", id)
	}
	if room.RoomType == nil {
		return room, notFoundOr(gorm.ErrRecordNotFound, "room type", room.RoomTypeID)
	}
	return room, nil
}

func (s *PricingService) QuoteRoomType(ctx context.Context, roomTypeID uint, in QuoteInput) (pricing.StayBreakdown, error) {
	ci, co, err := parseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return pricing.StayBreakdown{}, err
	}
	db := s.DB.WithContext(ctx)
	rt, err := requireRoomType(db, roomTypeID)
	if err != nil {
		return pricing.StayBreakdown{}, err
	}
	return quoteStay(db, s.Weekend, rt, ci, co, in.GuestCount, in.Lang)
}

func (s *PricingService) QuoteRoom(ctx context.Context, roomID uint, in QuoteInput) (pricing.RoomStay, error) {
	ci, co, err := parseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return pricing.RoomStay{}, err
	}
	db := s.DB.WithContext(ctx)
	room, err := loadRoom(db, roomID)
	if err != nil {
		return pricing.RoomStay{}, err
	}
	stay, err := quoteStay(db, s.Weekend, *room.RoomType, ci, co, in.GuestCount, in.Lang)
	if err != nil {
		return pricing.RoomStay{}, err
	}
	return pricing.RoomStay{RoomID: room.ID, RoomName: room.Name, RoomTypeID: room.RoomTypeID, Stay: stay}, nil
}

// QuoteGroup prices every listed room for one shared stay. Any unknown room
// fails the whole quote.
func (s *PricingService) QuoteGroup(ctx context.Context, in GroupQuoteInput) (pricing.GroupBreakdown, error) {
	if len(in.Rooms) == 0 {
		return pricing.GroupBreakdown{}, apperror.Validation("rooms_required", "at least one room is required")
	}
	ci, co, err := parseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return pricing.GroupBreakdown{}, err
	}
	return quoteGroup(s.DB.WithContext(ctx), s.Weekend, in.Rooms, ci, co, in.Lang)
}

func quoteGroup(tx *gorm.DB, weekend pricing.WeekendRule, rooms []RoomGuests, checkIn, checkOut time.Time, lang string) (pricing.GroupBreakdown, error) {
	stays := make([]pricing.RoomStay, 0, len(rooms))
	for _, rg := range rooms {
		room, err := loadRoom(tx, rg.RoomID)
		if err != nil {
			return pricing.GroupBreakdown{}, err
		}
		stay, err := quoteStay(tx, weekend, *room.RoomType, checkIn, checkOut, rg.GuestCount, lang)
		if err != nil {
			return pricing.GroupBreakdown{}, err
		}
		stays = append(stays, pricing.RoomStay{RoomID: room.ID, RoomName: room.Name, RoomTypeID: room.RoomTypeID, Stay: stay})
	}
	return pricing.SumGroup(checkIn, checkOut, stays), nil
}
