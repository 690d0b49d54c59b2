package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guesthouse-backend/apperror"
	"guesthouse-backend/availability"
	"guesthouse-backend/models"
	"guesthouse-backend/pricing"
	"guesthouse-backend/utils"
)

// CalendarService owns date-range prices, calendar overrides and special days.
type CalendarService struct {
	DB      *gorm.DB
	Weekend pricing.WeekendRule
}

func NewCalendarService(db *gorm.DB, weekend pricing.WeekendRule) *CalendarService {
	return &CalendarService{DB: db, Weekend: weekend}
}

type DateRangeInput struct {
	StartDate    string  `json:"startDate" binding:"required,isodate"`
	EndDate      string  `json:"endDate" binding:"required,isodate"`
	WeekdayPrice float64 `json:"weekdayPrice" binding:"gte=0"`
	WeekendPrice float64 `json:"weekendPrice" binding:"gte=0"`
	MinNights    int     `json:"minNights" binding:"omitempty,gte=1"`
	IsInactive   bool    `json:"isInactive"`
}

type OverrideInput struct {
	Date       string   `json:"date" binding:"required,isodate"`
	Price      *float64 `json:"price" binding:"omitempty,gte=0"`
	MinNights  *int     `json:"minNights" binding:"omitempty,gte=1"`
	IsInactive *bool    `json:"isInactive"`
	Note       string   `json:"note" binding:"max=255"`
}

type SpecialDayInput struct {
	Name      models.LocalizedText `json:"name"`
	StartDate string               `json:"startDate" binding:"required,isodate"`
	EndDate   string               `json:"endDate" binding:"required,isodate"`
	Color     string               `json:"color" binding:"max=16"`
}

// CalendarDay is one row of the staff calendar.
type CalendarDay struct {
	pricing.NightPrice
	Inactive    bool     `json:"inactive"`
	MinNights   int      `json:"minNights"`
	SpecialDays []string `json:"specialDays"`
	Booked      int      `json:"booked"`
	RoomCount   int      `json:"roomCount"`
}

// loadCalendar builds the pricing calendar of a room type. Overrides are
// limited to [from, to] when both are set.
func loadCalendar(tx *gorm.DB, weekend pricing.WeekendRule, roomTypeID uint, from, to time.Time) (*pricing.Calendar, error) {
	var ranges []models.DateRangePrice
	if err := tx.Where("room_type_id = ?", roomTypeID).Order("start_date").Find(&ranges).Error; err != nil {
		return nil, fmt.Errorf("load date ranges: %w", err)
	}
	q := tx.Where("room_type_id = ?", roomTypeID)
	if !from.IsZero() && !to.IsZero() {
		q = q.Where("date >= ? AND date <= ?", utils.DateOnly(from), utils.DateOnly(to))
	}
	var overrides []models.CalendarOverride
	if err := q.Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("load overrides: %w", err)
	}

	rp := make([]pricing.RangePrice, 0, len(ranges))
	for _, r := range ranges {
		rp = append(rp, pricing.RangePrice{
			ID:           r.ID,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			WeekdayPrice: r.WeekdayPrice,
			WeekendPrice: r.WeekendPrice,
			MinNights:    r.MinNights,
			IsInactive:   r.IsInactive,
		})
	}
	ov := make([]pricing.Override, 0, len(overrides))
	for _, o := range overrides {
		ov = append(ov, pricing.Override{
			ID:         o.ID,
			Date:       o.Date,
			Price:      o.Price,
			MinNights:  o.MinNights,
			IsInactive: o.IsInactive,
		})
	}
	return pricing.NewCalendar(rp, ov, weekend), nil
}

func requireRoomType(tx *gorm.DB, id uint) (models.RoomType, error) {
	var rt models.RoomType
	if err := tx.First(&rt, id).Error; err != nil {
		return rt, notFoundOr(err, "room type", id)
	}
	return rt, nil
}

// Load returns the calendar covering [from, to].
func (s *CalendarService) Load(ctx context.Context, roomTypeID uint, from, to time.Time) (*pricing.Calendar, error) {
	db := s.DB.WithContext(ctx)
	if _, err := requireRoomType(db, roomTypeID); err != nil {
		return nil, err
	}
	return loadCalendar(db, s.Weekend, roomTypeID, from, to)
}

// ---------------------------------------------------------------------------
// Date ranges
// ---------------------------------------------------------------------------

func (s *CalendarService) ListDateRanges(ctx context.Context, roomTypeID uint) ([]models.DateRangePrice, error) {
	db := s.DB.WithContext(ctx)
	if _, err := requireRoomType(db, roomTypeID); err != nil {
		return nil, err
	}
	var ranges []models.DateRangePrice
	err := db.Where("room_type_id = ?", roomTypeID).Order("start_date").Find(&ranges).Error
	return ranges, err
}

func (in DateRangeInput) apply(r *models.DateRangePrice) error {
	start, err := utils.ParseDate(in.StartDate)
	if err != nil {
		return apperror.Validation("invalid_start_date", "%v", err)
	}
	end, err := utils.ParseDate(in.EndDate)
	if err != nil {
		return apperror.Validation("invalid_end_date", "%v", err)
	}
	if end.Before(start) {
		return apperror.Validation("invalid_date_order", "end date must not be before start date")
	}
	if in.WeekdayPrice < 0 || in.WeekendPrice < 0 {
		return apperror.Validation("invalid_price", "prices must not be negative")
	}
	r.StartDate = start
	r.EndDate = end
	r.WeekdayPrice = utils.RoundMoney(in.WeekdayPrice)
	r.WeekendPrice = utils.RoundMoney(in.WeekendPrice)
	r.MinNights = in.MinNights
	if r.MinNights < 1 {
		r.MinNights = 1
	}
	r.IsInactive = in.IsInactive
	return nil
}

// checkRangeOverlap rejects r when it shares any date with another range of
// the same room type. Both ends are inclusive.
func checkRangeOverlap(tx *gorm.DB, r models.DateRangePrice) error {
	var siblings []models.DateRangePrice
	if err := tx.Where("room_type_id = ? AND id <> ?", r.RoomTypeID, r.ID).Find(&siblings).Error; err != nil {
		return fmt.Errorf("load date ranges: %w", err)
	}
	for _, o := range siblings {
		if availability.RangesOverlap(r.StartDate, r.EndDate, utils.DateOnly(o.StartDate), utils.DateOnly(o.EndDate)) {
			return apperror.Conflict("date_range_overlap", "date range overlaps an existing range").
				With("conflictingRangeId", o.ID).
				With("startDate", utils.FormatDate(o.StartDate)).
				With("endDate", utils.FormatDate(o.EndDate))
		}
	}
	return nil
}

func (s *CalendarService) CreateDateRange(ctx context.Context, roomTypeID uint, in DateRangeInput) (models.DateRangePrice, error) {
	r := models.DateRangePrice{RoomTypeID: roomTypeID}
	if err := in.apply(&r); err != nil {
		return r, err
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// serialize writers of one room type's ranges
		if err := forUpdate(tx).First(&models.RoomType{}, roomTypeID).Error; err != nil {
			return notFoundOr(err, "room type", roomTypeID)
		}
		if err := checkRangeOverlap(tx, r); err != nil {
			return err
		}
		if err := tx.Create(&r).Error; err != nil {
			return writeErr(err, "create", "date range")
		}
		return nil
	})
	return r, err
}

func (s *CalendarService) UpdateDateRange(ctx context.Context, id uint, in DateRangeInput) (models.DateRangePrice, error) {
	var r models.DateRangePrice
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&r, id).Error; err != nil {
			return notFoundOr(err, "date range", id)
		}
		if err := forUpdate(tx).First(&models.RoomType{}, r.RoomTypeID).Error; err != nil {
			return notFoundOr(err, "room type", r.RoomTypeID)
		}
		if err := in.apply(&r); err != nil {
			return err
		}
		if err := checkRangeOverlap(tx, r); err != nil {
			return err
		}
		if err := tx.Save(&r).Error; err != nil {
			return writeErr(err, "update", "date range")
		}
		return nil
	})
	return r, err
}

func (s *CalendarService) DeleteDateRange(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.DateRangePrice{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete date range %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "date range", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Overrides
// ---------------------------------------------------------------------------

func (s *CalendarService) ListOverrides(ctx context.Context, roomTypeID uint, from, to *time.Time) ([]models.CalendarOverride, error) {
	db := s.DB.WithContext(ctx)
	if _, err := requireRoomType(db, roomTypeID); err != nil {
		return nil, err
	}
	q := db.Where("room_type_id = ?", roomTypeID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}
	var out []models.CalendarOverride
	err := q.Order("date").Find(&out).Error
	return out, err
}

// UpsertOverride writes the override for (room type, date). An input with no
// price, minimum nights or inactive flag removes it and returns nil.
func (s *CalendarService) UpsertOverride(ctx context.Context, roomTypeID uint, in OverrideInput) (*models.CalendarOverride, error) {
	date, err := utils.ParseDate(in.Date)
	if err != nil {
		return nil, apperror.Validation("invalid_date", "%v", err)
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, apperror.Validation("invalid_price", "price must not be negative")
	}
	if in.MinNights != nil && *in.MinNights < 1 {
		return nil, apperror.Validation("invalid_min_nights", "minimum nights must be at least 1")
	}

	var out *models.CalendarOverride
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireRoomType(tx, roomTypeID); err != nil {
			return err
		}
		if in.Price == nil && in.MinNights == nil && in.IsInactive == nil {
			return tx.Where("room_type_id = ? AND date = ?", roomTypeID, date).
				Delete(&models.CalendarOverride{}).Error
		}

		o := models.CalendarOverride{
			RoomTypeID: roomTypeID,
			Date:       date,
			Price:      in.Price,
			MinNights:  in.MinNights,
			IsInactive: in.IsInactive,
			Note:       in.Note,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_type_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "min_nights", "is_inactive", "note", "updated_at"}),
		}).Create(&o).Error
		if err != nil {
			return writeErr(err, "upsert", "calendar override")
		}

		var saved models.CalendarOverride
		if err := tx.Where("room_type_id = ? AND date = ?", roomTypeID, date).First(&saved).Error; err != nil {
			return fmt.Errorf("reload calendar override: %w", err)
		}
		out = &saved
		return nil
	})
	return out, err
}

func (s *CalendarService) DeleteOverride(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.CalendarOverride{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete calendar override %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "calendar override", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Special days
// ---------------------------------------------------------------------------

func (s *CalendarService) ListSpecialDays(ctx context.Context, from, to *time.Time) ([]models.SpecialDay, error) {
	q := s.DB.WithContext(ctx).Model(&models.SpecialDay{})
	if to != nil {
		q = q.Where("start_date <= ?", *to)
	}
	if from != nil {
		q = q.Where("end_date >= ?", *from)
	}
	var out []models.SpecialDay
	err := q.Order("start_date").Find(&out).Error
	return out, err
}

func (s *CalendarService) CreateSpecialDay(ctx context.Context, in SpecialDayInput) (models.SpecialDay, error) {
	var day models.SpecialDay
	if in.Name.IsEmpty() {
		return day, apperror.Validation("name_required", "special day name is required in at least one language")
	}
	start, err := utils.ParseDate(in.StartDate)
	if err != nil {
		return day, apperror.Validation("invalid_start_date", "%v", err)
	}
	end, err := utils.ParseDate(in.EndDate)
	if err != nil {
		return day, apperror.Validation("invalid_end_date", "%v", err)
	}
	if end.Before(start) {
		return day, apperror.Validation("invalid_date_order", "end date must not be before start date")
	}
	day = models.SpecialDay{Name: models.NewText(in.Name), StartDate: start, EndDate: end, Color: in.Color}
	if err := s.DB.WithContext(ctx).Create(&day).Error; err != nil {
		return day, writeErr(err, "create", "special day")
	}
	return day, nil
}

func (s *CalendarService) DeleteSpecialDay(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.SpecialDay{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete special day %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "special day", id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Calendar view
// ---------------------------------------------------------------------------

// View lists every date in [from, to) for a room type with its price,
// availability flags, special days and occupancy.
func (s *CalendarService) View(ctx context.Context, roomTypeID uint, from, to time.Time, lang string) ([]CalendarDay, error) {
	from, to = utils.DateOnly(from), utils.DateOnly(to)
	if err := requireDateOrder(from, to); err != nil {
		return nil, err
	}
	if utils.Nights(from, to) > 366 {
		return nil, apperror.Validation("range_too_large", "calendar window is limited to 366 days")
	}
	db := s.DB.WithContext(ctx)
	if _, err := requireRoomType(db, roomTypeID); err != nil {
		return nil, err
	}
	cal, err := loadCalendar(db, s.Weekend, roomTypeID, from, to)
	if err != nil {
		return nil, err
	}

	var roomIDs []uint
	if err := db.Model(&models.Room{}).Where("room_type_id = ? AND is_active = ?", roomTypeID, true).
		Pluck("id", &roomIDs).Error; err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	var bookings []models.Booking
	if len(roomIDs) > 0 {
		if err := db.Where("room_id IN ? AND status <> ? AND check_in < ? AND check_out > ?",
			roomIDs, models.StatusCancelled, to, from).Find(&bookings).Error; err != nil {
			return nil, fmt.Errorf("load bookings: %w", err)
		}
	}
	lastNight := to.AddDate(0, 0, -1)
	specials, err := s.ListSpecialDays(ctx, &from, &lastNight)
	if err != nil {
		return nil, err
	}

	days := make([]CalendarDay, 0, utils.Nights(from, to))
	for _, d := range utils.EachNight(from, to) {
		night, err := cal.PriceNight(d)
		if err != nil && !errors.Is(err, pricing.ErrDateInactive) {
			return nil, err
		}
		day := CalendarDay{
			NightPrice:  night,
			Inactive:    errors.Is(err, pricing.ErrDateInactive),
			MinNights:   cal.MinimumNights(d, d.AddDate(0, 0, 1)),
			SpecialDays: []string{},
			RoomCount:   len(roomIDs),
		}
		night1 := availability.Stay{CheckIn: d, CheckOut: d.AddDate(0, 0, 1)}
		for _, b := range bookings {
			if availability.StaysOverlap(availability.Stay{CheckIn: utils.DateOnly(b.CheckIn), CheckOut: utils.DateOnly(b.CheckOut)}, night1) {
				day.Booked++
			}
		}
		for _, sd := range specials {
			if !d.Before(utils.DateOnly(sd.StartDate)) && !d.After(utils.DateOnly(sd.EndDate)) {
				day.SpecialDays = append(day.SpecialDays, sd.Name.Data().Lookup(lang, models.DefaultLanguage))
			}
		}
		days = append(days, day)
	}
	return days, nil
}
