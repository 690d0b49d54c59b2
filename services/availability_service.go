package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/availability"
	"guesthouse-backend/models"
	"guesthouse-backend/pricing"
	"guesthouse-backend/utils"
)

// AvailabilityService answers whether a room or room type can be booked for a stay.
type AvailabilityService struct {
	DB      *gorm.DB
	Weekend pricing.WeekendRule
}

func NewAvailabilityService(db *gorm.DB, weekend pricing.WeekendRule) *AvailabilityService {
	return &AvailabilityService{DB: db, Weekend: weekend}
}

type AvailabilityInput struct {
	RoomID           uint   `json:"roomId"`
	RoomTypeID       uint   `json:"roomTypeId"`
	CheckIn          string `json:"checkIn" binding:"required,isodate"`
	CheckOut         string `json:"checkOut" binding:"required,isodate"`
	ExcludeBookingID uint   `json:"excludeBookingId"`
}

type AvailabilityReport struct {
	Available   bool                         `json:"available"`
	Inactive    availability.InactiveResult  `json:"inactiveDays"`
	MinNights   availability.MinNightsResult `json:"minimumNights"`
	Conflicting *models.Booking              `json:"conflictingBooking"`
}

func (s *AvailabilityService) CheckInactiveDays(ctx context.Context, roomTypeID uint, checkIn, checkOut time.Time) (availability.InactiveResult, error) {
	if err := requireDateOrder(checkIn, checkOut); err != nil {
		return availability.InactiveResult{}, err
	}
	cal, err := (&CalendarService{DB: s.DB, Weekend: s.Weekend}).Load(ctx, roomTypeID, checkIn, checkOut)
	if err != nil {
		return availability.InactiveResult{}, err
	}
	return availability.CheckInactiveDays(cal, checkIn, checkOut), nil
}

func (s *AvailabilityService) CheckMinimumNights(ctx context.Context, roomTypeID uint, checkIn, checkOut time.Time) (availability.MinNightsResult, error) {
	if err := requireDateOrder(checkIn, checkOut); err != nil {
		return availability.MinNightsResult{}, err
	}
	cal, err := (&CalendarService{DB: s.DB, Weekend: s.Weekend}).Load(ctx, roomTypeID, checkIn, checkOut)
	if err != nil {
		return availability.MinNightsResult{}, err
	}
	return availability.CheckMinimumNights(cal, checkIn, checkOut), nil
}

// CheckOverlap returns the first non-cancelled booking of the room sharing a
// night with the stay, or nil. excludeID skips the booking being edited.
func (s *AvailabilityService) CheckOverlap(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) (*models.Booking, error) {
	if err := requireDateOrder(checkIn, checkOut); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := db.First(&models.Room{}, roomID).Error; err != nil {
		return nil, notFoundOr(err, "room", roomID)
	}
	return findOverlap(db, roomID, checkIn, checkOut, excludeID)
}

// Check runs every predicate for a room (or a room type when no room is given)
// and reports all results at once.
func (s *AvailabilityService) Check(ctx context.Context, in AvailabilityInput) (AvailabilityReport, error) {
	var report AvailabilityReport
	ci, co, err := parseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return report, err
	}
	db := s.DB.WithContext(ctx)

	roomTypeID := in.RoomTypeID
	if in.RoomID != 0 {
		room, err := loadRoom(db, in.RoomID)
		if err != nil {
			return report, err
		}
		roomTypeID = room.RoomTypeID
	}
	if roomTypeID == 0 {
		return report, apperror.Validation("room_required", "roomId or roomTypeId is required")
	}
	if _, err := requireRoomType(db, roomTypeID); err != nil {
		return report, err
	}

	cal, err := loadCalendar(db, s.Weekend, roomTypeID, ci, co)
	if err != nil {
		return report, err
	}
	report.Inactive = availability.CheckInactiveDays(cal, ci, co)
	report.MinNights = availability.CheckMinimumNights(cal, ci, co)
	if in.RoomID != 0 {
		report.Conflicting, err = findOverlap(db, in.RoomID, ci, co, in.ExcludeBookingID)
		if err != nil {
			return report, err
		}
	}
	report.Available = report.Inactive.Valid && report.MinNights.Valid && report.Conflicting == nil
	return report, nil
}

func findOverlap(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID uint) (*models.Booking, error) {
	// narrow in SQL, decide with the half-open rule
	var rows []models.Booking
	if err := tx.Where("room_id = ? AND status <> ? AND check_out > ?", roomID, models.StatusCancelled, utils.DateOnly(checkIn)).
		Order("check_in").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load bookings of room %d: %w", roomID, err)
	}
	existing := make([]availability.Reservation, 0, len(rows))
	byID := make(map[uint]*models.Booking, len(rows))
	for i := range rows {
		b := &rows[i]
		byID[b.ID] = b
		existing = append(existing, availability.Reservation{
			ID:        b.ID,
			Stay:      availability.Stay{CheckIn: utils.DateOnly(b.CheckIn), CheckOut: utils.DateOnly(b.CheckOut)},
			Cancelled: b.IsCancelled(),
		})
	}
	hit, ok := availability.FindConflict(existing, availability.Stay{CheckIn: utils.DateOnly(checkIn), CheckOut: utils.DateOnly(checkOut)}, excludeID)
	if !ok {
		return nil, nil
	}
	return byID[hit.ID], nil
}

// validateRoomStay runs the booking protocol for one room after date order
// and existence have been checked: active flag, inactive days, minimum nights
// and overlap.
func validateRoomStay(tx *gorm.DB, weekend pricing.WeekendRule, room models.Room, source models.BookingSource, checkIn, checkOut time.Time, excludeID uint) error {
	if source == models.SourceWebsite && !room.IsActive {
		return apperror.Conflict("room_inactive", "room %s is not bookable online", room.Name).With("roomId", room.ID)
	}
	cal, err := loadCalendar(tx, weekend, room.RoomTypeID, checkIn, checkOut)
	if err != nil {
		return err
	}
	if res := availability.CheckInactiveDays(cal, checkIn, checkOut); !res.Valid {
		return apperror.Conflict("dates_inactive", "room %s cannot be booked on some dates", room.Name).
			With("roomId", room.ID).
			With("inactiveDates", res.InactiveDates)
	}
	if res := availability.CheckMinimumNights(cal, checkIn, checkOut); !res.Valid {
		return apperror.Conflict("minimum_nights", "stay of %d nights is shorter than the required %d", res.Actual, res.Required).
			With("roomId", room.ID).
			With("required", res.Required).
			With("actual", res.Actual)
	}
	hit, err := findOverlap(tx, room.ID, checkIn, checkOut, excludeID)
	if err != nil {
		return err
	}
	if hit != nil {
		return apperror.Conflict("booking_overlap", "room %s is already booked for these dates", room.Name).
			With("roomId", room.ID).
			With("conflictingBookingId", hit.ID).
			With("checkIn", utils.FormatDate(hit.CheckIn)).
			With("checkOut", utils.FormatDate(hit.CheckOut))
	}
	return nil
}

// checkCapacity loads the room's type and rejects a guest count above its
// capacity. A zero capacity is unlimited.
func checkCapacity(tx *gorm.DB, room models.Room, guests int) (models.RoomType, error) {
	rt, err := requireRoomType(tx, room.RoomTypeID)
	if err != nil {
		return rt, err
	}
	if rt.Capacity > 0 && guests > rt.Capacity {
		return rt, apperror.Validation("capacity_exceeded", "room %s sleeps at most %d guests", room.Name, rt.Capacity).
			With("roomId", room.ID).
			With("capacity", rt.Capacity)
	}
	return rt, nil
}

// lockRooms loads and locks rooms in ascending id order.
func lockRooms(tx *gorm.DB, ids []uint) (map[uint]models.Room, error) {
	sorted := append([]uint(nil), ids...)
	sortUints(sorted)
	out := make(map[uint]models.Room, len(sorted))
	for _, id := range sorted {
		var room models.Room
		if err := forUpdate(tx).First(&room, id).Error; err != nil {
			return nil, notFoundOr(err, "room", id)
		}
		out[id] = room
	}
	return out, nil
}
