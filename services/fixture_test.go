package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"guesthouse-backend/config"
	"guesthouse-backend/models"
	"guesthouse-backend/pricing"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.Open(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:", DBLogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

// fixture is one building with a double-room type priced for June 2024
// (100 weekday / 150 weekend, min 2 nights), rooms A and B active, C inactive.
type fixture struct {
	db        *gorm.DB
	ctx       context.Context
	building  models.Building
	roomType  models.RoomType
	roomA     models.Room
	roomB     models.Room
	roomC     models.Room
	breakfast models.AdditionalPrice

	calendar     *CalendarService
	pricing      *PricingService
	availability *AvailabilityService
	bookings     *BookingService
	groups       *BookingGroupService
	payments     *PaymentService
	reservations *ReservationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db, ctx: context.Background()}

	f.building = models.Building{Name: models.NewText(models.LocalizedText{HU: "Tópart", EN: "Lakeside"}), Slug: "topart"}
	require.NoError(t, db.Create(&f.building).Error)
	f.roomType = models.RoomType{
		BuildingID:  f.building.ID,
		Name:        models.NewText(models.LocalizedText{HU: "Kétágyas", EN: "Double"}),
		Description: models.NewText(models.LocalizedText{}),
		Capacity:    3,
	}
	require.NoError(t, db.Create(&f.roomType).Error)

	f.roomA = models.Room{RoomTypeID: f.roomType.ID, Name: "A", IsActive: true}
	f.roomB = models.Room{RoomTypeID: f.roomType.ID, Name: "B", IsActive: true}
	f.roomC = models.Room{RoomTypeID: f.roomType.ID, Name: "C", IsActive: false}
	for _, r := range []*models.Room{&f.roomA, &f.roomB, &f.roomC} {
		require.NoError(t, db.Create(r).Error)
	}

	require.NoError(t, db.Create(&models.DateRangePrice{
		RoomTypeID:   f.roomType.ID,
		StartDate:    day("2024-06-01"),
		EndDate:      day("2024-06-30"),
		WeekdayPrice: 100,
		WeekendPrice: 150,
		MinNights:    2,
	}).Error)

	tax := models.AdditionalPrice{
		BuildingID: &f.building.ID,
		Title:      models.NewText(models.LocalizedText{HU: "Idegenforgalmi adó", EN: "Tourist tax"}),
		PriceEur:   2.5, Mandatory: true, PerNight: true, PerGuest: true, SortOrder: 1,
	}
	cleaning := models.AdditionalPrice{
		RoomTypeID: &f.roomType.ID,
		Title:      models.NewText(models.LocalizedText{HU: "Takarítás", EN: "Cleaning"}),
		PriceEur:   20, Mandatory: true, SortOrder: 2,
	}
	f.breakfast = models.AdditionalPrice{
		BuildingID: &f.building.ID,
		Title:      models.NewText(models.LocalizedText{HU: "Reggeli", EN: "Breakfast"}),
		PriceEur:   10, PerNight: true, PerGuest: true, SortOrder: 3,
	}
	for _, ap := range []*models.AdditionalPrice{&tax, &cleaning, &f.breakfast} {
		require.NoError(t, db.Create(ap).Error)
	}

	weekend := pricing.DefaultWeekend
	f.calendar = NewCalendarService(db, weekend)
	f.pricing = NewPricingService(db, weekend)
	f.availability = NewAvailabilityService(db, weekend)
	f.bookings = NewBookingService(db, weekend)
	f.groups = NewBookingGroupService(db, weekend)
	f.payments = NewPaymentService(db)
	f.reservations = NewReservationService(db)
	return f
}

func (f *fixture) book(t *testing.T, roomID uint, checkIn, checkOut string, guests int) models.Booking {
	t.Helper()
	b, err := f.bookings.Create(f.ctx, BookingInput{
		GuestDetails: GuestDetails{GuestName: "Kovács Anna", GuestEmail: "anna@example.com"},
		RoomID:       roomID,
		GuestCount:   guests,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
	})
	require.NoError(t, err)
	return b
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
