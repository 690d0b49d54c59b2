package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
	"guesthouse-backend/pricing"
)

func TestDateRangesMustNotOverlap(t *testing.T) {
	f := newFixture(t)

	// ranges are inclusive: sharing June 30 is an overlap
	_, err := f.calendar.CreateDateRange(f.ctx, f.roomType.ID, DateRangeInput{
		StartDate: "2024-06-30", EndDate: "2024-07-10", WeekdayPrice: 120, WeekendPrice: 170, MinNights: 1,
	})
	appErr := requireAppError(t, err, apperror.KindConflict, "date_range_overlap")
	assert.Equal(t, "2024-06-01", appErr.Details["startDate"])

	july, err := f.calendar.CreateDateRange(f.ctx, f.roomType.ID, DateRangeInput{
		StartDate: "2024-07-01", EndDate: "2024-07-10", WeekdayPrice: 120, WeekendPrice: 170,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, july.MinNights)

	_, err = f.calendar.UpdateDateRange(f.ctx, july.ID, DateRangeInput{
		StartDate: "2024-06-25", EndDate: "2024-07-10", WeekdayPrice: 120, WeekendPrice: 170,
	})
	requireAppError(t, err, apperror.KindConflict, "date_range_overlap")

	// a range never conflicts with itself on update
	updated, err := f.calendar.UpdateDateRange(f.ctx, july.ID, DateRangeInput{
		StartDate: "2024-07-01", EndDate: "2024-07-15", WeekdayPrice: 130, WeekendPrice: 180, MinNights: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 130.0, updated.WeekdayPrice)

	_, err = f.calendar.CreateDateRange(f.ctx, f.roomType.ID, DateRangeInput{StartDate: "2024-08-10", EndDate: "2024-08-01"})
	requireAppError(t, err, apperror.KindValidation, "invalid_date_order")

	_, err = f.calendar.CreateDateRange(f.ctx, 404, DateRangeInput{StartDate: "2024-08-01", EndDate: "2024-08-10"})
	requireAppError(t, err, apperror.KindNotFound, "room_type_not_found")

	ranges, err := f.calendar.ListDateRanges(f.ctx, f.roomType.ID)
	require.NoError(t, err)
	assert.Len(t, ranges, 2)

	require.NoError(t, f.calendar.DeleteDateRange(f.ctx, july.ID))
	requireAppError(t, f.calendar.DeleteDateRange(f.ctx, july.ID), apperror.KindNotFound, "date_range_not_found")
}

func TestUpsertOverrideKeepsOneRowPerDate(t *testing.T) {
	f := newFixture(t)

	first, err := f.calendar.UpsertOverride(f.ctx, f.roomType.ID, OverrideInput{Date: "2024-06-12", Price: ptr(90.0)})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 90.0, *first.Price)

	second, err := f.calendar.UpsertOverride(f.ctx, f.roomType.ID, OverrideInput{Date: "2024-06-12", Price: ptr(95.0), MinNights: ptr(3), Note: "konferencia"})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 95.0, *second.Price)
	assert.Equal(t, 3, *second.MinNights)
	assert.Equal(t, int64(1), count(t, f.db, &models.CalendarOverride{}))

	cal, err := f.calendar.Load(f.ctx, f.roomType.ID, day("2024-06-01"), day("2024-06-30"))
	require.NoError(t, err)
	night, err := cal.PriceNight(day("2024-06-12"))
	require.NoError(t, err)
	assert.Equal(t, pricing.SourceOverride, night.Source)
	assert.Equal(t, 95.0, night.Price)

	// clearing every field removes the override
	gone, err := f.calendar.UpsertOverride(f.ctx, f.roomType.ID, OverrideInput{Date: "2024-06-12"})
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Zero(t, count(t, f.db, &models.CalendarOverride{}))

	_, err = f.calendar.UpsertOverride(f.ctx, f.roomType.ID, OverrideInput{Date: "2024-06-12", MinNights: ptr(0)})
	requireAppError(t, err, apperror.KindValidation, "invalid_min_nights")
}

func TestCalendarView(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.roomA.ID, "2024-06-07", "2024-06-09", 2)
	// bookings of inactive rooms are not part of the occupancy count
	f.book(t, f.roomC.ID, "2024-06-06", "2024-06-09", 1)
	_, err := f.calendar.UpsertOverride(f.ctx, f.roomType.ID, OverrideInput{Date: "2024-06-09", IsInactive: ptr(true)})
	require.NoError(t, err)
	_, err = f.calendar.CreateSpecialDay(f.ctx, SpecialDayInput{
		Name:      models.LocalizedText{HU: "Falunap", EN: "Village day"},
		StartDate: "2024-06-08", EndDate: "2024-06-09",
	})
	require.NoError(t, err)

	days, err := f.calendar.View(f.ctx, f.roomType.ID, day("2024-06-06"), day("2024-06-10"), "en")
	require.NoError(t, err)
	require.Len(t, days, 4)

	assert.Equal(t, "2024-06-06", days[0].Date)
	assert.Equal(t, 0, days[0].Booked)
	assert.Equal(t, 2, days[0].RoomCount)
	assert.Equal(t, 2, days[0].MinNights)
	assert.Empty(t, days[0].SpecialDays)

	assert.Equal(t, 1, days[1].Booked)
	assert.Equal(t, 150.0, days[1].Price)
	assert.Equal(t, []string{"Village day"}, days[2].SpecialDays)

	assert.True(t, days[3].Inactive)
	assert.Equal(t, 0, days[3].Booked)
	assert.Equal(t, []string{"Village day"}, days[3].SpecialDays)

	_, err = f.calendar.View(f.ctx, f.roomType.ID, day("2024-01-01"), day("2025-06-01"), "")
	requireAppError(t, err, apperror.KindValidation, "range_too_large")
}

func TestSpecialDays(t *testing.T) {
	f := newFixture(t)
	_, err := f.calendar.CreateSpecialDay(f.ctx, SpecialDayInput{StartDate: "2024-08-20", EndDate: "2024-08-20"})
	requireAppError(t, err, apperror.KindValidation, "name_required")

	sd, err := f.calendar.CreateSpecialDay(f.ctx, SpecialDayInput{
		Name: models.LocalizedText{HU: "Államalapítás ünnepe"}, StartDate: "2024-08-20", EndDate: "2024-08-20", Color: "#d4a017",
	})
	require.NoError(t, err)

	from, to := day("2024-08-01"), day("2024-08-31")
	list, err := f.calendar.ListSpecialDays(f.ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Államalapítás ünnepe", list[0].Name.Data().Lookup("en", models.DefaultLanguage))

	sept := day("2024-09-01")
	list, err = f.calendar.ListSpecialDays(f.ctx, &sept, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, f.calendar.DeleteSpecialDay(f.ctx, sd.ID))
	requireAppError(t, f.calendar.DeleteSpecialDay(f.ctx, sd.ID), apperror.KindNotFound, "special_day_not_found")
}
