package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
)

func (f *fixture) groupInput(checkIn, checkOut string, rooms ...RoomGuests) BookingGroupInput {
	return BookingGroupInput{
		GuestDetails: GuestDetails{GuestName: " Családi Kirándulás ", GuestEmail: "csalad@example.com", GuestPhone: "+36 30 123 4567"},
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		Rooms:        rooms,
	}
}

func TestCreateGroupSumsRoomsAndCreatesMembers(t *testing.T) {
	f := newFixture(t)
	g, err := f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 2},
	))
	require.NoError(t, err)

	require.NotNil(t, g.TotalAmount)
	assert.Equal(t, 870.0, *g.TotalAmount)
	assert.True(t, strings.HasPrefix(g.ReferenceCode, "GR-"))
	assert.Equal(t, "Családi Kirándulás", g.GuestName)
	assert.Equal(t, models.PaymentPending, g.PaymentStatus)

	require.Len(t, g.Bookings, 2)
	for _, m := range g.Bookings {
		require.NotNil(t, m.GroupID)
		assert.Equal(t, g.ID, *m.GroupID)
		assert.Equal(t, g.ReferenceCode, m.ReferenceCode)
		assert.Equal(t, "Családi Kirándulás", m.GuestName)
		assert.Equal(t, "+36 30 123 4567", m.GuestPhone)
		assert.Len(t, m.PriceLines, 2)
		require.NotNil(t, m.TotalAmount)
		assert.Equal(t, 435.0, *m.TotalAmount)
	}
}

func TestCreateGroupRejectsEverythingOnOneConflict(t *testing.T) {
	f := newFixture(t)
	blocker := f.book(t, f.roomB.ID, "2024-06-08", "2024-06-10", 1)

	_, err := f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 2},
	))
	appErr := requireAppError(t, err, apperror.KindConflict, "booking_overlap")
	assert.Equal(t, blocker.ID, appErr.Details["conflictingBookingId"])
	assert.Equal(t, f.roomB.ID, appErr.Details["roomId"])

	assert.Zero(t, count(t, f.db, &models.BookingGroup{}))
	assert.Equal(t, int64(1), count(t, f.db, &models.Booking{}))

	// once the blocker is cancelled the same group goes through
	_, err = f.bookings.Cancel(f.ctx, blocker.ID)
	require.NoError(t, err)
	_, err = f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 2},
	))
	require.NoError(t, err)
}

func TestCreateGroupValidatesRooms(t *testing.T) {
	f := newFixture(t)
	_, err := f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
	))
	requireAppError(t, err, apperror.KindValidation, "group_minimum_rooms")

	_, err = f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 1},
	))
	requireAppError(t, err, apperror.KindValidation, "duplicate_room")

	_, err = f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: 999, GuestCount: 1},
	))
	requireAppError(t, err, apperror.KindNotFound, "room_not_found")

	_, err = f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-07",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 1},
	))
	requireAppError(t, err, apperror.KindConflict, "minimum_nights")
	assert.Zero(t, count(t, f.db, &models.Booking{}))

	_, err = f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 4},
	))
	appErr := requireAppError(t, err, apperror.KindValidation, "capacity_exceeded")
	assert.Equal(t, f.roomB.ID, appErr.Details["roomId"])
	assert.Equal(t, 3, appErr.Details["capacity"])
	assert.Zero(t, count(t, f.db, &models.BookingGroup{}))
	assert.Zero(t, count(t, f.db, &models.Booking{}))
}

func TestUpdateGroupDates(t *testing.T) {
	f := newFixture(t)
	g, err := f.groups.Create(f.ctx, f.groupInput("2024-06-03", "2024-06-05",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 1},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 1},
	))
	require.NoError(t, err)
	blocker := f.book(t, f.roomB.ID, "2024-06-10", "2024-06-12", 1)

	_, err = f.groups.UpdateDates(f.ctx, g.ID, GroupDatesInput{CheckIn: "2024-06-09", CheckOut: "2024-06-11"})
	appErr := requireAppError(t, err, apperror.KindConflict, "booking_overlap")
	assert.Equal(t, blocker.ID, appErr.Details["conflictingBookingId"])

	unchanged, err := f.groups.Get(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", unchanged.CheckIn.Format("2006-01-02"))
	for _, m := range unchanged.Bookings {
		assert.Equal(t, "2024-06-05", m.CheckOut.Format("2006-01-02"))
	}

	// overlapping its own previous range is fine
	moved, err := f.groups.UpdateDates(f.ctx, g.ID, GroupDatesInput{CheckIn: "2024-06-04", CheckOut: "2024-06-07"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-04", moved.CheckIn.Format("2006-01-02"))
	// per room: 3 weekday nights 300 + tax 7.5 + cleaning 20
	require.NotNil(t, moved.TotalAmount)
	assert.Equal(t, 655.0, *moved.TotalAmount)
	for _, m := range moved.Bookings {
		assert.Equal(t, "2024-06-07", m.CheckOut.Format("2006-01-02"))
		require.Len(t, m.PriceLines, 2)
	}

	_, err = f.bookings.Update(f.ctx, moved.Bookings[0].ID, BookingUpdateInput{CheckIn: ptr("2024-06-05")})
	requireAppError(t, err, apperror.KindValidation, "group_member_dates")
}

func TestUpdateGroupDatesSkipsCancelledMembers(t *testing.T) {
	f := newFixture(t)
	g, err := f.groups.Create(f.ctx, f.groupInput("2024-06-03", "2024-06-05",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 1},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 1},
		RoomGuests{RoomID: f.roomC.ID, GuestCount: 1},
	))
	require.NoError(t, err)
	require.NotNil(t, g.TotalAmount)
	assert.Equal(t, 675.0, *g.TotalAmount)

	var memberC models.Booking
	for _, m := range g.Bookings {
		if m.RoomID == f.roomC.ID {
			memberC = m
		}
	}
	require.NotZero(t, memberC.ID)
	_, err = f.bookings.Cancel(f.ctx, memberC.ID)
	require.NoError(t, err)

	// a booking on the cancelled room does not block the move
	f.book(t, f.roomC.ID, "2024-06-05", "2024-06-07", 1)

	moved, err := f.groups.UpdateDates(f.ctx, g.ID, GroupDatesInput{CheckIn: "2024-06-04", CheckOut: "2024-06-07"})
	require.NoError(t, err)
	require.NotNil(t, moved.TotalAmount)
	assert.Equal(t, 655.0, *moved.TotalAmount)

	for _, m := range moved.Bookings {
		assert.Equal(t, "2024-06-07", m.CheckOut.Format("2006-01-02"))
		require.NotNil(t, m.TotalAmount)
		if m.ID == memberC.ID {
			assert.Equal(t, 225.0, *m.TotalAmount)
		} else {
			assert.Equal(t, 327.5, *m.TotalAmount)
		}
	}

	page, err := f.reservations.List(f.ctx, ReservationFilter{Kind: KindGroup})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].RoomCount)
	require.NotNil(t, page.Items[0].TotalAmount)
	assert.Equal(t, 655.0, *page.Items[0].TotalAmount)
}

func TestMemberChargesFollowIntoGroupTotal(t *testing.T) {
	f := newFixture(t)
	g, err := f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 2},
	))
	require.NoError(t, err)
	_, err = f.payments.AddToGroup(f.ctx, g.ID, PaymentInput{Amount: 870, Currency: models.CurrencyEUR, Method: models.MethodCash})
	require.NoError(t, err)

	member := g.Bookings[0]
	line, err := f.bookings.AddPriceLine(f.ctx, member.ID, PriceLineInput{Title: "Late checkout", UnitPrice: 15})
	require.NoError(t, err)

	got, err := f.groups.Get(f.ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TotalAmount)
	assert.Equal(t, 885.0, *got.TotalAmount)
	assert.Equal(t, models.PaymentPartiallyPaid, got.PaymentStatus)

	require.NoError(t, f.bookings.RemovePriceLine(f.ctx, member.ID, line.ID))
	got, err = f.groups.Get(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 870.0, *got.TotalAmount)
	assert.Equal(t, models.PaymentFullyPaid, got.PaymentStatus)

	// one guest fewer drops 3 nights of tourist tax
	_, err = f.bookings.Update(f.ctx, member.ID, BookingUpdateInput{GuestCount: ptr(1)})
	require.NoError(t, err)
	got, err = f.groups.Get(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 862.5, *got.TotalAmount)
	assert.Equal(t, models.PaymentFullyPaid, got.PaymentStatus)

	_, err = f.bookings.Update(f.ctx, member.ID, BookingUpdateInput{GuestCount: ptr(4)})
	requireAppError(t, err, apperror.KindValidation, "capacity_exceeded")
}

func TestDeleteGroupMembersAndGroup(t *testing.T) {
	f := newFixture(t)
	g, err := f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 2},
	))
	require.NoError(t, err)
	_, err = f.payments.AddToGroup(f.ctx, g.ID, PaymentInput{Amount: 200, Currency: models.CurrencyEUR, Method: models.MethodTransfer})
	require.NoError(t, err)

	err = f.bookings.Delete(f.ctx, g.Bookings[0].ID)
	requireAppError(t, err, apperror.KindConflict, "group_minimum_rooms")

	cancelled, err := f.groups.Cancel(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	for _, m := range cancelled.Bookings {
		assert.Equal(t, models.StatusCancelled, m.Status)
	}

	require.NoError(t, f.groups.Delete(f.ctx, g.ID))
	assert.Zero(t, count(t, f.db, &models.BookingGroup{}))
	assert.Zero(t, count(t, f.db, &models.Booking{}))
	assert.Zero(t, count(t, f.db, &models.BookingPriceLine{}))
	assert.Zero(t, count(t, f.db, &models.Payment{}))

	_, err = f.groups.Get(f.ctx, g.ID)
	requireAppError(t, err, apperror.KindNotFound, "booking_group_not_found")
}
