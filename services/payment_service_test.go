package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
)

func TestPaymentsDrivePaymentStatus(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, f.roomA.ID, "2024-06-06", "2024-06-09", 2) // 435

	p1, err := f.payments.AddToBooking(f.ctx, b.ID, PaymentInput{Amount: 200, Currency: models.CurrencyEUR, Method: models.MethodCash, PaidAt: "2024-05-01"})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", p1.PaidAt.Format("2006-01-02"))

	got, err := f.bookings.Get(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartiallyPaid, got.PaymentStatus)

	p2, err := f.payments.AddToBooking(f.ctx, b.ID, PaymentInput{Amount: 235, Currency: models.CurrencyEUR, Method: models.MethodCreditCard})
	require.NoError(t, err)
	got, err = f.bookings.Get(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFullyPaid, got.PaymentStatus)
	assert.Len(t, got.Payments, 2)

	require.NoError(t, f.payments.Delete(f.ctx, p2.ID))
	got, err = f.bookings.Get(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPartiallyPaid, got.PaymentStatus)

	summary, err := f.payments.BookingLedger(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, summary.PaidEur)
	assert.Equal(t, models.CurrencyEUR, summary.Basis)
	require.NotNil(t, summary.Remaining)
	assert.Equal(t, 235.0, *summary.Remaining)

	// raising the total re-derives the status without a new payment
	_, err = f.bookings.Update(f.ctx, b.ID, BookingUpdateInput{TotalAmount: ptr(200.0)})
	require.NoError(t, err)
	got, err = f.bookings.Get(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFullyPaid, got.PaymentStatus)
}

func TestCustomHufPriceSwitchesBasis(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, f.roomA.ID, "2024-06-06", "2024-06-09", 2)
	_, err := f.bookings.Update(f.ctx, b.ID, BookingUpdateInput{CustomHufPrice: ptr(170000.0)})
	require.NoError(t, err)

	// EUR payments no longer settle a HUF-priced booking
	_, err = f.payments.AddToBooking(f.ctx, b.ID, PaymentInput{Amount: 435, Currency: models.CurrencyEUR, Method: models.MethodCash})
	require.NoError(t, err)
	got, err := f.bookings.Get(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, got.PaymentStatus)

	_, err = f.payments.AddToBooking(f.ctx, b.ID, PaymentInput{Amount: 170000, Currency: models.CurrencyHUF, Method: models.MethodTransfer})
	require.NoError(t, err)
	summary, err := f.payments.BookingLedger(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyHUF, summary.Basis)
	assert.Equal(t, models.PaymentFullyPaid, summary.Status)
	assert.Equal(t, 0.0, *summary.Remaining)
}

func TestGroupPaymentsAreTrackedOnTheGroup(t *testing.T) {
	f := newFixture(t)
	g, err := f.groups.Create(f.ctx, f.groupInput("2024-06-06", "2024-06-09",
		RoomGuests{RoomID: f.roomA.ID, GuestCount: 2},
		RoomGuests{RoomID: f.roomB.ID, GuestCount: 2},
	))
	require.NoError(t, err)

	_, err = f.payments.AddToGroup(f.ctx, g.ID, PaymentInput{Amount: 870, Currency: models.CurrencyEUR, Method: models.MethodTransfer})
	require.NoError(t, err)

	got, err := f.groups.Get(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFullyPaid, got.PaymentStatus)
	for _, m := range got.Bookings {
		assert.Equal(t, models.PaymentPending, m.PaymentStatus)
	}

	list, err := f.payments.ListForGroup(f.ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	memberPayments, err := f.payments.ListForBooking(f.ctx, got.Bookings[0].ID)
	require.NoError(t, err)
	assert.Empty(t, memberPayments)
}

func TestPaymentErrors(t *testing.T) {
	f := newFixture(t)
	_, err := f.payments.AddToBooking(f.ctx, 77, PaymentInput{Amount: 10, Currency: models.CurrencyEUR, Method: models.MethodCash})
	requireAppError(t, err, apperror.KindNotFound, "booking_not_found")

	b := f.book(t, f.roomA.ID, "2024-06-06", "2024-06-09", 2)
	_, err = f.payments.AddToBooking(f.ctx, b.ID, PaymentInput{Amount: 0, Currency: models.CurrencyEUR, Method: models.MethodCash})
	requireAppError(t, err, apperror.KindValidation, "invalid_amount")

	err = f.payments.Delete(f.ctx, 123)
	requireAppError(t, err, apperror.KindNotFound, "payment_not_found")
}
