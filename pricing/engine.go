// Package pricing computes nightly accommodation prices and stay totals from a
// room type's date-range prices, calendar overrides and fee catalog.
package pricing

import (
	"errors"
	"time"

	"guesthouse-backend/utils"
)

var (
	ErrInvalidDateOrder  = errors.New("pricing: check-out must be after check-in")
	ErrInvalidGuestCount = errors.New("pricing: guest count must be at least 1")
)

type StayBreakdown struct {
	CheckIn            string       `json:"checkIn"`
	CheckOut           string       `json:"checkOut"`
	Nights             int          `json:"nights"`
	GuestCount         int          `json:"guestCount"`
	NightlyBreakdown   []NightPrice `json:"nightlyBreakdown"`
	AccommodationTotal float64      `json:"accommodationTotal"`
	MandatoryPrices    []FeeLine    `json:"mandatoryPrices"`
	MandatoryTotal     float64      `json:"mandatoryTotal"`
	RoomTotal          float64      `json:"roomTotal"`
	OptionalPrices     []FeeLine    `json:"optionalPrices"`
	HasGaps            bool         `json:"hasGaps"`
	UnavailableDates   []string     `json:"unavailableDates,omitempty"`
}

// Priced reports whether every night has a configured price and can be booked.
func (b StayBreakdown) Priced() bool {
	return !b.HasGaps && len(b.UnavailableDates) == 0
}

// PriceStay prices every night in [checkIn, checkOut) and adds the mandatory
// fees. Optional fees are listed with their would-be quantity but never summed.
func PriceStay(cal *Calendar, fees []Fee, checkIn, checkOut time.Time, guestCount int) (StayBreakdown, error) {
	checkIn, checkOut = utils.DateOnly(checkIn), utils.DateOnly(checkOut)
	if !checkOut.After(checkIn) {
		return StayBreakdown{}, ErrInvalidDateOrder
	}
	if guestCount < 1 {
		return StayBreakdown{}, ErrInvalidGuestCount
	}

	out := StayBreakdown{
		CheckIn:          utils.FormatDate(checkIn),
		CheckOut:         utils.FormatDate(checkOut),
		Nights:           utils.Nights(checkIn, checkOut),
		GuestCount:       guestCount,
		NightlyBreakdown: []NightPrice{},
		MandatoryPrices:  []FeeLine{},
		OptionalPrices:   []FeeLine{},
	}

	for _, d := range utils.EachNight(checkIn, checkOut) {
		night, err := cal.PriceNight(d)
		switch {
		case errors.Is(err, ErrDateInactive):
			out.UnavailableDates = append(out.UnavailableDates, night.Date)
		case err != nil:
			return StayBreakdown{}, err
		case night.Source == SourceNone:
			out.HasGaps = true
		}
		out.AccommodationTotal += night.Price
		out.NightlyBreakdown = append(out.NightlyBreakdown, night)
	}
	out.AccommodationTotal = utils.RoundMoney(out.AccommodationTotal)

	mandatory, optional := SplitFees(fees)
	for _, f := range mandatory {
		line := f.Line(out.Nights, guestCount)
		out.MandatoryPrices = append(out.MandatoryPrices, line)
		out.MandatoryTotal += line.Total
	}
	for _, f := range optional {
		out.OptionalPrices = append(out.OptionalPrices, f.Line(out.Nights, guestCount))
	}
	out.MandatoryTotal = utils.RoundMoney(out.MandatoryTotal)
	out.RoomTotal = utils.RoundMoney(out.AccommodationTotal + out.MandatoryTotal)
	return out, nil
}
