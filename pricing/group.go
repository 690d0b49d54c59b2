package pricing

import (
	"time"

	"guesthouse-backend/utils"
)

type RoomStay struct {
	RoomID     uint          `json:"roomId"`
	RoomName   string        `json:"roomName"`
	RoomTypeID uint          `json:"roomTypeId"`
	Stay       StayBreakdown `json:"stay"`
}

type GroupBreakdown struct {
	CheckIn            string     `json:"checkIn"`
	CheckOut           string     `json:"checkOut"`
	Nights             int        `json:"nights"`
	TotalGuests        int        `json:"totalGuests"`
	Rooms              []RoomStay `json:"rooms"`
	AccommodationTotal float64    `json:"accommodationTotal"`
	MandatoryTotal     float64    `json:"mandatoryTotal"`
	GrandTotal         float64    `json:"grandTotal"`
	HasGaps            bool       `json:"hasGaps"`
	HasUnavailable     bool       `json:"hasUnavailable"`
}

func (g GroupBreakdown) Priced() bool {
	return !g.HasGaps && !g.HasUnavailable
}

// SumGroup aggregates per-room stays that share one check-in/check-out.
func SumGroup(checkIn, checkOut time.Time, rooms []RoomStay) GroupBreakdown {
	out := GroupBreakdown{
		CheckIn:  utils.FormatDate(checkIn),
		CheckOut: utils.FormatDate(checkOut),
		Nights:   utils.Nights(utils.DateOnly(checkIn), utils.DateOnly(checkOut)),
		Rooms:    rooms,
	}
	for _, r := range rooms {
		out.TotalGuests += r.Stay.GuestCount
		out.AccommodationTotal += r.Stay.AccommodationTotal
		out.MandatoryTotal += r.Stay.MandatoryTotal
		out.GrandTotal += r.Stay.RoomTotal
		out.HasGaps = out.HasGaps || r.Stay.HasGaps
		out.HasUnavailable = out.HasUnavailable || len(r.Stay.UnavailableDates) > 0
	}
	out.AccommodationTotal = utils.RoundMoney(out.AccommodationTotal)
	out.MandatoryTotal = utils.RoundMoney(out.MandatoryTotal)
	out.GrandTotal = utils.RoundMoney(out.GrandTotal)
	return out
}
