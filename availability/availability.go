// Package availability holds the predicates that guard booking creation and
// date changes: inactive days, minimum stay and overlap rules.
package availability

import (
	"time"

	"guesthouse-backend/pricing"
	"guesthouse-backend/utils"
)

// Stay is a half-open span [CheckIn, CheckOut).
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// StaysOverlap reports whether two stays share a night. A stay checking out
// the day another checks in does not overlap it.
func StaysOverlap(a, b Stay) bool {
	return a.CheckIn.Before(b.CheckOut) && a.CheckOut.After(b.CheckIn)
}

// RangesOverlap is the inclusive test used between price ranges:
// ranges sharing an endpoint date overlap.
func RangesOverlap(startA, endA, startB, endB time.Time) bool {
	return !startA.After(endB) && !endA.Before(startB)
}

type InactiveResult struct {
	Valid         bool     `json:"valid"`
	InactiveDates []string `json:"inactiveDates"`
}

func CheckInactiveDays(cal *pricing.Calendar, checkIn, checkOut time.Time) InactiveResult {
	dates := cal.InactiveDates(checkIn, checkOut)
	if dates == nil {
		dates = []string{}
	}
	return InactiveResult{Valid: len(dates) == 0, InactiveDates: dates}
}

type MinNightsResult struct {
	Valid    bool `json:"valid"`
	Required int  `json:"required"`
	Actual   int  `json:"actual"`
}

func CheckMinimumNights(cal *pricing.Calendar, checkIn, checkOut time.Time) MinNightsResult {
	required := cal.MinimumNights(checkIn, checkOut)
	actual := utils.Nights(utils.DateOnly(checkIn), utils.DateOnly(checkOut))
	return MinNightsResult{Valid: actual >= required, Required: required, Actual: actual}
}

// Reservation is an existing booking of one room as seen by the overlap check.
type Reservation struct {
	ID        uint
	Stay      Stay
	Cancelled bool
}

// FindConflict returns the first non-cancelled reservation overlapping
// candidate, skipping excludeID (0 excludes nothing).
func FindConflict(existing []Reservation, candidate Stay, excludeID uint) (Reservation, bool) {
	for _, r := range existing {
		if r.Cancelled || (excludeID != 0 && r.ID == excludeID) {
			continue
		}
		if StaysOverlap(r.Stay, candidate) {
			return r, true
		}
	}
	return Reservation{}, false
}
