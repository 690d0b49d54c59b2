package pricing

import (
	"errors"
	"sort"
	"time"

	"guesthouse-backend/utils"
)

type Source string

const (
	SourceOverride  Source = "override"
	SourceDateRange Source = "dateRange"
	SourceNone      Source = "none"
)

var ErrDateInactive = errors.New("pricing: date is inactive")

// RangePrice is a weekday/weekend price over the inclusive span [StartDate, EndDate].
type RangePrice struct {
	ID           uint
	StartDate    time.Time
	EndDate      time.Time
	WeekdayPrice float64
	WeekendPrice float64
	MinNights    int
	IsInactive   bool
}

func (r RangePrice) Contains(d time.Time) bool {
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

// Override is a single-date exception. Nil fields defer to the covering range.
type Override struct {
	ID         uint
	Date       time.Time
	Price      *float64
	MinNights  *int
	IsInactive *bool
}

// NightPrice is one line of a nightly breakdown.
type NightPrice struct {
	Date      string  `json:"date"`
	DayOfWeek string  `json:"dayOfWeek"`
	Price     float64 `json:"price"`
	IsWeekend bool    `json:"isWeekend"`
	Source    Source  `json:"source"`
	Available bool    `json:"available"`
}

// Calendar holds the pricing configuration of one room type.
type Calendar struct {
	ranges    []RangePrice
	overrides map[string]Override
	weekend   WeekendRule
}

func NewCalendar(ranges []RangePrice, overrides []Override, weekend WeekendRule) *Calendar {
	if weekend.IsZero() {
		weekend = DefaultWeekend
	}
	c := &Calendar{
		ranges:    make([]RangePrice, 0, len(ranges)),
		overrides: make(map[string]Override, len(overrides)),
		weekend:   weekend,
	}
	for _, r := range ranges {
		r.StartDate = utils.DateOnly(r.StartDate)
		r.EndDate = utils.DateOnly(r.EndDate)
		c.ranges = append(c.ranges, r)
	}
	sort.SliceStable(c.ranges, func(i, j int) bool {
		return c.ranges[i].StartDate.Before(c.ranges[j].StartDate)
	})
	for _, o := range overrides {
		o.Date = utils.DateOnly(o.Date)
		c.overrides[utils.FormatDate(o.Date)] = o
	}
	return c
}

func (c *Calendar) Weekend() WeekendRule {
	return c.weekend
}

func (c *Calendar) override(d time.Time) (Override, bool) {
	o, ok := c.overrides[utils.FormatDate(d)]
	return o, ok
}

func (c *Calendar) activeRange(d time.Time) (RangePrice, bool) {
	for _, r := range c.ranges {
		if !r.IsInactive && r.Contains(d) {
			return r, true
		}
	}
	return RangePrice{}, false
}

// IsInactive reports whether d cannot be booked. An override with an explicit
// flag decides, and an override price opens the date; otherwise an inactive
// covering range does.
func (c *Calendar) IsInactive(d time.Time) bool {
	d = utils.DateOnly(d)
	if o, ok := c.override(d); ok {
		if o.IsInactive != nil {
			return *o.IsInactive
		}
		if o.Price != nil {
			return false
		}
	}
	if _, ok := c.activeRange(d); ok {
		return false
	}
	for _, r := range c.ranges {
		if r.IsInactive && r.Contains(d) {
			return true
		}
	}
	return false
}

// PriceNight prices a single night. Inactive dates return ErrDateInactive with a
// zero-priced, unavailable line.
func (c *Calendar) PriceNight(d time.Time) (NightPrice, error) {
	d = utils.DateOnly(d)
	night := NightPrice{
		Date:      utils.FormatDate(d),
		DayOfWeek: d.Weekday().String(),
		IsWeekend: c.weekend.IsWeekend(d),
		Source:    SourceNone,
	}
	if c.IsInactive(d) {
		return night, ErrDateInactive
	}
	night.Available = true

	if o, ok := c.override(d); ok && o.Price != nil {
		night.Price = *o.Price
		night.Source = SourceOverride
		return night, nil
	}
	if r, ok := c.activeRange(d); ok {
		night.Price = r.WeekdayPrice
		if night.IsWeekend {
			night.Price = r.WeekendPrice
		}
		night.Source = SourceDateRange
	}
	return night, nil
}

// MinimumNights is the strictest rule touched by the stay: overrides on any
// night inside it and ranges overlapping it. Defaults to 1.
func (c *Calendar) MinimumNights(checkIn, checkOut time.Time) int {
	nights := utils.EachNight(checkIn, checkOut)
	required := 1
	if len(nights) == 0 {
		return required
	}
	first, last := nights[0], nights[len(nights)-1]
	for _, d := range nights {
		if o, ok := c.override(d); ok && o.MinNights != nil && *o.MinNights > required {
			required = *o.MinNights
		}
	}
	for _, r := range c.ranges {
		if !r.StartDate.After(last) && !r.EndDate.Before(first) && r.MinNights > required {
			required = r.MinNights
		}
	}
	return required
}

// InactiveDates lists every night in [checkIn, checkOut) that cannot be booked.
func (c *Calendar) InactiveDates(checkIn, checkOut time.Time) []string {
	var out []string
	for _, d := range utils.EachNight(checkIn, checkOut) {
		if c.IsInactive(d) {
			out = append(out, utils.FormatDate(d))
		}
	}
	return out
}
