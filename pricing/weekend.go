package pricing

import (
	"fmt"
	"strings"
	"time"
)

// WeekendRule decides which nights are charged at the weekend rate.
// The zero value has no weekend nights.
type WeekendRule struct {
	days [7]bool
}

// DefaultWeekend charges Friday and Saturday nights at the weekend rate.
var DefaultWeekend = NewWeekendRule(time.Friday, time.Saturday)

func NewWeekendRule(days ...time.Weekday) WeekendRule {
	var r WeekendRule
	for _, d := range days {
		r.days[d] = true
	}
	return r
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekendRule reads a comma separated list such as "fri,sat".
func ParseWeekendRule(raw string) (WeekendRule, error) {
	var r WeekendRule
	found := false
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		d, ok := weekdayNames[name]
		if !ok {
			return WeekendRule{}, fmt.Errorf("unknown weekday %q", part)
		}
		r.days[d] = true
		found = true
	}
	if !found {
		return WeekendRule{}, fmt.Errorf("weekend rule %q names no days", raw)
	}
	return r, nil
}

func (r WeekendRule) IsWeekend(t time.Time) bool {
	return r.days[t.Weekday()]
}

func (r WeekendRule) IsZero() bool {
	return r == WeekendRule{}
}

func (r WeekendRule) Days() []time.Weekday {
	var out []time.Weekday
	for d, on := range r.days {
		if on {
			out = append(out, time.Weekday(d))
		}
	}
	return out
}

func (r WeekendRule) String() string {
	names := make([]string, 0, 2)
	for _, d := range r.Days() {
		names = append(names, strings.ToLower(d.String()[:3]))
	}
	return strings.Join(names, ",")
}
