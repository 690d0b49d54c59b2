package pricing

import (
	"sort"

	"guesthouse-backend/utils"
)

type FeeScope string

const (
	ScopeBuilding FeeScope = "building"
	ScopeRoomType FeeScope = "roomType"
)

// Fee is an additional price catalog entry.
type Fee struct {
	ID        uint
	Title     string
	PriceEur  float64
	Mandatory bool
	PerNight  bool
	PerGuest  bool
	SortOrder int
	Scope     FeeScope
}

// Quantity is (perNight ? nights : 1) * (perGuest ? guests : 1).
func (f Fee) Quantity(nights, guests int) int {
	q := 1
	if f.PerNight {
		q *= nights
	}
	if f.PerGuest {
		q *= guests
	}
	return q
}

type FeeLine struct {
	OriginID  uint     `json:"originId"`
	Scope     FeeScope `json:"scope"`
	Title     string   `json:"title"`
	PriceEur  float64  `json:"priceEur"`
	Quantity  int      `json:"quantity"`
	Total     float64  `json:"total"`
	Mandatory bool     `json:"mandatory"`
	PerNight  bool     `json:"perNight"`
	PerGuest  bool     `json:"perGuest"`
}

func (f Fee) Line(nights, guests int) FeeLine {
	q := f.Quantity(nights, guests)
	return FeeLine{
		OriginID:  f.ID,
		Scope:     f.Scope,
		Title:     f.Title,
		PriceEur:  f.PriceEur,
		Quantity:  q,
		Total:     utils.RoundMoney(f.PriceEur * float64(q)),
		Mandatory: f.Mandatory,
		PerNight:  f.PerNight,
		PerGuest:  f.PerGuest,
	}
}

// SplitFees separates mandatory from optional entries, each ordered by SortOrder.
func SplitFees(fees []Fee) (mandatory, optional []Fee) {
	sorted := append([]Fee(nil), fees...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	for _, f := range sorted {
		if f.Mandatory {
			mandatory = append(mandatory, f)
		} else {
			optional = append(optional, f)
		}
	}
	return mandatory, optional
}
