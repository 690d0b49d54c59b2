package models

// All lists every model in parent -> child migration order.
func All() []interface{} {
	return []interface{}{
		&Building{},
		&RoomType{},
		&Room{},
		&DateRangePrice{},
		&CalendarOverride{},
		&SpecialDay{},
		&AdditionalPrice{},
		&BookingGroup{},
		&Booking{},
		&BookingPriceLine{},
		&Payment{},
	}
}
