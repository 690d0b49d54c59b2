package models

import "time"

// DateRangePrice covers [StartDate, EndDate] inclusive. Ranges of one room
// type never overlap; this is checked on write.
type DateRangePrice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomTypeID uint      `gorm:"column:room_type_id;index;not null" json:"roomTypeId"`
	StartDate  time.Time `gorm:"column:start_date;type:date;not null" json:"startDate"`
	EndDate    time.Time `gorm:"column:end_date;type:date;not null" json:"endDate"`

	WeekdayPrice float64 `gorm:"column:weekday_price;type:decimal(10,2);not null" json:"weekdayPrice"`
	WeekendPrice float64 `gorm:"column:weekend_price;type:decimal(10,2);not null" json:"weekendPrice"`
	MinNights    int     `gorm:"column:min_nights;not null" json:"minNights"`
	IsInactive   bool    `gorm:"column:is_inactive;not null" json:"isInactive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CalendarOverride is a per-date exception, unique per (room type, date).
type CalendarOverride struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomTypeID uint      `gorm:"column:room_type_id;not null;uniqueIndex:idx_override_room_type_date" json:"roomTypeId"`
	Date       time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_override_room_type_date" json:"date"`

	Price      *float64 `gorm:"column:price;type:decimal(10,2)" json:"price"`
	MinNights  *int     `gorm:"column:min_nights" json:"minNights"`
	IsInactive *bool    `gorm:"column:is_inactive" json:"isInactive"`
	Note       string   `gorm:"column:note;size:255" json:"note,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SpecialDay annotates the calendar (holidays, events). It never affects price.
type SpecialDay struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      Text      `gorm:"column:name" json:"name"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null;index" json:"startDate"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null" json:"endDate"`
	Color     string    `gorm:"column:color;size:16" json:"color,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
