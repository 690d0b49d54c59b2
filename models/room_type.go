package models

import (
	"gorm.io/gorm"
)

// RoomType is the unit of pricing configuration. Its rooms share prices,
// calendar overrides and fee catalog.
type RoomType struct {
	gorm.Model

	BuildingID  uint   `gorm:"column:building_id;index;not null" json:"buildingId"`
	Name        Text   `gorm:"column:name" json:"name"`
	Slug        string `gorm:"column:slug;size:191;index" json:"slug"`
	Description Text   `gorm:"column:description" json:"description"`
	Capacity    int    `gorm:"column:capacity;not null" json:"capacity"`

	Building          *Building          `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Rooms             []Room             `gorm:"foreignKey:RoomTypeID" json:"rooms,omitempty"`
	DateRangePrices   []DateRangePrice   `gorm:"foreignKey:RoomTypeID" json:"dateRangePrices,omitempty"`
	CalendarOverrides []CalendarOverride `gorm:"foreignKey:RoomTypeID" json:"calendarOverrides,omitempty"`
	AdditionalPrices  []AdditionalPrice  `gorm:"foreignKey:RoomTypeID" json:"additionalPrices,omitempty"`
}
