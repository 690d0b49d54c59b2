package models

import "gorm.io/gorm"

type Building struct {
	gorm.Model

	Name    Text   `gorm:"column:name" json:"name"`
	Slug    string `gorm:"column:slug;size:191;index" json:"slug"`
	Address string `gorm:"column:address;size:255" json:"address"`

	RoomTypes        []RoomType        `gorm:"foreignKey:BuildingID" json:"roomTypes,omitempty"`
	AdditionalPrices []AdditionalPrice `gorm:"foreignKey:BuildingID" json:"additionalPrices,omitempty"`
}
