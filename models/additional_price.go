package models

import "time"

// AdditionalPrice is a fee catalog entry owned by exactly one of a building or
// a room type.
type AdditionalPrice struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	BuildingID *uint `gorm:"column:building_id;index" json:"buildingId,omitempty"`
	RoomTypeID *uint `gorm:"column:room_type_id;index" json:"roomTypeId,omitempty"`

	Title     Text    `gorm:"column:title" json:"title"`
	PriceEur  float64 `gorm:"column:price_eur;type:decimal(10,2);not null" json:"priceEur"`
	Mandatory bool    `gorm:"column:mandatory;not null" json:"mandatory"`
	PerNight  bool    `gorm:"column:per_night;not null" json:"perNight"`
	PerGuest  bool    `gorm:"column:per_guest;not null" json:"perGuest"`
	SortOrder int     `gorm:"column:sort_order;not null" json:"order"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
