package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	RoomTypeID uint   `gorm:"column:room_type_id;index;not null" json:"roomTypeId"`
	Name       string `gorm:"column:name;size:100;not null" json:"name"`
	// no gorm default: a false value must be written as false
	IsActive bool `gorm:"column:is_active;not null" json:"isActive"`

	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}
