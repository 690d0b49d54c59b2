package models

import (
	"time"
)

// Booking reserves one room for [CheckIn, CheckOut). A nil TotalAmount means
// the stay has not been priced yet.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	RoomID        uint   `gorm:"column:room_id;index;not null" json:"roomId"`
	GroupID       *uint  `gorm:"column:group_id;index" json:"groupId,omitempty"`
	ReferenceCode string `gorm:"column:reference_code;size:64;index" json:"referenceCode"`

	GuestName  string `gorm:"column:guest_name;size:255;not null" json:"guestName"`
	GuestEmail string `gorm:"column:guest_email;size:255" json:"guestEmail"`
	GuestPhone string `gorm:"column:guest_phone;size:64" json:"guestPhone"`
	GuestCount int    `gorm:"column:guest_count;not null" json:"guestCount"`

	CheckIn  time.Time `gorm:"column:check_in;type:date;not null;index" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out;type:date;not null;index" json:"checkOut"`

	Source        BookingSource `gorm:"column:source;size:32;not null" json:"source"`
	Status        BookingStatus `gorm:"column:status;size:32;not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;size:32;not null" json:"paymentStatus"`

	TotalAmount    *float64 `gorm:"column:total_amount;type:decimal(12,2)" json:"totalAmount"`
	CustomHufPrice *float64 `gorm:"column:custom_huf_price;type:decimal(14,2)" json:"customHufPrice"`
	Notes          string   `gorm:"column:notes;type:text" json:"notes,omitempty"`

	Room       *Room              `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	PriceLines []BookingPriceLine `gorm:"foreignKey:BookingID" json:"priceLines"`
	Payments   []Payment          `gorm:"foreignKey:BookingID" json:"payments"`
}

func (b Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// BookingPriceLine is an additional price charged on a booking. Mandatory and
// OriginID are fixed when the line is created so later catalog edits never
// reclassify it.
type BookingPriceLine struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	BookingID uint    `gorm:"column:booking_id;index;not null" json:"bookingId"`
	Title     string  `gorm:"column:title;size:255;not null" json:"title"`
	UnitPrice float64 `gorm:"column:unit_price;type:decimal(10,2);not null" json:"unitPrice"`
	Quantity  int     `gorm:"column:quantity;not null" json:"quantity"`
	Mandatory bool    `gorm:"column:mandatory;not null" json:"mandatory"`
	OriginID  *uint   `gorm:"column:origin_id;index" json:"originId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (l BookingPriceLine) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
