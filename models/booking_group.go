package models

import "time"

// BookingGroup is one reservation spanning two or more rooms. Its TotalAmount
// and PaymentStatus are authoritative; member booking totals are informational.
type BookingGroup struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ReferenceCode string `gorm:"column:reference_code;size:64;index" json:"referenceCode"`
	GuestName     string `gorm:"column:guest_name;size:255;not null" json:"guestName"`
	GuestEmail    string `gorm:"column:guest_email;size:255" json:"guestEmail"`
	GuestPhone    string `gorm:"column:guest_phone;size:64" json:"guestPhone"`

	CheckIn  time.Time `gorm:"column:check_in;type:date;not null;index" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out;type:date;not null" json:"checkOut"`

	Source        BookingSource `gorm:"column:source;size:32;not null" json:"source"`
	Status        BookingStatus `gorm:"column:status;size:32;not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;size:32;not null" json:"paymentStatus"`

	TotalAmount    *float64 `gorm:"column:total_amount;type:decimal(12,2)" json:"totalAmount"`
	CustomHufPrice *float64 `gorm:"column:custom_huf_price;type:decimal(14,2)" json:"customHufPrice"`
	Notes          string   `gorm:"column:notes;type:text" json:"notes,omitempty"`

	Bookings []Booking `gorm:"foreignKey:GroupID" json:"bookings"`
	Payments []Payment `gorm:"foreignKey:GroupID" json:"payments"`
}
