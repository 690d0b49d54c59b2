package models

import "time"

// Payment belongs to exactly one of a booking or a booking group.
type Payment struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	BookingID *uint `gorm:"column:booking_id;index" json:"bookingId,omitempty"`
	GroupID   *uint `gorm:"column:group_id;index" json:"groupId,omitempty"`

	Amount   float64       `gorm:"column:amount;type:decimal(14,2);not null" json:"amount"`
	Currency Currency      `gorm:"column:currency;size:3;not null" json:"currency"`
	Method   PaymentMethod `gorm:"column:method;size:32;not null" json:"method"`
	PaidAt   time.Time     `gorm:"column:paid_at;type:date;not null" json:"paidAt"`
	Note     string        `gorm:"column:note;size:255" json:"note,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
