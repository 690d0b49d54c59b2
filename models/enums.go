package models

type BookingSource string

const (
	SourceManual  BookingSource = "MANUAL"
	SourceWebsite BookingSource = "WEBSITE"
	SourcePhone   BookingSource = "PHONE"
	SourceEmail   BookingSource = "EMAIL"
	SourceOTA     BookingSource = "OTA"
)

type BookingStatus string

const (
	StatusIncoming   BookingStatus = "INCOMING"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusCheckedIn  BookingStatus = "CHECKED_IN"
	StatusCheckedOut BookingStatus = "CHECKED_OUT"
	StatusCancelled  BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentFullyPaid     PaymentStatus = "FULLY_PAID"
)

type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyHUF Currency = "HUF"
)

type PaymentMethod string

const (
	MethodCash       PaymentMethod = "CASH"
	MethodTransfer   PaymentMethod = "TRANSFER"
	MethodCreditCard PaymentMethod = "CREDIT_CARD"
)
