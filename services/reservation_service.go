package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

type ReservationKind string

const (
	KindBooking ReservationKind = "booking"
	KindGroup   ReservationKind = "group"
)

type ReservationRoom struct {
	BookingID  uint                 `json:"bookingId"`
	RoomID     uint                 `json:"roomId"`
	RoomName   string               `json:"roomName"`
	GuestCount int                  `json:"guestCount"`
	Status     models.BookingStatus `json:"status"`
}

// Reservation is either a standalone booking or a booking group, flattened for
// the staff list.
type Reservation struct {
	Kind          ReservationKind      `json:"kind"`
	ID            uint                 `json:"id"`
	ReferenceCode string               `json:"referenceCode"`
	GuestName     string               `json:"guestName"`
	GuestEmail    string               `json:"guestEmail"`
	GuestPhone    string               `json:"guestPhone"`
	CheckIn       string               `json:"checkIn"`
	CheckOut      string               `json:"checkOut"`
	Nights        int                  `json:"nights"`
	TotalGuests   int                  `json:"totalGuests"`
	RoomCount     int                  `json:"roomCount"`
	Rooms         []ReservationRoom    `json:"rooms"`
	Source        models.BookingSource `json:"source"`
	Status        models.BookingStatus `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	TotalAmount   *float64             `json:"totalAmount"`
	CreatedAt     time.Time            `json:"createdAt"`

	checkIn time.Time
}

type reservationHead struct {
	kind                    ReservationKind
	id                      uint
	ref, name, email, phone string
	checkIn, checkOut       time.Time
	source                  models.BookingSource
	status                  models.BookingStatus
	paymentStatus           models.PaymentStatus
	totalAmount             *float64
	createdAt               time.Time
}

// newReservation is the single constructor for both kinds, so nights, guest
// totals and room counts are always derived the same way.
func newReservation(h reservationHead, members []models.Booking) Reservation {
	r := Reservation{
		Kind:          h.kind,
		ID:            h.id,
		ReferenceCode: h.ref,
		GuestName:     h.name,
		GuestEmail:    h.email,
		GuestPhone:    h.phone,
		CheckIn:       utils.FormatDate(h.checkIn),
		CheckOut:      utils.FormatDate(h.checkOut),
		Nights:        utils.Nights(utils.DateOnly(h.checkIn), utils.DateOnly(h.checkOut)),
		Rooms:         make([]ReservationRoom, 0, len(members)),
		Source:        h.source,
		Status:        h.status,
		PaymentStatus: h.paymentStatus,
		TotalAmount:   h.totalAmount,
		CreatedAt:     h.createdAt,
		checkIn:       utils.DateOnly(h.checkIn),
	}
	for _, m := range members {
		room := ReservationRoom{BookingID: m.ID, RoomID: m.RoomID, GuestCount: m.GuestCount, Status: m.Status}
		if m.Room != nil {
			room.RoomName = m.Room.Name
		}
		r.Rooms = append(r.Rooms, room)
		if !m.IsCancelled() {
			r.TotalGuests += m.GuestCount
			r.RoomCount++
		}
	}
	return r
}

func ReservationFromBooking(b models.Booking) Reservation {
	return newReservation(reservationHead{
		kind: KindBooking, id: b.ID, ref: b.ReferenceCode,
		name: b.GuestName, email: b.GuestEmail, phone: b.GuestPhone,
		checkIn: b.CheckIn, checkOut: b.CheckOut,
		source: b.Source, status: b.Status, paymentStatus: b.PaymentStatus,
		totalAmount: b.TotalAmount, createdAt: b.CreatedAt,
	}, []models.Booking{b})
}

func ReservationFromGroup(g models.BookingGroup) Reservation {
	return newReservation(reservationHead{
		kind: KindGroup, id: g.ID, ref: g.ReferenceCode,
		name: g.GuestName, email: g.GuestEmail, phone: g.GuestPhone,
		checkIn: g.CheckIn, checkOut: g.CheckOut,
		source: g.Source, status: g.Status, paymentStatus: g.PaymentStatus,
		totalAmount: g.TotalAmount, createdAt: g.CreatedAt,
	}, g.Bookings)
}

type ReservationFilter struct {
	Status   models.BookingStatus
	Kind     ReservationKind
	From     *time.Time
	To       *time.Time
	Search   string
	Sort     string
	Page     int
	PageSize int
}

type ReservationPage struct {
	Items    []Reservation `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// ReservationService lists bookings and groups as one timeline.
type ReservationService struct {
	DB *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

func applyReservationFilter(q *gorm.DB, f ReservationFilter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.To != nil {
		q = q.Where("check_in < ?", *f.To)
	}
	if f.From != nil {
		q = q.Where("check_out > ?", *f.From)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(guest_name) LIKE ? OR LOWER(guest_email) LIKE ? OR LOWER(reference_code) LIKE ?", like, like, like)
	}
	return q
}

func (s *ReservationService) List(ctx context.Context, f ReservationFilter) (ReservationPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 200 {
		f.PageSize = 200
	}
	less, err := reservationOrder(f.Sort)
	if err != nil {
		return ReservationPage{}, err
	}
	db := s.DB.WithContext(ctx)

	var items []Reservation
	if f.Kind != KindGroup {
		var bookings []models.Booking
		q := applyReservationFilter(db.Model(&models.Booking{}).Preload("Room").Where("group_id IS NULL"), f)
		if err := q.Find(&bookings).Error; err != nil {
			return ReservationPage{}, fmt.Errorf("list bookings: %w", err)
		}
		for _, b := range bookings {
			items = append(items, ReservationFromBooking(b))
		}
	}
	if f.Kind != KindBooking {
		var groups []models.BookingGroup
		q := applyReservationFilter(db.Model(&models.BookingGroup{}).Preload("Bookings.Room"), f)
		if err := q.Find(&groups).Error; err != nil {
			return ReservationPage{}, fmt.Errorf("list booking groups: %w", err)
		}
		for _, g := range groups {
			items = append(items, ReservationFromGroup(g))
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })

	page := ReservationPage{Total: len(items), Page: f.Page, PageSize: f.PageSize, Items: []Reservation{}}
	start := (f.Page - 1) * f.PageSize
	if start < len(items) {
		end := start + f.PageSize
		if end > len(items) {
			end = len(items)
		}
		page.Items = items[start:end]
	}
	return page, nil
}

func reservationOrder(raw string) (func(a, b Reservation) bool, error) {
	desc := strings.HasPrefix(raw, "-")
	key := strings.TrimPrefix(raw, "-")
	var less func(a, b Reservation) bool
	switch key {
	case "", "checkIn":
		less = func(a, b Reservation) bool {
			if !a.checkIn.Equal(b.checkIn) {
				return a.checkIn.Before(b.checkIn)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case "createdAt":
		less = func(a, b Reservation) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return nil, apperror.Validation("invalid_sort", "sort must be checkIn or createdAt, optionally prefixed with -").With("sort", raw)
	}
	if desc {
		return func(a, b Reservation) bool { return less(b, a) }, nil
	}
	return less, nil
}
