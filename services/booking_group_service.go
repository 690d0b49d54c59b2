package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/ledger"
	"guesthouse-backend/models"
	"guesthouse-backend/pricing"
	"guesthouse-backend/utils"
)

// BookingGroupService manages reservations spanning several rooms. Every write
// is all-or-nothing.
type BookingGroupService struct {
	DB      *gorm.DB
	Weekend pricing.WeekendRule
}

func NewBookingGroupService(db *gorm.DB, weekend pricing.WeekendRule) *BookingGroupService {
	return &BookingGroupService{DB: db, Weekend: weekend}
}

type BookingGroupInput struct {
	GuestDetails
	CheckIn        string               `json:"checkIn" binding:"required,isodate" copier:"-"`
	CheckOut       string               `json:"checkOut" binding:"required,isodate" copier:"-"`
	Source         models.BookingSource `json:"source" binding:"omitempty,oneof=MANUAL WEBSITE PHONE EMAIL OTA"`
	Status         models.BookingStatus `json:"status" binding:"omitempty,oneof=INCOMING CONFIRMED CHECKED_IN CHECKED_OUT"`
	Rooms          []RoomGuests         `json:"rooms" binding:"required,dive"`
	TotalAmount    *float64             `json:"totalAmount" binding:"omitempty,gte=0" copier:"-"`
	CustomHufPrice *float64             `json:"customHufPrice" binding:"omitempty,gte=0"`
	Lang           string               `json:"lang"`
}

type GroupDatesInput struct {
	CheckIn     string   `json:"checkIn" binding:"required,isodate"`
	CheckOut    string   `json:"checkOut" binding:"required,isodate"`
	TotalAmount *float64 `json:"totalAmount" binding:"omitempty,gte=0"`
	Lang        string   `json:"lang"`
}

func preloadGroup(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Bookings", func(db *gorm.DB) *gorm.DB { return db.Order("room_id") }).
		Preload("Bookings.Room").
		Preload("Bookings.PriceLines").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at, id") })
}

func (s *BookingGroupService) Get(ctx context.Context, id uint) (models.BookingGroup, error) {
	var g models.BookingGroup
	if err := preloadGroup(s.DB.WithContext(ctx)).First(&g, id).Error; err != nil {
		return g, notFoundOr(err, "booking group", id)
	}
	return g, nil
}

func (s *BookingGroupService) List(ctx context.Context) ([]models.BookingGroup, error) {
	var out []models.BookingGroup
	err := s.DB.WithContext(ctx).Preload("Bookings").Order("check_in, id").Find(&out).Error
	return out, err
}

func distinctRooms(rooms []RoomGuests) ([]uint, error) {
	if len(rooms) < 2 {
		return nil, apperror.Validation("group_minimum_rooms", "a booking group needs at least two rooms")
	}
	seen := make(map[uint]bool, len(rooms))
	ids := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		if r.GuestCount < 1 {
			return nil, apperror.Validation("invalid_guest_count", "guest count must be at least 1").With("roomId", r.RoomID)
		}
		if seen[r.RoomID] {
			return nil, apperror.Validation("duplicate_room", "room %d is listed twice", r.RoomID).With("roomId", r.RoomID)
		}
		seen[r.RoomID] = true
		ids = append(ids, r.RoomID)
	}
	return ids, nil
}

// Create validates every room before writing anything, then stores the group
// and one booking per room. Guest identity is mirrored to the members once.
func (s *BookingGroupService) Create(ctx context.Context, in BookingGroupInput) (models.BookingGroup, error) {
	var group models.BookingGroup
	ids, err := distinctRooms(in.Rooms)
	if err != nil {
		return group, err
	}
	ci, co, err := parseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return group, err
	}
	if in.Source == "" {
		in.Source = models.SourceManual
	}
	if in.Status == "" {
		in.Status = models.StatusIncoming
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms, err := lockRooms(tx, ids)
		if err != nil {
			return err
		}
		for _, rg := range in.Rooms {
			if _, err := checkCapacity(tx, rooms[rg.RoomID], rg.GuestCount); err != nil {
				return err
			}
			if err := validateRoomStay(tx, s.Weekend, rooms[rg.RoomID], in.Source, ci, co, 0); err != nil {
				return err
			}
		}
		quote, err := quoteGroup(tx, s.Weekend, in.Rooms, ci, co, in.Lang)
		if err != nil {
			return err
		}

		if err := copier.Copy(&group, &in.GuestDetails); err != nil {
			return fmt.Errorf("copy guest details: %w", err)
		}
		group.GuestName = strings.TrimSpace(group.GuestName)
		group.CheckIn, group.CheckOut = ci, co
		group.Source, group.Status = in.Source, in.Status
		group.CustomHufPrice = in.CustomHufPrice
		group.ReferenceCode = newReferenceCode("GR")
		if in.TotalAmount != nil {
			v := utils.RoundMoney(*in.TotalAmount)
			group.TotalAmount = &v
		} else if quote.Priced() {
			v := quote.GrandTotal
			group.TotalAmount = &v
		}
		group.PaymentStatus = ledger.DeriveStatus(0, group.TotalAmount)
		if err := tx.Omit("Bookings", "Payments").Create(&group).Error; err != nil {
			return writeErr(err, "create", "booking group")
		}

		for _, rs := range quote.Rooms {
			member := models.Booking{
				RoomID:     rs.RoomID,
				GroupID:    &group.ID,
				GuestCount: rs.Stay.GuestCount,
				CheckIn:    ci,
				CheckOut:   co,
				Source:     group.Source,
				Status:     group.Status,
				PriceLines: mandatoryLines(rs.Stay),
			}
			if err := copier.Copy(&member, &in.GuestDetails); err != nil {
				return fmt.Errorf("copy guest details: %w", err)
			}
			member.GuestName = group.GuestName
			member.ReferenceCode = group.ReferenceCode
			member.TotalAmount = stayTotal(nil, rs.Stay, 0)
			member.PaymentStatus = ledger.DeriveStatus(0, member.TotalAmount)
			if err := tx.Create(&member).Error; err != nil {
				return writeErr(err, "create", "booking")
			}
		}
		return nil
	})
	if err != nil {
		return models.BookingGroup{}, err
	}
	return s.Get(ctx, group.ID)
}

// UpdateDates moves the whole group. Each active member must stay free in the
// new range (excluding itself); one failure rejects the update.
func (s *BookingGroupService) UpdateDates(ctx context.Context, id uint, in GroupDatesInput) (models.BookingGroup, error) {
	ci, co, err := parseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return models.BookingGroup{}, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.BookingGroup
		if err := forUpdate(tx).Preload("Bookings").First(&g, id).Error; err != nil {
			return notFoundOr(err, "booking group", id)
		}
		ids := make([]uint, 0, len(g.Bookings))
		for _, m := range g.Bookings {
			ids = append(ids, m.RoomID)
		}
		rooms, err := lockRooms(tx, ids)
		if err != nil {
			return err
		}
		for _, m := range g.Bookings {
			if m.IsCancelled() {
				continue
			}
			if err := validateRoomStay(tx, s.Weekend, rooms[m.RoomID], g.Source, ci, co, m.ID); err != nil {
				return err
			}
		}

		// cancelled members move with the group but are neither repriced nor charged
		roomGuests := make([]RoomGuests, 0, len(g.Bookings))
		for _, m := range g.Bookings {
			if !m.IsCancelled() {
				roomGuests = append(roomGuests, RoomGuests{RoomID: m.RoomID, GuestCount: m.GuestCount})
			}
		}
		quote, err := quoteGroup(tx, s.Weekend, roomGuests, ci, co, in.Lang)
		if err != nil {
			return err
		}
		stays := make(map[uint]pricing.StayBreakdown, len(quote.Rooms))
		for _, rs := range quote.Rooms {
			stays[rs.RoomID] = rs.Stay
		}
		for _, m := range g.Bookings {
			if m.IsCancelled() {
				if err := tx.Model(&models.Booking{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
					"check_in":  ci,
					"check_out": co,
				}).Error; err != nil {
					return fmt.Errorf("update booking %d: %w", m.ID, err)
				}
				continue
			}
			stay := stays[m.RoomID]
			if err := tx.Where("booking_id = ? AND mandatory = ?", m.ID, true).Delete(&models.BookingPriceLine{}).Error; err != nil {
				return fmt.Errorf("drop mandatory lines: %w", err)
			}
			lines := mandatoryLines(stay)
			for j := range lines {
				lines[j].BookingID = m.ID
			}
			if len(lines) > 0 {
				if err := tx.Create(&lines).Error; err != nil {
					return fmt.Errorf("create mandatory lines: %w", err)
				}
			}
			if err := tx.Model(&models.Booking{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
				"check_in":     ci,
				"check_out":    co,
				"total_amount": stayTotal(nil, stay, 0),
			}).Error; err != nil {
				return fmt.Errorf("update booking %d: %w", m.ID, err)
			}
			if err := recomputeBookingStatus(tx, m.ID); err != nil {
				return err
			}
		}

		total := g.TotalAmount
		switch {
		case in.TotalAmount != nil:
			v := utils.RoundMoney(*in.TotalAmount)
			total = &v
		case len(roomGuests) == 0:
			// fully cancelled group keeps its last total
		case quote.Priced():
			v := quote.GrandTotal
			total = &v
		default:
			total = nil
		}
		if err := tx.Model(&models.BookingGroup{}).Where("id = ?", g.ID).Updates(map[string]interface{}{
			"check_in":     ci,
			"check_out":    co,
			"total_amount": total,
		}).Error; err != nil {
			return fmt.Errorf("update booking group %d: %w", g.ID, err)
		}
		return recomputeGroupStatus(tx, g.ID)
	})
	if err != nil {
		return models.BookingGroup{}, err
	}
	return s.Get(ctx, id)
}

// Cancel marks the group and all its bookings cancelled.
func (s *BookingGroupService) Cancel(ctx context.Context, id uint) (models.BookingGroup, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&models.BookingGroup{}, id).Error; err != nil {
			return notFoundOr(err, "booking group", id)
		}
		if err := tx.Model(&models.Booking{}).Where("group_id = ?", id).Update("status", models.StatusCancelled).Error; err != nil {
			return fmt.Errorf("cancel group bookings: %w", err)
		}
		return tx.Model(&models.BookingGroup{}).Where("id = ?", id).Update("status", models.StatusCancelled).Error
	})
	if err != nil {
		return models.BookingGroup{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes the group, its bookings and every dependent row.
func (s *BookingGroupService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&models.BookingGroup{}, id).Error; err != nil {
			return notFoundOr(err, "booking group", id)
		}
		var memberIDs []uint
		if err := tx.Model(&models.Booking{}).Where("group_id = ?", id).Pluck("id", &memberIDs).Error; err != nil {
			return fmt.Errorf("load group bookings: %w", err)
		}
		if err := deleteBookingRows(tx, memberIDs); err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("delete group payments: %w", err)
		}
		return tx.Delete(&models.BookingGroup{}, id).Error
	})
}
