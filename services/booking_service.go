// services/booking_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/ledger"
	"guesthouse-backend/models"
	"guesthouse-backend/pricing"
	"guesthouse-backend/utils"
)

// BookingService handles standalone bookings and their price lines.
type BookingService struct {
	DB      *gorm.DB
	Weekend pricing.WeekendRule
}

func NewBookingService(db *gorm.DB, weekend pricing.WeekendRule) *BookingService {
	return &BookingService{DB: db, Weekend: weekend}
}

// GuestDetails is the guest identity shared by bookings and groups.
type GuestDetails struct {
	GuestName  string `json:"guestName" binding:"required,max=255"`
	GuestEmail string `json:"guestEmail" binding:"omitempty,email,max=255"`
	GuestPhone string `json:"guestPhone" binding:"max=64"`
	Notes      string `json:"notes"`
}

type BookingInput struct {
	GuestDetails
	RoomID           uint                 `json:"roomId" binding:"required"`
	GuestCount       int                  `json:"guestCount" binding:"required,gte=1"`
	CheckIn          string               `json:"checkIn" binding:"required,isodate" copier:"-"`
	CheckOut         string               `json:"checkOut" binding:"required,isodate" copier:"-"`
	Source           models.BookingSource `json:"source" binding:"omitempty,oneof=MANUAL WEBSITE PHONE EMAIL OTA"`
	Status           models.BookingStatus `json:"status" binding:"omitempty,oneof=INCOMING CONFIRMED CHECKED_IN CHECKED_OUT"`
	TotalAmount      *float64             `json:"totalAmount" binding:"omitempty,gte=0" copier:"-"`
	CustomHufPrice   *float64             `json:"customHufPrice" binding:"omitempty,gte=0"`
	OptionalPriceIDs []uint               `json:"optionalPriceIds"`
	Lang             string               `json:"lang"`
}

type BookingUpdateInput struct {
	GuestName      *string               `json:"guestName" binding:"omitempty,min=1,max=255"`
	GuestEmail     *string               `json:"guestEmail" binding:"omitempty,max=255"`
	GuestPhone     *string               `json:"guestPhone" binding:"omitempty,max=64"`
	Notes          *string               `json:"notes"`
	GuestCount     *int                  `json:"guestCount" binding:"omitempty,gte=1"`
	RoomID         *uint                 `json:"roomId"`
	CheckIn        *string               `json:"checkIn" binding:"omitempty,isodate"`
	CheckOut       *string               `json:"checkOut" binding:"omitempty,isodate"`
	Status         *models.BookingStatus `json:"status" binding:"omitempty,oneof=INCOMING CONFIRMED CHECKED_IN CHECKED_OUT CANCELLED"`
	TotalAmount    *float64              `json:"totalAmount" binding:"omitempty,gte=0"`
	CustomHufPrice *float64              `json:"customHufPrice" binding:"omitempty,gte=0"`
	Lang           string                `json:"lang"`
}

type PriceLineInput struct {
	AdditionalPriceID *uint   `json:"additionalPriceId"`
	Title             string  `json:"title" binding:"max=255"`
	UnitPrice         float64 `json:"unitPrice" binding:"gte=0"`
	Quantity          int     `json:"quantity" binding:"omitempty,gte=1"`
	Lang              string  `json:"lang"`
}

type BookingFilter struct {
	RoomID uint
	Status models.BookingStatus
	From   *time.Time
	To     *time.Time
}

func newReferenceCode(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:10])
}

// mandatoryLines turns the quoted mandatory fees into persisted price lines.
func mandatoryLines(stay pricing.StayBreakdown) []models.BookingPriceLine {
	lines := make([]models.BookingPriceLine, 0, len(stay.MandatoryPrices))
	for _, f := range stay.MandatoryPrices {
		origin := f.OriginID
		lines = append(lines, models.BookingPriceLine{
			Title:     f.Title,
			UnitPrice: f.PriceEur,
			Quantity:  f.Quantity,
			Mandatory: true,
			OriginID:  &origin,
		})
	}
	return lines
}

// optionalLines picks the requested optional fees from the quote.
func optionalLines(stay pricing.StayBreakdown, ids []uint) ([]models.BookingPriceLine, error) {
	byID := make(map[uint]pricing.FeeLine, len(stay.OptionalPrices))
	for _, f := range stay.OptionalPrices {
		byID[f.OriginID] = f
	}
	lines := make([]models.BookingPriceLine, 0, len(ids))
	seen := map[uint]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		f, ok := byID[id]
		if !ok {
			return nil, apperror.Validation("unknown_optional_price", "additional price %d is not an optional price of this room", id).With("additionalPriceId", id)
		}
		origin := f.OriginID
		lines = append(lines, models.BookingPriceLine{
			Title:     f.Title,
			UnitPrice: f.PriceEur,
			Quantity:  f.Quantity,
			OriginID:  &origin,
		})
	}
	return lines, nil
}

func linesTotal(lines []models.BookingPriceLine, mandatory bool) float64 {
	var sum float64
	for _, l := range lines {
		if l.Mandatory == mandatory {
			sum += l.Total()
		}
	}
	return utils.RoundMoney(sum)
}

// stayTotal is the explicit amount when given, else the quoted room total plus
// optional extras. Unpriced stays (gaps, inactive nights) stay nil.
func stayTotal(explicit *float64, stay pricing.StayBreakdown, extras float64) *float64 {
	if explicit != nil {
		v := utils.RoundMoney(*explicit)
		return &v
	}
	if !stay.Priced() {
		return nil
	}
	v := utils.RoundMoney(stay.RoomTotal + extras)
	return &v
}

func preloadBooking(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Room.RoomType").
		Preload("PriceLines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at, id") })
}

func (s *BookingService) Get(ctx context.Context, id uint) (models.Booking, error) {
	var b models.Booking
	if err := preloadBooking(s.DB.WithContext(ctx)).First(&b, id).Error; err != nil {
		return b, notFoundOr(err, "booking", id)
	}
	return b, nil
}

func (s *BookingService) List(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	q := s.DB.WithContext(ctx).Preload("Room")
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.To != nil {
		q = q.Where("check_in < ?", *f.To)
	}
	if f.From != nil {
		q = q.Where("check_out > ?", *f.From)
	}
	var out []models.Booking
	err := q.Order("check_in, id").Find(&out).Error
	return out, err
}

// Create validates and stores a booking in one transaction: date order, room
// (locked), active flag for website bookings, inactive days, minimum nights,
// overlap. Mandatory fees are attached as price lines.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (models.Booking, error) {
	var booking models.Booking
	ci, co, err := parseStay(in.CheckIn, in.CheckOut)
	if err != nil {
		return booking, err
	}
	if in.Source == "" {
		in.Source = models.SourceManual
	}
	if in.Status == "" {
		in.Status = models.StatusIncoming
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms, err := lockRooms(tx, []uint{in.RoomID})
		if err != nil {
			return err
		}
		room := rooms[in.RoomID]
		rt, err := checkCapacity(tx, room, in.GuestCount)
		if err != nil {
			return err
		}
		if err := validateRoomStay(tx, s.Weekend, room, in.Source, ci, co, 0); err != nil {
			return err
		}

		stay, err := quoteStay(tx, s.Weekend, rt, ci, co, in.GuestCount, in.Lang)
		if err != nil {
			return err
		}
		extras, err := optionalLines(stay, in.OptionalPriceIDs)
		if err != nil {
			return err
		}

		if err := copier.Copy(&booking, &in.GuestDetails); err != nil {
			return fmt.Errorf("copy guest details: %w", err)
		}
		booking.GuestName = strings.TrimSpace(booking.GuestName)
		booking.RoomID = room.ID
		booking.GuestCount = in.GuestCount
		booking.CheckIn = ci
		booking.CheckOut = co
		booking.Source = in.Source
		booking.Status = in.Status
		booking.CustomHufPrice = in.CustomHufPrice
		booking.ReferenceCode = newReferenceCode("BK")
		booking.TotalAmount = stayTotal(in.TotalAmount, stay, linesTotal(extras, false))
		booking.PaymentStatus = ledger.DeriveStatus(0, booking.TotalAmount)
		booking.PriceLines = append(mandatoryLines(stay), extras...)

		if err := tx.Create(&booking).Error; err != nil {
			return writeErr(err, "create", "booking")
		}
		return nil
	})
	if err != nil {
		return booking, err
	}
	return s.Get(ctx, booking.ID)
}

// Update edits a booking. Room or date changes re-run availability against the
// new stay excluding the booking itself and re-attach mandatory fees.
func (s *BookingService) Update(ctx context.Context, id uint, in BookingUpdateInput) (models.Booking, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := forUpdate(tx).First(&b, id).Error; err != nil {
			return notFoundOr(err, "booking", id)
		}

		ci, co := utils.DateOnly(b.CheckIn), utils.DateOnly(b.CheckOut)
		datesChanged := false
		if in.CheckIn != nil || in.CheckOut != nil {
			rawIn, rawOut := utils.FormatDate(ci), utils.FormatDate(co)
			if in.CheckIn != nil {
				rawIn = *in.CheckIn
			}
			if in.CheckOut != nil {
				rawOut = *in.CheckOut
			}
			nci, nco, err := parseStay(rawIn, rawOut)
			if err != nil {
				return err
			}
			datesChanged = !nci.Equal(ci) || !nco.Equal(co)
			ci, co = nci, nco
		}
		if datesChanged && b.GroupID != nil {
			return apperror.Validation("group_member_dates", "dates of a group member change with the group").
				With("groupId", *b.GroupID)
		}
		roomID := b.RoomID
		if in.RoomID != nil {
			roomID = *in.RoomID
		}
		guests := b.GuestCount
		if in.GuestCount != nil {
			guests = *in.GuestCount
		}
		stayChanged := datesChanged || roomID != b.RoomID
		guestsChanged := guests != b.GuestCount

		wasCancelled := b.IsCancelled()
		if in.Status != nil {
			b.Status = *in.Status
		}

		// reinstating a cancelled booking must pass the same checks as a new stay
		if stayChanged || (wasCancelled && !b.IsCancelled()) {
			rooms, err := lockRooms(tx, []uint{roomID})
			if err != nil {
				return err
			}
			if !b.IsCancelled() {
				if err := validateRoomStay(tx, s.Weekend, rooms[roomID], b.Source, ci, co, b.ID); err != nil {
					return err
				}
			}
		}

		if (roomID != b.RoomID || guestsChanged) && !b.IsCancelled() {
			var room models.Room
			if err := tx.First(&room, roomID).Error; err != nil {
				return notFoundOr(err, "room", roomID)
			}
			if _, err := checkCapacity(tx, room, guests); err != nil {
				return err
			}
		}

		if in.GuestName != nil {
			b.GuestName = strings.TrimSpace(*in.GuestName)
		}
		if in.GuestEmail != nil {
			b.GuestEmail = strings.TrimSpace(*in.GuestEmail)
		}
		if in.GuestPhone != nil {
			b.GuestPhone = strings.TrimSpace(*in.GuestPhone)
		}
		if in.Notes != nil {
			b.Notes = *in.Notes
		}
		if in.CustomHufPrice != nil {
			b.CustomHufPrice = in.CustomHufPrice
			if *in.CustomHufPrice == 0 {
				b.CustomHufPrice = nil
			}
		}
		b.RoomID, b.CheckIn, b.CheckOut, b.GuestCount = roomID, ci, co, guests

		oldTotal := b.TotalAmount
		if stayChanged || guestsChanged {
			if err := s.reprice(tx, &b, in.TotalAmount, in.Lang); err != nil {
				return err
			}
		} else if in.TotalAmount != nil {
			v := utils.RoundMoney(*in.TotalAmount)
			b.TotalAmount = &v
		}

		if err := tx.Omit("Room", "PriceLines", "Payments").Save(&b).Error; err != nil {
			return writeErr(err, "update", "booking")
		}
		if b.GroupID != nil && oldTotal != nil && b.TotalAmount != nil {
			if err := shiftGroupTotal(tx, *b.GroupID, *b.TotalAmount-*oldTotal); err != nil {
				return err
			}
		}
		return recomputeBookingStatus(tx, b.ID)
	})
	if err != nil {
		return models.Booking{}, err
	}
	return s.Get(ctx, id)
}

// reprice replaces the mandatory lines for the booking's current stay and
// recomputes its total unless an explicit one is given.
func (s *BookingService) reprice(tx *gorm.DB, b *models.Booking, explicit *float64, lang string) error {
	var room models.Room
	if err := tx.First(&room, b.RoomID).Error; err != nil {
		return notFoundOr(err, "room", b.RoomID)
	}
	rt, err := requireRoomType(tx, room.RoomTypeID)
	if err != nil {
		return err
	}
	stay, err := quoteStay(tx, s.Weekend, rt, b.CheckIn, b.CheckOut, b.GuestCount, lang)
	if err != nil {
		return err
	}
	if err := tx.Where("booking_id = ? AND mandatory = ?", b.ID, true).Delete(&models.BookingPriceLine{}).Error; err != nil {
		return fmt.Errorf("drop mandatory lines: %w", err)
	}
	lines := mandatoryLines(stay)
	for i := range lines {
		lines[i].BookingID = b.ID
	}
	if len(lines) > 0 {
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("create mandatory lines: %w", err)
		}
	}
	var extras []models.BookingPriceLine
	if err := tx.Where("booking_id = ? AND mandatory = ?", b.ID, false).Find(&extras).Error; err != nil {
		return fmt.Errorf("load price lines: %w", err)
	}
	b.TotalAmount = stayTotal(explicit, stay, linesTotal(extras, false))
	return nil
}

func (s *BookingService) Cancel(ctx context.Context, id uint) (models.Booking, error) {
	status := models.StatusCancelled
	return s.Update(ctx, id, BookingUpdateInput{Status: &status})
}

// Delete removes a booking with its price lines and payments. A group member
// can only be removed while the group keeps at least two rooms.
func (s *BookingService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := forUpdate(tx).First(&b, id).Error; err != nil {
			return notFoundOr(err, "booking", id)
		}
		if b.GroupID != nil {
			var members int64
			if err := tx.Model(&models.Booking{}).Where("group_id = ?", *b.GroupID).Count(&members).Error; err != nil {
				return fmt.Errorf("count group members: %w", err)
			}
			if members <= 2 {
				return apperror.Conflict("group_minimum_rooms", "a booking group needs at least two rooms; delete the group instead").
					With("groupId", *b.GroupID)
			}
		}
		return deleteBookingRows(tx, []uint{b.ID})
	})
}

func deleteBookingRows(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("booking_id IN ?", ids).Delete(&models.BookingPriceLine{}).Error; err != nil {
		return fmt.Errorf("delete price lines: %w", err)
	}
	if err := tx.Where("booking_id IN ?", ids).Delete(&models.Payment{}).Error; err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Booking{}).Error; err != nil {
		return fmt.Errorf("delete bookings: %w", err)
	}
	return nil
}

// AddPriceLine attaches an extra charge, either copied from the fee catalog or
// entered by hand, and adds it to a priced booking's total.
func (s *BookingService) AddPriceLine(ctx context.Context, bookingID uint, in PriceLineInput) (models.BookingPriceLine, error) {
	var line models.BookingPriceLine
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := forUpdate(tx).Preload("Room").First(&b, bookingID).Error; err != nil {
			return notFoundOr(err, "booking", bookingID)
		}
		line = models.BookingPriceLine{BookingID: b.ID, Title: strings.TrimSpace(in.Title), UnitPrice: utils.RoundMoney(in.UnitPrice), Quantity: in.Quantity}

		if in.AdditionalPriceID != nil {
			var ap models.AdditionalPrice
			if err := tx.First(&ap, *in.AdditionalPriceID).Error; err != nil {
				return notFoundOr(err, "additional price", *in.AdditionalPriceID)
			}
			fee := pricing.Fee{ID: ap.ID, PerNight: ap.PerNight, PerGuest: ap.PerGuest}
			if line.Title == "" {
				line.Title = ap.Title.Data().Lookup(in.Lang, models.DefaultLanguage)
			}
			line.UnitPrice = ap.PriceEur
			if in.Quantity == 0 {
				line.Quantity = fee.Quantity(utils.Nights(b.CheckIn, b.CheckOut), b.GuestCount)
			}
			line.Mandatory = ap.Mandatory
			line.OriginID = &ap.ID
		}
		if line.Title == "" {
			return apperror.Validation("title_required", "price line title is required")
		}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		if err := tx.Create(&line).Error; err != nil {
			return writeErr(err, "create", "price line")
		}
		if b.TotalAmount != nil {
			total := utils.RoundMoney(*b.TotalAmount + line.Total())
			if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).Update("total_amount", total).Error; err != nil {
				return fmt.Errorf("update booking total: %w", err)
			}
		}
		if b.GroupID != nil {
			if err := shiftGroupTotal(tx, *b.GroupID, line.Total()); err != nil {
				return err
			}
		}
		return recomputeBookingStatus(tx, b.ID)
	})
	return line, err
}

// RemovePriceLine deletes an optional line. Mandatory lines follow the stay.
func (s *BookingService) RemovePriceLine(ctx context.Context, bookingID, lineID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := forUpdate(tx).First(&b, bookingID).Error; err != nil {
			return notFoundOr(err, "booking", bookingID)
		}
		var line models.BookingPriceLine
		if err := tx.Where("booking_id = ?", bookingID).First(&line, lineID).Error; err != nil {
			return notFoundOr(err, "price line", lineID)
		}
		if line.Mandatory {
			return apperror.Conflict("mandatory_price_line", "mandatory price lines cannot be removed").With("lineId", line.ID)
		}
		if err := tx.Delete(&line).Error; err != nil {
			return fmt.Errorf("delete price line %d: %w", lineID, err)
		}
		if b.TotalAmount != nil {
			total := utils.RoundMoney(*b.TotalAmount - line.Total())
			if total < 0 {
				total = 0
			}
			if err := tx.Model(&models.Booking{}).Where("id = ?", b.ID).Update("total_amount", total).Error; err != nil {
				return fmt.Errorf("update booking total: %w", err)
			}
		}
		if b.GroupID != nil {
			if err := shiftGroupTotal(tx, *b.GroupID, -line.Total()); err != nil {
				return err
			}
		}
		return recomputeBookingStatus(tx, b.ID)
	})
}

func (s *BookingService) ListPriceLines(ctx context.Context, bookingID uint) ([]models.BookingPriceLine, error) {
	db := s.DB.WithContext(ctx)
	if err := db.First(&models.Booking{}, bookingID).Error; err != nil {
		return nil, notFoundOr(err, "booking", bookingID)
	}
	var lines []models.BookingPriceLine
	err := db.Where("booking_id = ?", bookingID).Order("id").Find(&lines).Error
	return lines, err
}
