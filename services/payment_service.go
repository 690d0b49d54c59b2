package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"guesthouse-backend/apperror"
	"guesthouse-backend/ledger"
	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// PaymentService records payments and keeps payment status in sync.
type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

type PaymentInput struct {
	Amount   float64              `json:"amount" binding:"required,gt=0"`
	Currency models.Currency      `json:"currency" binding:"required,oneof=EUR HUF"`
	Method   models.PaymentMethod `json:"method" binding:"required,oneof=CASH TRANSFER CREDIT_CARD"`
	PaidAt   string               `json:"paidAt" binding:"omitempty,isodate"`
	Note     string               `json:"note" binding:"max=255"`
}

func (in PaymentInput) toModel() (models.Payment, error) {
	if in.Amount <= 0 {
		return models.Payment{}, apperror.Validation("invalid_amount", "payment amount must be positive")
	}
	p := models.Payment{
		Amount:   utils.RoundMoney(in.Amount),
		Currency: in.Currency,
		Method:   in.Method,
		PaidAt:   utils.DateOnly(time.Now().UTC()),
		Note:     in.Note,
	}
	if in.PaidAt != "" {
		d, err := utils.ParseDate(in.PaidAt)
		if err != nil {
			return p, apperror.Validation("invalid_paid_at", "%v", err)
		}
		p.PaidAt = d
	}
	return p, nil
}

func recomputeBookingStatus(tx *gorm.DB, id uint) error {
	var b models.Booking
	if err := tx.First(&b, id).Error; err != nil {
		return notFoundOr(err, "booking", id)
	}
	var payments []models.Payment
	if err := tx.Where("booking_id = ?", id).Find(&payments).Error; err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	status := ledger.Summarize(payments, b.TotalAmount, b.CustomHufPrice).Status
	if status == b.PaymentStatus {
		return nil
	}
	return tx.Model(&models.Booking{}).Where("id = ?", id).Update("payment_status", status).Error
}

func recomputeGroupStatus(tx *gorm.DB, id uint) error {
	var g models.BookingGroup
	if err := tx.First(&g, id).Error; err != nil {
		return notFoundOr(err, "booking group", id)
	}
	var payments []models.Payment
	if err := tx.Where("group_id = ?", id).Find(&payments).Error; err != nil {
		return fmt.Errorf("load payments: %w", err)
	}
	status := ledger.Summarize(payments, g.TotalAmount, g.CustomHufPrice).Status
	if status == g.PaymentStatus {
		return nil
	}
	return tx.Model(&models.BookingGroup{}).Where("id = ?", id).Update("payment_status", status).Error
}

// shiftGroupTotal moves a priced group's total by delta after a member's
// charges changed, then refreshes the group's payment status.
func shiftGroupTotal(tx *gorm.DB, groupID uint, delta float64) error {
	var g models.BookingGroup
	if err := forUpdate(tx).First(&g, groupID).Error; err != nil {
		return notFoundOr(err, "booking group", groupID)
	}
	if g.TotalAmount != nil && delta != 0 {
		total := utils.RoundMoney(*g.TotalAmount + delta)
		if total < 0 {
			total = 0
		}
		if err := tx.Model(&models.BookingGroup{}).Where("id = ?", groupID).Update("total_amount", total).Error; err != nil {
			return fmt.Errorf("update booking group total: %w", err)
		}
	}
	return recomputeGroupStatus(tx, groupID)
}

func (s *PaymentService) AddToBooking(ctx context.Context, bookingID uint, in PaymentInput) (models.Payment, error) {
	p, err := in.toModel()
	if err != nil {
		return p, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&models.Booking{}, bookingID).Error; err != nil {
			return notFoundOr(err, "booking", bookingID)
		}
		p.BookingID = &bookingID
		if err := tx.Create(&p).Error; err != nil {
			return writeErr(err, "create", "payment")
		}
		return recomputeBookingStatus(tx, bookingID)
	})
	return p, err
}

func (s *PaymentService) AddToGroup(ctx context.Context, groupID uint, in PaymentInput) (models.Payment, error) {
	p, err := in.toModel()
	if err != nil {
		return p, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&models.BookingGroup{}, groupID).Error; err != nil {
			return notFoundOr(err, "booking group", groupID)
		}
		p.GroupID = &groupID
		if err := tx.Create(&p).Error; err != nil {
			return writeErr(err, "create", "payment")
		}
		return recomputeGroupStatus(tx, groupID)
	})
	return p, err
}

func (s *PaymentService) ListForBooking(ctx context.Context, bookingID uint) ([]models.Payment, error) {
	db := s.DB.WithContext(ctx)
	if err := db.First(&models.Booking{}, bookingID).Error; err != nil {
		return nil, notFoundOr(err, "booking", bookingID)
	}
	var out []models.Payment
	err := db.Where("booking_id = ?", bookingID).Order("paid_at, id").Find(&out).Error
	return out, err
}

func (s *PaymentService) ListForGroup(ctx context.Context, groupID uint) ([]models.Payment, error) {
	db := s.DB.WithContext(ctx)
	if err := db.First(&models.BookingGroup{}, groupID).Error; err != nil {
		return nil, notFoundOr(err, "booking group", groupID)
	}
	var out []models.Payment
	err := db.Where("group_id = ?", groupID).Order("paid_at, id").Find(&out).Error
	return out, err
}

// Delete removes a payment and recomputes its owner's status.
func (s *PaymentService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Payment
		if err := tx.First(&p, id).Error; err != nil {
			return notFoundOr(err, "payment", id)
		}
		if err := tx.Delete(&p).Error; err != nil {
			return fmt.Errorf("delete payment %d: %w", id, err)
		}
		switch {
		case p.BookingID != nil:
			return recomputeBookingStatus(tx, *p.BookingID)
		case p.GroupID != nil:
			return recomputeGroupStatus(tx, *p.GroupID)
		}
		return nil
	})
}

func (s *PaymentService) BookingLedger(ctx context.Context, bookingID uint) (ledger.Summary, error) {
	db := s.DB.WithContext(ctx)
	var b models.Booking
	if err := db.Preload("Payments").First(&b, bookingID).Error; err != nil {
		return ledger.Summary{}, notFoundOr(err, "booking", bookingID)
	}
	return ledger.Summarize(b.Payments, b.TotalAmount, b.CustomHufPrice), nil
}

func (s *PaymentService) GroupLedger(ctx context.Context, groupID uint) (ledger.Summary, error) {
	db := s.DB.WithContext(ctx)
	var g models.BookingGroup
	if err := db.Preload("Payments").First(&g, groupID).Error; err != nil {
		return ledger.Summary{}, notFoundOr(err, "booking group", groupID)
	}
	return ledger.Summarize(g.Payments, g.TotalAmount, g.CustomHufPrice), nil
}
