// Package ledger derives payment status and balances from recorded payments.
package ledger

import (
	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// DeriveStatus maps cumulative paid amount against the total. A missing or
// non-positive total counts as settled once anything was paid.
func DeriveStatus(totalPaid float64, totalAmount *float64) models.PaymentStatus {
	if totalAmount == nil || *totalAmount <= 0 {
		if totalPaid > 0 {
			return models.PaymentFullyPaid
		}
		return models.PaymentPending
	}
	switch {
	case totalPaid <= 0:
		return models.PaymentPending
	case totalPaid >= *totalAmount:
		return models.PaymentFullyPaid
	default:
		return models.PaymentPartiallyPaid
	}
}

type Summary struct {
	PaidEur float64 `json:"paidEur"`
	PaidHuf float64 `json:"paidHuf"`
	// Basis is the currency that drives Status and Remaining.
	Basis     models.Currency      `json:"basis"`
	Due       *float64             `json:"due"`
	Remaining *float64             `json:"remaining"`
	Status    models.PaymentStatus `json:"status"`
}

// Summarize sums payments per currency. EUR payments settle totalAmount; when
// a custom HUF price is set, HUF payments settle that price instead.
func Summarize(payments []models.Payment, totalAmount, customHufPrice *float64) Summary {
	var s Summary
	for _, p := range payments {
		switch p.Currency {
		case models.CurrencyHUF:
			s.PaidHuf += p.Amount
		default:
			s.PaidEur += p.Amount
		}
	}
	s.PaidEur = utils.RoundMoney(s.PaidEur)
	s.PaidHuf = utils.RoundMoney(s.PaidHuf)

	s.Basis = models.CurrencyEUR
	s.Due = totalAmount
	paid := s.PaidEur
	if customHufPrice != nil && *customHufPrice > 0 {
		s.Basis = models.CurrencyHUF
		s.Due = customHufPrice
		paid = s.PaidHuf
	}
	if s.Due != nil {
		remaining := utils.RoundMoney(*s.Due - paid)
		if remaining < 0 {
			remaining = 0
		}
		s.Remaining = &remaining
	}
	s.Status = DeriveStatus(paid, s.Due)
	return s
}
