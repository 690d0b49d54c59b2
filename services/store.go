package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guesthouse-backend/apperror"
	"guesthouse-backend/utils"
)

// notFoundOr maps gorm.ErrRecordNotFound to a caller-facing NotFound error.
func notFoundOr(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		code := strings.ReplaceAll(what, " ", "_") + "_not_found"
		return apperror.NotFound(code, "%s %d not found", what, id).With("id", id)
	}
	return fmt.Errorf("load %s %d: %w", what, id, err)
}

// writeErr maps unique-key violations (TranslateError) to a Conflict.
func writeErr(err error, action, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("duplicate_"+strings.ReplaceAll(what, " ", "_"), "%s already exists", what)
	}
	return fmt.Errorf("%s %s: %w", action, what, err)
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports it.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// parseStay parses and orders a check-in/check-out pair.
func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	ci, err := utils.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("invalid_check_in", "%v", err)
	}
	co, err := utils.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("invalid_check_out", "%v", err)
	}
	if err := requireDateOrder(ci, co); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return ci, co, nil
}

func requireDateOrder(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return apperror.Validation("invalid_date_order", "check-out must be after check-in").
			With("checkIn", utils.FormatDate(checkIn)).
			With("checkOut", utils.FormatDate(checkOut))
	}
	return nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		return nil, apperror.Validation("invalid_date", "%v", err)
	}
	return &t, nil
}

func sortUints(ids []uint) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
