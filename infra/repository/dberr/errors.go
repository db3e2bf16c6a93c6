// Package dberr maps GORM errors onto domain errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/amirasaad/budgettracker/pkg/domain"
	"gorm.io/gorm"
)

// Map converts GORM lookup errors to domain errors.
// Errors without a mapping are returned unchanged.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// Write wraps a failed write as domain.ErrPersistence, keeping the cause in
// the chain for logging.
func Write(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}
