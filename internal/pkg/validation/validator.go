package validation

import (
	"errors"
	"fmt"

	"github.com/Vodeneev/statjoin/internal/pkg/models"
)

// Validator checks picks supplied by callers
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePick validates pick data. Empty team names are allowed.
func (v *Validator) ValidatePick(pick *models.PickRecord) error {
	if pick == nil {
		return fmt.Errorf("pick cannot be nil")
	}

	if pick.Side != "" && !pick.Side.Valid() {
		return fmt.Errorf("invalid side %q, want %q or %q", pick.Side, models.SideHome, models.SideAway)
	}

	// American odds: zero when unknown, otherwise at least 100 away from zero
	if pick.Odds != 0 && pick.Odds > -100 && pick.Odds < 100 {
		return fmt.Errorf("invalid american odds: %d", pick.Odds)
	}

	if pick.Confidence < 0 || pick.Confidence > 100 {
		return fmt.Errorf("confidence must be within [0, 100]: %v", pick.Confidence)
	}

	return nil
}

// ValidatePicks validates every pick and joins the failures, each prefixed with its index
func (v *Validator) ValidatePicks(picks []models.PickRecord) error {
	var errs []error
	for i := range picks {
		if err := v.ValidatePick(&picks[i]); err != nil {
			errs = append(errs, fmt.Errorf("pick %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
