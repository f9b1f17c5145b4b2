package reference

import (
	"errors"
	"fmt"
)

// Forecast horizon bounds, in days
const (
	MinHorizon     = 100
	MaxHorizon     = 300
	DefaultHorizon = 150
)

// ErrInvalidHorizon is returned for horizons outside [MinHorizon, MaxHorizon]
var ErrInvalidHorizon = errors.New("invalid forecast horizon")

// ValidateHorizon checks that a horizon is within the accepted range
func ValidateHorizon(days int) error {
	if days < MinHorizon || days > MaxHorizon {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidHorizon, days, MinHorizon, MaxHorizon)
	}
	return nil
}
