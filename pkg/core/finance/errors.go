package finance

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when a financial parameter is outside its
// valid domain. Callers should check with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

const (
	// MaxTermMonths caps loan terms at 50 years.
	MaxTermMonths = 600

	// MaxPrincipal is a sanity ceiling for loan amounts.
	MaxPrincipal = 1_000_000_000.0

	// BalanceTolerance is the rounding drift allowed on the terminal balance.
	BalanceTolerance = 1e-6
)
