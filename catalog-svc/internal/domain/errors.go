package domain

import (
	"fmt"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
)

var (
	ErrDishNotFound = fmt.Errorf("dish %w", apperr.ErrNotFound)
	ErrCartNotFound = fmt.Errorf("cart %w", apperr.ErrNotFound)
	ErrCartBusy     = fmt.Errorf("cart was modified concurrently: %w", apperr.ErrConflict)
)
