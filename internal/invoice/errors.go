package invoice

import "errors"

var (
	// ErrOperationNotPermitted is returned when Add or Apply is attempted
	// while the derived permitted operation does not allow it.
	ErrOperationNotPermitted = errors.New("operation not permitted for current draft")

	// ErrNothingSelected is returned when Remove is attempted without a
	// selected line item.
	ErrNothingSelected = errors.New("no line item selected")
)
