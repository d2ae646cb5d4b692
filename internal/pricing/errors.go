package pricing

import "errors"

var (
	ErrRateNotFound = errors.New("rate not found")
	ErrItemNotFound = errors.New("line item not found")
	ErrInvalidValue = errors.New("invalid value")
)
