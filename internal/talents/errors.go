package talents

import "errors"

var (
	ErrNotFound     = errors.New("talent not found")
	ErrInvalidInput = errors.New("invalid input")
)
