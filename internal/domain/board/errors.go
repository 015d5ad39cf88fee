package board

import "errors"

// Validation failures are rejected before any store write. Store
// failures pass through wrapped and keep their own identity.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidColumn = errors.New("invalid column")
	ErrDuplicateCard = errors.New("patient already has a card on this board")
)
