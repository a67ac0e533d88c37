package store

import "errors"

// ValidationError reports malformed or out-of-policy input. The HTTP layer
// maps it to 422 and exposes only field and message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ErrOrderUnreadable means an order insert succeeded but neither the new row
// nor any most-recent row could be read back.
var ErrOrderUnreadable = errors.New("store: order created but unreadable")
