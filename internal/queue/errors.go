package queue

import "errors"

// Custom queue service errors
var (
	// ErrVenueNotFound indicates the venue does not exist
	ErrVenueNotFound = errors.New("venue not found")

	// ErrItemNotFound indicates the queue item does not exist at the venue
	ErrItemNotFound = errors.New("queue item not found")

	// ErrMissingPaymentMethod indicates a paid request arrived without a
	// payment method handle
	ErrMissingPaymentMethod = errors.New("payment method required for paid songs")

	// ErrPaymentDeclined indicates the payment processor rejected the charge
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentFailed indicates the payment processor could not be reached;
	// treated as a failed authorization, never retried internally
	ErrPaymentFailed = errors.New("payment authorization failed")
)

// IsVenueNotFound checks if the error is a venue not found error
func IsVenueNotFound(err error) bool {
	return errors.Is(err, ErrVenueNotFound)
}

// IsItemNotFound checks if the error is a queue item not found error
func IsItemNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

// IsPaymentError checks if the error is any of the payment failure modes
// that reject an enqueue
func IsPaymentError(err error) bool {
	return errors.Is(err, ErrMissingPaymentMethod) ||
		errors.Is(err, ErrPaymentDeclined) ||
		errors.Is(err, ErrPaymentFailed)
}
