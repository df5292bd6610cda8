package catalog

import "errors"

// Custom catalog service errors
var (
	// ErrVenueNotFound indicates the requested venue does not exist
	ErrVenueNotFound = errors.New("venue not found")

	// ErrInvalidSong indicates a song resolution request with missing or
	// malformed fields
	ErrInvalidSong = errors.New("invalid song")

	// ErrInvalidVenue indicates a venue creation request with missing fields
	ErrInvalidVenue = errors.New("invalid venue")
)

// IsVenueNotFound checks if the error is a venue not found error
func IsVenueNotFound(err error) bool {
	return errors.Is(err, ErrVenueNotFound)
}

// IsInvalidSong checks if the error is an invalid song error
func IsInvalidSong(err error) bool {
	return errors.Is(err, ErrInvalidSong)
}
