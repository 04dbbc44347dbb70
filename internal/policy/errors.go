package policy

import "errors"

var (
	// ErrInvalidURL is returned when a user-supplied URL cannot be normalized
	ErrInvalidURL = errors.New("invalid url")
	// ErrUnknownPolicyType is returned when a policy type is not tos or privacy
	ErrUnknownPolicyType = errors.New("unknown policy type")
)
