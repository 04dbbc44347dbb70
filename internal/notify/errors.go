package notify

import "errors"

var (
	// ErrNotificationFailed is returned when a webhook request fails
	ErrNotificationFailed = errors.New("slack notification failed")
	// ErrUnexpectedStatus is returned for non-200 webhook responses
	ErrUnexpectedStatus = errors.New("unexpected slack webhook response status")
)
