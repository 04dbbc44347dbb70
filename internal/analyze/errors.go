package analyze

import "errors"

var (
	// ErrEmptyDocument is returned when extraction yields no text
	ErrEmptyDocument = errors.New("document contains no extractable text")
	// ErrBinaryContent is returned when the input is not textual
	ErrBinaryContent = errors.New("binary content")
	// ErrBotVerification is returned when the page is a challenge shell
	ErrBotVerification = errors.New("bot verification page")
)
