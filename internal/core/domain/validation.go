package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxTextLen bounds the free-form problem description.
	MaxTextLen = 2000
	// MaxUserAgentLen bounds the optional raw user-agent string.
	MaxUserAgentLen = 2000
)

// Validate checks request bounds. It returns a typed invalid_input error so
// the HTTP layer can map it to a 400 without string matching.
func (r *DiagnosticRequest) Validate() error {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return ErrInvalidInput("text is required")
	}
	if !utf8.ValidString(r.Text) {
		return ErrInvalidInput("text must be valid UTF-8")
	}
	if utf8.RuneCountInString(r.Text) > MaxTextLen {
		return ErrInvalidInput("text exceeds 2000 characters")
	}
	if utf8.RuneCountInString(r.UserAgent) > MaxUserAgentLen {
		return ErrInvalidInput("userAgent exceeds 2000 characters")
	}
	return nil
}
