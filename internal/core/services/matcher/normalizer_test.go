package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fixly/repairdiag/internal/core/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and collapses whitespace", "  My   iPhone  14 ", "my iphone 14"},
		{"drops apostrophes inside words", "it won't turn on", "it wont turn on"},
		{"drops unicode apostrophes", "it won’t charge", "it wont charge"},
		{"punctuation becomes space", "screen,cracked!badly", "screen cracked badly"},
		{"expands mbp", "my mbp is slow", "my macbook pro is slow"},
		{"expands mba", "mba battery dead", "macbook air battery dead"},
		{"expands ps5", "ps5 no power", "playstation 5 no power"},
		{"expands xsx", "xsx overheating", "xbox series x overheating"},
		{"expands oneplus shorthand", "1+ screen broken", "oneplus screen broken"},
		{"expands fone", "fone dropped in water", "phone dropped in water"},
		{"empty input", "", ""},
		{"only punctuation", "?!.,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestDetectDeviceType(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected domain.DeviceCategory
	}{
		{"laptop keyword", "my laptop wont turn on", domain.CategoryLaptop},
		{"macbook implies laptop", "macbook screen flickering", domain.CategoryLaptop},
		{"tablet keyword", "tablet battery drains", domain.CategoryTablet},
		{"ipad implies tablet", "ipad cracked glass", domain.CategoryTablet},
		{"console keyword", "console overheating", domain.CategoryConsole},
		{"xbox implies console", "xbox no sound", domain.CategoryConsole},
		{"phone keyword", "phone wont charge", domain.CategoryPhone},
		{"no hint", "wont turn on at all", domain.CategoryNone},
		{"hint must be whole token", "telephoned the shop", domain.CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectDeviceType(Normalize(tt.text)))
		})
	}
}
