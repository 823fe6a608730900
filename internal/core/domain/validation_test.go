package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     DiagnosticRequest
		wantErr bool
	}{
		{"valid", DiagnosticRequest{Text: "screen cracked"}, false},
		{"valid with user agent", DiagnosticRequest{Text: "screen cracked", UserAgent: "Mozilla/5.0"}, false},
		{"empty text", DiagnosticRequest{Text: ""}, true},
		{"whitespace text", DiagnosticRequest{Text: "  \t "}, true},
		{"invalid utf8", DiagnosticRequest{Text: "bad \xff input"}, true},
		{"text at limit", DiagnosticRequest{Text: strings.Repeat("a", MaxTextLen)}, false},
		{"text over limit", DiagnosticRequest{Text: strings.Repeat("a", MaxTextLen+1)}, true},
		{"user agent over limit", DiagnosticRequest{Text: "ok", UserAgent: strings.Repeat("u", MaxUserAgentLen+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, CodeInvalidInput, CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalogSnapshot_FindByBrandModel(t *testing.T) {
	snap := NewCatalogSnapshot(1, []DeviceRecord{
		{ID: "a", Brand: "Apple", Model: "iPhone 14 Pro", Aliases: []string{"iphone 14 pro"}},
		{ID: "b", Brand: "Apple", Model: "MacBook Air M2", Aliases: []string{"macbook air"}},
		{ID: "c", Brand: "Samsung", Model: "Galaxy S24", Aliases: []string{"galaxy s24"}},
	})

	t.Run("brand and model fragment", func(t *testing.T) {
		d := snap.FindByBrandModel("Apple", "macbook")
		assert.NotNil(t, d)
		assert.Equal(t, "b", d.ID)
	})

	t.Run("brand only falls back to first of brand", func(t *testing.T) {
		d := snap.FindByBrandModel("Samsung", "")
		assert.NotNil(t, d)
		assert.Equal(t, "c", d.ID)
	})

	t.Run("unknown brand", func(t *testing.T) {
		assert.Nil(t, snap.FindByBrandModel("Nokia", "3310"))
	})

	t.Run("case insensitive", func(t *testing.T) {
		d := snap.FindByBrandModel("apple", "iphone")
		assert.NotNil(t, d)
		assert.Equal(t, "a", d.ID)
	})
}
