package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderType(t *testing.T) {
	tests := []struct {
		provider     ProviderType
		valid        bool
		oauth        bool
		caldav       bool
		conferencing bool
		display      string
	}{
		{ProviderGoogle, true, true, false, true, "Google Calendar"},
		{ProviderApple, true, false, true, false, "Apple Calendar"},
		{ProviderCalDAV, true, false, true, false, "CalDAV"},
		{ProviderType("outlook"), false, false, false, false, "outlook"},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
			assert.Equal(t, tt.oauth, tt.provider.RequiresOAuth())
			assert.Equal(t, tt.caldav, tt.provider.RequiresCalDAV())
			assert.Equal(t, tt.conferencing, tt.provider.SupportsConferencing())
			assert.Equal(t, tt.display, tt.provider.DisplayName())
		})
	}
}
