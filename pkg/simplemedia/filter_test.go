package simplemedia

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFilterOrder(t *testing.T) {
	tests := []struct {
		name      string
		filters   []Filter
		misplaced []string
	}{
		{
			name:    "media embed disabled",
			filters: []Filter{{ID: "media_embed", Enabled: false, Weight: -10}, {ID: "filter_align", Enabled: true, Weight: 0}},
		},
		{
			name:    "correct order",
			filters: []Filter{{ID: "filter_align", Enabled: true, Weight: 0}, {ID: "filter_caption", Enabled: true, Weight: 1}, {ID: "media_embed", Enabled: true, Weight: 100}},
		},
		{
			name:    "disabled filters are ignored",
			filters: []Filter{{ID: "filter_caption", Enabled: false, Weight: 200}, {ID: "media_embed", Enabled: true, Weight: 100}},
		},
		{
			name: "embed runs too early",
			filters: []Filter{
				{ID: "media_embed", Enabled: true, Weight: 0},
				{ID: "filter_html_image_secure", Enabled: true, Weight: 5},
				{ID: "filter_align", Enabled: true, Weight: 0},
				{ID: "filter_caption", Enabled: true, Weight: -5},
			},
			misplaced: []string{"filter_align", "filter_html_image_secure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilterOrder(tt.filters)
			if tt.misplaced == nil {
				assert.NoError(t, err)
				return
			}
			var orderErr *FilterOrderError
			require.True(t, errors.As(err, &orderErr))
			assert.Equal(t, tt.misplaced, orderErr.Filters)
			assert.Contains(t, err.Error(), "media_embed")
		})
	}
}
