package simplemedia

import (
	"fmt"
	"sort"
	"strings"
)

// FilterMediaEmbed is the text format filter that embeds media.
const FilterMediaEmbed = "media_embed"

// media_embed must run after these filters when they are enabled.
var filtersBeforeMediaEmbed = []string{"filter_align", "filter_caption", "filter_html_image_secure"}

// Filter is a text format filter and its position in the format.
type Filter struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
	Weight  int    `json:"weight"`
}

// FilterOrderError lists filters that must run before media_embed but do not.
type FilterOrderError struct {
	Filters []string
}

func (e *FilterOrderError) Error() string {
	return fmt.Sprintf("the %s filter needs to be placed after the following filters: %s",
		FilterMediaEmbed, strings.Join(e.Filters, ", "))
}

// ValidateFilterOrder checks a text format's filter order. Disabled filters
// are ignored.
func ValidateFilterOrder(filters []Filter) error {
	enabled := make(map[string]Filter, len(filters))
	for _, f := range filters {
		if f.Enabled {
			enabled[f.ID] = f
		}
	}

	embed, ok := enabled[FilterMediaEmbed]
	if !ok {
		return nil
	}

	var misplaced []string
	for _, id := range filtersBeforeMediaEmbed {
		if f, ok := enabled[id]; ok && f.Weight >= embed.Weight {
			misplaced = append(misplaced, id)
		}
	}
	if len(misplaced) == 0 {
		return nil
	}
	sort.Strings(misplaced)
	return &FilterOrderError{Filters: misplaced}
}
