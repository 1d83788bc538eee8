package envato

import (
	"fmt"
	"strings"
)

// Site is one of the marketplace storefronts, identified by its slug.
type Site string

const (
	AudioJungle  Site = "audiojungle"
	ThemeForest  Site = "themeforest"
	PhotoDune    Site = "photodune"
	CodeCanyon   Site = "codecanyon"
	VideoHive    Site = "videohive"
	GraphicRiver Site = "graphicriver"
	ThreeDOcean  Site = "3docean"
)

// Sites lists every known storefront.
var Sites = []Site{AudioJungle, ThemeForest, PhotoDune, CodeCanyon, VideoHive, GraphicRiver, ThreeDOcean}

// ParseSite matches s case-insensitively against the known sites.
func ParseSite(s string) (Site, error) {
	for _, site := range Sites {
		if strings.EqualFold(s, string(site)) {
			return site, nil
		}
	}
	return "", fmt.Errorf("unknown site %q (valid: %s)", s, joinValues(Sites))
}

// Domain is the domain-qualified name used by the search API, e.g. "themeforest.net".
func (s Site) Domain() string {
	return string(s) + ".net"
}

// SortBy is a search sort field.
type SortBy string

const (
	SortRelevance     SortBy = "relevance"
	SortRating        SortBy = "rating"
	SortSales         SortBy = "sales"
	SortPrice         SortBy = "price"
	SortDate          SortBy = "date"
	SortUpdated       SortBy = "updated"
	SortCategory      SortBy = "category"
	SortName          SortBy = "name"
	SortTrending      SortBy = "trending"
	SortFeaturedUntil SortBy = "featured_until"
)

var sortFields = []SortBy{
	SortRelevance, SortRating, SortSales, SortPrice, SortDate,
	SortUpdated, SortCategory, SortName, SortTrending, SortFeaturedUntil,
}

// ParseSortBy accepts an empty string, meaning the API default.
func ParseSortBy(s string) (SortBy, error) {
	if s == "" {
		return "", nil
	}
	for _, f := range sortFields {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q (valid: %s)", s, joinValues(sortFields))
}

// ParseSortDirection accepts asc or desc; empty means desc.
func ParseSortDirection(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", "desc":
		return "desc", nil
	case "asc":
		return "asc", nil
	}
	return "", fmt.Errorf("unknown sort direction %q (valid: asc, desc)", s)
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
