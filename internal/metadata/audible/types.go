// Package audible provides a rate-limited client for the Audible catalog API,
// used to prefill wishlist entries from an Audible product URL.
package audible

import "time"

// Region represents an Audible marketplace.
type Region string

const (
	RegionUS Region = "us"
	RegionUK Region = "uk"
	RegionDE Region = "de"
	RegionFR Region = "fr"
	RegionAU Region = "au"
	RegionCA Region = "ca"
	RegionJP Region = "jp"
	RegionIT Region = "it"
	RegionIN Region = "in"
	RegionES Region = "es"
)

// Host returns the API host for this region.
func (r Region) Host() string {
	hosts := map[Region]string{
		RegionUS: "api.audible.com",
		RegionUK: "api.audible.co.uk",
		RegionDE: "api.audible.de",
		RegionFR: "api.audible.fr",
		RegionAU: "api.audible.com.au",
		RegionCA: "api.audible.ca",
		RegionJP: "api.audible.co.jp",
		RegionIT: "api.audible.it",
		RegionIN: "api.audible.in",
		RegionES: "api.audible.es",
	}
	if host, ok := hosts[r]; ok {
		return host
	}
	return hosts[RegionUS] // Default to US
}

// Valid returns true if this is a recognized region.
func (r Region) Valid() bool {
	switch r {
	case RegionUS, RegionUK, RegionDE, RegionFR, RegionAU,
		RegionCA, RegionJP, RegionIT, RegionIN, RegionES:
		return true
	}
	return false
}

// Book represents audiobook metadata fetched from the Audible catalog.
type Book struct {
	ASIN           string    `json:"asin"`
	Title          string    `json:"title"`
	Subtitle       string    `json:"subtitle,omitempty"`
	Authors        []string  `json:"authors"`
	Narrators      []string  `json:"narrators"`
	Description    string    `json:"description,omitempty"` // Markdown
	Summary        string    `json:"summary,omitempty"`     // Plain text
	CoverURL       string    `json:"cover_url,omitempty"`
	ProductURL     string    `json:"product_url,omitempty"`
	ReleaseDate    time.Time `json:"release_date,omitempty"`
	RuntimeMinutes int       `json:"runtime_minutes,omitempty"`
	Rating         float32   `json:"rating,omitempty"`
	RatingCount    int       `json:"rating_count,omitempty"`
}
