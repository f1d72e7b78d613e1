package audible

import (
	"net/url"
	"regexp"
	"strings"
)

// ASIN format: 10 alphanumeric characters, typically starting with B.
var asinRegex = regexp.MustCompile(`^[A-Z0-9]{10}$`)

// ValidateASIN checks if an ASIN has valid format.
func ValidateASIN(asin string) bool {
	return asinRegex.MatchString(asin)
}

// storefronts maps Audible storefront hosts to their marketplace region.
var storefronts = map[string]Region{
	"audible.com":    RegionUS,
	"audible.co.uk":  RegionUK,
	"audible.de":     RegionDE,
	"audible.fr":     RegionFR,
	"audible.com.au": RegionAU,
	"audible.ca":     RegionCA,
	"audible.co.jp":  RegionJP,
	"audible.it":     RegionIT,
	"audible.in":     RegionIN,
	"audible.es":     RegionES,
}

// ParseProductURL extracts the marketplace region and ASIN from an Audible
// product page URL, e.g.
//
//	https://www.audible.com/pd/Project-Hail-Mary-Audiobook/B08G9PRS1K
//	https://audible.co.uk/pd/B08G9PRS1K?qid=1700000000
//
// Returns ErrInvalidURL when the URL is not an Audible product page.
func ParseProductURL(raw string) (Region, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", ErrInvalidURL
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	region, ok := storefronts[host]
	if !ok {
		return "", "", ErrInvalidURL
	}

	// The ASIN is the last path segment of /pd/... URLs.
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != "pd" {
		return "", "", ErrInvalidURL
	}

	asin := strings.ToUpper(segments[len(segments)-1])
	if !ValidateASIN(asin) {
		return "", "", ErrInvalidASIN
	}

	return region, asin, nil
}
