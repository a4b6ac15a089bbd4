// Package geolocation defines the country lookup contract the consent resolver uses to
// infer GDPR applicability when the request carries no explicit signal.
package geolocation

import (
	"context"
	"errors"
)

var (
	ErrLookupIPInvalid     = errors.New("geolocation: lookup IP is invalid")
	ErrDatabaseUnavailable = errors.New("geolocation: database is unavailable")
)

// GeoInfo is the result of an IP lookup. Country is an ISO 3166-1 alpha-2 code.
type GeoInfo struct {
	Vendor    string
	Continent string
	Country   string
	TimeZone  string
}

// GeoLocation resolves an IP address to a location. Implementations must honor the
// context deadline; the caller's remaining request budget bounds every lookup.
type GeoLocation interface {
	Lookup(ctx context.Context, ipAddress string) (*GeoInfo, error)
}
