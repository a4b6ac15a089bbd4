package gdpr

import (
	"context"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/bidmesh/bidmesh/config"
	"github.com/bidmesh/bidmesh/geolocation"
	"github.com/bidmesh/bidmesh/metrics"
)

// RequestInfo is the per-request GDPR context. It is built once by the Resolver,
// consumed by the Engine and the Enforcer, and never persisted beyond the request.
type RequestInfo struct {
	// Signal is SignalYes or SignalNo after resolution, never SignalAmbiguous.
	Signal  Signal
	Country string
	// Consent is nil when GDPR does not apply, the string is absent, or it is malformed.
	Consent Consent
}

// Resolver normalizes the request's GDPR applicability and decodes its consent string,
// falling back to geolocation-based inference when the signal is absent.
type Resolver struct {
	geo          geolocation.GeoLocation
	me           *metrics.Metrics
	eeaCountries map[string]struct{}
	defaultValue string
	geoTimeout   time.Duration
}

// NewResolver builds a Resolver. geo may be nil when no geolocation service is
// configured; the resolver then falls straight through to the configured default.
func NewResolver(cfg *config.Configuration, geo geolocation.GeoLocation, me *metrics.Metrics) *Resolver {
	eeaCountries := make(map[string]struct{}, len(cfg.GDPR.EEACountries))
	for _, country := range cfg.GDPR.EEACountries {
		eeaCountries[strings.ToUpper(country)] = struct{}{}
	}
	return &Resolver{
		geo:          geo,
		me:           me,
		eeaCountries: eeaCountries,
		defaultValue: cfg.GDPR.DefaultValue,
		geoTimeout:   cfg.GeoLocation.LookupTimeout(),
	}
}

// Resolve produces the request's GDPR context. Decode and geolocation failures degrade
// to defined fallbacks; they never abort the request.
func (r *Resolver) Resolve(ctx context.Context, rawSignal, rawConsent, ip string) RequestInfo {
	// an unusable signal is treated the same as an absent one
	signal, _ := SignalParse(rawSignal)

	var country string
	if signal == SignalAmbiguous {
		signal, country = r.inferSignal(ctx, ip)
	}

	info := RequestInfo{Signal: signal, Country: country}
	if signal == SignalYes {
		info.Consent = r.decode(rawConsent)
	}
	r.me.RecordRequestScope(signal == SignalYes)
	return info
}

// inferSignal settles an ambiguous signal from the request IP's country, or from the
// configured default when no lookup is possible.
func (r *Resolver) inferSignal(ctx context.Context, ip string) (Signal, string) {
	if ip == "" || r.geo == nil {
		return SignalNormalize(SignalAmbiguous, r.defaultValue), ""
	}

	if r.geoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.geoTimeout)
		defer cancel()
	}

	start := time.Now()
	geoInfo, err := r.geo.Lookup(ctx, ip)
	r.me.RecordGeoLookup(time.Since(start), err)
	if err != nil {
		glog.Warningf("GDPR geolocation lookup failed, using default value %s: %v", r.defaultValue, err)
		return SignalNormalize(SignalAmbiguous, r.defaultValue), ""
	}

	if _, eea := r.eeaCountries[strings.ToUpper(geoInfo.Country)]; eea {
		return SignalYes, geoInfo.Country
	}
	return SignalNo, geoInfo.Country
}

func (r *Resolver) decode(rawConsent string) Consent {
	if rawConsent == "" {
		return nil
	}
	consent, err := decodeConsent(rawConsent)
	if err != nil {
		glog.Warningf("Could not decode consent string: %v", err)
		r.me.RecordConsentParseFailure()
		return nil
	}
	return consent
}
