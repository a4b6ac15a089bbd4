// Package metrics instruments the privacy core with go-metrics meters and timers.
// A nil *Metrics is a valid no-op receiver so library callers can opt out.
package metrics

import (
	"time"

	metrics "github.com/rcrowley/go-metrics"
)

// Metrics holds the go-metrics instruments for the privacy engine.
type Metrics struct {
	MetricsRegistry           metrics.Registry
	RequestsInScopeMeter      metrics.Meter
	RequestsOutOfScopeMeter   metrics.Meter
	ConsentParseErrorMeter    metrics.Meter
	ConsentInconsistentMeter  metrics.Meter
	VendorListFetchTimer      metrics.Timer
	VendorListErrorMeter      metrics.Meter
	GeoLookupTimer            metrics.Timer
	GeoLookupErrorMeter       metrics.Meter
	EnforcementDowngradeMeter metrics.Meter
}

// NewMetrics registers all privacy engine instruments on the given registry.
func NewMetrics(registry metrics.Registry) *Metrics {
	return &Metrics{
		MetricsRegistry:           registry,
		RequestsInScopeMeter:      metrics.GetOrRegisterMeter("gdpr.requests.in_scope", registry),
		RequestsOutOfScopeMeter:   metrics.GetOrRegisterMeter("gdpr.requests.out_of_scope", registry),
		ConsentParseErrorMeter:    metrics.GetOrRegisterMeter("gdpr.consent.parse_errors", registry),
		ConsentInconsistentMeter:  metrics.GetOrRegisterMeter("gdpr.consent.inconsistent", registry),
		VendorListFetchTimer:      metrics.GetOrRegisterTimer("gdpr.vendorlist.fetch_time", registry),
		VendorListErrorMeter:      metrics.GetOrRegisterMeter("gdpr.vendorlist.fetch_errors", registry),
		GeoLookupTimer:            metrics.GetOrRegisterTimer("geolocation.lookup_time", registry),
		GeoLookupErrorMeter:       metrics.GetOrRegisterMeter("geolocation.lookup_errors", registry),
		EnforcementDowngradeMeter: metrics.GetOrRegisterMeter("gdpr.enforcement.downgrades", registry),
	}
}

// RecordRequestScope counts a resolved request by GDPR applicability.
func (m *Metrics) RecordRequestScope(inScope bool) {
	if m == nil {
		return
	}
	if inScope {
		m.RequestsInScopeMeter.Mark(1)
	} else {
		m.RequestsOutOfScopeMeter.Mark(1)
	}
}

// RecordConsentParseFailure counts a malformed consent string.
func (m *Metrics) RecordConsentParseFailure() {
	if m == nil {
		return
	}
	m.ConsentParseErrorMeter.Mark(1)
}

// RecordInconsistentConsent counts a consent string that parsed but failed on query.
func (m *Metrics) RecordInconsistentConsent() {
	if m == nil {
		return
	}
	m.ConsentInconsistentMeter.Mark(1)
}

// RecordVendorListFetch times a vendor list fetch and counts failures.
func (m *Metrics) RecordVendorListFetch(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.VendorListFetchTimer.Update(duration)
	if err != nil {
		m.VendorListErrorMeter.Mark(1)
	}
}

// RecordGeoLookup times a geolocation lookup and counts failures.
func (m *Metrics) RecordGeoLookup(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.GeoLookupTimer.Update(duration)
	if err != nil {
		m.GeoLookupErrorMeter.Mark(1)
	}
}

// RecordEnforcementDowngrade counts a natural-pass downgrade to the basic algorithm.
func (m *Metrics) RecordEnforcementDowngrade() {
	if m == nil {
		return
	}
	m.EnforcementDowngradeMeter.Mark(1)
}
