package gdpr

import (
	"context"

	"github.com/prebid/go-gdpr/consentconstants"

	"github.com/bidmesh/bidmesh/metrics"
	"github.com/bidmesh/bidmesh/vendorlist"
)

// VendorResults is the coarse per-vendor verdict: may this vendor participate at all.
type VendorResults struct {
	Country string
	Allowed map[uint16]bool
}

// Engine is the coarse vendor gate. It answers yes/no per vendor id; the fine-grained
// redaction pipeline is the Enforcer's job.
type Engine struct {
	resolver        *Resolver
	fetchVendorList vendorlist.Fetcher
	me              *metrics.Metrics
}

func NewEngine(resolver *Resolver, fetcher vendorlist.Fetcher, me *metrics.Metrics) *Engine {
	return &Engine{
		resolver:        resolver,
		fetchVendorList: fetcher,
		me:              me,
	}
}

// ResultsForPurposes answers: does each vendor declare all of the externally required
// purposes, and does consent cover them? The vendor's declared set must be a superset of
// the required set. When consent does not cover every required purpose the call
// short-circuits to deny-all without fetching the vendor list.
func (e *Engine) ResultsForPurposes(ctx context.Context, purposes []consentconstants.Purpose, vendorIDs []uint16, rawSignal, rawConsent, ip string) (VendorResults, error) {
	info := e.resolver.Resolve(ctx, rawSignal, rawConsent, ip)
	return e.resultsForPurposes(ctx, info, purposes, vendorIDs)
}

// ResultsForVendors answers: does consent cover everything each vendor itself declares?
// The consented purpose set must be a superset of the vendor's declared set — the
// opposite subset direction from ResultsForPurposes. The two operations are not
// interchangeable.
func (e *Engine) ResultsForVendors(ctx context.Context, vendorIDs []uint16, rawSignal, rawConsent, ip string) (VendorResults, error) {
	info := e.resolver.Resolve(ctx, rawSignal, rawConsent, ip)
	return e.resultsForVendors(ctx, info, vendorIDs)
}

func (e *Engine) resultsForPurposes(ctx context.Context, info RequestInfo, purposes []consentconstants.Purpose, vendorIDs []uint16) (VendorResults, error) {
	results := VendorResults{Country: info.Country, Allowed: make(map[uint16]bool, len(vendorIDs))}

	if info.Signal == SignalNo {
		fillResults(results.Allowed, vendorIDs, true)
		return results, nil
	}
	if info.Consent == nil {
		fillResults(results.Allowed, vendorIDs, false)
		return results, nil
	}

	consented, err := info.Consent.ConsentedPurposes()
	if err != nil {
		e.me.RecordInconsistentConsent()
		return results, err
	}
	for _, p := range purposes {
		if _, found := consented[p]; !found {
			fillResults(results.Allowed, vendorIDs, false)
			return results, nil
		}
	}

	list, err := e.fetchVendorList(ctx, info.Consent.ListVersion())
	if err != nil {
		return results, err
	}

	for _, vendorID := range vendorIDs {
		if vendorID == 0 {
			results.Allowed[vendorID] = false
			continue
		}
		vendorConsented, err := info.Consent.VendorConsent(vendorID)
		if err != nil {
			e.me.RecordInconsistentConsent()
			return results, err
		}
		vendor, inList := list.Vendor(vendorID)
		results.Allowed[vendorID] = vendorConsented && inList && vendor.DeclaresAll(purposes)
	}
	return results, nil
}

func (e *Engine) resultsForVendors(ctx context.Context, info RequestInfo, vendorIDs []uint16) (VendorResults, error) {
	results := VendorResults{Country: info.Country, Allowed: make(map[uint16]bool, len(vendorIDs))}

	if info.Signal == SignalNo {
		fillResults(results.Allowed, vendorIDs, true)
		return results, nil
	}
	if info.Consent == nil {
		fillResults(results.Allowed, vendorIDs, false)
		return results, nil
	}

	consented, err := info.Consent.ConsentedPurposes()
	if err != nil {
		e.me.RecordInconsistentConsent()
		return results, err
	}

	list, err := e.fetchVendorList(ctx, info.Consent.ListVersion())
	if err != nil {
		return results, err
	}

	for _, vendorID := range vendorIDs {
		if vendorID == 0 {
			results.Allowed[vendorID] = false
			continue
		}
		vendorConsented, err := info.Consent.VendorConsent(vendorID)
		if err != nil {
			e.me.RecordInconsistentConsent()
			return results, err
		}
		// a vendor absent from the pinned list has an unknown declared set: fail closed
		vendor, inList := list.Vendor(vendorID)
		results.Allowed[vendorID] = vendorConsented && inList && consentCovers(consented, vendor)
	}
	return results, nil
}

func consentCovers(consented map[consentconstants.Purpose]struct{}, vendor vendorlist.Vendor) bool {
	for _, p := range vendor.Purposes() {
		if _, found := consented[p]; !found {
			return false
		}
	}
	return true
}

func fillResults(results map[uint16]bool, vendorIDs []uint16, allowed bool) {
	for _, vendorID := range vendorIDs {
		if vendorID == 0 {
			results[vendorID] = false
			continue
		}
		results[vendorID] = allowed
	}
}
