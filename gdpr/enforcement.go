package gdpr

import (
	"context"

	"github.com/golang/glog"
	"github.com/prebid/go-gdpr/consentconstants"

	"github.com/bidmesh/bidmesh/metrics"
	"github.com/bidmesh/bidmesh/vendorlist"
)

// Enforcer is the fine-grained pipeline: it derives per-vendor redaction directives for
// the bidders participating in one auction. Unlike the coarse Engine, it never fails the
// request; every third-party failure resolves to a defined, deny-biased fallback.
type Enforcer struct {
	resolver        *Resolver
	fetchVendorList vendorlist.Fetcher
	cfg             TCF2ConfigReader
	enforcers       map[consentconstants.Purpose]*PurposeEnforcer
	me              *metrics.Metrics
}

// NewEnforcer builds an Enforcer evaluating all standard purposes under the given
// layered configuration.
func NewEnforcer(resolver *Resolver, fetcher vendorlist.Fetcher, cfg TCF2ConfigReader, me *metrics.Metrics) (*Enforcer, error) {
	enforcers := make(map[consentconstants.Purpose]*PurposeEnforcer, int(lastStandardPurpose))
	for p := firstStandardPurpose; p <= lastStandardPurpose; p++ {
		enforcer, err := NewPurposeEnforcer(p)
		if err != nil {
			return nil, err
		}
		enforcers[p] = enforcer
	}
	return &Enforcer{
		resolver:        resolver,
		fetchVendorList: fetcher,
		cfg:             cfg,
		enforcers:       enforcers,
		me:              me,
	}, nil
}

// Evaluate resolves the request's GDPR context and runs every purpose enforcer over the
// given bidders (bidder name to vendor id). The returned permissions carry the final
// redaction directives; purposes commute, so evaluation order is irrelevant.
//
// When GDPR does not apply every action is fully relaxed. When it applies but consent is
// absent or unusable, nothing is relaxed beyond the configured vendor exceptions. When
// the pinned vendor list cannot be fetched, the natural pass downgrades to the basic
// algorithm instead of failing.
func (e *Enforcer) Evaluate(ctx context.Context, rawSignal, rawConsent, ip string, bidders map[string]uint16) []*VendorPermission {
	info := e.resolver.Resolve(ctx, rawSignal, rawConsent, ip)

	perms := make([]*VendorPermission, 0, len(bidders))
	for bidder, vendorID := range bidders {
		perms = append(perms, NewVendorPermission(vendorID, bidder))
	}

	if info.Signal == SignalNo {
		for _, vp := range perms {
			vp.Action.AllowAll()
		}
		return perms
	}
	if !e.cfg.IsEnabled() {
		for _, vp := range perms {
			vp.Action.AllowAll()
		}
		return perms
	}

	downgraded := false
	var list *vendorlist.List
	if info.Consent != nil {
		var err error
		list, err = e.fetchVendorList(ctx, info.Consent.ListVersion())
		if err != nil {
			glog.Warningf("Downgrading to basic enforcement, vendor list version %d unavailable: %v", info.Consent.ListVersion(), err)
			e.me.RecordEnforcementDowngrade()
			downgraded = true
		}
	} else {
		// no pinned version to fetch; the strategies fail closed on nil consent
		downgraded = true
	}

	permsWithGvl := make([]VendorPermissionWithGvl, 0, len(perms))
	for _, vp := range perms {
		withGvl := VendorPermissionWithGvl{VendorPermission: vp}
		if list != nil {
			withGvl.GvlVendor, _ = list.Vendor(vp.VendorID)
		}
		permsWithGvl = append(permsWithGvl, withGvl)
	}

	for p, enforcer := range e.enforcers {
		enforcer.Apply(info.Consent, e.cfg.PurposeConfig(p), permsWithGvl, downgraded)
	}
	return perms
}
