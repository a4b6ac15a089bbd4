package gdpr

import (
	"fmt"

	"github.com/prebid/go-gdpr/consentconstants"
)

// PurposeConfig is the host/account-supplied enforcement configuration for one purpose.
type PurposeConfig struct {
	PurposeID      consentconstants.Purpose
	EnforceAlgo    EnforcementAlgo
	EnforceVendors bool
	// VendorExceptionMap holds bidder names exempted from consent evaluation for this
	// purpose.
	VendorExceptionMap map[string]struct{}
}

func (pc *PurposeConfig) vendorException(bidder string) bool {
	_, found := pc.VendorExceptionMap[bidder]
	return found
}

// PurposeEnforcer derives redaction relaxations for one purpose. Instances are
// stateless; one per purpose id is built at service construction.
type PurposeEnforcer struct {
	purposeID consentconstants.Purpose
	relax     purposeRelaxation
}

// NewPurposeEnforcer returns the enforcer for a standard purpose id.
func NewPurposeEnforcer(purposeID consentconstants.Purpose) (*PurposeEnforcer, error) {
	relax, found := purposeRelaxations[purposeID]
	if !found {
		return nil, fmt.Errorf("purpose %d is not a standard TCF2 purpose", purposeID)
	}
	return &PurposeEnforcer{purposeID: purposeID, relax: relax}, nil
}

// Apply evaluates this purpose over the request's vendor permissions, relaxing each
// allowed vendor's action in place, and returns the permissions unmodified in structure.
//
// Two passes run. The override pass honors the configured algorithm and the purpose's
// vendor exceptions and grants the coarse allow relaxation. The natural pass re-evaluates
// every vendor (exceptions included) under the full algorithm with vendor enforcement
// forced on, granting the protocol-derived relaxation; downgraded switches it to the
// basic algorithm when the pinned vendor list could not be obtained. Because both passes
// only clear flags, applying purposes in any order yields the same final actions.
func (pe *PurposeEnforcer) Apply(consent Consent, cfg PurposeConfig, perms []VendorPermissionWithGvl, downgraded bool) []VendorPermissionWithGvl {
	evaluated := make([]VendorPermissionWithGvl, 0, len(perms))
	excluded := make([]VendorPermissionWithGvl, 0, len(cfg.VendorExceptionMap))
	for _, vp := range perms {
		if cfg.vendorException(vp.BidderName) {
			excluded = append(excluded, vp)
		} else {
			evaluated = append(evaluated, vp)
		}
	}

	for _, vp := range allowedByTypeStrategy(cfg.EnforceAlgo, pe.purposeID, consent, evaluated, excluded, cfg.EnforceVendors) {
		pe.relax.allow(vp.Action)
	}

	naturalAlgo := AlgoFull
	if downgraded {
		naturalAlgo = AlgoBasic
	}
	for _, vp := range allowedByTypeStrategy(naturalAlgo, pe.purposeID, consent, perms, nil, true) {
		pe.relax.allowNaturally(vp.Action)
	}

	return perms
}
