package gdpr

import (
	"fmt"

	"github.com/prebid/go-gdpr/consentconstants"

	"github.com/bidmesh/bidmesh/config"
)

// EnforcementAlgo selects how legal basis is established for one purpose. The zero value
// is AlgoFull, so an unset configuration enforces fully.
type EnforcementAlgo int

const (
	AlgoFull EnforcementAlgo = iota
	AlgoBasic
	AlgoNone
)

func (a EnforcementAlgo) String() string {
	switch a {
	case AlgoBasic:
		return config.EnforceAlgoBasic
	case AlgoNone:
		return config.EnforceAlgoNo
	}
	return config.EnforceAlgoFull
}

// ParseEnforcementAlgo maps a configured enforce_purpose value to its algorithm. An
// unrecognized value is an operator misconfiguration; config validation rejects it at
// startup so it never becomes a per-request failure.
func ParseEnforcementAlgo(value string) (EnforcementAlgo, error) {
	switch value {
	case "", config.EnforceAlgoFull:
		return AlgoFull, nil
	case config.EnforceAlgoBasic:
		return AlgoBasic, nil
	case config.EnforceAlgoNo:
		return AlgoNone, nil
	}
	return AlgoFull, fmt.Errorf("unrecognized enforcement algorithm %q", value)
}

// allowedByTypeStrategy computes the subset of vendors allowed the purpose under the
// given algorithm. Excluded vendors (the purpose's vendor exceptions) are part of the
// returned set for all three algorithms, regardless of consent content. Each case is a
// pure function of its inputs.
func allowedByTypeStrategy(
	algo EnforcementAlgo,
	purposeID consentconstants.Purpose,
	consent Consent,
	vendors []VendorPermissionWithGvl,
	excluded []VendorPermissionWithGvl,
	enforceVendors bool,
) []VendorPermissionWithGvl {
	switch algo {
	case AlgoNone:
		return allowedByNoEnforcement(vendors, excluded)
	case AlgoBasic:
		return allowedByBasicEnforcement(purposeID, consent, vendors, excluded)
	default:
		return allowedByFullEnforcement(purposeID, consent, vendors, excluded, enforceVendors)
	}
}
