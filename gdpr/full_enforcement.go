package gdpr

import (
	"github.com/prebid/go-gdpr/consentconstants"
)

// allowedByFullEnforcement is the standard TCF2 legal basis calculation: the user must
// have consented to the purpose, the vendor must declare the purpose in the pinned
// vendor list version, and, when enforceVendors is set, the user must have consented to
// the vendor itself. A vendor with no entry in the pinned list declares nothing and so
// fails closed.
func allowedByFullEnforcement(
	purposeID consentconstants.Purpose,
	consent Consent,
	vendors []VendorPermissionWithGvl,
	excluded []VendorPermissionWithGvl,
	enforceVendors bool,
) []VendorPermissionWithGvl {
	allowed := make([]VendorPermissionWithGvl, 0, len(vendors)+len(excluded))
	allowed = append(allowed, excluded...)

	if consent == nil || !consent.PurposeAllowed(purposeID) {
		return allowed
	}

	for _, vp := range vendors {
		if enforceVendors && !consent.VendorAllowed(vp.VendorID) {
			continue
		}
		if !vp.GvlVendor.Purpose(purposeID) {
			continue
		}
		allowed = append(allowed, vp)
	}
	return allowed
}
