package gdpr

import (
	"github.com/prebid/go-gdpr/consentconstants"
)

// allowedByBasicEnforcement is the high-level mode of consent confirmation: a good-faith
// indication that the user consented to the purpose is enough for every vendor. Per-vendor
// consent bits and the vendor's GVL declaration are not consulted, which makes this the
// vendor-list-independent fallback when the pinned list cannot be fetched.
func allowedByBasicEnforcement(
	purposeID consentconstants.Purpose,
	consent Consent,
	vendors []VendorPermissionWithGvl,
	excluded []VendorPermissionWithGvl,
) []VendorPermissionWithGvl {
	allowed := make([]VendorPermissionWithGvl, 0, len(vendors)+len(excluded))
	allowed = append(allowed, excluded...)

	if consent == nil || !consent.PurposeAllowed(purposeID) {
		return allowed
	}

	return append(allowed, vendors...)
}
