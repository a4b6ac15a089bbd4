package gdpr

import (
	"github.com/prebid/go-gdpr/consentconstants"
)

// purposeRelaxation defines what one purpose clears on a vendor's action.
//
// allow is the policy-override relaxation: the vendor was granted the purpose, whether
// by consent, by configuration, or by a vendor exception. allowNaturally is the
// protocol-derived relaxation: the TCF protocol itself established legal basis, which
// additionally clears the PII-minimization flags an override grant leaves untouched.
type purposeRelaxation struct {
	allow          func(*PrivacyEnforcementAction)
	allowNaturally func(*PrivacyEnforcementAction)
}

// purposeRelaxations is the only purpose-specific logic in the pipeline; everything else
// is purpose-agnostic. The flag choices follow how the auction pipeline consumes the
// action: purpose 1 gates pixel syncing, purpose 2 gates calling the bidder at all,
// purpose 7 gates analytics reporting, and natural legal basis for any of the profile or
// measurement purposes releases the matching identifier and device fields.
var purposeRelaxations = map[consentconstants.Purpose]purposeRelaxation{
	1: { // store and/or access information on a device
		allow:          (*PrivacyEnforcementAction).AllowPixelSync,
		allowNaturally: (*PrivacyEnforcementAction).AllowPixelSync,
	},
	2: { // select basic ads
		allow: (*PrivacyEnforcementAction).AllowBidRequest,
		allowNaturally: func(a *PrivacyEnforcementAction) {
			a.AllowBidRequest()
			a.AllowUserIDs()
			a.AllowDeviceInfo()
		},
	},
	3: { // create a personalised ads profile
		allow:          relaxNothing,
		allowNaturally: (*PrivacyEnforcementAction).AllowUserIDs,
	},
	4: { // select personalised ads
		allow: relaxNothing,
		allowNaturally: func(a *PrivacyEnforcementAction) {
			a.AllowUserIDs()
			a.AllowDeviceInfo()
		},
	},
	5: { // create a personalised content profile
		allow:          relaxNothing,
		allowNaturally: (*PrivacyEnforcementAction).AllowDeviceInfo,
	},
	6: { // select personalised content
		allow:          relaxNothing,
		allowNaturally: (*PrivacyEnforcementAction).AllowDeviceInfo,
	},
	7: { // measure ad performance
		allow: (*PrivacyEnforcementAction).AllowAnalyticsReport,
		allowNaturally: func(a *PrivacyEnforcementAction) {
			a.AllowAnalyticsReport()
			a.AllowUserIDs()
		},
	},
	8: { // measure content performance
		allow:          relaxNothing,
		allowNaturally: (*PrivacyEnforcementAction).AllowUserIDs,
	},
	9: { // apply market research to generate audience insights
		allow:          relaxNothing,
		allowNaturally: (*PrivacyEnforcementAction).AllowGeo,
	},
	10: { // develop and improve products
		allow:          relaxNothing,
		allowNaturally: (*PrivacyEnforcementAction).AllowUserIDs,
	},
}

func relaxNothing(*PrivacyEnforcementAction) {}
