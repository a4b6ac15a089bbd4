package gdpr

import (
	"github.com/bidmesh/bidmesh/vendorlist"
)

// PrivacyEnforcementAction is the per-vendor redaction directive the auction pipeline
// consumes. Every flag starts restrictive and is only ever cleared (monotonic
// relaxation): once any purpose relaxes a flag, no later purpose re-imposes it, so the
// order purposes are evaluated in never changes the final state.
type PrivacyEnforcementAction struct {
	BlockBidderRequest   bool
	BlockPixelSync       bool
	BlockAnalyticsReport bool
	RemoveUserIDs        bool
	MaskDeviceInfo       bool
	MaskGeo              bool
}

// RestrictAll returns the starting state of an action: everything blocked or masked.
func RestrictAll() *PrivacyEnforcementAction {
	return &PrivacyEnforcementAction{
		BlockBidderRequest:   true,
		BlockPixelSync:       true,
		BlockAnalyticsReport: true,
		RemoveUserIDs:        true,
		MaskDeviceInfo:       true,
		MaskGeo:              true,
	}
}

func (a *PrivacyEnforcementAction) AllowBidRequest() {
	a.BlockBidderRequest = false
}

func (a *PrivacyEnforcementAction) AllowPixelSync() {
	a.BlockPixelSync = false
}

func (a *PrivacyEnforcementAction) AllowAnalyticsReport() {
	a.BlockAnalyticsReport = false
}

func (a *PrivacyEnforcementAction) AllowUserIDs() {
	a.RemoveUserIDs = false
}

func (a *PrivacyEnforcementAction) AllowDeviceInfo() {
	a.MaskDeviceInfo = false
}

func (a *PrivacyEnforcementAction) AllowGeo() {
	a.MaskGeo = false
}

// AllowAll clears every flag. Used when GDPR does not apply to the request.
func (a *PrivacyEnforcementAction) AllowAll() {
	*a = PrivacyEnforcementAction{}
}

// VendorPermission pairs one bidder's vendor id with its redaction directives for the
// current request. The Action is relaxed in place as purposes are evaluated.
type VendorPermission struct {
	VendorID   uint16
	BidderName string
	Action     *PrivacyEnforcementAction
}

// NewVendorPermission returns a permission in the maximally restrictive starting state.
func NewVendorPermission(vendorID uint16, bidderName string) *VendorPermission {
	return &VendorPermission{
		VendorID:   vendorID,
		BidderName: bidderName,
		Action:     RestrictAll(),
	}
}

// VendorPermissionWithGvl joins a permission with the vendor's entry in the consent's
// pinned vendor list version. It exists only for the duration of one enforcer
// invocation. A vendor absent from the pinned list carries the zero Vendor, which
// declares no purposes.
type VendorPermissionWithGvl struct {
	*VendorPermission
	GvlVendor vendorlist.Vendor
}
