package gdpr

import (
	"github.com/prebid/go-gdpr/consentconstants"

	"github.com/bidmesh/bidmesh/config"
)

// TCF2ConfigReader resolves per-purpose enforcement settings, layering account-level
// overrides over the host configuration.
type TCF2ConfigReader interface {
	IsEnabled() bool
	PurposeEnforcementAlgo(consentconstants.Purpose) EnforcementAlgo
	PurposeEnforcingVendors(consentconstants.Purpose) bool
	PurposeVendorExceptions(consentconstants.Purpose) map[string]struct{}
	PurposeConfig(consentconstants.Purpose) PurposeConfig
}

type tcf2Config struct {
	HostConfig    config.TCF2
	AccountConfig config.AccountGDPR
}

// NewTCF2Config creates an instance of tcf2Config which implements the TCF2ConfigReader
// interface.
func NewTCF2Config(hostConfig config.TCF2, accountConfig config.AccountGDPR) TCF2ConfigReader {
	return &tcf2Config{
		HostConfig:    hostConfig,
		AccountConfig: accountConfig,
	}
}

// IsEnabled indicates if TCF2 enforcement is enabled, giving the account setting
// precedence over the host setting.
func (tc *tcf2Config) IsEnabled() bool {
	if tc.AccountConfig.Enabled != nil {
		return *tc.AccountConfig.Enabled
	}
	return tc.HostConfig.Enabled
}

// PurposeEnforcementAlgo returns the enforcement algorithm for a given purpose by first
// looking at the account settings, and if not set there, defaulting to the host
// configuration. Both layers are validated at load, so an unparseable value cannot
// reach this point; the full algorithm is the defined default.
func (tc *tcf2Config) PurposeEnforcementAlgo(purpose consentconstants.Purpose) EnforcementAlgo {
	if value, exists := tc.AccountConfig.PurposeEnforceAlgo(int(purpose)); exists {
		algo, err := ParseEnforcementAlgo(value)
		if err == nil {
			return algo
		}
	}
	if hostPurpose := tc.HostConfig.PurposeConfig(int(purpose)); hostPurpose != nil {
		algo, err := ParseEnforcementAlgo(hostPurpose.EnforcePurpose)
		if err == nil {
			return algo
		}
	}
	return AlgoFull
}

// PurposeEnforcingVendors checks if enforcing vendors is turned on for a given purpose by
// first looking at the account settings, and if not set there, defaulting to the host
// configuration. With enforcing vendors enabled, the full algorithm considers the
// per-vendor consent bits when determining legal basis; otherwise they're skipped.
func (tc *tcf2Config) PurposeEnforcingVendors(purpose consentconstants.Purpose) bool {
	if value, exists := tc.AccountConfig.PurposeEnforcingVendors(int(purpose)); exists {
		return value
	}
	if hostPurpose := tc.HostConfig.PurposeConfig(int(purpose)); hostPurpose != nil {
		return hostPurpose.EnforcingVendors()
	}
	return true
}

// PurposeVendorExceptions returns the bidders exempted from consent evaluation for a
// given purpose by first looking at the account settings, and if not set there,
// defaulting to the host configuration.
func (tc *tcf2Config) PurposeVendorExceptions(purpose consentconstants.Purpose) map[string]struct{} {
	if exceptions, exists := tc.AccountConfig.PurposeVendorExceptions(int(purpose)); exists {
		return exceptions
	}
	if hostPurpose := tc.HostConfig.PurposeConfig(int(purpose)); hostPurpose != nil {
		return hostPurpose.VendorExceptionMap
	}
	return nil
}

// PurposeConfig assembles the resolved runtime configuration for one purpose.
func (tc *tcf2Config) PurposeConfig(purpose consentconstants.Purpose) PurposeConfig {
	return PurposeConfig{
		PurposeID:          purpose,
		EnforceAlgo:        tc.PurposeEnforcementAlgo(purpose),
		EnforceVendors:     tc.PurposeEnforcingVendors(purpose),
		VendorExceptionMap: tc.PurposeVendorExceptions(purpose),
	}
}
