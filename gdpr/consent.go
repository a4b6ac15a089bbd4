package gdpr

import (
	"fmt"

	"github.com/prebid/go-gdpr/api"
	"github.com/prebid/go-gdpr/consentconstants"
	"github.com/prebid/go-gdpr/vendorconsent"
	tcf2 "github.com/prebid/go-gdpr/vendorconsent/tcf2"
)

// The TCF2 standard purpose ids run 1 through 10.
const (
	firstStandardPurpose = consentconstants.Purpose(1)
	lastStandardPurpose  = consentconstants.Purpose(10)
)

// Consent exposes the parts of a decoded consent string the engine evaluates.
//
// PurposeAllowed and VendorAllowed are the plain, fail-closed queries used by the
// per-purpose enforcement strategies. VendorConsent and ConsentedPurposes are the checked
// variants used by the coarse engine; they return ErrorInconsistentConsent when the
// string parsed but its encoded data cannot be queried as TCF2, which the engine
// surfaces as a client-input validation failure.
type Consent interface {
	ListVersion() uint16
	PurposeAllowed(purposeID consentconstants.Purpose) bool
	VendorAllowed(vendorID uint16) bool
	VendorConsent(vendorID uint16) (bool, error)
	ConsentedPurposes() (map[consentconstants.Purpose]struct{}, error)
}

// decodeConsent parses and validates a consent string. A failure here is decode
// degradation: the string never yielded a usable consent object.
func decodeConsent(consent string) (Consent, error) {
	parsed, err := vendorconsent.ParseString(consent)
	if err != nil {
		return nil, &ErrorMalformedConsent{Consent: consent, Cause: err}
	}

	if err := validateVersions(parsed); err != nil {
		return nil, &ErrorMalformedConsent{Consent: consent, Cause: err}
	}

	return &decodedConsent{raw: consent, consents: parsed}, nil
}

// validateVersions ensures that certain version fields in the consent string contain
// valid values. An error is returned if at least one of them is invalid.
func validateVersions(pc api.VendorConsents) error {
	version := pc.Version()
	if version != 1 && version != 2 {
		return fmt.Errorf("invalid encoding format version: %d", version)
	}
	return nil
}

// decodedConsent adapts the third-party decoder result to the Consent interface, keeping
// decoder error types from leaking into the engine's contract.
type decodedConsent struct {
	raw      string
	consents api.VendorConsents
}

// meta recovers the TCF2 metadata view. A string that parsed under another encoding
// version reaches this point only through the checked queries, where the failure becomes
// the decode-inconsistency error.
func (c *decodedConsent) meta() (tcf2.ConsentMetadata, error) {
	cm, ok := c.consents.(tcf2.ConsentMetadata)
	if !ok {
		return tcf2.ConsentMetadata{}, &ErrorInconsistentConsent{Consent: c.raw}
	}
	return cm, nil
}

func (c *decodedConsent) ListVersion() uint16 {
	return c.consents.VendorListVersion()
}

func (c *decodedConsent) PurposeAllowed(purposeID consentconstants.Purpose) bool {
	return c.consents.PurposeAllowed(purposeID)
}

func (c *decodedConsent) VendorAllowed(vendorID uint16) bool {
	return c.consents.VendorConsent(vendorID)
}

func (c *decodedConsent) VendorConsent(vendorID uint16) (bool, error) {
	cm, err := c.meta()
	if err != nil {
		return false, err
	}
	return cm.VendorConsent(vendorID), nil
}

func (c *decodedConsent) ConsentedPurposes() (map[consentconstants.Purpose]struct{}, error) {
	cm, err := c.meta()
	if err != nil {
		return nil, err
	}
	consented := make(map[consentconstants.Purpose]struct{})
	for p := firstStandardPurpose; p <= lastStandardPurpose; p++ {
		if cm.PurposeAllowed(p) {
			consented[p] = struct{}{}
		}
	}
	return consented, nil
}
