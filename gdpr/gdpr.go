// Package gdpr decides, per advertising vendor and per TCF purpose, what a vendor may do
// with user data during one auction. It interprets the user's consent string against the
// pinned Global Vendor List version and produces two kinds of answers: a coarse
// per-vendor allowed/denied gate (Engine) and fine-grained redaction directives
// (Enforcer writing PrivacyEnforcementActions).
package gdpr

import (
	"github.com/bidmesh/bidmesh/errortypes"
)

// An ErrorMalformedConsent is returned when the consent string argument could not be
// decoded at all. The resolver treats it as a degradation (consent absent), never as a
// request failure.
type ErrorMalformedConsent struct {
	Consent string
	Cause   error
}

func (e *ErrorMalformedConsent) Error() string {
	return "malformed consent string " + e.Consent + ": " + e.Cause.Error()
}

func (e *ErrorMalformedConsent) Code() int {
	return errortypes.MalformedConsentErrorCode
}

func (e *ErrorMalformedConsent) Severity() errortypes.Severity {
	return errortypes.SeverityWarning
}

// An ErrorInconsistentConsent is returned when a consent string parsed but its encoded
// data cannot be queried as TCF2. Unlike a malformed string, the broken input has reached
// deeper evaluation, so the engine surfaces it to the caller as a client-input validation
// failure instead of degrading silently.
type ErrorInconsistentConsent struct {
	Consent string
}

func (e *ErrorInconsistentConsent) Error() string {
	return "consent string " + e.Consent + " parsed but is not queryable as TCF2"
}

func (e *ErrorInconsistentConsent) Code() int {
	return errortypes.InconsistentConsentErrorCode
}

func (e *ErrorInconsistentConsent) Severity() errortypes.Severity {
	return errortypes.SeverityFatal
}
