package gdpr

// allowedByNoEnforcement allows every vendor unconditionally. Configuring a purpose with
// this algorithm turns its enforcement off.
func allowedByNoEnforcement(vendors []VendorPermissionWithGvl, excluded []VendorPermissionWithGvl) []VendorPermissionWithGvl {
	allowed := make([]VendorPermissionWithGvl, 0, len(vendors)+len(excluded))
	allowed = append(allowed, excluded...)
	return append(allowed, vendors...)
}
