package config

// Account represents publisher-account-level settings layered over the host configuration.
type Account struct {
	ID   string      `mapstructure:"id" json:"id"`
	GDPR AccountGDPR `mapstructure:"gdpr" json:"gdpr"`
}

// AccountGDPR holds account-specific GDPR overrides. All fields are pointers so an unset
// field falls through to the host configuration.
type AccountGDPR struct {
	Enabled   *bool              `mapstructure:"enabled" json:"enabled"`
	Purpose1  AccountTCF2Purpose `mapstructure:"purpose1" json:"purpose1"`
	Purpose2  AccountTCF2Purpose `mapstructure:"purpose2" json:"purpose2"`
	Purpose3  AccountTCF2Purpose `mapstructure:"purpose3" json:"purpose3"`
	Purpose4  AccountTCF2Purpose `mapstructure:"purpose4" json:"purpose4"`
	Purpose5  AccountTCF2Purpose `mapstructure:"purpose5" json:"purpose5"`
	Purpose6  AccountTCF2Purpose `mapstructure:"purpose6" json:"purpose6"`
	Purpose7  AccountTCF2Purpose `mapstructure:"purpose7" json:"purpose7"`
	Purpose8  AccountTCF2Purpose `mapstructure:"purpose8" json:"purpose8"`
	Purpose9  AccountTCF2Purpose `mapstructure:"purpose9" json:"purpose9"`
	Purpose10 AccountTCF2Purpose `mapstructure:"purpose10" json:"purpose10"`
}

// AccountTCF2Purpose overrides enforcement settings for one purpose.
type AccountTCF2Purpose struct {
	EnforcePurpose   *string  `mapstructure:"enforce_purpose" json:"enforce_purpose"`
	EnforceVendors   *bool    `mapstructure:"enforce_vendors" json:"enforce_vendors"`
	VendorExceptions []string `mapstructure:"vendor_exceptions" json:"vendor_exceptions"`
}

func (a *AccountGDPR) purposeConfig(purposeID int) *AccountTCF2Purpose {
	switch purposeID {
	case 1:
		return &a.Purpose1
	case 2:
		return &a.Purpose2
	case 3:
		return &a.Purpose3
	case 4:
		return &a.Purpose4
	case 5:
		return &a.Purpose5
	case 6:
		return &a.Purpose6
	case 7:
		return &a.Purpose7
	case 8:
		return &a.Purpose8
	case 9:
		return &a.Purpose9
	case 10:
		return &a.Purpose10
	}
	return nil
}

// PurposeEnforceAlgo returns the account-level enforcement algorithm for a purpose and
// whether one was set.
func (a *AccountGDPR) PurposeEnforceAlgo(purposeID int) (string, bool) {
	p := a.purposeConfig(purposeID)
	if p == nil || p.EnforcePurpose == nil {
		return "", false
	}
	return *p.EnforcePurpose, true
}

// PurposeEnforcingVendors returns the account-level enforce-vendors flag for a purpose and
// whether one was set.
func (a *AccountGDPR) PurposeEnforcingVendors(purposeID int) (bool, bool) {
	p := a.purposeConfig(purposeID)
	if p == nil || p.EnforceVendors == nil {
		return false, false
	}
	return *p.EnforceVendors, true
}

// PurposeVendorExceptions returns the account-level vendor exceptions for a purpose and
// whether any were set.
func (a *AccountGDPR) PurposeVendorExceptions(purposeID int) (map[string]struct{}, bool) {
	p := a.purposeConfig(purposeID)
	if p == nil || p.VendorExceptions == nil {
		return nil, false
	}
	exceptions := make(map[string]struct{}, len(p.VendorExceptions))
	for _, bidder := range p.VendorExceptions {
		exceptions[bidder] = struct{}{}
	}
	return exceptions, true
}
