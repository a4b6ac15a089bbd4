package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bidmesh/bidmesh/errortypes"
)

// Configuration is the top-level host configuration for the privacy core.
type Configuration struct {
	GDPR        GDPR        `mapstructure:"gdpr"`
	GeoLocation GeoLocation `mapstructure:"geolocation"`
}

// GDPR carries the host-level TCF/GDPR settings consumed by the gdpr package.
type GDPR struct {
	Enabled bool `mapstructure:"enabled"`
	// DefaultValue is the GDPR applicability assumed when the request carries no usable
	// signal and geolocation cannot settle it. Must be "0" or "1".
	DefaultValue string       `mapstructure:"default_value"`
	EEACountries []string     `mapstructure:"eea_countries"`
	Timeouts     GDPRTimeouts `mapstructure:"timeouts_ms"`
	// VendorListURLTemplate overrides the IAB-hosted GVL location. The literal {VERSION}
	// is replaced with the requested list version; version 0 requests the latest list.
	VendorListURLTemplate string `mapstructure:"vendor_list_url_template"`
	// FallbackGVLPath optionally points at a GVL JSON file served when a version cannot
	// be downloaded.
	FallbackGVLPath string `mapstructure:"fallback_gvl_path"`
	TCF2            TCF2   `mapstructure:"tcf2"`
}

// GDPRTimeouts bounds the two suspension points of the engine, in milliseconds.
type GDPRTimeouts struct {
	InitVendorlistFetch   int `mapstructure:"init_vendorlist_fetch"`
	ActiveVendorlistFetch int `mapstructure:"active_vendorlist_fetch"`
}

func (t *GDPRTimeouts) InitTimeout() time.Duration {
	return time.Duration(t.InitVendorlistFetch) * time.Millisecond
}

func (t *GDPRTimeouts) ActiveTimeout() time.Duration {
	return time.Duration(t.ActiveVendorlistFetch) * time.Millisecond
}

// TCF2 holds the per-purpose enforcement settings.
type TCF2 struct {
	Enabled   bool        `mapstructure:"enabled"`
	Purpose1  TCF2Purpose `mapstructure:"purpose1"`
	Purpose2  TCF2Purpose `mapstructure:"purpose2"`
	Purpose3  TCF2Purpose `mapstructure:"purpose3"`
	Purpose4  TCF2Purpose `mapstructure:"purpose4"`
	Purpose5  TCF2Purpose `mapstructure:"purpose5"`
	Purpose6  TCF2Purpose `mapstructure:"purpose6"`
	Purpose7  TCF2Purpose `mapstructure:"purpose7"`
	Purpose8  TCF2Purpose `mapstructure:"purpose8"`
	Purpose9  TCF2Purpose `mapstructure:"purpose9"`
	Purpose10 TCF2Purpose `mapstructure:"purpose10"`
}

// PurposeConfig returns the settings for the given standard purpose id, or nil when the
// id is outside the standard range.
func (t *TCF2) PurposeConfig(purposeID int) *TCF2Purpose {
	switch purposeID {
	case 1:
		return &t.Purpose1
	case 2:
		return &t.Purpose2
	case 3:
		return &t.Purpose3
	case 4:
		return &t.Purpose4
	case 5:
		return &t.Purpose5
	case 6:
		return &t.Purpose6
	case 7:
		return &t.Purpose7
	case 8:
		return &t.Purpose8
	case 9:
		return &t.Purpose9
	case 10:
		return &t.Purpose10
	}
	return nil
}

// Enforcement algorithm names accepted in enforce_purpose. An empty value means
// EnforceAlgoFull.
const (
	EnforceAlgoFull  = "full"
	EnforceAlgoBasic = "basic"
	EnforceAlgoNo    = "no"
)

// TCF2Purpose configures enforcement for one TCF purpose.
type TCF2Purpose struct {
	EnforcePurpose string `mapstructure:"enforce_purpose"`
	// EnforceVendors defaults to true when unset.
	EnforceVendors   *bool    `mapstructure:"enforce_vendors"`
	VendorExceptions []string `mapstructure:"vendor_exceptions"`
	// VendorExceptionMap is built from VendorExceptions on load.
	VendorExceptionMap map[string]struct{}
}

// EnforcingVendors reports whether per-vendor consent bits participate in enforcement.
func (p *TCF2Purpose) EnforcingVendors() bool {
	return p.EnforceVendors == nil || *p.EnforceVendors
}

// New unmarshals and validates a Configuration from the given viper instance.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}

	for purposeID := 1; purposeID <= 10; purposeID++ {
		purpose := c.GDPR.TCF2.PurposeConfig(purposeID)
		purpose.VendorExceptionMap = make(map[string]struct{}, len(purpose.VendorExceptions))
		for _, bidder := range purpose.VendorExceptions {
			purpose.VendorExceptionMap[bidder] = struct{}{}
		}
	}

	if errs := c.validate(); len(errs) > 0 {
		return nil, errortypes.NewAggregateError("validation errors", errs)
	}
	return &c, nil
}

func (cfg *Configuration) validate() []error {
	var errs []error
	errs = cfg.GDPR.validate(errs)
	return errs
}

func (cfg *GDPR) validate(errs []error) []error {
	if cfg.DefaultValue != "0" && cfg.DefaultValue != "1" {
		errs = append(errs, fmt.Errorf("gdpr.default_value must be 0 or 1, got %q", cfg.DefaultValue))
	}
	for purposeID := 1; purposeID <= 10; purposeID++ {
		algo := cfg.TCF2.PurposeConfig(purposeID).EnforcePurpose
		switch algo {
		case "", EnforceAlgoFull, EnforceAlgoBasic, EnforceAlgoNo:
		default:
			errs = append(errs, fmt.Errorf("gdpr.tcf2.purpose%d.enforce_purpose must be full, basic or no, got %q", purposeID, algo))
		}
	}
	return errs
}

// SetupViper establishes the default values the host may override.
func SetupViper(v *viper.Viper) {
	v.SetDefault("gdpr.enabled", true)
	v.SetDefault("gdpr.default_value", "1")
	v.SetDefault("gdpr.eea_countries", []string{
		"AT", "BE", "BG", "HR", "CY", "CZ", "DK", "EE", "FI", "FR",
		"DE", "GR", "HU", "IE", "IT", "LV", "LI", "LT", "LU", "MT",
		"NL", "NO", "PL", "PT", "RO", "SK", "SI", "ES", "SE", "IS",
	})
	v.SetDefault("gdpr.timeouts_ms.init_vendorlist_fetch", 0)
	v.SetDefault("gdpr.timeouts_ms.active_vendorlist_fetch", 0)
	for purposeID := 1; purposeID <= 10; purposeID++ {
		v.SetDefault(fmt.Sprintf("gdpr.tcf2.purpose%d.enforce_purpose", purposeID), EnforceAlgoFull)
	}
	v.SetDefault("gdpr.tcf2.enabled", true)
	v.SetDefault("geolocation.enabled", false)
	v.SetDefault("geolocation.timeout_ms", 100)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("BIDMESH")
	v.AutomaticEnv()
}

// GeoLocation configures the optional MaxMind-backed country lookup.
type GeoLocation struct {
	Enabled  bool   `mapstructure:"enabled"`
	DataPath string `mapstructure:"data_path"`
	Timeout  int    `mapstructure:"timeout_ms"`
}

func (g *GeoLocation) LookupTimeout() time.Duration {
	return time.Duration(g.Timeout) * time.Millisecond
}
