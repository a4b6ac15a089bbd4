package gdpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xorcare/pointer"

	"github.com/bidmesh/bidmesh/config"
)

func TestTCF2ConfigIsEnabled(t *testing.T) {
	tests := []struct {
		description    string
		hostEnabled    bool
		accountEnabled *bool
		want           bool
	}{
		{
			description:    "no account override uses host setting",
			hostEnabled:    true,
			accountEnabled: nil,
			want:           true,
		},
		{
			description:    "account disables over enabled host",
			hostEnabled:    true,
			accountEnabled: pointer.Bool(false),
			want:           false,
		},
		{
			description:    "account enables over disabled host",
			hostEnabled:    false,
			accountEnabled: pointer.Bool(true),
			want:           true,
		},
	}

	for _, test := range tests {
		cfg := NewTCF2Config(
			config.TCF2{Enabled: test.hostEnabled},
			config.AccountGDPR{Enabled: test.accountEnabled},
		)

		assert.Equal(t, test.want, cfg.IsEnabled(), test.description)
	}
}

func TestTCF2ConfigPurposeEnforcementAlgo(t *testing.T) {
	tests := []struct {
		description string
		hostAlgo    string
		accountAlgo *string
		want        EnforcementAlgo
	}{
		{
			description: "unset everywhere defaults to full",
			want:        AlgoFull,
		},
		{
			description: "host setting applies without account override",
			hostAlgo:    config.EnforceAlgoBasic,
			want:        AlgoBasic,
		},
		{
			description: "account overrides host",
			hostAlgo:    config.EnforceAlgoBasic,
			accountAlgo: pointer.String(config.EnforceAlgoNo),
			want:        AlgoNone,
		},
	}

	for _, test := range tests {
		cfg := NewTCF2Config(
			config.TCF2{Purpose2: config.TCF2Purpose{EnforcePurpose: test.hostAlgo}},
			config.AccountGDPR{Purpose2: config.AccountTCF2Purpose{EnforcePurpose: test.accountAlgo}},
		)

		assert.Equal(t, test.want, cfg.PurposeEnforcementAlgo(2), test.description)
	}
}

func TestTCF2ConfigPurposeEnforcingVendors(t *testing.T) {
	tests := []struct {
		description    string
		hostEnforce    *bool
		accountEnforce *bool
		want           bool
	}{
		{
			description: "unset everywhere defaults to true",
			want:        true,
		},
		{
			description: "host turns enforcement off",
			hostEnforce: pointer.Bool(false),
			want:        false,
		},
		{
			description:    "account overrides host",
			hostEnforce:    pointer.Bool(false),
			accountEnforce: pointer.Bool(true),
			want:           true,
		},
	}

	for _, test := range tests {
		cfg := NewTCF2Config(
			config.TCF2{Purpose2: config.TCF2Purpose{EnforceVendors: test.hostEnforce}},
			config.AccountGDPR{Purpose2: config.AccountTCF2Purpose{EnforceVendors: test.accountEnforce}},
		)

		assert.Equal(t, test.want, cfg.PurposeEnforcingVendors(2), test.description)
	}
}

func TestTCF2ConfigPurposeVendorExceptions(t *testing.T) {
	tests := []struct {
		description       string
		hostExceptions    map[string]struct{}
		accountExceptions []string
		want              map[string]struct{}
	}{
		{
			description: "unset everywhere yields none",
			want:        nil,
		},
		{
			description:    "host exceptions apply without account override",
			hostExceptions: map[string]struct{}{"bidderA": {}},
			want:           map[string]struct{}{"bidderA": {}},
		},
		{
			description:       "account exceptions replace host exceptions",
			hostExceptions:    map[string]struct{}{"bidderA": {}},
			accountExceptions: []string{"bidderB", "bidderC"},
			want:              map[string]struct{}{"bidderB": {}, "bidderC": {}},
		},
		{
			description:       "empty account list clears host exceptions",
			hostExceptions:    map[string]struct{}{"bidderA": {}},
			accountExceptions: []string{},
			want:              map[string]struct{}{},
		},
	}

	for _, test := range tests {
		cfg := NewTCF2Config(
			config.TCF2{Purpose2: config.TCF2Purpose{VendorExceptionMap: test.hostExceptions}},
			config.AccountGDPR{Purpose2: config.AccountTCF2Purpose{VendorExceptions: test.accountExceptions}},
		)

		assert.Equal(t, test.want, cfg.PurposeVendorExceptions(2), test.description)
	}
}

func TestTCF2ConfigPurposeConfig(t *testing.T) {
	cfg := NewTCF2Config(
		config.TCF2{
			Purpose3: config.TCF2Purpose{
				EnforcePurpose:     config.EnforceAlgoBasic,
				EnforceVendors:     pointer.Bool(false),
				VendorExceptionMap: map[string]struct{}{"bidderA": {}},
			},
		},
		config.AccountGDPR{},
	)

	purposeCfg := cfg.PurposeConfig(3)

	assert.Equal(t, PurposeConfig{
		PurposeID:          3,
		EnforceAlgo:        AlgoBasic,
		EnforceVendors:     false,
		VendorExceptionMap: map[string]struct{}{"bidderA": {}},
	}, purposeCfg)
}
