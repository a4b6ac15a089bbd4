package gdpr

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/prebid/go-gdpr/consentconstants"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/require"

	"github.com/bidmesh/bidmesh/geolocation"
	"github.com/bidmesh/bidmesh/metrics"
	"github.com/bidmesh/bidmesh/vendorlist"
)

// fakeConsent gives tests full control over consent content without crafting TCF
// strings. inconsistent simulates a string that parsed but fails on checked queries.
type fakeConsent struct {
	listVersion  uint16
	purposes     map[consentconstants.Purpose]struct{}
	vendors      map[uint16]struct{}
	inconsistent bool
}

func consentWith(listVersion uint16, purposes []consentconstants.Purpose, vendors []uint16) *fakeConsent {
	c := &fakeConsent{
		listVersion: listVersion,
		purposes:    make(map[consentconstants.Purpose]struct{}, len(purposes)),
		vendors:     make(map[uint16]struct{}, len(vendors)),
	}
	for _, p := range purposes {
		c.purposes[p] = struct{}{}
	}
	for _, v := range vendors {
		c.vendors[v] = struct{}{}
	}
	return c
}

func (c *fakeConsent) ListVersion() uint16 {
	return c.listVersion
}

func (c *fakeConsent) PurposeAllowed(purposeID consentconstants.Purpose) bool {
	_, found := c.purposes[purposeID]
	return found
}

func (c *fakeConsent) VendorAllowed(vendorID uint16) bool {
	_, found := c.vendors[vendorID]
	return found
}

func (c *fakeConsent) VendorConsent(vendorID uint16) (bool, error) {
	if c.inconsistent {
		return false, &ErrorInconsistentConsent{Consent: "fake"}
	}
	return c.VendorAllowed(vendorID), nil
}

func (c *fakeConsent) ConsentedPurposes() (map[consentconstants.Purpose]struct{}, error) {
	if c.inconsistent {
		return nil, &ErrorInconsistentConsent{Consent: "fake"}
	}
	return c.purposes, nil
}

// buildVendorList produces an immutable list from vendor id to declared purposes via the
// real GVL JSON parser.
func buildVendorList(t *testing.T, version uint16, vendors map[uint16][]int) *vendorlist.List {
	t.Helper()

	type gvlVendor struct {
		ID       uint16 `json:"id"`
		Purposes []int  `json:"purposes"`
	}
	doc := struct {
		VendorListVersion uint16               `json:"vendorListVersion"`
		Vendors           map[string]gvlVendor `json:"vendors"`
	}{
		VendorListVersion: version,
		Vendors:           make(map[string]gvlVendor, len(vendors)),
	}
	for id, purposes := range vendors {
		doc.Vendors[strconv.Itoa(int(id))] = gvlVendor{ID: id, Purposes: purposes}
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	list, err := vendorlist.Parse(data)
	require.NoError(t, err)
	return list
}

func listFetcher(lists map[uint16]*vendorlist.List) vendorlist.Fetcher {
	return func(ctx context.Context, version uint16) (*vendorlist.List, error) {
		if list, found := lists[version]; found {
			return list, nil
		}
		return nil, errors.New("vendor list not found")
	}
}

func failedListFetcher(ctx context.Context, version uint16) (*vendorlist.List, error) {
	return nil, errors.New("vendor list fetch failed")
}

type fakeGeoLocator struct {
	info *geolocation.GeoInfo
	err  error
}

func (g *fakeGeoLocator) Lookup(ctx context.Context, ipAddress string) (*geolocation.GeoInfo, error) {
	return g.info, g.err
}

func testMetrics() *metrics.Metrics {
	return metrics.NewMetrics(gometrics.NewRegistry())
}

func testResolver(defaultValue string, geo geolocation.GeoLocation) *Resolver {
	return &Resolver{
		geo: geo,
		me:  testMetrics(),
		eeaCountries: map[string]struct{}{
			"DE": {}, "FR": {}, "NL": {},
		},
		defaultValue: defaultValue,
	}
}
