// Package vendorlist models the IAB Global Vendor List: per list version, the set of
// purposes each vendor declares it processes data for. Lists are immutable once parsed;
// a version never changes content once published.
package vendorlist

import (
	"errors"
	"fmt"
	"sort"

	"github.com/buger/jsonparser"
	"github.com/prebid/go-gdpr/consentconstants"
)

// Vendor is one GVL entry. The zero value declares no purposes, so a vendor missing from
// the pinned list fails closed everywhere it is evaluated.
type Vendor struct {
	ID       uint16
	purposes map[consentconstants.Purpose]struct{}
}

// Purpose reports whether the vendor declares the given purpose.
func (v Vendor) Purpose(purposeID consentconstants.Purpose) bool {
	_, found := v.purposes[purposeID]
	return found
}

// Purposes returns the vendor's declared purposes in ascending order.
func (v Vendor) Purposes() []consentconstants.Purpose {
	purposes := make([]consentconstants.Purpose, 0, len(v.purposes))
	for p := range v.purposes {
		purposes = append(purposes, p)
	}
	sort.Slice(purposes, func(i, j int) bool { return purposes[i] < purposes[j] })
	return purposes
}

// DeclaresAll reports whether the vendor declares every purpose in required.
func (v Vendor) DeclaresAll(required []consentconstants.Purpose) bool {
	for _, p := range required {
		if _, found := v.purposes[p]; !found {
			return false
		}
	}
	return true
}

// List is one immutable version of the Global Vendor List.
type List struct {
	version uint16
	vendors map[uint16]Vendor
}

// Version returns the vendor list version.
func (l *List) Version() uint16 {
	return l.version
}

// Vendor returns the entry for the given vendor id and whether the list contains it.
func (l *List) Vendor(vendorID uint16) (Vendor, bool) {
	v, found := l.vendors[vendorID]
	return v, found
}

// Parse reads a GVL JSON document. A vendor's declared set is its purposes array plus
// its flexiblePurposes array; legitimate-interest-only declarations are a different
// legal basis and are not folded in.
func Parse(data []byte) (*List, error) {
	version, err := jsonparser.GetInt(data, "vendorListVersion")
	if err != nil {
		return nil, fmt.Errorf("vendor list is missing vendorListVersion: %v", err)
	}
	if version <= 0 {
		return nil, fmt.Errorf("vendor list has invalid version %d", version)
	}

	vendors := make(map[uint16]Vendor)
	err = jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		id, err := jsonparser.GetInt(value, "id")
		if err != nil {
			return fmt.Errorf("vendor %s is missing an id: %v", string(key), err)
		}
		purposes := make(map[consentconstants.Purpose]struct{})
		for _, field := range []string{"purposes", "flexiblePurposes"} {
			if _, err := jsonparser.ArrayEach(value, func(item []byte, dataType jsonparser.ValueType, offset int, err error) {
				if purposeID, parseErr := jsonparser.ParseInt(item); parseErr == nil {
					purposes[consentconstants.Purpose(purposeID)] = struct{}{}
				}
			}, field); err != nil && field == "purposes" {
				return fmt.Errorf("vendor %d has malformed purposes: %v", id, err)
			}
		}
		vendors[uint16(id)] = Vendor{ID: uint16(id), purposes: purposes}
		return nil
	}, "vendors")
	if err != nil {
		return nil, err
	}
	if len(vendors) == 0 {
		return nil, errors.New("vendor list contains no vendors")
	}

	return &List{version: uint16(version), vendors: vendors}, nil
}
