package domain

import (
	"fmt"
	"strings"
)

// Vendor identifies the ATS or bespoke career site a company's jobs come from.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorGreenhouse
	VendorLever
	VendorAshby
	VendorWorkday
	VendorAmazon
	VendorUber
	VendorMeta
	VendorGoogle
	VendorTikTok
	VendorGeneric
)

var vendorNames = [...]string{
	VendorUnknown:    "unknown",
	VendorGreenhouse: "greenhouse",
	VendorLever:      "lever",
	VendorAshby:      "ashby",
	VendorWorkday:    "workday",
	VendorAmazon:     "amazon",
	VendorUber:       "uber",
	VendorMeta:       "meta",
	VendorGoogle:     "google",
	VendorTikTok:     "tiktok",
	VendorGeneric:    "generic",
}

func (v Vendor) String() string {
	if v < 0 || int(v) >= len(vendorNames) {
		return fmt.Sprintf("vendor(%d)", int(v))
	}
	return vendorNames[v]
}

// Valid reports whether v is one of the declared vendors.
func (v Vendor) Valid() bool {
	return v >= 0 && int(v) < len(vendorNames)
}

// ParseVendor maps a config tag to a Vendor. An empty tag parses as
// VendorUnknown; an unrecognized one reports false.
func ParseVendor(s string) (Vendor, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return VendorUnknown, true
	}
	for i, name := range vendorNames {
		if name == s {
			return Vendor(i), true
		}
	}
	return VendorUnknown, false
}

func (v Vendor) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText never fails: unrecognized tags become VendorUnknown so the
// detector gets a chance at them.
func (v *Vendor) UnmarshalText(b []byte) error {
	*v, _ = ParseVendor(string(b))
	return nil
}
