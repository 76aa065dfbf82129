package scrape

import (
	"errors"
	"testing"

	"jobforge/internal/config"
	"jobforge/internal/domain"
	"jobforge/internal/scrape/util"
)

func TestForDispatchesEveryVendor(t *testing.T) {
	f := NewFetchers(config.Default(), util.NewClient(0, "", nil), nil)

	tests := []struct {
		in   domain.Vendor
		want domain.Vendor
	}{
		{domain.VendorGreenhouse, domain.VendorGreenhouse},
		{domain.VendorLever, domain.VendorLever},
		{domain.VendorAshby, domain.VendorAshby},
		{domain.VendorWorkday, domain.VendorWorkday},
		{domain.VendorAmazon, domain.VendorAmazon},
		{domain.VendorUber, domain.VendorUber},
		{domain.VendorMeta, domain.VendorMeta},
		{domain.VendorGoogle, domain.VendorGoogle},
		{domain.VendorTikTok, domain.VendorTikTok},
		{domain.VendorGeneric, domain.VendorGeneric},
		{domain.VendorUnknown, domain.VendorGeneric},
	}
	for _, tt := range tests {
		got, err := f.For(tt.in)
		if err != nil {
			t.Fatalf("For(%s): %v", tt.in, err)
		}
		if got.Vendor() != tt.want {
			t.Errorf("For(%s).Vendor() = %s, want %s", tt.in, got.Vendor(), tt.want)
		}
	}
}

func TestForRejectsOutOfRangeVendor(t *testing.T) {
	f := NewFetchers(config.Default(), util.NewClient(0, "", nil), nil)
	for _, v := range []domain.Vendor{domain.Vendor(-1), domain.Vendor(99)} {
		if _, err := f.For(v); !errors.Is(err, ErrUnsupportedVendor) {
			t.Errorf("For(%d) err = %v, want ErrUnsupportedVendor", int(v), err)
		}
	}
}

func TestBrowserVendorsWithoutBrowserArePermanent(t *testing.T) {
	f := NewFetchers(config.Default(), util.NewClient(0, "", nil), nil)
	for _, v := range []domain.Vendor{domain.VendorUber, domain.VendorMeta, domain.VendorGoogle, domain.VendorTikTok} {
		fe, _ := f.For(v)
		res := fe.Fetch(t.Context(), domain.Company{Name: "X", CareerURL: "https://example.com"})
		if res.OK() || len(res.Jobs) != 0 {
			t.Errorf("%s without browser = %+v", v, res)
		}
	}
}
