package cmd

import (
	"testing"

	"github.com/domainworth/domainworth/internal/core"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"goodname", false},
		{"good-name", false},
		{"-bad", true},
		{"bad-", true},
		{"bad name", true},
		{"BAD", true},
		{"", true},
	}

	for _, tc := range cases {
		err := validateName(tc.name)
		if tc.wantErr && err == nil {
			t.Fatalf("expected error for %q", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.name, err)
		}
	}
}

func TestNormalizeTLDs(t *testing.T) {
	input := []string{".com", " io ", "com", "dev,app"}
	result := normalizeTLDs(input)
	if len(result) != 4 {
		t.Fatalf("expected 4 tlds, got %d", len(result))
	}
}

func TestBuildProfile(t *testing.T) {
	profile, err := buildProfile([]string{"com", ".io"}, []string{"availability,pricing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profile.TLDs) != 2 {
		t.Fatalf("expected 2 tlds, got %d", len(profile.TLDs))
	}
	if len(profile.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(profile.Sections))
	}
	if !profile.Wants(core.SectionPricing) {
		t.Fatalf("expected profile to include pricing")
	}
	if profile.Wants(core.SectionCommunity) {
		t.Fatalf("did not expect profile to include community")
	}
}

func TestBuildProfileRejectsUnknownSection(t *testing.T) {
	if _, err := buildProfile([]string{"com"}, []string{"astrology"}); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}

func TestFilterPricingRows(t *testing.T) {
	rows := []core.PricingRow{
		{TLD: "com"},
		{TLD: "io"},
		{TLD: "dev"},
	}

	filtered := filterPricingRows(rows, []string{"com", "dev"})
	if len(filtered) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(filtered))
	}

	all := filterPricingRows(rows, nil)
	if len(all) != 3 {
		t.Fatalf("expected all rows when no filter, got %d", len(all))
	}
}
