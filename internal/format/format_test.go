package format

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestINRFormatsWholeRupees(t *testing.T) {
	got := INR(45000)
	if !strings.Contains(got, "45,000") {
		t.Fatalf("expected grouped digits in %q", got)
	}
	if strings.Contains(got, ".") {
		t.Fatalf("expected no decimal places in %q", got)
	}
	if !strings.HasPrefix(got, "₹") {
		t.Fatalf("expected rupee symbol prefix in %q", got)
	}
}

func TestINRRoundsFractionsAway(t *testing.T) {
	got := INR(1999.6)
	if strings.Contains(got, ".") {
		t.Fatalf("expected fraction dropped, got %q", got)
	}
	if !strings.Contains(got, "2,000") {
		t.Fatalf("expected rounding to 2,000, got %q", got)
	}
}

func TestINRClampsNegativeToZero(t *testing.T) {
	if got := INR(-10); got != "₹0" {
		t.Fatalf("expected ₹0, got %q", got)
	}
}

func TestFormatAmountUnknownCodeUsesPrefix(t *testing.T) {
	got := formatAmount(1200, "chf", language.English, 0)
	if got != "CHF 1,200" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Medical Laboratory Technology", "medical-laboratory-technology"},
		{"  Diploma in Bio-Medical Waste  ", "diploma-in-bio-medical-waste"},
		{"Diplôme en Santé", "diplome-en-sante"},
		{"HR & Admin (Healthcare)", "hr-and-admin-healthcare"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
