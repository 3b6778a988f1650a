// Package format renders display strings for catalog values.
package format

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// IndianEnglish is the locale fees are displayed in.
var IndianEnglish = language.MustParse("en-IN")

var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// INR formats a rupee amount the way the site displays fees, e.g. 45000 => "₹45,000".
// Negative amounts are treated as zero.
func INR(amount float64) string {
	return formatAmount(amount, "INR", IndianEnglish, 0)
}

// formatAmount renders amount in major units with the locale's digit grouping and at most
// fractionDigits decimals. Unknown currency codes are printed as an ISO prefix.
func formatAmount(amount float64, code string, tag language.Tag, fractionDigits int) string {
	if amount < 0 {
		amount = 0
	}
	if fractionDigits < 0 {
		fractionDigits = 0
	}
	prefix := strings.ToUpper(strings.TrimSpace(code))
	if unit, err := currency.ParseISO(prefix); err == nil {
		prefix = unit.String()
	}
	if sym, ok := symbols[prefix]; ok {
		prefix = sym
	} else if prefix != "" {
		prefix += " "
	}
	p := message.NewPrinter(tag)
	return prefix + p.Sprint(number.Decimal(amount, number.MaxFractionDigits(fractionDigits)))
}

var slugSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a human readable title.
// Accents are folded to their base letters: "Diplôme en Santé" => "diplome-en-sante".
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	folded = strings.ReplaceAll(folded, "&", " and ")
	return strings.Trim(slugSanitizer.ReplaceAllString(folded, "-"), "-")
}
