package pricing

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// DefaultCurrency applies when a product has no currency code.
	DefaultCurrency = "USD"
	// DefaultLocale applies when no locale is given or it cannot be parsed.
	DefaultLocale = "en-US"

	// maxExactMinorUnits is the largest magnitude the locale formatter renders
	// without float rounding. Larger amounts use the raw format.
	maxExactMinorUnits = 1 << 53
)

type symbolPlacement int

const (
	symbolBefore symbolPlacement = iota
	symbolBeforeSpaced
	symbolAfterSpaced
)

// placementByLanguage lists base languages whose prices do not read "$19.99".
var placementByLanguage = map[string]symbolPlacement{
	"cs": symbolAfterSpaced,
	"da": symbolAfterSpaced,
	"de": symbolAfterSpaced,
	"es": symbolAfterSpaced,
	"fi": symbolAfterSpaced,
	"fr": symbolAfterSpaced,
	"it": symbolAfterSpaced,
	"nb": symbolAfterSpaced,
	"pl": symbolAfterSpaced,
	"ru": symbolAfterSpaced,
	"sv": symbolAfterSpaced,
	"nl": symbolBeforeSpaced,
	"pt": symbolBeforeSpaced,
}

// placementByLocale overrides the language default for regional variants.
var placementByLocale = map[string]symbolPlacement{
	"de-AT": symbolBeforeSpaced,
	"de-CH": symbolBeforeSpaced,
	"de-LI": symbolBeforeSpaced,
}

// FormatCurrency renders minor units as a localized price, e.g. 1999 cents in
// USD for en-US becomes "$19.99". A nil amount is treated as zero. An empty
// currency code means USD and an empty or unparseable locale means en-US.
//
// Unknown currency codes never fail: the raw amount is returned with the code
// as a suffix ("19.99 ZZZ"). The same raw format is used for amounts beyond
// 2^53 minor units, which cannot be passed through a float64 exactly.
func FormatCurrency(cents *int64, currencyCode, locale string) string {
	var minor int64
	if cents != nil {
		minor = *cents
	}

	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		code = DefaultCurrency
	}

	unit, err := currency.ParseISO(code)
	if err != nil || unit == (currency.Unit{}) || minor > maxExactMinorUnits || minor < -maxExactMinorUnits {
		return rawAmount(minor, code)
	}
	amount := float64(minor) / 100

	tag := parseLocale(locale)
	p := message.NewPrinter(tag)

	symbol := p.Sprint(currency.Symbol(unit))
	formatted := p.Sprint(currency.Symbol(unit.Amount(amount)))
	number, ok := strings.CutPrefix(formatted, symbol+" ")
	if !ok {
		return rawAmount(minor, code)
	}

	sign := ""
	if rest, negative := strings.CutPrefix(number, "-"); negative {
		sign, number = "-", rest
	}

	switch placementFor(tag) {
	case symbolAfterSpaced:
		return sign + number + " " + symbol
	case symbolBeforeSpaced:
		return sign + symbol + " " + number
	default:
		// Codes such as "BHD" read as words and keep their space.
		if isAlphabetic(symbol) {
			return sign + symbol + " " + number
		}
		return sign + symbol + number
	}
}

func placementFor(tag language.Tag) symbolPlacement {
	base, _ := tag.Base()
	if region, conf := tag.Region(); conf != language.No {
		if placement, ok := placementByLocale[base.String()+"-"+region.String()]; ok {
			return placement
		}
	}
	return placementByLanguage[base.String()]
}

func isAlphabetic(symbol string) bool {
	if symbol == "" {
		return false
	}
	for _, r := range symbol {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// FormatCents is FormatCurrency for a present amount.
func FormatCents(cents int64, currencyCode, locale string) string {
	return FormatCurrency(&cents, currencyCode, locale)
}

func parseLocale(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// rawAmount prints minor units as a plain two-decimal number using integer
// arithmetic only.
func rawAmount(minor int64, code string) string {
	sign := ""
	whole, frac := minor/100, minor%100
	if minor < 0 {
		sign, whole, frac = "-", -whole, -frac
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, whole, frac, code)
}
