package ogdch

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NumberRules holds the separators used to print numbers for a locale.
type NumberRules struct {
	DecimalSep  string
	ThousandSep string
}

const maxNumberFractionDigits = 3

// German is printed with Swiss grouping; the catalog speaks de-CH.
var numberRulesData = map[string]NumberRules{
	"en":    {DecimalSep: ".", ThousandSep: ","},
	"de":    {DecimalSep: ".", ThousandSep: "’"},
	"de-CH": {DecimalSep: ".", ThousandSep: "’"},
	"fr":    {DecimalSep: ",", ThousandSep: "\u202f"},
	"it":    {DecimalSep: ",", ThousandSep: "."},
}

// LocalisedNumber prints value with the grouping rules of locale and at
// most three fraction digits. Locales without rules are printed through
// golang.org/x/text. Values that are not numbers are printed as is.
func LocalisedNumber(locale string, value any) string {
	f, ok := toFloat(value)
	if !ok {
		return scalarString(value)
	}

	locale = normalizeLocale(locale)
	if rules, ok := numberRulesFor(locale); ok {
		return formatNumberWithRules(f, rules)
	}

	tag := language.Make(locale)
	printer := message.NewPrinter(tag)
	return printer.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(maxNumberFractionDigits)))
}

func numberRulesFor(locale string) (NumberRules, bool) {
	if rules, ok := numberRulesData[locale]; ok {
		return rules, true
	}
	for _, parent := range localeParentChain(locale) {
		if rules, ok := numberRulesData[parent]; ok {
			return rules, true
		}
	}
	return NumberRules{}, false
}

func formatNumberWithRules(value float64, rules NumberRules) string {
	scale := math.Pow10(maxNumberFractionDigits)
	rounded := math.Round(value*scale) / scale

	formatted := strconv.FormatFloat(math.Abs(rounded), 'f', -1, 64)
	integerPart, fractionPart, hasFraction := strings.Cut(formatted, ".")

	if rules.ThousandSep != "" && len(integerPart) > 3 {
		var b strings.Builder
		for i, digit := range integerPart {
			if i > 0 && (len(integerPart)-i)%3 == 0 {
				b.WriteString(rules.ThousandSep)
			}
			b.WriteRune(digit)
		}
		integerPart = b.String()
	}

	out := integerPart
	if hasFraction {
		out += rules.DecimalSep + fractionPart
	}
	if rounded < 0 {
		out = "-" + out
	}
	return out
}
