package ogdch

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var fileSizeUnits = []string{"", "K", "M", "G", "T", "P", "E", "Z"}

// ReadableFileSize renders a byte count with binary units, e.g. "1.5KB".
// ok is false when num is empty or not a number.
func ReadableFileSize(num any, suffix string) (string, bool) {
	if !truthy(num) {
		return "", false
	}
	value, ok := toFloat(num)
	if !ok {
		return "", false
	}

	for _, unit := range fileSizeUnits {
		if math.Abs(value) < 1024.0 {
			return fmt.Sprintf("%3.1f%s%s", value, unit, suffix), true
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.1f%s%s", value, "Y", suffix), true
}

// StripAccents removes combining marks so that accented titles sort next
// to their plain spelling ("Zürich" -> "Zurich").
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

const (
	packageNameMinLength = 2
	packageNameMaxLength = 100
)

var (
	asciiEquivalents   = strings.NewReplacer("ß", "ss", "æ", "ae", "Æ", "AE", "ø", "o", "Ø", "O", "œ", "oe", "Œ", "OE", "đ", "d", "ł", "l", "Ł", "L")
	nameSeparators     = regexp.MustCompile(`[ .:/]`)
	nameDisallowed     = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)
	nameRepeatedDashes = regexp.MustCompile(`-+`)
	nameTrailingYear   = regexp.MustCompile(`^.*?[_-]((?:\d{2,4}[-/])?\d{2,4})$`)
)

// MungeTitleToName turns a title into a catalog name: lower case ascii,
// dashes for separators, between 2 and 100 characters. A trailing year
// survives truncation.
func MungeTitleToName(title string) string {
	name := StripAccents(asciiEquivalents.Replace(title))
	name = nameSeparators.ReplaceAllString(name, "-")
	name = strings.ToLower(nameDisallowed.ReplaceAllString(name, ""))
	name = nameRepeatedDashes.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	maxLength := packageNameMaxLength - 5
	if len(name) > maxLength {
		if match := nameTrailingYear.FindStringSubmatch(name); match != nil {
			year := match[1]
			name = name[:maxLength-len(year)-1] + "-" + year
		} else {
			name = name[:maxLength]
		}
	}

	if len(name) < packageNameMinLength {
		name += strings.Repeat("_", packageNameMinLength-len(name))
	}
	if len(name) > packageNameMaxLength {
		name = name[:packageNameMaxLength]
	}
	return name
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
