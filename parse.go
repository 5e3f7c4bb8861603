package ogdch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseJSON decodes value when it is a JSON document held in a string or
// byte slice. Anything that does not decode is returned as given. Numbers
// decode to json.Number so identifiers keep their exact digits.
func ParseJSON(value any) any {
	decoded, ok := tryParseJSON(value)
	if !ok {
		return value
	}
	return decoded
}

// ParseJSONOr is ParseJSON returning defaultValue instead of the raw value
// when decoding fails and defaultValue is not nil.
func ParseJSONOr(value, defaultValue any) any {
	decoded, ok := tryParseJSON(value)
	if ok {
		return decoded
	}
	if defaultValue != nil {
		return defaultValue
	}
	return value
}

func tryParseJSON(value any) (any, bool) {
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	default:
		return nil, false
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, false
	}
	// trailing data means this was not a single JSON document
	if dec.More() {
		return nil, false
	}
	return out, true
}

// LocalizeJSONTitle resolves the display_name of a search facet item. Numeric
// names are kept verbatim; JSON language bundles are resolved for locale with
// the raw display name as default.
func LocalizeJSONTitle(facetItem map[string]any, locale string) any {
	displayName, ok := facetItem["display_name"]
	if !ok {
		return nil
	}

	text, isString := displayName.(string)
	if !isString {
		return displayName
	}
	if _, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
		return text
	}

	decoded, ok := tryParseJSON(text)
	if !ok {
		return text
	}
	return LocalizedValue(decoded, locale, text)
}

func scalarString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
