package ogdch

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/format_mapping.yaml
var defaultFormatMappingYAML []byte

// FormatNotAvailable is indexed for resources whose format is unknown.
const FormatNotAvailable = "N/A"

// FormatMapping maps canonical resource formats to the spellings found in
// file extensions, media types and free text format fields.
type FormatMapping struct {
	formats map[string][]string
	index   map[string]string
}

// NewFormatMapping indexes formats. A spelling listed under several formats
// maps to the alphabetically first one.
func NewFormatMapping(formats map[string][]string) *FormatMapping {
	keys := make([]string, 0, len(formats))
	for key := range formats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	m := &FormatMapping{
		formats: make(map[string][]string, len(formats)),
		index:   make(map[string]string),
	}
	for _, key := range keys {
		values := append([]string(nil), formats[key]...)
		m.formats[key] = values
		for _, value := range values {
			value = strings.ToLower(strings.TrimSpace(value))
			if value == "" {
				continue
			}
			if _, exists := m.index[value]; !exists {
				m.index[value] = key
			}
		}
	}
	return m
}

// ParseFormatMapping decodes a YAML mapping document.
func ParseFormatMapping(data []byte) (*FormatMapping, error) {
	var formats map[string][]string
	if err := yaml.Unmarshal(data, &formats); err != nil {
		return nil, fmt.Errorf("ogdch: parse format mapping: %w", err)
	}
	return NewFormatMapping(formats), nil
}

// LoadFormatMapping reads a YAML mapping file.
func LoadFormatMapping(path string) (*FormatMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ogdch: read format mapping %s: %w", path, err)
	}
	return ParseFormatMapping(data)
}

var defaultFormatMapping = sync.OnceValue(func() *FormatMapping {
	m, err := ParseFormatMapping(defaultFormatMappingYAML)
	if err != nil {
		panic(err)
	}
	return m
})

// DefaultFormatMapping returns the mapping shipped with the package.
func DefaultFormatMapping() *FormatMapping {
	return defaultFormatMapping()
}

// Formats returns the canonical format names, sorted.
func (m *FormatMapping) Formats() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.formats))
	for key := range m.formats {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// MapToValidFormat returns the canonical format for a spelling, ignoring case.
func (m *FormatMapping) MapToValidFormat(format string) (string, bool) {
	if m == nil {
		return "", false
	}
	key, ok := m.index[strings.ToLower(strings.TrimSpace(format))]
	return key, ok
}

// ResourceFormat derives the canonical format of a resource from its
// download URL extension, then its media type, then its format field.
func (m *FormatMapping) ResourceFormat(resource map[string]any) (string, bool) {
	var candidate string

	if downloadURL, ok := resource["download_url"].(string); ok {
		if u, err := url.Parse(downloadURL); err == nil {
			if ext := path.Ext(u.Path); ext != "" {
				candidate = strings.ToLower(strings.ReplaceAll(ext, ".", ""))
			}
		}
	}

	if candidate == "" {
		if mediaType, ok := resource["media_type"].(string); ok {
			candidate = strings.ToLower(lastPathSegment(mediaType))
		}
	}

	if candidate == "" {
		if format, ok := resource["format"].(string); ok {
			candidate = strings.ToLower(lastPathSegment(format))
		}
	}

	return m.MapToValidFormat(candidate)
}

// PrepareResourceFormat writes the canonical format into resource["format"],
// or nil when it cannot be mapped.
func (m *FormatMapping) PrepareResourceFormat(resource map[string]any) map[string]any {
	if resource == nil {
		return nil
	}
	if format, ok := m.ResourceFormat(resource); ok {
		resource["format"] = format
	} else {
		resource["format"] = nil
	}
	return resource
}

// PrepareResourceFormatWithMediaType is PrepareResourceFormat falling back
// to the media subtype when nothing maps.
func (m *FormatMapping) PrepareResourceFormatWithMediaType(resource map[string]any) map[string]any {
	resource = m.PrepareResourceFormat(resource)
	if resource == nil {
		return nil
	}
	if resource["format"] == nil {
		if mediaType, ok := resource["media_type"].(string); ok && mediaType != "" {
			resource["format"] = lastPathSegment(mediaType)
		}
	}
	return resource
}

// FormatsForIndex returns the distinct formats of resources, sorted, with
// FormatNotAvailable standing in for unmapped ones.
func (m *FormatMapping) FormatsForIndex(resources []map[string]any) []string {
	seen := make(map[string]struct{}, len(resources))
	for _, resource := range resources {
		format, ok := m.ResourceFormat(resource)
		if !ok {
			format = FormatNotAvailable
		}
		seen[format] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for format := range seen {
		out = append(out, format)
	}
	sort.Strings(out)
	return out
}

func lastPathSegment(value string) string {
	if idx := strings.LastIndex(value, "/"); idx >= 0 {
		return value[idx+1:]
	}
	return value
}
