package ogdch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DatasetType is the only package type the hooks rewrite; harvest sources
// and other package types pass through untouched.
const DatasetType = "dataset"

// Request carries what the hooks need to know about the current request.
// A nil *Request means the hooks run outside a request (CLI, indexing).
type Request struct {
	Path   string
	Locale string
}

// IsAPI reports whether the request targets the JSON API, whose responses
// keep every language.
func (r *Request) IsAPI() bool {
	return r != nil && strings.HasPrefix(r.Path, "/api")
}

// Hooks rewrites catalog records for display and indexing.
type Hooks struct {
	resolver   *Resolver
	formats    *FormatMapping
	translator Translator
	actions    CatalogActions
	logger     *slog.Logger
}

type HooksOption func(*Hooks)

func WithHooksResolver(resolver *Resolver) HooksOption {
	return func(h *Hooks) {
		if resolver != nil {
			h.resolver = resolver
		}
	}
}

func WithHooksFormatMapping(formats *FormatMapping) HooksOption {
	return func(h *Hooks) {
		if formats != nil {
			h.formats = formats
		}
	}
}

func WithHooksTranslator(translator Translator) HooksOption {
	return func(h *Hooks) {
		h.translator = translator
	}
}

func WithHooksActions(actions CatalogActions) HooksOption {
	return func(h *Hooks) {
		h.actions = actions
	}
}

func WithHooksLogger(logger *slog.Logger) HooksOption {
	return func(h *Hooks) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func NewHooks(opts ...HooksOption) *Hooks {
	h := &Hooks{
		resolver: NewResolver(),
		formats:  DefaultFormatMapping(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// RequestLanguage returns the language of req, or the default locale when
// there is no request or it names none.
func (h *Hooks) RequestLanguage(req *Request) string {
	if req != nil {
		if locale := normalizeLocale(req.Locale); locale != "" {
			return locale
		}
	}
	return h.resolver.DefaultLocale()
}

// BeforeView prepares a group or organization record for display.
func (h *Hooks) BeforeView(req *Request, record map[string]any) map[string]any {
	return h.prepareRecord(req, record, keepField)
}

// BeforeViewPackage prepares a dataset for display. Other package types
// are returned unchanged.
func (h *Hooks) BeforeViewPackage(req *Request, record map[string]any) map[string]any {
	if !IsDataset(record) {
		return record
	}
	return h.prepareRecord(req, record, keepField)
}

// BeforeShowResource prepares a single resource for display.
func (h *Hooks) BeforeShowResource(req *Request, resource map[string]any) map[string]any {
	resource = h.prepareRecord(req, resource, func(key string) bool {
		return key == "tracking_summary"
	})
	return h.formats.PrepareResourceFormatWithMediaType(resource)
}

// AfterShowPackage completes a dataset loaded through the API: default
// fields are mapped, group fields decoded and the full organization is
// loaded so that every schema field is present.
func (h *Hooks) AfterShowPackage(ctx context.Context, record map[string]any) (map[string]any, error) {
	if !IsDataset(record) {
		return record, nil
	}

	record = mapDefaultFields(record)
	for _, group := range records(record["groups"]) {
		parseGroupFields(group)
	}

	ownerOrg, ok := record["owner_org"].(string)
	if !ok || ownerOrg == "" || h.actions == nil {
		return record, nil
	}

	org, err := h.actions.OrganizationShow(ctx, OrganizationShowRequest{ID: ownerOrg})
	if err != nil {
		return record, fmt.Errorf("ogdch: load organization %s: %w", ownerOrg, err)
	}
	record["organization"] = org
	return record, nil
}

// IsDataset reports whether record is a package of type dataset.
func IsDataset(record map[string]any) bool {
	packageType, ok := record["type"].(string)
	return ok && packageType == DatasetType
}

func keepField(string) bool { return false }

func (h *Hooks) prepareRecord(req *Request, record map[string]any, ignore func(string) bool) map[string]any {
	if record == nil {
		return nil
	}

	record = parseRecordJSON(record)
	record = mapDefaultFields(record)
	for _, resource := range records(record["resources"]) {
		h.formats.PrepareResourceFormatWithMediaType(resource)
	}

	if req == nil || req.IsAPI() {
		return record
	}

	locale := h.RequestLanguage(req)
	h.logger.Debug("reduce record language", "locale", locale, "id", record["id"])
	return reduceToLanguage(record, locale, ignore)
}

func parseRecordJSON(record map[string]any) map[string]any {
	for key, value := range record {
		record[key] = ParseJSON(value)
	}

	for _, group := range records(record["groups"]) {
		parseGroupFields(group)
	}

	if org, ok := record["organization"].(map[string]any); ok {
		for field, value := range org {
			org[field] = ParseJSON(value)
		}
	}
	return record
}

// the group title is stale in package dicts, display_name is not
func parseGroupFields(group map[string]any) {
	if displayName, ok := group["display_name"]; ok {
		group["title"] = displayName
	}
	for field, value := range group {
		group[field] = ParseJSON(value)
	}
}

func mapDefaultFields(record map[string]any) map[string]any {
	if title, ok := record["title"]; ok {
		record["display_name"] = title
	}

	if record["maintainer"] == nil {
		if name, ok := firstItemField(record, "contact_points", "name"); ok {
			record["maintainer"] = name
		}
	}
	if record["maintainer_email"] == nil {
		if email, ok := firstItemField(record, "contact_points", "email"); ok {
			record["maintainer_email"] = email
		}
	}
	if record["author"] == nil {
		if publisher, ok := firstItemField(record, "publishers", "label"); ok {
			record["author"] = publisher
		}
	}

	for _, resource := range records(record["resources"]) {
		if title, ok := resource["title"]; ok {
			resource["name"] = title
		}
	}
	return record
}

func reduceToLanguage(record map[string]any, locale string, ignore func(string) bool) map[string]any {
	reduceFields(record, locale, ignore)

	for _, group := range records(record["groups"]) {
		reduceFields(group, locale, keepField)
	}
	if org, ok := record["organization"].(map[string]any); ok {
		reduceFields(org, locale, keepField)
	}
	for _, resource := range records(record["resources"]) {
		reduceFields(resource, locale, keepField)
	}
	return record
}

func reduceFields(fields map[string]any, locale string, ignore func(string) bool) {
	for key, value := range fields {
		if ignore(key) {
			continue
		}
		fields[key] = extractLanguageValue(value, locale)
	}
}

func extractLanguageValue(value any, locale string) any {
	decoded := ParseJSON(value)
	if _, ok := decoded.(map[string]any); ok {
		return LocalizedValue(decoded, locale, "")
	}
	return value
}

func firstItemField(record map[string]any, listKey, field string) (any, bool) {
	items := records(record[listKey])
	if len(items) == 0 {
		return nil, false
	}
	value, ok := items[0][field]
	return value, ok
}

// records returns the object elements of a decoded JSON list.
func records(value any) []map[string]any {
	switch v := value.(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
