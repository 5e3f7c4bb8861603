package ogdch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PiwikConfig is handed to the tracking snippet in the page templates.
type PiwikConfig struct {
	URL                                 string `env:"URL"                                     json:"url"`
	SiteID                              string `env:"SITE_ID"                                 json:"site_id"`
	CustomDimensionActionOrganizationID string `env:"CUSTOM_DIMENSION_ACTION_ORGANIZATION_ID" json:"custom_dimension_action_organization_id"`
	CustomDimensionActionDatasetID      string `env:"CUSTOM_DIMENSION_ACTION_DATASET_ID"      json:"custom_dimension_action_dataset_id"`
	CustomDimensionActionFormatID       string `env:"CUSTOM_DIMENSION_ACTION_FORMAT_ID"       json:"custom_dimension_action_format_id"`
}

var newsletterURLs = map[string]string{
	"de": "https://www.bfs.admin.ch/bfs/de/home/dienstleistungen/ogd/newsmail.html",
	"fr": "https://www.bfs.admin.ch/bfs/fr/home/services/ogd/newsmail.html",
	"it": "https://www.bfs.admin.ch/bfs/it/home/servizi/ogd/newsmail.html",
}

const (
	countKeyDatasets      = "datasets"
	countKeyGroups        = "groups"
	countKeyOrganizations = "organizations"
	countKeyApps          = "apps"
)

// Helpers backs the template helpers that need the catalog or other
// services.
type Helpers struct {
	actions    CatalogActions
	translator Translator
	resolver   *Resolver
	cache      CountCache
	cacheTTL   time.Duration
	httpClient *http.Client
	wpAjaxURL  string
	siteURL    string
	piwik      PiwikConfig
	logger     *slog.Logger
}

type HelpersOption func(*Helpers)

func WithHelpersActions(actions CatalogActions) HelpersOption {
	return func(h *Helpers) {
		h.actions = actions
	}
}

func WithHelpersTranslator(translator Translator) HelpersOption {
	return func(h *Helpers) {
		h.translator = translator
	}
}

func WithHelpersResolver(resolver *Resolver) HelpersOption {
	return func(h *Helpers) {
		if resolver != nil {
			h.resolver = resolver
		}
	}
}

// WithHelpersCountCache caches the counters for ttl.
func WithHelpersCountCache(cache CountCache, ttl time.Duration) HelpersOption {
	return func(h *Helpers) {
		if cache != nil {
			h.cache = cache
			h.cacheTTL = ttl
		}
	}
}

func WithHelpersHTTPClient(client *http.Client) HelpersOption {
	return func(h *Helpers) {
		if client != nil {
			h.httpClient = client
		}
	}
}

// WithWordPressAjaxURL sets the endpoint asked for the app statistics.
func WithWordPressAjaxURL(rawURL string) HelpersOption {
	return func(h *Helpers) {
		h.wpAjaxURL = rawURL
	}
}

// WithSiteURL sets the prefix used for links generated by the helpers.
func WithSiteURL(rawURL string) HelpersOption {
	return func(h *Helpers) {
		h.siteURL = strings.TrimSuffix(rawURL, "/")
	}
}

func WithPiwikConfig(cfg PiwikConfig) HelpersOption {
	return func(h *Helpers) {
		h.piwik = cfg
	}
}

func WithHelpersLogger(logger *slog.Logger) HelpersOption {
	return func(h *Helpers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

func NewHelpers(opts ...HelpersOption) *Helpers {
	h := &Helpers{
		resolver:   NewResolver(),
		cache:      NoopCountCache{},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

func (h *Helpers) requireActions() error {
	if h.actions == nil {
		return errors.New("ogdch: no catalog actions configured")
	}
	return nil
}

func (h *Helpers) cachedCount(ctx context.Context, key string, load func(context.Context) (int, error)) (int, error) {
	if value, ok, err := h.cache.Get(ctx, key); err != nil {
		h.logger.Warn("count cache read failed", "key", key, "error", err)
	} else if ok {
		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return 0, err
	}

	if err := h.cache.Set(ctx, key, value, h.cacheTTL); err != nil {
		h.logger.Warn("count cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// DatasetCount returns the number of datasets in the catalog.
func (h *Helpers) DatasetCount(ctx context.Context) (int, error) {
	if err := h.requireActions(); err != nil {
		return 0, err
	}
	return h.cachedCount(ctx, countKeyDatasets, func(ctx context.Context) (int, error) {
		result, err := h.actions.PackageSearch(ctx, map[string]any{
			"fq":   "+dataset_type:dataset",
			"rows": 0,
		})
		if err != nil {
			return 0, err
		}
		return result.Count, nil
	})
}

// GroupCount returns the number of groups (categories).
func (h *Helpers) GroupCount(ctx context.Context) (int, error) {
	if err := h.requireActions(); err != nil {
		return 0, err
	}
	return h.cachedCount(ctx, countKeyGroups, func(ctx context.Context) (int, error) {
		groups, err := h.actions.GroupList(ctx)
		return len(groups), err
	})
}

// OrgCount returns the number of organizations.
func (h *Helpers) OrgCount(ctx context.Context) (int, error) {
	if err := h.requireActions(); err != nil {
		return 0, err
	}
	return h.cachedCount(ctx, countKeyOrganizations, func(ctx context.Context) (int, error) {
		orgs, err := h.actions.OrganizationList(ctx)
		return len(orgs), err
	})
}

// AppCount asks the WordPress site for the number of showcased apps. Any
// failure counts as zero apps.
func (h *Helpers) AppCount(ctx context.Context) int {
	if h.wpAjaxURL == "" {
		return 0
	}
	count, err := h.cachedCount(ctx, countKeyApps, h.fetchAppCount)
	if err != nil {
		h.logger.Debug("app statistics unavailable", "error", err)
		return 0
	}
	return count
}

func (h *Helpers) fetchAppCount(ctx context.Context) (int, error) {
	form := url.Values{"action": {"app_statistics"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.wpAjaxURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("app statistics: status %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			AppCount int `json:"app_count"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("app statistics: %w", err)
	}
	return payload.Data.AppCount, nil
}

// LocalizedOrg loads an organization for display. Unknown, invalid or
// forbidden organizations yield an empty record.
func (h *Helpers) LocalizedOrg(ctx context.Context, orgID string, includeDatasets bool) (map[string]any, error) {
	if orgID == "" || h.actions == nil {
		return map[string]any{}, nil
	}
	org, err := h.actions.OrganizationShow(ctx, OrganizationShowRequest{ID: orgID, IncludeDatasets: includeDatasets})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrNotAuthorized) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	return org, nil
}

// DatasetTermsOfUse returns the terms of use that apply to a whole dataset.
func (h *Helpers) DatasetTermsOfUse(ctx context.Context, id string) (string, error) {
	if err := h.requireActions(); err != nil {
		return "", err
	}
	return h.actions.DatasetTermsOfUse(ctx, id)
}

// DatasetByIdentifier returns the dataset with the given identifier, or
// nil when there is none.
func (h *Helpers) DatasetByIdentifier(ctx context.Context, identifier string) (map[string]any, error) {
	if err := h.requireActions(); err != nil {
		return nil, err
	}
	dataset, err := h.actions.DatasetByIdentifier(ctx, identifier)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return dataset, err
}

// ShowcasesForDataset lists the showcases a dataset appears in, or nil
// when the dataset does not exist.
func (h *Helpers) ShowcasesForDataset(ctx context.Context, id string) ([]map[string]any, error) {
	if err := h.requireActions(); err != nil {
		return nil, err
	}
	showcases, err := h.actions.PackageShowcaseList(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return showcases, err
}

// PiwikConfig returns the tracking configuration.
func (h *Helpers) PiwikConfig() PiwikConfig {
	return h.piwik
}

// LocalizedNewsletterURL returns the newsletter subscription page for
// locale; there is none in English.
func (h *Helpers) LocalizedNewsletterURL(locale string) string {
	return newsletterURLs[searchLanguage(h.resolver.Locale(locale))]
}

// TermsOfUseURL links to the terms of use page of this site.
func (h *Helpers) TermsOfUseURL(termID string) string {
	return TermsOfUseURL(h.siteURL, termID)
}

// ContentHeaders is the outcome of a HEAD request on a resource URL.
type ContentHeaders struct {
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers"`
}

// ContentHeaders issues a HEAD request against rawURL.
func (h *Helpers) ContentHeaders(ctx context.Context, rawURL string) (*ContentHeaders, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ogdch: content headers %s: %w", rawURL, err)
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ogdch: content headers %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	return &ContentHeaders{StatusCode: resp.StatusCode, Headers: resp.Header.Clone()}, nil
}
