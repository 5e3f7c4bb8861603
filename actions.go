package ogdch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogActions is the subset of the catalog's action API used here.
type CatalogActions interface {
	PackageSearch(ctx context.Context, params map[string]any) (*PackageSearchResult, error)
	GroupList(ctx context.Context) ([]string, error)
	OrganizationList(ctx context.Context) ([]string, error)
	OrganizationShow(ctx context.Context, req OrganizationShowRequest) (map[string]any, error)
	GroupTree(ctx context.Context, groupType string) ([]GroupTreeNode, error)
	DatasetTermsOfUse(ctx context.Context, id string) (string, error)
	DatasetByIdentifier(ctx context.Context, identifier string) (map[string]any, error)
	PackageShowcaseList(ctx context.Context, packageID string) ([]map[string]any, error)
}

// PackageSearchResult is the result of package_search.
type PackageSearchResult struct {
	Count   int              `json:"count"`
	Results []map[string]any `json:"results"`
}

// OrganizationShowRequest are the parameters of organization_show.
type OrganizationShowRequest struct {
	ID               string `json:"id"`
	IncludeDatasets  bool   `json:"include_datasets"`
	IncludeUsers     bool   `json:"include_users"`
	IncludeFollowers bool   `json:"include_followers"`
}

// GroupTreeNode is one organization in the publisher hierarchy. Title
// holds the raw title, usually a JSON language bundle.
type GroupTreeNode struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Title    string          `json:"title"`
	Children []GroupTreeNode `json:"children"`
}

// ActionError is the error object of a failed action call.
type ActionError struct {
	Action  string
	Type    string
	Message string
	Status  int
}

func (e *ActionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ogdch: action %s failed: %s (status %d)", e.Action, e.Type, e.Status)
	}
	return fmt.Sprintf("ogdch: action %s failed: %s: %s", e.Action, e.Type, e.Message)
}

// Unwrap maps catalog error types to the package's sentinel errors.
func (e *ActionError) Unwrap() error {
	switch {
	case e.Type == "Not Found Error" || e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Type == "Authorization Error" || e.Status == http.StatusForbidden:
		return ErrNotAuthorized
	case e.Type == "Validation Error" || e.Status == http.StatusConflict:
		return ErrValidation
	default:
		return nil
	}
}

type actionResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Type    string `json:"__type"`
		Message any    `json:"message"`
	} `json:"error"`
}

// ActionMetrics counts and times action calls.
type ActionMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewActionMetrics creates the collectors and registers them with reg when
// reg is not nil.
func NewActionMetrics(reg prometheus.Registerer) (*ActionMetrics, error) {
	m := &ActionMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ogdch",
			Subsystem: "actions",
			Name:      "requests_total",
			Help:      "Catalog action calls by action and outcome.",
		}, []string{"action", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ogdch",
			Subsystem: "actions",
			Name:      "request_duration_seconds",
			Help:      "Catalog action call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("ogdch: register action metrics: %w", err)
		}
	}
	return m, nil
}

func (m *ActionMetrics) observe(action string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(action, outcome).Inc()
	m.duration.WithLabelValues(action).Observe(time.Since(started).Seconds())
}

// HTTPActionClient calls the action API of a catalog at baseURL.
type HTTPActionClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	metrics *ActionMetrics
}

var _ CatalogActions = &HTTPActionClient{}

type HTTPActionClientOption func(*HTTPActionClient)

func WithHTTPClient(client *http.Client) HTTPActionClientOption {
	return func(c *HTTPActionClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithAPIKey sends key in the Authorization header.
func WithAPIKey(key string) HTTPActionClientOption {
	return func(c *HTTPActionClient) {
		c.apiKey = key
	}
}

func WithActionMetrics(metrics *ActionMetrics) HTTPActionClientOption {
	return func(c *HTTPActionClient) {
		c.metrics = metrics
	}
}

func NewHTTPActionClient(baseURL string, opts ...HTTPActionClientOption) *HTTPActionClient {
	c := &HTTPActionClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Call posts params to the named action and decodes its result into out.
func (c *HTTPActionClient) Call(ctx context.Context, action string, params, out any) (err error) {
	started := time.Now()
	defer func() { c.metrics.observe(action, started, err) }()

	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("ogdch: encode %s params: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/3/action/"+action, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ogdch: build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ogdch: call %s: %w", action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ogdch: read %s response: %w", action, err)
	}

	var decoded actionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &ActionError{Action: action, Type: http.StatusText(resp.StatusCode), Status: resp.StatusCode}
		}
		return fmt.Errorf("ogdch: decode %s response: %w", action, err)
	}

	if !decoded.Success || resp.StatusCode >= http.StatusBadRequest {
		actionErr := &ActionError{Action: action, Status: resp.StatusCode}
		if decoded.Error != nil {
			actionErr.Type = decoded.Error.Type
			if decoded.Error.Message != nil {
				actionErr.Message = fmt.Sprint(decoded.Error.Message)
			}
		}
		return actionErr
	}

	if out == nil || len(decoded.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(decoded.Result, out); err != nil {
		return fmt.Errorf("ogdch: decode %s result: %w", action, err)
	}
	return nil
}

func (c *HTTPActionClient) PackageSearch(ctx context.Context, params map[string]any) (*PackageSearchResult, error) {
	var result PackageSearchResult
	if err := c.Call(ctx, "package_search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPActionClient) GroupList(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.Call(ctx, "group_list", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *HTTPActionClient) OrganizationList(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.Call(ctx, "organization_list", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *HTTPActionClient) OrganizationShow(ctx context.Context, req OrganizationShowRequest) (map[string]any, error) {
	var org map[string]any
	if err := c.Call(ctx, "organization_show", req, &org); err != nil {
		return nil, err
	}
	return org, nil
}

func (c *HTTPActionClient) GroupTree(ctx context.Context, groupType string) ([]GroupTreeNode, error) {
	if groupType == "" {
		groupType = "organization"
	}
	var nodes []GroupTreeNode
	params := map[string]any{"type": groupType, "all_fields": true}
	if err := c.Call(ctx, "group_tree", params, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (c *HTTPActionClient) DatasetTermsOfUse(ctx context.Context, id string) (string, error) {
	var result struct {
		DatasetRights string `json:"dataset_rights"`
	}
	if err := c.Call(ctx, "ogdch_dataset_terms_of_use", map[string]any{"id": id}, &result); err != nil {
		return "", err
	}
	return result.DatasetRights, nil
}

func (c *HTTPActionClient) DatasetByIdentifier(ctx context.Context, identifier string) (map[string]any, error) {
	var dataset map[string]any
	if err := c.Call(ctx, "ogdch_dataset_by_identifier", map[string]any{"identifier": identifier}, &dataset); err != nil {
		return nil, err
	}
	return dataset, nil
}

func (c *HTTPActionClient) PackageShowcaseList(ctx context.Context, packageID string) ([]map[string]any, error) {
	var showcases []map[string]any
	if err := c.Call(ctx, "ckanext_package_showcase_list", map[string]any{"package_id": packageID}, &showcases); err != nil {
		return nil, err
	}
	return showcases, nil
}
