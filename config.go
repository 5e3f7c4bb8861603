package ogdch

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
)

// EnvPrefix prefixes every environment variable read by ConfigFromEnv.
const EnvPrefix = "OGDCH_"

// Config captures the catalog settings and the collaborators built from them
type Config struct {
	DefaultLocale     string        `env:"LOCALE_DEFAULT"  envDefault:"en"`
	CKANURL           string        `env:"CKAN_URL"`
	CKANAPIKey        string        `env:"CKAN_API_KEY"`
	SiteURL           string        `env:"SITE_URL"`
	WPAjaxURL         string        `env:"WP_AJAX_URL"`
	FormatMappingPath string        `env:"FORMAT_MAPPING"`
	LabelPaths        []string      `env:"LABELS"          envSeparator:","`
	RedisURL          string        `env:"REDIS_URL"`
	CountCacheTTL     time.Duration `env:"COUNT_CACHE_TTL" envDefault:"5m"`
	LogLevel          string        `env:"LOG_LEVEL"       envDefault:"info"`
	Piwik             PiwikConfig   `envPrefix:"PIWIK_"`

	fallbacks  map[string][]string
	logger     *slog.Logger
	httpClient *http.Client
	translator Translator
	actions    CatalogActions
	cache      CountCache
	registerer prometheus.Registerer
}

// Option mutates Config during construction
type Option func(*Config) error

// NewConfig builds Config via supplied options
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		DefaultLocale: DefaultLocale,
		CountCacheTTL: 5 * time.Minute,
		LogLevel:      "info",
	}
	return cfg.apply(opts...)
}

// ConfigFromEnv reads OGDCH_* variables and then applies opts.
func ConfigFromEnv(opts ...Option) (*Config, error) {
	return configFromEnv(env.Options{Prefix: EnvPrefix}, opts...)
}

func configFromEnv(envOpts env.Options, opts ...Option) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, envOpts); err != nil {
		return nil, fmt.Errorf("ogdch: parse environment: %w", err)
	}
	return cfg.apply(opts...)
}

func (cfg *Config) apply(opts ...Option) (*Config, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	cfg.DefaultLocale = normalizeLocale(cfg.DefaultLocale)
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = DefaultLocale
	}
	if cfg.logger == nil {
		cfg.logger = NewLogger(nil, cfg.LogLevel)
	}
	return cfg, nil
}

// WithDefaultLocale sets the locale used outside of requests
func WithDefaultLocale(locale string) Option {
	return func(c *Config) error {
		c.DefaultLocale = locale
		return nil
	}
}

func WithCKANURL(rawURL, apiKey string) Option {
	return func(c *Config) error {
		c.CKANURL = rawURL
		c.CKANAPIKey = apiKey
		return nil
	}
}

func WithFormatMappingFile(path string) Option {
	return func(c *Config) error {
		c.FormatMappingPath = path
		return nil
	}
}

// WithLabelFiles adds catalogs that override the embedded labels.
func WithLabelFiles(paths ...string) Option {
	return func(c *Config) error {
		c.LabelPaths = append(c.LabelPaths, paths...)
		return nil
	}
}

// WithFallback sets the label fallback chain of locale.
func WithFallback(locale string, fallbacks ...string) Option {
	return func(c *Config) error {
		if locale == "" {
			return nil
		}
		if c.fallbacks == nil {
			c.fallbacks = make(map[string][]string)
		}
		c.fallbacks[locale] = append([]string(nil), fallbacks...)
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		c.logger = logger
		return nil
	}
}

func WithTranslator(translator Translator) Option {
	return func(c *Config) error {
		c.translator = translator
		return nil
	}
}

// WithCatalogActions replaces the HTTP action client.
func WithCatalogActions(actions CatalogActions) Option {
	return func(c *Config) error {
		c.actions = actions
		return nil
	}
}

// WithCountCache replaces the redis backed counter cache.
func WithCountCache(cache CountCache) Option {
	return func(c *Config) error {
		c.cache = cache
		return nil
	}
}

func WithConfigHTTPClient(client *http.Client) Option {
	return func(c *Config) error {
		c.httpClient = client
		return nil
	}
}

// WithMetricsRegisterer registers the action client metrics with reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Config) error {
		c.registerer = reg
		return nil
	}
}

// Logger returns the configured logger.
func (cfg *Config) Logger() *slog.Logger {
	return cfg.logger
}

func (cfg *Config) BuildResolver() *Resolver {
	return NewResolver(WithResolverDefaultLocale(cfg.DefaultLocale))
}

// BuildTranslator loads the embedded labels, overlays LabelPaths and wraps
// the result with missing-label logging.
func (cfg *Config) BuildTranslator() (Translator, error) {
	if cfg.translator != nil {
		return cfg.translator, nil
	}

	loader := LoaderFunc(func() (Translations, error) {
		translations, err := DefaultLabelsLoader().Load()
		if err != nil {
			return nil, err
		}
		if len(cfg.LabelPaths) == 0 {
			return translations, nil
		}
		overrides, err := NewFileLoader(cfg.LabelPaths...).Load()
		if err != nil {
			return nil, err
		}
		mergeTranslations(translations, overrides)
		return translations, nil
	})

	store, err := NewStaticStoreFromLoader(loader)
	if err != nil {
		return nil, err
	}

	resolver := NewStaticFallbackResolver()
	for locale, chain := range cfg.fallbacks {
		resolver.Set(locale, chain...)
	}

	base, err := NewSimpleTranslator(store,
		WithTranslatorDefaultLocale(cfg.DefaultLocale),
		WithTranslatorFallbackResolver(resolver))
	if err != nil {
		return nil, err
	}

	cfg.translator = WrapTranslatorWithHooks(base, MissingLabelLogger(cfg.logger))
	return cfg.translator, nil
}

func (cfg *Config) BuildFormatMapping() (*FormatMapping, error) {
	if cfg.FormatMappingPath == "" {
		return DefaultFormatMapping(), nil
	}
	return LoadFormatMapping(cfg.FormatMappingPath)
}

// BuildActions returns the catalog action client, or nil when no catalog
// URL is configured.
func (cfg *Config) BuildActions() (CatalogActions, error) {
	if cfg.actions != nil {
		return cfg.actions, nil
	}
	if cfg.CKANURL == "" {
		return nil, nil
	}

	metrics, err := NewActionMetrics(cfg.registerer)
	if err != nil {
		return nil, err
	}

	cfg.actions = NewHTTPActionClient(cfg.CKANURL,
		WithAPIKey(cfg.CKANAPIKey),
		WithHTTPClient(cfg.httpClient),
		WithActionMetrics(metrics))
	return cfg.actions, nil
}

func (cfg *Config) BuildCountCache() (CountCache, error) {
	if cfg.cache != nil {
		return cfg.cache, nil
	}
	if cfg.RedisURL == "" {
		cfg.cache = NoopCountCache{}
		return cfg.cache, nil
	}
	cache, err := NewRedisCountCacheFromURL(cfg.RedisURL, "")
	if err != nil {
		return nil, err
	}
	cfg.cache = cache
	return cfg.cache, nil
}

func (cfg *Config) BuildHooks() (*Hooks, error) {
	translator, err := cfg.BuildTranslator()
	if err != nil {
		return nil, err
	}
	formats, err := cfg.BuildFormatMapping()
	if err != nil {
		return nil, err
	}
	actions, err := cfg.BuildActions()
	if err != nil {
		return nil, err
	}

	return NewHooks(
		WithHooksResolver(cfg.BuildResolver()),
		WithHooksFormatMapping(formats),
		WithHooksTranslator(translator),
		WithHooksActions(actions),
		WithHooksLogger(cfg.logger),
	), nil
}

func (cfg *Config) BuildHelpers() (*Helpers, error) {
	translator, err := cfg.BuildTranslator()
	if err != nil {
		return nil, err
	}
	actions, err := cfg.BuildActions()
	if err != nil {
		return nil, err
	}
	cache, err := cfg.BuildCountCache()
	if err != nil {
		return nil, err
	}

	return NewHelpers(
		WithHelpersActions(actions),
		WithHelpersTranslator(translator),
		WithHelpersResolver(cfg.BuildResolver()),
		WithHelpersCountCache(cache, cfg.CountCacheTTL),
		WithHelpersHTTPClient(cfg.httpClient),
		WithWordPressAjaxURL(cfg.WPAjaxURL),
		WithSiteURL(cfg.SiteURL),
		WithPiwikConfig(cfg.Piwik),
		WithHelpersLogger(cfg.logger),
	), nil
}
