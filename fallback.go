package ogdch

import "sync"

// FallbackResolver resolves fallback locale chains
type FallbackResolver interface {
	Resolve(locale string) []string
}

// StaticFallbackResolver returns configured chains and derives the parent
// chain (de-CH -> de) for locales without one.
type StaticFallbackResolver struct {
	mu     sync.RWMutex
	chains map[string][]string
}

var _ FallbackResolver = &StaticFallbackResolver{}

func NewStaticFallbackResolver() *StaticFallbackResolver {
	return &StaticFallbackResolver{chains: make(map[string][]string)}
}

// Set replaces the fallback chain for locale.
func (s *StaticFallbackResolver) Set(locale string, fallbacks ...string) {
	locale = normalizeLocale(locale)
	if s == nil || locale == "" {
		return
	}

	chain := make([]string, 0, len(fallbacks))
	for _, fallback := range fallbacks {
		fallback = normalizeLocale(fallback)
		if fallback == "" || fallback == locale {
			continue
		}
		chain = append(chain, fallback)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chains == nil {
		s.chains = make(map[string][]string)
	}
	s.chains[locale] = chain
}

func (s *StaticFallbackResolver) Resolve(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return nil
	}

	if s != nil {
		s.mu.RLock()
		chain, ok := s.chains[locale]
		s.mu.RUnlock()
		if ok {
			out := make([]string, len(chain))
			copy(out, chain)
			return out
		}
	}

	return localeParentChain(locale)
}
