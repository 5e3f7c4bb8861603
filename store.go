package ogdch

import (
	"sort"
)

// Message is a single translated label.
type Message struct {
	ID     string
	Locale string
	Text   string
}

// Catalog maps label keys to messages for one locale.
type Catalog map[string]Message

// Translations maps locales to their catalogs.
type Translations map[string]Catalog

// Store exposes read only access to translated labels
type Store interface {
	// Get returns the label text for locale/key and ok=false if missing
	Get(locale, key string) (string, bool)
	// Message returns the full message for locale/key
	Message(locale, key string) (Message, bool)
	// Locales returns the list of locales known to the store
	Locales() []string
}

// Loader retrieves the translations used to seed a Store
type Loader interface {
	Load() (Translations, error)
}

// LoaderFunc adapters allow bare functions to implement Loader
type LoaderFunc func() (Translations, error)

// Load implements Loader for LoaderFunc
func (fn LoaderFunc) Load() (Translations, error) {
	return fn()
}

// StaticStore is an in memory store, read only after construction
type StaticStore struct {
	translations Translations
	locales      []string
}

var _ Store = &StaticStore{}

// NewStaticStore builds an immutable snapshot from the given translations
func NewStaticStore(data Translations) *StaticStore {
	if len(data) == 0 {
		return &StaticStore{translations: make(Translations)}
	}

	translations := make(Translations, len(data))
	locales := make([]string, 0, len(data))

	for locale, catalog := range data {
		locale = normalizeLocale(locale)
		if locale == "" || catalog == nil {
			continue
		}

		clone, exists := translations[locale]
		if !exists {
			clone = make(Catalog, len(catalog))
			translations[locale] = clone
			locales = append(locales, locale)
		}
		for key, message := range catalog {
			if message.ID == "" {
				message.ID = key
			}
			if message.Locale == "" {
				message.Locale = locale
			}
			clone[key] = message
		}
	}

	// make locales deterministic
	sort.Strings(locales)

	return &StaticStore{
		translations: translations,
		locales:      locales,
	}
}

// NewStaticStoreFromLoader hydrates a StaticStore using the provided loader
func NewStaticStoreFromLoader(loader Loader) (*StaticStore, error) {
	if loader == nil {
		return NewStaticStore(nil), nil
	}

	translations, err := loader.Load()
	if err != nil {
		return nil, err
	}

	return NewStaticStore(translations), nil
}

func (s *StaticStore) Message(locale, key string) (Message, bool) {
	if s == nil {
		return Message{}, false
	}

	catalog, ok := s.translations[locale]
	if !ok || catalog == nil {
		return Message{}, false
	}

	msg, ok := catalog[key]
	return msg, ok
}

// Get returns the label text for locale/key
func (s *StaticStore) Get(locale, key string) (string, bool) {
	msg, ok := s.Message(locale, key)
	if !ok {
		return "", false
	}
	return msg.Text, true
}

// Locales returns a slice with all locale codes
func (s *StaticStore) Locales() []string {
	if s == nil || len(s.locales) == 0 {
		return nil
	}
	out := make([]string, len(s.locales))
	copy(out, s.locales)
	return out
}
