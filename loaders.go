package ogdch

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed data/labels.yaml
var defaultLabelsFS embed.FS

const defaultLabelsPath = "data/labels.yaml"

// FileLoader reads label catalogs from JSON, YAML or TOML files shaped as
// locale -> key -> text.
type FileLoader struct {
	paths []string
	fsys  fs.FS
}

func NewFileLoader(paths ...string) *FileLoader {
	return &FileLoader{paths: append([]string(nil), paths...)}
}

// NewFSLoader reads the given paths from fsys instead of the OS filesystem.
func NewFSLoader(fsys fs.FS, paths ...string) *FileLoader {
	return &FileLoader{paths: append([]string(nil), paths...), fsys: fsys}
}

// DefaultLabelsLoader loads the label catalog shipped with the package.
func DefaultLabelsLoader() *FileLoader {
	return NewFSLoader(defaultLabelsFS, defaultLabelsPath)
}

func (l *FileLoader) Load() (Translations, error) {
	if l == nil || len(l.paths) == 0 {
		return nil, errors.New("ogdch: no loader paths configured")
	}

	result := make(Translations)

	for _, path := range l.paths {
		data, err := l.read(path)
		if err != nil {
			return nil, fmt.Errorf("ogdch: read %s: %w", path, err)
		}

		src, err := decodeTranslationFile(path, data)
		if err != nil {
			return nil, fmt.Errorf("ogdch: decode %s: %w", path, err)
		}
		mergeTranslations(result, src)
	}

	return result, nil
}

func (l *FileLoader) read(path string) ([]byte, error) {
	if l.fsys != nil {
		return fs.ReadFile(l.fsys, path)
	}
	return os.ReadFile(path)
}

func decodeTranslationFile(path string, data []byte) (Translations, error) {
	var raw map[string]map[string]any

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("yaml parse error: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("toml parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported extension %s", ext)
	}

	if len(raw) == 0 {
		return nil, errors.New("empty translations file")
	}

	result := make(Translations, len(raw))
	for locale, messages := range raw {
		if locale == "" {
			return nil, fmt.Errorf("empty locale in %s", path)
		}
		catalog := make(Catalog, len(messages))
		for key, value := range messages {
			if key == "" {
				return nil, fmt.Errorf("empty key in %s/%s", locale, path)
			}
			text, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%s/%s: unsupported message value type: %T", locale, key, value)
			}
			catalog[key] = Message{ID: key, Locale: locale, Text: text}
		}
		result[locale] = catalog
	}
	return result, nil
}

func mergeTranslations(dst, src Translations) {
	for locale, catalog := range src {
		target := dst[locale]
		if target == nil {
			target = make(Catalog, len(catalog))
			dst[locale] = target
		}
		for key, message := range catalog {
			target[key] = message
		}
	}
}
