// Package i18n resolves localization keys to display text from embedded
// JSON language files. The game engine never sees display strings; the HTTP
// layer translates keys at the edge.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed lang/*.json
var langFS embed.FS

// FallbackLanguage is used when a key is missing from the active language.
const FallbackLanguage = "fr"

var langFiles = map[string]string{
	"fr": "lang/french.json",
	"en": "lang/english.json",
}

// Translator maps key + params to display text in one of the supported
// languages. Safe for concurrent reads after New.
type Translator struct {
	translations map[string]map[string]string
}

// New loads all embedded language files. A load failure is a configuration
// error: the service cannot start without its display text.
func New() (*Translator, error) {
	t := &Translator{translations: make(map[string]map[string]string)}
	for lang, path := range langFiles {
		data, err := langFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		t.translations[lang] = m
	}
	return t, nil
}

// Languages returns the supported language codes.
func (t *Translator) Languages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	return langs
}

// Supported reports whether lang is a loaded language code.
func (t *Translator) Supported(lang string) bool {
	_, ok := t.translations[lang]
	return ok
}

// Get resolves key in lang, falling back to French and finally to the key
// itself. Occurrences of {{name}} are replaced by params["name"].
func (t *Translator) Get(lang, key string, params map[string]string) string {
	text, ok := t.translations[lang][key]
	if !ok {
		text, ok = t.translations[FallbackLanguage][key]
	}
	if !ok {
		text = key
	}
	for name, value := range params {
		text = strings.ReplaceAll(text, "{{"+name+"}}", value)
	}
	return text
}
