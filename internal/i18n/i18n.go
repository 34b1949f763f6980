// Package i18n holds the localized user-facing texts of the client.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every key must be defined in.
const BaseLocale = "de"

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle is a parsed set of locale catalogs.
type Bundle struct {
	builder *catalog.Builder
	tags    []language.Tag
	keys    map[string]map[Key]string
	matcher language.Matcher
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
	defaultErr    error
)

// Default returns the embedded bundle, parsed once.
func Default() (*Bundle, error) {
	defaultOnce.Do(func() {
		defaultBundle, defaultErr = LoadFS(embeddedFS)
	})
	return defaultBundle, defaultErr
}

// LoadFS parses locales/*.yaml from fsys.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{
		builder: catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale))),
		keys:    map[string]map[Key]string{},
	}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := b.add(path, file); err != nil {
			return nil, err
		}
	}

	base, ok := b.keys[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	for _, k := range AllKeys {
		if _, ok := base[k]; !ok {
			return nil, fmt.Errorf("base locale %s: missing key %q", BaseLocale, k)
		}
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) add(path string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", path)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale %q: %w", path, locale, err)
	}
	if _, dup := b.keys[locale]; dup {
		return fmt.Errorf("catalog %s: locale %q already defined", path, locale)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", path)
	}

	msgs := make(map[Key]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", path)
		}
		if err := b.builder.SetString(tag, key, value); err != nil {
			return fmt.Errorf("catalog %s: set %q: %w", path, key, err)
		}
		msgs[Key(key)] = value
	}
	b.keys[locale] = msgs
	// base locale first so the matcher falls back to it
	if locale == BaseLocale {
		b.tags = append([]language.Tag{tag}, b.tags...)
	} else {
		b.tags = append(b.tags, tag)
	}
	return nil
}

// Printer returns a printer for the closest supported locale.
func (b *Bundle) Printer(locale string) *Printer {
	_, idx := language.MatchStrings(b.matcher, locale)
	tag := b.tags[idx]
	return &Printer{p: message.NewPrinter(tag, message.Catalog(b.builder)), tag: tag}
}

// Locales lists the parsed locales.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.keys))
	for l := range b.keys {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Printer renders message keys in one locale.
type Printer struct {
	p   *message.Printer
	tag language.Tag
}

// T renders key. Unknown keys render as the key itself.
func (p *Printer) T(key Key) string {
	if p == nil {
		return string(key)
	}
	return p.p.Sprintf(string(key))
}

// Tag is the matched locale.
func (p *Printer) Tag() language.Tag { return p.tag }

// MustPrinter returns a printer from the embedded bundle and panics if it is broken.
func MustPrinter(locale string) *Printer {
	b, err := Default()
	if err != nil {
		panic(err)
	}
	return b.Printer(locale)
}
