// Package form validates user input before it is sent to the backend and
// guards against duplicate submissions.
package form

import (
	"fmt"
	"html"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/and161185/auto-marketplace/internal/errs"
	"github.com/and161185/auto-marketplace/internal/i18n"
)

// ValidationError maps field names (JSON spelling) to message keys.
type ValidationError struct {
	Fields map[string]i18n.Key
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", errs.ErrInvalidInput, strings.Join(e.Names(), ", "))
}

func (e *ValidationError) Unwrap() error { return errs.ErrInvalidInput }

// Names returns the failing fields in sorted order.
func (e *ValidationError) Names() []string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// Messages renders the field errors in the printer's locale.
func (e *ValidationError) Messages(pr *i18n.Printer) map[string]string {
	out := make(map[string]string, len(e.Fields))
	for f, k := range e.Fields {
		out[f] = pr.T(k)
	}
	return out
}

// checker collects the first failure per field.
type checker struct {
	fields map[string]i18n.Key
}

func (c *checker) check(ok bool, field string, key i18n.Key) {
	if ok {
		return
	}
	if c.fields == nil {
		c.fields = map[string]i18n.Key{}
	}
	if _, seen := c.fields[field]; !seen {
		c.fields[field] = key
	}
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

func runes(s string) int { return utf8.RuneCountInString(s) }

var strict = bluemonday.StrictPolicy()

// maxSanitizeRounds bounds the decoding of nested entity encodings.
const maxSanitizeRounds = 4

// Sanitize strips all markup from free text, including markup hidden behind
// HTML entities, and trims surrounding space. The result is plain text:
// entities are decoded, a stray "<" that opens no tag is kept.
func Sanitize(s string) string {
	for i := 0; i < maxSanitizeRounds; i++ {
		out := html.UnescapeString(strict.Sanitize(s))
		if out == s {
			break
		}
		s = out
	}
	return strings.TrimSpace(s)
}
