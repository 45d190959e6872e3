// Package i18n holds the two site languages and the persisted language
// preference.
package i18n

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type Language string

const (
	Indonesian Language = "id"
	English    Language = "en"

	Default = Indonesian
)

var matcher = language.NewMatcher([]language.Tag{language.Indonesian, language.English})

func (l Language) Valid() bool {
	return l == Indonesian || l == English
}

// Tag returns the BCP 47 tag of the language, Indonesian for unknown values.
func (l Language) Tag() language.Tag {
	if l == English {
		return language.English
	}
	return language.Indonesian
}

func Parse(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}

// Negotiate picks the site language for an Accept-Language header value.
func Negotiate(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}

	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	if idx == 1 {
		return English
	}
	return Indonesian
}

type ctxKey struct{}

// WithLanguage returns a context carrying the active language.
func WithLanguage(ctx context.Context, l Language) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the active language, Default when none was set.
func FromContext(ctx context.Context) Language {
	if l, ok := ctx.Value(ctxKey{}).(Language); ok && l.Valid() {
		return l
	}
	return Default
}
