package i18n

import (
	"context"
	"fmt"
)

const PreferenceKey = "preference:language"

// KV is the subset of a key-value store the preference needs.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Preferences persists the visitor's language choice.
type Preferences struct {
	store KV
}

func NewPreferences(store KV) *Preferences {
	return &Preferences{store: store}
}

// Language returns the stored language. Missing or corrupt values yield
// Default.
func (p *Preferences) Language(ctx context.Context) (Language, error) {
	value, ok, err := p.store.Get(ctx, PreferenceKey)
	if err != nil {
		return Default, fmt.Errorf("read language preference: %w", err)
	}
	if !ok {
		return Default, nil
	}

	l, err := Parse(value)
	if err != nil {
		return Default, nil
	}
	return l, nil
}

func (p *Preferences) SetLanguage(ctx context.Context, l Language) error {
	if !l.Valid() {
		return fmt.Errorf("unsupported language %q", l)
	}
	if err := p.store.Set(ctx, PreferenceKey, string(l)); err != nil {
		return fmt.Errorf("store language preference: %w", err)
	}
	return nil
}
