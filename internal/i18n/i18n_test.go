package i18n

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapKV map[string]string

func (m mapKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapKV) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("storage unavailable")
}

func TestParse(t *testing.T) {
	l, err := Parse(" EN ")
	require.NoError(t, err)
	assert.Equal(t, English, l)

	_, err = Parse("fr")
	assert.Error(t, err)
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		header string
		want   Language
	}{
		{"", Indonesian},
		{"en-US,en;q=0.9", English},
		{"id-ID,id;q=0.9,en;q=0.5", Indonesian},
		{"ja", Indonesian},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.header))
		})
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Default, FromContext(ctx))
	assert.Equal(t, English, FromContext(WithLanguage(ctx, English)))
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsToIndonesian", func(t *testing.T) {
		p := NewPreferences(mapKV{})
		l, err := p.Language(ctx)
		require.NoError(t, err)
		assert.Equal(t, Indonesian, l)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		kv := mapKV{}
		p := NewPreferences(kv)
		require.NoError(t, p.SetLanguage(ctx, English))
		assert.Equal(t, "en", kv[PreferenceKey])

		l, err := p.Language(ctx)
		require.NoError(t, err)
		assert.Equal(t, English, l)
	})

	t.Run("CorruptValueFallsBack", func(t *testing.T) {
		p := NewPreferences(mapKV{PreferenceKey: "klingon"})
		l, err := p.Language(ctx)
		require.NoError(t, err)
		assert.Equal(t, Default, l)
	})

	t.Run("RejectsUnknownLanguage", func(t *testing.T) {
		assert.Error(t, NewPreferences(mapKV{}).SetLanguage(ctx, Language("fr")))
	})

	t.Run("StoreErrorsAreWrapped", func(t *testing.T) {
		l, err := NewPreferences(failingKV{}).Language(ctx)
		assert.Error(t, err)
		assert.Equal(t, Default, l)
	})
}
