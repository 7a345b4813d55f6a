package i18n_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/pkg/i18n"
)

func TestToPOSIX(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"en-us", "en_US"},
		{"es-AR", "es_AR"},
		{"en", "en"},
		{"pt_BR", "pt_BR"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, i18n.ToPOSIX(tt.in))
		})
	}
}

func TestBaseLanguage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "en", i18n.BaseLanguage("en_US"))
	require.Equal(t, "en", i18n.BaseLanguage("en-US"))
	require.Equal(t, "es", i18n.BaseLanguage("es"))
}

func TestHTTPLocales(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		def    string
		want   []string
	}{
		{
			name: "empty header gives default",
			def:  "en_US",
			want: []string{"en_US"},
		},
		{
			name:   "default converted to posix",
			header: "",
			def:    "es-ar",
			want:   []string{"es_AR"},
		},
		{
			name:   "sorted by quality",
			header: "en;q=0.5,es-ar,es;q=0.8",
			def:    "en_US",
			want:   []string{"es_AR", "es", "en", "en_US"},
		},
		{
			name:   "default not duplicated",
			header: "en-us,es;q=0.9",
			def:    "en_US",
			want:   []string{"en_US", "es"},
		},
		{
			name:   "ties keep header order",
			header: "fr;q=0.7,de;q=0.7,it;q=0.7",
			def:    "en_US",
			want:   []string{"fr", "de", "it", "en_US"},
		},
		{
			name:   "invalid quality counts as zero",
			header: "fr;q=abc,de;q=0.1",
			def:    "en_US",
			want:   []string{"de", "fr", "en_US"},
		},
		{
			name:   "whitespace and empty entries ignored",
			header: " es , ,en ; q=0.3",
			def:    "en_US",
			want:   []string{"es", "en", "en_US"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, i18n.HTTPLocales(tt.header, tt.def))
		})
	}

	t.Run("oversized header is truncated", func(t *testing.T) {
		t.Parallel()
		header := strings.Repeat("es,", 3000)
		got := i18n.HTTPLocales(header, "en_US")
		require.Equal(t, "en_US", got[len(got)-1])
		require.Less(t, len(got), 3000)
	})
}

func TestExpandLanguages(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]string{"es_AR", "es", "en_US", "en"},
		i18n.ExpandLanguages([]string{"es_AR", "en_US", "en", "es"}),
	)
	require.Empty(t, i18n.ExpandLanguages(nil))
}
