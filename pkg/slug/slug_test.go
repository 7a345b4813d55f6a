package slug_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple words", in: "Hello World", want: "hello-world"},
		{name: "punctuation removed", in: "Hello, World!", want: "hello-world"},
		{name: "diacritics stripped", in: "Café Crème", want: "cafe-creme"},
		{name: "ampersand dropped", in: "Café & Restaurant", want: "cafe-restaurant"},
		{name: "surrounding whitespace trimmed", in: "   spaced   out  ", want: "spaced-out"},
		{name: "hyphen runs collapse", in: "a -- b", want: "a-b"},
		{name: "underscore kept", in: "snake_case value", want: "snake_case-value"},
		{name: "edge hyphens kept", in: "-edge-", want: "-edge-"},
		{name: "non latin dropped", in: "Привет world", want: "world"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, slug.Make(tt.in))
		})
	}
}

func TestMakeOptions(t *testing.T) {
	t.Parallel()

	t.Run("custom separator", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "product_name", slug.Make("Product Name", slug.Separator("_")))
	})

	t.Run("max length trims trailing separator", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "long-article", slug.Make("Long Article Title", slug.MaxLength(13)))
	})

	t.Run("max length zero is unlimited", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "long-article-title", slug.Make("Long Article Title", slug.MaxLength(0)))
	})
}
