package i18n_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/pkg/i18n"
)

func TestWithDomainFS(t *testing.T) {
	t.Parallel()

	t.Run("loads yaml and json by language", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"es.yaml":    {Data: []byte("Welcome: Bienvenido\n\"%(num)d post\":\n  one: \"%(num)d entrada\"\n  other: \"%(num)d entradas\"\n")},
			"pt_BR.json": {Data: []byte(`{"Welcome": "Bem-vindo"}`)},
			"README.md":  {Data: []byte("ignored")},
			"old/es.yml": {Data: []byte("Welcome: Viejo")},
		}

		c, err := i18n.New(i18n.WithDomainFS("blog", fsys))
		require.NoError(t, err)
		require.True(t, c.HasDomain("blog"))
		require.Equal(t, []string{"es", "pt_BR"}, c.Languages())
		require.Equal(t, "Bienvenido", c.Gettext([]string{"es"}, "blog", "Welcome"))
		require.Equal(t, "Bem-vindo", c.Gettext([]string{"pt_BR"}, "blog", "Welcome"))
		require.Equal(t, "2 entradas", c.NGettext([]string{"es"}, "blog", "%(num)d post", "%(num)d posts", 2))
	})

	t.Run("invalid file", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{"es.yaml": {Data: []byte("- not\n- a map")}}
		_, err := i18n.New(i18n.WithDomainFS("blog", fsys))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})

	t.Run("empty domain", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithDomainFS("", fstest.MapFS{}))
		require.ErrorIs(t, err, i18n.ErrEmptyDomain)
	})
}

func TestWithDomainDir(t *testing.T) {
	t.Parallel()

	t.Run("missing dir skips domain", func(t *testing.T) {
		t.Parallel()
		c, err := i18n.New(i18n.WithDomainDir("blog", filepath.Join(t.TempDir(), "locale")))
		require.NoError(t, err)
		require.False(t, c.HasDomain("blog"))
	})

	t.Run("existing dir", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "es.yaml"), []byte("Welcome: Bienvenido\n"), 0o644))

		c, err := i18n.New(i18n.WithDomainDir("blog", dir))
		require.NoError(t, err)
		require.True(t, c.HasDomain("blog"))
		require.Equal(t, "Bienvenido", c.Gettext([]string{"es_ES", "es"}, "blog", "Welcome"))
	})
}
