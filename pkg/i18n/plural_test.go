package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/duende/pkg/i18n"
)

func TestPluralRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang string
		n    int
		want string
	}{
		{"en_US", 1, i18n.PluralOne},
		{"en", 0, i18n.PluralOther},
		{"en", -1, i18n.PluralOne},
		{"fr", 0, i18n.PluralOne},
		{"pt_BR", 2, i18n.PluralOther},
		{"ru", 21, i18n.PluralOne},
		{"ru", 11, i18n.PluralMany},
		{"ru", 23, i18n.PluralFew},
		{"uk", 13, i18n.PluralMany},
		{"pl", 1, i18n.PluralOne},
		{"pl", 21, i18n.PluralMany},
		{"pl", 22, i18n.PluralFew},
		{"cs", 3, i18n.PluralFew},
		{"cs", 5, i18n.PluralOther},
		{"ar", 0, i18n.PluralZero},
		{"ar", 2, i18n.PluralTwo},
		{"ar", 105, i18n.PluralFew},
		{"ar", 111, i18n.PluralMany},
		{"ar", 100, i18n.PluralOther},
		{"ja", 1, i18n.PluralOther},
		{"xx", 1, i18n.PluralOne},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, i18n.PluralRuleFor(tt.lang)(tt.n))
		})
	}
}
