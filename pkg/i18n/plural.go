package i18n

// PluralRule returns the CLDR plural category for a count.
type PluralRule func(n int) string

// Plural categories as defined by Unicode CLDR.
const (
	PluralZero  = "zero"
	PluralOne   = "one"
	PluralTwo   = "two"
	PluralFew   = "few"
	PluralMany  = "many"
	PluralOther = "other"
)

// OneOtherRule is used by English, German, Spanish, Italian and most
// languages with a single singular form.
func OneOtherRule(n int) string {
	if abs(n) == 1 {
		return PluralOne
	}
	return PluralOther
}

// ZeroOneOtherRule treats zero as singular, as French and Portuguese do.
func ZeroOneOtherRule(n int) string {
	if abs(n) <= 1 {
		return PluralOne
	}
	return PluralOther
}

// EastSlavicRule covers Russian, Ukrainian, Belarusian and the
// Serbo-Croatian languages.
func EastSlavicRule(n int) string {
	n = abs(n)
	mod10, mod100 := n%10, n%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return PluralOne
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return PluralFew
	default:
		return PluralMany
	}
}

// PolishRule implements the Polish plural forms.
func PolishRule(n int) string {
	n = abs(n)
	mod10, mod100 := n%10, n%100
	switch {
	case n == 1:
		return PluralOne
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return PluralFew
	default:
		return PluralMany
	}
}

// WestSlavicRule covers Czech and Slovak.
func WestSlavicRule(n int) string {
	switch n = abs(n); {
	case n == 1:
		return PluralOne
	case n >= 2 && n <= 4:
		return PluralFew
	default:
		return PluralOther
	}
}

// ArabicRule implements the six Arabic plural forms.
func ArabicRule(n int) string {
	n = abs(n)
	switch mod100 := n % 100; {
	case n == 0:
		return PluralZero
	case n == 1:
		return PluralOne
	case n == 2:
		return PluralTwo
	case mod100 >= 3 && mod100 <= 10:
		return PluralFew
	case mod100 >= 11:
		return PluralMany
	default:
		return PluralOther
	}
}

// OtherRule is used by languages without grammatical number.
func OtherRule(int) string { return PluralOther }

var pluralRules = map[string]PluralRule{
	"fr": ZeroOneOtherRule, "pt": ZeroOneOtherRule,
	"ru": EastSlavicRule, "uk": EastSlavicRule, "be": EastSlavicRule,
	"sr": EastSlavicRule, "hr": EastSlavicRule, "bs": EastSlavicRule,
	"pl": PolishRule,
	"cs": WestSlavicRule, "sk": WestSlavicRule,
	"ar": ArabicRule,
	"ja": OtherRule, "zh": OtherRule, "ko": OtherRule, "th": OtherRule,
	"vi": OtherRule, "id": OtherRule, "ms": OtherRule,
}

// PluralRuleFor returns the plural rule for a language or POSIX locale code.
// Unknown languages use OneOtherRule.
func PluralRuleFor(lang string) PluralRule {
	if rule, ok := pluralRules[BaseLanguage(lang)]; ok {
		return rule
	}
	return OneOtherRule
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
