package i18n

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateStyle selects how much detail a formatted date or time carries.
type DateStyle int

const (
	Short DateStyle = iota
	Medium
	Long
	Full
)

// LocaleFormat formats numbers, currency amounts and dates for a locale.
// It is immutable after creation and safe for concurrent use.
type LocaleFormat struct {
	decimalSeparator  string
	thousandSeparator string
	currencySymbol    string
	currencyAfter     bool
	percentSymbol     string
	dateLayouts       [4]string
	timeLayouts       [4]string
	months            []string
	weekdays          []string
}

// LocaleFormatOption configures a LocaleFormat during construction.
type LocaleFormatOption func(*LocaleFormat)

// NewLocaleFormat creates a LocaleFormat. Without options it formats like en_US.
func NewLocaleFormat(opts ...LocaleFormatOption) *LocaleFormat {
	lf := &LocaleFormat{
		decimalSeparator:  ".",
		thousandSeparator: ",",
		currencySymbol:    "$",
		percentSymbol:     "%",
		dateLayouts:       [4]string{"1/2/06", "Jan 2, 2006", "January 2, 2006", "Monday, January 2, 2006"},
		timeLayouts:       [4]string{"3:04 PM", "3:04:05 PM", "3:04:05 PM MST", "3:04:05 PM MST"},
	}

	for _, opt := range opts {
		opt(lf)
	}

	return lf
}

// WithSeparators sets the decimal and thousand separators.
func WithSeparators(decimal, thousand string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.decimalSeparator = decimal
		lf.thousandSeparator = thousand
	}
}

// WithCurrency sets the currency symbol and whether it follows the amount.
func WithCurrency(symbol string, after bool) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.currencySymbol = symbol
		lf.currencyAfter = after
	}
}

// WithDateLayouts sets the Go time layouts for the Short, Medium, Long and Full date styles.
func WithDateLayouts(short, medium, long, full string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.dateLayouts = [4]string{short, medium, long, full}
	}
}

// WithTimeLayouts sets the Go time layouts for the four time styles.
func WithTimeLayouts(short, medium, long, full string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		lf.timeLayouts = [4]string{short, medium, long, full}
	}
}

// WithNames sets localized month (January first) and weekday (Sunday first)
// names substituted for the English names Go produces.
func WithNames(months, weekdays []string) LocaleFormatOption {
	return func(lf *LocaleFormat) {
		if len(months) == 12 {
			lf.months = months
		}
		if len(weekdays) == 7 {
			lf.weekdays = weekdays
		}
	}
}

// FormatNumber formats n with up to two decimals and grouped thousands.
func (lf *LocaleFormat) FormatNumber(n float64) string {
	return lf.number(n, 2, true)
}

// FormatCurrency formats an amount with two decimals and the currency symbol.
func (lf *LocaleFormat) FormatCurrency(amount float64) string {
	num := lf.number(math.Abs(amount), 2, false)

	var out string
	switch {
	case lf.currencyAfter:
		out = num + " " + lf.currencySymbol
	case len([]rune(lf.currencySymbol)) == 1 || strings.HasSuffix(lf.currencySymbol, "$"):
		out = lf.currencySymbol + num
	default:
		out = lf.currencySymbol + " " + num
	}

	if amount < 0 {
		out = "-" + out
	}
	return out
}

// FormatPercent formats a ratio as a percentage, 0.5 becoming "50%".
func (lf *LocaleFormat) FormatPercent(n float64) string {
	return lf.number(n*100, 1, true) + lf.percentSymbol
}

// FormatDate formats the date part of t. The default style is Medium.
func (lf *LocaleFormat) FormatDate(t time.Time, style ...DateStyle) string {
	return lf.localize(t.Format(lf.dateLayouts[pick(style)]))
}

// FormatTime formats the time part of t. The default style is Medium.
func (lf *LocaleFormat) FormatTime(t time.Time, style ...DateStyle) string {
	return t.Format(lf.timeLayouts[pick(style)])
}

// FormatDateTime formats date and time of t. The default style is Medium.
func (lf *LocaleFormat) FormatDateTime(t time.Time, style ...DateStyle) string {
	return lf.FormatDate(t, style...) + " " + lf.FormatTime(t, style...)
}

func (lf *LocaleFormat) number(n float64, decimals int, trim bool) string {
	s := strconv.FormatFloat(math.Abs(n), 'f', decimals, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	if trim {
		frac = strings.TrimRight(frac, "0")
	}

	out := lf.group(intPart)
	if frac != "" {
		out += lf.decimalSeparator + frac
	}
	if n < 0 && strings.Trim(out, "0"+lf.decimalSeparator) != "" {
		out = "-" + out
	}
	return out
}

func (lf *LocaleFormat) group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(lf.thousandSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// localize swaps English month and weekday names for the locale's own.
// Layouts of localized formats only use full names.
func (lf *LocaleFormat) localize(s string) string {
	if lf.weekdays != nil {
		for d := time.Sunday; d <= time.Saturday; d++ {
			s = strings.ReplaceAll(s, d.String(), lf.weekdays[d])
		}
	}
	if lf.months != nil {
		for m := time.January; m <= time.December; m++ {
			s = strings.ReplaceAll(s, m.String(), lf.months[m-1])
		}
	}
	return s
}

func pick(style []DateStyle) DateStyle {
	if len(style) == 0 || style[0] < Short || style[0] > Full {
		return Medium
	}
	return style[0]
}

var (
	monthsES   = []string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
	weekdaysES = []string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	monthsDE   = []string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
	weekdaysDE = []string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}
	monthsFR   = []string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"}
	weekdaysFR = []string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}
	monthsPT   = []string{"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"}
	weekdaysPT = []string{"domingo", "segunda-feira", "terça-feira", "quarta-feira", "quinta-feira", "sexta-feira", "sábado"}
)

// 24 hour clock layouts shared by most non English locales.
var clock24 = WithTimeLayouts("15:04", "15:04:05", "15:04:05 MST", "15:04:05 MST")

var formats = map[string]func() *LocaleFormat{
	"en_US": func() *LocaleFormat { return NewLocaleFormat() },
	"en_GB": func() *LocaleFormat {
		return NewLocaleFormat(
			WithCurrency("£", false), clock24,
			WithDateLayouts("02/01/2006", "2 Jan 2006", "2 January 2006", "Monday, 2 January 2006"),
		)
	},
	"es_ES": func() *LocaleFormat {
		return NewLocaleFormat(
			WithSeparators(",", "."), WithCurrency("€", true), clock24,
			WithDateLayouts("02/01/06", "02/01/2006", "2 de January de 2006", "Monday, 2 de January de 2006"),
			WithNames(monthsES, weekdaysES),
		)
	},
	"de_DE": func() *LocaleFormat {
		return NewLocaleFormat(
			WithSeparators(",", "."), WithCurrency("€", true), clock24,
			WithDateLayouts("02.01.06", "02.01.2006", "2. January 2006", "Monday, 2. January 2006"),
			WithNames(monthsDE, weekdaysDE),
		)
	},
	"fr_FR": func() *LocaleFormat {
		return NewLocaleFormat(
			WithSeparators(",", " "), WithCurrency("€", true), clock24,
			WithDateLayouts("02/01/2006", "02/01/2006", "2 January 2006", "Monday 2 January 2006"),
			WithNames(monthsFR, weekdaysFR),
		)
	},
	"pt_BR": func() *LocaleFormat {
		return NewLocaleFormat(
			WithSeparators(",", "."), WithCurrency("R$", false), clock24,
			WithDateLayouts("02/01/06", "02/01/2006", "2 de January de 2006", "Monday, 2 de January de 2006"),
			WithNames(monthsPT, weekdaysPT),
		)
	},
	"pl_PL": func() *LocaleFormat {
		return NewLocaleFormat(
			WithSeparators(",", " "), WithCurrency("zł", true), clock24,
			WithDateLayouts("02.01.2006", "02.01.2006", "02.01.2006", "02.01.2006"),
		)
	},
	"ru_RU": func() *LocaleFormat {
		return NewLocaleFormat(
			WithSeparators(",", " "), WithCurrency("₽", true), clock24,
			WithDateLayouts("02.01.06", "02.01.2006", "02.01.2006", "02.01.2006"),
		)
	},
	"ja_JP": func() *LocaleFormat {
		return NewLocaleFormat(
			WithCurrency("¥", false), clock24,
			WithDateLayouts("2006/01/02", "2006/01/02", "2006年1月2日", "2006年1月2日"),
		)
	},
	"zh_CN": func() *LocaleFormat {
		return NewLocaleFormat(
			WithCurrency("¥", false), clock24,
			WithDateLayouts("2006/1/2", "2006-01-02", "2006年1月2日", "2006年1月2日"),
		)
	},
	"ko_KR": func() *LocaleFormat {
		return NewLocaleFormat(
			WithCurrency("₩", false), clock24,
			WithDateLayouts("06. 1. 2.", "2006. 1. 2.", "2006년 1월 2일", "2006년 1월 2일"),
		)
	},
}

// preferred maps a bare language to the locale whose format it uses.
var preferred = map[string]string{
	"en": "en_US", "es": "es_ES", "de": "de_DE", "fr": "fr_FR", "pt": "pt_BR",
	"pl": "pl_PL", "ru": "ru_RU", "ja": "ja_JP", "zh": "zh_CN", "ko": "ko_KR",
}

// FormatFor returns the format of a POSIX locale code.
// Unknown regions use the format of their language, unknown languages en_US.
func FormatFor(code string) *LocaleFormat {
	if f, ok := formats[code]; ok {
		return f()
	}
	if f, ok := formats[preferred[BaseLanguage(code)]]; ok {
		return f()
	}
	return NewLocaleFormat()
}
