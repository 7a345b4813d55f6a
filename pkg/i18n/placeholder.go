package i18n

import (
	"fmt"
	"regexp"
)

var placeholderRe = regexp.MustCompile(`%%|%\((\w+)\)([sdfvqx])`)

// Interpolate replaces "%(name)s" style placeholders with values from args.
// The verb after the name is applied with fmt, so "%(num)d" formats an integer.
// Placeholders without a value are left untouched. "%%" becomes "%" only when
// args is not empty.
//
//	Interpolate("Hello %(name)s, %(num)d new", M{"name": "Ana", "num": 3})
//	// "Hello Ana, 3 new"
func Interpolate(text string, args M) string {
	if len(args) == 0 {
		return text
	}

	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		if match == "%%" {
			return "%"
		}
		sub := placeholderRe.FindStringSubmatch(match)
		value, ok := args[sub[1]]
		if !ok {
			return match
		}
		return fmt.Sprintf("%"+sub[2], value)
	})
}
