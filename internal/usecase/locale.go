package usecase

import (
	"strings"

	"golang.org/x/text/language"
)

// SupportedLocales are the storefront's route prefixes.
var SupportedLocales = []language.Tag{language.English, language.Spanish}

// ResolveLocale maps a route prefix onto a supported locale. ok is false when raw was not
// a supported locale and fallback was used.
func ResolveLocale(raw string, fallback language.Tag) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fallback, false
	}
	for _, supported := range SupportedLocales {
		if tag == supported {
			return supported, true
		}
	}
	return fallback, false
}
