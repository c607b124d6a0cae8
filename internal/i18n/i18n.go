// Package i18n resolves the response language and translates the few
// user-facing messages the API returns.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// Message keys.
const (
	KeyFishNotFound = "fish.not_found"
	KeyFishDeleted  = "fish.deleted"
	KeyInternal     = "error.internal"
	KeyUnavailable  = "error.unavailable"
)

var supportedTags = []language.Tag{
	language.English,
	language.BrazilianPortuguese,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the fallback language tag.
func Default() language.Tag {
	return language.English
}

// ParseTag maps value onto a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Tag{}, false
	}
	parsed, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	return match(parsed)
}

// Resolve picks the language for r: the lang query parameter, then
// Accept-Language, then fallback.
func Resolve(r *http.Request, fallback language.Tag) language.Tag {
	if r == nil {
		return fallback
	}
	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			if tag, ok := match(tags...); ok {
				return tag
			}
		}
	}
	return fallback
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// T translates key into tag.
func T(tag language.Tag, key string) string {
	return Printer(tag).Sprintf(key)
}

func match(tags ...language.Tag) (language.Tag, bool) {
	if len(tags) == 0 {
		return language.Tag{}, false
	}
	_, idx, conf := tagMatcher.Match(tags...)
	if conf == language.No {
		return language.Tag{}, false
	}
	return supportedTags[idx], true
}
