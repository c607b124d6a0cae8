package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, KeyFishNotFound, "No fish was found")
	message.SetString(lang, KeyFishDeleted, "Fish deleted successfully")
	message.SetString(lang, KeyInternal, "Internal server error")
	message.SetString(lang, KeyUnavailable, "Storage is unavailable")
}
