package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.BrazilianPortuguese

	message.SetString(lang, KeyFishNotFound, "Nenhum peixe foi encontrado")
	message.SetString(lang, KeyFishDeleted, "Peixe deletado com sucesso!")
	message.SetString(lang, KeyInternal, "Erro interno do servidor")
	message.SetString(lang, KeyUnavailable, "Armazenamento indisponível")
}
