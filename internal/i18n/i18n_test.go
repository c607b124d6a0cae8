package i18n

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		target string
		accept string
		want   language.Tag
	}{
		{"default", "/fish", "", language.English},
		{"query", "/fish?lang=pt-BR", "", language.BrazilianPortuguese},
		{"query wins over header", "/fish?lang=en", "pt-BR", language.English},
		{"header", "/fish", "pt-BR,pt;q=0.9,en;q=0.8", language.BrazilianPortuguese},
		{"bare pt header", "/fish", "pt", language.BrazilianPortuguese},
		{"unsupported query falls through", "/fish?lang=ja", "pt-BR", language.BrazilianPortuguese},
		{"unsupported header", "/fish", "ja", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			if got := Resolve(r, Default()); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_NilRequest(t *testing.T) {
	if got := Resolve(nil, language.BrazilianPortuguese); got != language.BrazilianPortuguese {
		t.Errorf("Resolve(nil) = %v", got)
	}
}

func TestT(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		key  string
		want string
	}{
		{language.English, KeyFishNotFound, "No fish was found"},
		{language.English, KeyFishDeleted, "Fish deleted successfully"},
		{language.BrazilianPortuguese, KeyFishNotFound, "Nenhum peixe foi encontrado"},
		{language.BrazilianPortuguese, KeyFishDeleted, "Peixe deletado com sucesso!"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String()+"/"+tt.key, func(t *testing.T) {
			if got := T(tt.tag, tt.key); got != tt.want {
				t.Errorf("T() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	if _, ok := ParseTag(""); ok {
		t.Error("empty tag should not parse")
	}
	if tag, ok := ParseTag("pt-br"); !ok || tag != language.BrazilianPortuguese {
		t.Errorf("ParseTag(pt-br) = %v, %v", tag, ok)
	}
}
