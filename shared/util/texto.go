package util

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DecodificarCP437 converte nomes vindos do DF (codificados em CP437) para UTF-8.
// Textos que já são UTF-8 válidos e só ASCII passam direto.
func DecodificarCP437(s string) string {
	if isASCII(s) {
		return s
	}
	out, err := charmap.CodePage437.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// NomeArquivo gera um nome de arquivo seguro a partir de um nome de mundo:
// sem acentos, minúsculo, apenas letras, dígitos e hífens.
func NomeArquivo(nome string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	limpo, _, err := transform.String(t, nome)
	if err != nil {
		limpo = nome
	}

	var b strings.Builder
	hifen := false
	for _, r := range strings.ToLower(limpo) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			hifen = false
			continue
		}
		if !hifen && b.Len() > 0 {
			b.WriteByte('-')
			hifen = true
		}
	}
	res := strings.TrimSuffix(b.String(), "-")
	if res == "" {
		return "mundo"
	}
	return res
}
