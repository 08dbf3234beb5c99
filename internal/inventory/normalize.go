package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeText: ürün eşleştirmesi için Türkçe küçük harf + aksan temizliği.
// Örn: "  ŞEKER " -> "seker", "Çay" -> "cay", "IĞDIR" -> "ıgdır" (ı korunur)
// Caser ve transformer durum tuttuğu için her çağrıda yenisi kurulur.
func normalizeText(s string) string {
	lowered := cases.Lower(language.Turkish).String(strings.TrimSpace(s))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, lowered)
	if err != nil {
		return lowered
	}
	return out
}
