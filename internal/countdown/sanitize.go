package countdown

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	octets      = regexp.MustCompile(`(?i)%[a-f0-9]{2}`)
)

// SanitizeText - girdiyi tek satır düz metne indirger.
// Tag'ler (script/style gövdeleriyle) silinir, entity'ler çözülür, kontrol karakterleri
// boşluk olur, boşluklar tekleşir, %xx octet'leri atılır.
// Sonuç sabit noktadır: SanitizeText(SanitizeText(s)) == SanitizeText(s).
func SanitizeText(s string) string {
	s = strings.ToValidUTF8(s, "")

	// her değişen tur metni kısaltır ya da kontrol karakterlerini bir kez temizler,
	// len(s)+2 tur sabit noktaya ulaşmak için yeterli
	for i := len(s) + 2; i > 0; i-- {
		next := sanitizePass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func sanitizePass(s string) string {
	s = html.UnescapeString(stripPolicy.Sanitize(s))

	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	return strings.TrimSpace(octets.ReplaceAllString(s, ""))
}

// CheckboxValue - checkbox gönderildiyse "yes", yoksa "no"
func CheckboxValue(present bool) string {
	if present {
		return Yes
	}
	return No
}
