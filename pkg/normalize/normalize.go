package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics descompone (NFD), elimina marcas diacríticas y recompone (NFC).
var removeDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// SearchTerm normaliza un término de búsqueda: minúsculas, sin tildes, sin espacios extremos.
// Así "Cotización" y "cotizacion" coinciden en los listados del catálogo.
func SearchTerm(s string) string {
	out, _, err := transform.String(removeDiacritics, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
