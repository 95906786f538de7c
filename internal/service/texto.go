package service

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizarTexto lowercases and strips accents so "Cartório" matches
// "cartorio".
func NormalizarTexto(s string) string {
	out, _, err := transform.String(accentRemover, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// ParseValorBR parses Brazilian-formatted currency input like "R$ 1.500,00",
// "1500,5" or plain "1500.50". Returns false when the input is not numeric.
func ParseValorBR(val string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(val)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, false
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}

	// Decide which separator is decimal by whichever appears last.
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastDot > lastComma:
		if strings.Count(s, ".") > 1 {
			parts := strings.Split(s, ".")
			s = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
		}
	default:
		// No separator at all.
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

// FormatarValorBR renders a decimal as Brazilian currency: "R$ 1.500,00".
func FormatarValorBR(valor decimal.Decimal) string {
	s := valor.Abs().StringFixed(2)
	inteiro := s[:len(s)-3]
	centavos := s[len(s)-2:]

	var b strings.Builder
	for i, digito := range inteiro {
		if i > 0 && (len(inteiro)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digito)
	}

	prefixo := "R$ "
	if valor.IsNegative() {
		prefixo = "-R$ "
	}
	return prefixo + b.String() + "," + centavos
}

// FormatarDataBR converts yyyy-MM-dd into dd/MM/yyyy for display-format
// matching. Unparseable input is returned unchanged.
func FormatarDataBR(data string) string {
	if len(data) < 10 {
		return data
	}
	return data[8:10] + "/" + data[5:7] + "/" + data[0:4]
}
