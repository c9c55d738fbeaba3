package sped

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal converts the textual numeric encodings found in SPED files
// and tax tables: both "1234.56" and "1.234,56" styles, with an optional
// trailing percent sign.
func ParseDecimal(s string) (decimal.Decimal, error) {
	t := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if t == "" {
		return decimal.Zero, fmt.Errorf("valor numérico vazio")
	}
	if strings.Contains(t, ",") {
		// comma-decimal: dots are thousands separators
		t = strings.ReplaceAll(t, ".", "")
		t = strings.Replace(t, ",", ".", 1)
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor numérico inválido %q", s)
	}
	return d, nil
}

// FormatRate serializes a rate the way the tax table stores it:
// two decimals, comma separator, trailing percent sign ("13,00%").
func FormatRate(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + "%"
}

// FormatBR renders a number with dot-thousands and comma-decimal
// separators at two decimal places, the format used by report columns.
func FormatBR(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart := s[:len(s)-3]
	fracPart := s[len(s)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPeriodDate converts a DDMMYYYY register date into DD/MM/YYYY.
func FormatPeriodDate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[:2] + "/" + d[2:4] + "/" + d[4:]
}

// PeriodFromDtIni derives the MM/YYYY period key from a 0000 start date.
func PeriodFromDtIni(dtIni string) string {
	if len(dtIni) != 8 {
		return ""
	}
	return dtIni[2:4] + "/" + dtIni[4:]
}

// PeriodYear extracts the year of a DDMMYYYY date; zero when malformed.
func PeriodYear(dtIni string) int {
	if len(dtIni) != 8 {
		return 0
	}
	year := 0
	for _, r := range dtIni[4:] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}

// validatePeriodRange checks that both register dates are eight digits and
// fall in the same month and year.
func validatePeriodRange(dtIni, dtFin string) error {
	if !isDigits8(dtIni) || !isDigits8(dtFin) {
		return fmt.Errorf("datas dt_ini/dt_fin inválidas (%q, %q)", dtIni, dtFin)
	}
	if dtIni[2:] != dtFin[2:] {
		return fmt.Errorf("dt_ini %s e dt_fin %s em períodos distintos", dtIni, dtFin)
	}
	return nil
}

func isDigits8(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
