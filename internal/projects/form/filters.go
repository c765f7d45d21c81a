// Package form validates submitted project form fields.
//
// Filters are lenient: a value that fails validation is reported as absent
// (nil) instead of producing an error, so a single bad field never aborts a save.
package form

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Locale carries the number formatting rules of the active site locale.
type Locale struct {
	DecimalPoint string
	ThousandsSep string
}

// DefaultLocale uses a dot as decimal point and a comma between thousands.
var DefaultLocale = Locale{DecimalPoint: ".", ThousandsSep: ","}

// Filter converts a raw submitted value into a typed value.
// ok is false when the value does not validate.
type Filter interface {
	Apply(raw string) (value any, ok bool)
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(raw string) (any, bool)

func (f FilterFunc) Apply(raw string) (any, bool) { return f(raw) }

// Int validates a base 10 integer without leading zeros.
func Int() Filter {
	return FilterFunc(func(raw string) (any, bool) {
		s := strings.TrimSpace(raw)
		digits := strings.TrimLeft(s, "+-")
		if digits == "" || len(s)-len(digits) > 1 {
			return nil, false
		}
		if len(digits) > 1 && digits[0] == '0' {
			return nil, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	})
}

// Bool accepts 1/true/on/yes and 0/false/off/no/"" case-insensitively.
func Bool() Filter {
	return FilterFunc(func(raw string) (any, bool) {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "1", "true", "on", "yes":
			return true, true
		case "0", "false", "off", "no", "":
			return false, true
		}
		return nil, false
	})
}

// Float validates a decimal number written with the locale's decimal point.
// A trailing decimal point ("5.") and an exponent ("1.5e3") are accepted.
// When allowThousands is set, digit groups of three may be separated by any
// of '.', ',', '\'' or the locale thousands separator, as long as that
// character is not the decimal point.
func Float(locale Locale, allowThousands bool) Filter {
	dec := locale.DecimalPoint
	if dec == "" {
		dec = "."
	}
	return FilterFunc(func(raw string) (any, bool) {
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, false
		}

		sign := ""
		if s[0] == '-' || s[0] == '+' {
			sign, s = s[:1], s[1:]
		}

		s, exp, ok := cutExponent(s)
		if !ok {
			return nil, false
		}

		intPart, fracPart := s, ""
		if i := strings.LastIndex(s, dec); i >= 0 {
			intPart, fracPart = s[:i], s[i+len(dec):]
			if fracPart != "" && !isDigits(fracPart) {
				return nil, false
			}
		}
		if intPart == "" && fracPart == "" {
			return nil, false
		}

		if intPart != "" && !isDigits(intPart) {
			if !allowThousands {
				return nil, false
			}
			grouped, ok := ungroup(intPart, dec, locale.ThousandsSep)
			if !ok {
				return nil, false
			}
			intPart = grouped
		}

		if intPart == "" {
			intPart = "0"
		}
		num := sign + intPart
		if fracPart != "" {
			num += "." + fracPart
		}
		if exp != "" {
			num += "e" + exp
		}
		f, err := strconv.ParseFloat(num, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, false
		}
		return f, true
	})
}

// String strips HTML tags and trims the value. It never fails.
func String() Filter {
	return FilterFunc(func(raw string) (any, bool) {
		return StripTags(raw), true
	})
}

// StripTags removes markup from s and keeps its text content.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return strings.TrimSpace(s)
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ungroup removes thousands separators from s, checking that every group
// after the first has exactly three digits. Separators are compared as whole
// strings so multi-byte locale separators such as U+00A0 work.
func ungroup(s, dec, localeSep string) (string, bool) {
	for _, sep := range []string{localeSep, ".", ",", "'"} {
		if sep == "" || sep == dec || !strings.Contains(s, sep) {
			continue
		}
		groups := strings.Split(s, sep)
		first := groups[0]
		if first == "" || len(first) > 3 || !isDigits(first) {
			return "", false
		}
		for _, g := range groups[1:] {
			if len(g) != 3 || !isDigits(g) {
				return "", false
			}
		}
		return strings.Join(groups, ""), true
	}
	return "", false
}

// cutExponent splits a trailing "e12", "E-3" or "e+4" off s.
func cutExponent(s string) (mantissa, exp string, ok bool) {
	i := strings.LastIndexAny(s, "eE")
	if i < 0 {
		return s, "", true
	}
	exp = s[i+1:]
	digits := strings.TrimLeft(exp, "+-")
	if len(exp)-len(digits) > 1 || !isDigits(digits) {
		return "", "", false
	}
	return s[:i], exp, true
}
