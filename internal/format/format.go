// Package format renders prices and durations for display.
package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// CurrencySymbol is prepended to formatted prices.
const CurrencySymbol = "€"

// NumberFormat describes how numbers are written in a locale.
type NumberFormat struct {
	DecimalPoint string
	ThousandsSep string
}

func (f NumberFormat) pattern(decimals int) string {
	dec := f.DecimalPoint
	if dec == "" {
		dec = "."
	}
	// humanize reads a lone directive as the decimal point, so it is always present.
	p := "#" + f.ThousandsSep + "###" + dec
	for i := 0; i < decimals; i++ {
		p += "#"
	}
	return p
}

// Number formats v with the given number of decimals.
func Number(v float64, decimals int, nf NumberFormat) string {
	return humanize.FormatFloat(nf.pattern(decimals), v)
}

// Price formats an amount with the currency symbol and two decimals.
func Price(v float64, nf NumberFormat) string {
	return CurrencySymbol + " " + Number(v, 2, nf)
}

// Time formats a number of seconds as hours and minutes, e.g. "7:05".
func Time(seconds int64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
