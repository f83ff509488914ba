package utils

import (
	"fmt"
	"math"
)

// FloatValue dereferences an optional amount, treating nil as zero.
func FloatValue(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// FormatCurrency renders an amount as dollars with two decimals, e.g. "$1,250.50".
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(amount * 100))
	whole, frac := cents/100, cents%100

	digits := fmt.Sprintf("%d", whole)
	var grouped []byte
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, digits[i])
	}
	return fmt.Sprintf("%s$%s.%02d", sign, grouped, frac)
}
