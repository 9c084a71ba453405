package utils

import (
	"fmt"
	"math"
)

// RoundTo rounds half away from zero to the given number of decimals.
// Example: RoundTo(4.2857, 1) -> 4.3
func RoundTo(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}

// RoundMoney rounds an amount to cents.
func RoundMoney(amount float64) float64 {
	return RoundTo(amount, 2)
}

// FormatCurrency formats an amount as "$1,234.50".
func FormatCurrency(amount float64) string {
	amount = RoundMoney(amount)
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	integer := int64(math.Floor(amount))
	cents := int64(math.Round((amount - float64(integer)) * 100))
	if cents == 100 {
		integer++
		cents = 0
	}

	digits := fmt.Sprintf("%d", integer)
	grouped := ""
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped += ","
		}
		grouped += string(d)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, grouped, cents)
}
