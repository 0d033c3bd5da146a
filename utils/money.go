package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const ZeroAmount = "0.00"

// FormatAmount renders a decimal string with two decimals.
// Unparseable input renders as "NaN".
func FormatAmount(value string) string {
	return fmt.Sprintf("%.2f", parseAmount(value))
}

// IsZeroAmount reports whether value renders as "0.00" with nothing left
// below the cent, so "0.001" is not zero. Input that does not parse as a
// number is never zero.
func IsZeroAmount(value string) bool {
	f := parseAmount(value)
	return fmt.Sprintf("%.2f", f) == ZeroAmount && f == 0
}

// parseAmount reads the whole trimmed string as a number. A numeric prefix
// followed by text ("0.00 USD") is not a number and yields NaN.
func parseAmount(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
