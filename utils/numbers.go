package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseCount reads an integer the way the mobile app sends them: free text
// that may carry a currency prefix, thousands separators or a decimal part.
// Anything unreadable is 0.
func ParseCount(value string) int {
	value = strings.TrimSpace(strings.ToUpper(value))
	value = strings.TrimPrefix(value, "RS.")
	value = strings.TrimPrefix(value, "RS")
	value = strings.TrimPrefix(value, "₹")
	value = strings.ReplaceAll(value, ",", "")
	value = strings.TrimSpace(value)

	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Percent returns part/total*100 rounded to places, or 0 when total is 0.
func Percent(part, total int, places int) float64 {
	if total <= 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, places)
}

// Mean returns sum/n, or 0 when n is 0.
func Mean(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}
