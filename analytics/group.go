package analytics

import (
	"strconv"
	"strings"
)

// Unknown is the group for records missing a categorical field.
const Unknown = "Unknown"

func category(v string) string {
	if strings.TrimSpace(v) == "" {
		return Unknown
	}
	return v
}

type bracket struct {
	label string
	upper int // exclusive; 0 means unbounded
}

func bracketOf(brackets []bracket, v int) string {
	for _, b := range brackets {
		if b.upper == 0 || v < b.upper {
			return b.label
		}
	}
	return brackets[len(brackets)-1].label
}

func emptyBrackets(brackets []bracket) map[string]int {
	m := make(map[string]int, len(brackets))
	for _, b := range brackets {
		m[b.label] = 0
	}
	return m
}

var summaryIncomeBrackets = []bracket{
	{"0-50k", 50000},
	{"50k-100k", 100000},
	{"100k-200k", 200000},
	{"200k+", 0},
}

var simulationIncomeBrackets = []bracket{
	{"0-25k", 25000},
	{"25k-50k", 50000},
	{"50k-100k", 100000},
	{"100k+", 0},
}

var ageGroups = []bracket{
	{"0-18", 18},
	{"18-35", 35},
	{"35-50", 50},
	{"50-65", 65},
	{"65+", 0},
}

func householdSizeKey(size int) string {
	if size <= 0 {
		return Unknown
	}
	return strconv.Itoa(size)
}
