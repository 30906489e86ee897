package common

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// NoDataUnit is the unit sentinel marking a reading without a value
const NoDataUnit = "no data"

// NotAvailableText is displayed instead of the value of a reading without data
const NotAvailableText = "N/A"

// NormalizeName returns the identity key of a metric name. Two names denote the same metric iff their keys are equal.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// IsNoData returns true if the unit is the "no data" sentinel, in any case
func IsNoData(unit string) bool {
	return strings.EqualFold(strings.TrimSpace(unit), NoDataUnit)
}

// FormatValue renders a value as its natural string (850 -> "850", 0.5 -> "0.5")
func FormatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
