package utils

import "strings"

var truthyValues = map[string]bool{
	"1":    true,
	"true": true,
	"yes":  true,
}

// IsTruthy reports whether a query parameter value switches a flag on.
// Only 1, true and yes (any case) count; everything else is false.
func IsTruthy(value string) bool {
	return truthyValues[strings.ToLower(value)]
}
