package models

import (
	"regexp"
	"strings"
)

const generalSentinel = "general"

var cellIDSeparators = regexp.MustCompile(`[\s\p{Z}:/]`)

// CellID derives the stable key of a (day, time, location) cell. General
// cells use a fixed sentinel in place of the location.
func CellID(day, time, location string) string {
	if location == GeneralLocation {
		location = generalSentinel
	}

	id := day + "-" + time + "-" + location
	return strings.ToLower(cellIDSeparators.ReplaceAllString(id, "-"))
}
