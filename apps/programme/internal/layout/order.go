package layout

import (
	"regexp"
	"strconv"
	"strings"
)

//nolint:gochecknoglobals //fixed ordering tables
var weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// venueClasses is checked in order; the index of the first match is the
// venue rank. Locations matching none of them rank last.
//
//nolint:gochecknoglobals //fixed ordering tables
var venueClasses = []*regexp.Regexp{
	regexp.MustCompile(`(?i)auditorium`),
	regexp.MustCompile(`(?i)\bB1\b`),
	regexp.MustCompile(`(?i)\bB2\b`),
	regexp.MustCompile(`(?i)\bB3\b`),
	regexp.MustCompile(`(?i)\bRoom\b`),
	regexp.MustCompile(`(?i)Plaza`),
}

var clockTime = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

const endOfDay = 24 * 60

func dayRank(day string) int {
	for i, weekday := range weekdays {
		if strings.EqualFold(strings.TrimSpace(day), weekday) {
			return i
		}
	}
	return len(weekdays)
}

func venueRank(location string) int {
	for i, class := range venueClasses {
		if class.MatchString(location) {
			return i
		}
	}
	return len(venueClasses)
}

// minuteOfDay parses the first H:MM or HH:MM in t. Anything else is placed at
// the end of the day.
func minuteOfDay(t string) int {
	match := clockTime.FindStringSubmatch(t)
	if match == nil {
		return endOfDay
	}

	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	return hours*60 + minutes
}

func compareDays(a, b string) int {
	return dayRank(a) - dayRank(b)
}

func compareLocations(a, b string) int {
	if diff := venueRank(a) - venueRank(b); diff != 0 {
		return diff
	}
	return strings.Compare(a, b)
}

func compareTimes(a, b string) int {
	if diff := minuteOfDay(a) - minuteOfDay(b); diff != 0 {
		return diff
	}
	return strings.Compare(a, b)
}
