package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timeParser is one strategy for reading a source time representation.
// Parsers are tried in priority order and the first hit wins.
type timeParser struct {
	name  string
	parse func(string) (hour, minute int, ok bool)
}

var (
	canonicalPattern  = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	twelveHourPattern = regexp.MustCompile(`^(\d{1,2})(?:[:.\s]([0-5]\d))?\s*([AaPp])\.?[Mm]\.?$`)
	separatedPattern  = regexp.MustCompile(`^(\d{1,2})[.,\s-]([0-5]\d)$`)
	militaryPattern   = regexp.MustCompile(`^([01]\d|2[0-3])([0-5]\d)$`)
)

var timeParsers = []timeParser{
	{
		name: "canonical",
		parse: func(raw string) (int, int, bool) {
			m := canonicalPattern.FindStringSubmatch(raw)
			if m == nil {
				return 0, 0, false
			}
			hour, _ := strconv.Atoi(m[1])
			minute, _ := strconv.Atoi(m[2])
			return hour, minute, true
		},
	},
	{
		name: "twelve_hour",
		parse: func(raw string) (int, int, bool) {
			m := twelveHourPattern.FindStringSubmatch(raw)
			if m == nil {
				return 0, 0, false
			}
			hour, _ := strconv.Atoi(m[1])
			if hour < 1 || hour > 12 {
				return 0, 0, false
			}
			minute := 0
			if m[2] != "" {
				minute, _ = strconv.Atoi(m[2])
			}
			meridiem := strings.ToUpper(m[3])
			if meridiem == "A" && hour == 12 {
				hour = 0
			}
			if meridiem == "P" && hour != 12 {
				hour += 12
			}
			return hour, minute, true
		},
	},
	{
		name: "separated_pair",
		parse: func(raw string) (int, int, bool) {
			m := separatedPattern.FindStringSubmatch(raw)
			if m == nil {
				return 0, 0, false
			}
			hour, _ := strconv.Atoi(m[1])
			if hour > 23 {
				return 0, 0, false
			}
			minute, _ := strconv.Atoi(m[2])
			return hour, minute, true
		},
	},
	{
		name: "military",
		parse: func(raw string) (int, int, bool) {
			m := militaryPattern.FindStringSubmatch(raw)
			if m == nil {
				return 0, 0, false
			}
			hour, _ := strconv.Atoi(m[1])
			minute, _ := strconv.Atoi(m[2])
			return hour, minute, true
		},
	},
}

// NormalizeTime converts a source time value to the canonical 24 hour HH:MM
// form. The bool reports whether any parser strategy accepted the value.
func NormalizeTime(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, parser := range timeParsers {
		if hour, minute, ok := parser.parse(raw); ok {
			return fmt.Sprintf("%02d:%02d", hour, minute), true
		}
	}
	return "", false
}
