package helper

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/aarondl/opt/null"
)

// NotAvailable is the placeholder written wherever a lap time (or a value
// derived from it) does not exist.
const NotAvailable = "N/A"

var lapTimePattern = regexp.MustCompile(`^(\d+):(\d+(?:\.\d+)?)$`)

// ParseLapTime converts "M:SS.mmm" into seconds. Anything that is not plain
// digits for the minutes and digits with an optional fraction for the seconds
// yields a null value.
func ParseLapTime(text string) null.Val[float64] {
	m := lapTimePattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return null.Val[float64]{}
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return null.Val[float64]{}
	}
	seconds, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return null.Val[float64]{}
	}
	return null.From(roundMillis(float64(minutes)*60 + seconds))
}

// FormatLapTime converts seconds into "M:SS.mmm". Null or negative input
// formats to NotAvailable.
func FormatLapTime(seconds null.Val[float64]) string {
	v, ok := seconds.Get()
	if !ok || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	// work in whole milliseconds so 59.9996 does not print as "0:60.000"
	millis := int64(math.Round(v * 1000))
	minutes := millis / 60000
	rest := float64(millis%60000) / 1000
	return fmt.Sprintf("%d:%06.3f", minutes, rest)
}

// FormatSeconds renders a lap duration the way the dashboard metric shows it.
func FormatSeconds(seconds null.Val[float64]) string {
	v, ok := seconds.Get()
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.3f sec", v)
}

func SecondsToDiff(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	diff := fmt.Sprintf("+%.3fs", seconds)
	chars := len(diff)
	if chars < 9 {
		// add spaces to the left
		diff = strings.Repeat(" ", 9-chars) + diff
	}
	return diff
}

func GetDriverCodeName(name string) string {
	// broadcast names already look like "M VERSTAPPEN": first letter of the
	// given name plus the first 2 letters of the surname
	name = strings.TrimSpace(name)
	if name == "" || name == NotAvailable {
		return "-"
	}
	words := strings.Fields(name)
	code := string([]rune(words[0])[0])
	if len(words) > 1 {
		surname := []rune(words[len(words)-1])
		if len(surname) > 2 {
			code += string(surname[:2])
		} else {
			code += string(surname)
		}
	} else {
		first := []rune(words[0])
		if len(first) > 2 {
			code += string(first[1:3])
		} else {
			code = string(first)
		}
	}
	return strings.ToUpper(code)
}

func roundMillis(v float64) float64 {
	return math.Round(v*1000) / 1000
}
