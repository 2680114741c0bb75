// Package interval converts between millisecond durations and the interval
// strings stored for task totals and history rows.
package interval

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Zero is the encoded form of an empty duration.
const Zero = "00:00:00"

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*hours?`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*mins?`)
	secondsPattern = regexp.MustCompile(`(?i)(\d+)\s*secs?`)
)

// Encode renders ms as HH:MM:SS. Hours are not wrapped at 24 and sub-second
// remainders are dropped.
func Encode(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Decode parses an interval into milliseconds. It accepts the HH:MM:SS form
// and the legacy descriptive form ("2 hours 15 mins"). Anything it cannot
// read counts as zero.
func Decode(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ":") {
		return decodeColon(s)
	}
	return decodeText(s)
}

func decodeColon(s string) int64 {
	fields := strings.Split(s, ":")
	var hours, minutes int64
	var seconds float64

	hours = parseInt(fields[0])
	if len(fields) > 1 {
		minutes = parseInt(fields[1])
	}
	if len(fields) > 2 {
		seconds = parseFloat(fields[2])
	}

	total := (hours*3600+minutes*60)*msPerSecond + int64(math.Round(seconds*msPerSecond))
	if total < 0 {
		return 0
	}
	return total
}

func decodeText(s string) int64 {
	var total int64
	if m := hoursPattern.FindStringSubmatch(s); m != nil {
		total += parseInt(m[1]) * msPerHour
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		total += parseInt(m[1]) * msPerMinute
	}
	if m := secondsPattern.FindStringSubmatch(s); m != nil {
		total += parseInt(m[1]) * msPerSecond
	}
	return total
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return int64(f)
	}
	return v
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Split breaks ms into whole hours and the remaining whole minutes.
// Seconds are truncated.
func Split(ms int64) (hours, minutes int64) {
	if ms < 0 {
		return 0, 0
	}
	totalMinutes := ms / msPerMinute
	return totalMinutes / 60, totalMinutes % 60
}

// Format renders hours and minutes as "3h 5m", or "5m" when there are no
// whole hours.
func Format(hours, minutes int64) string {
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// Human renders an encoded interval as "Hh Mm", the short form shown next
// to a task.
func Human(s string) string {
	h, m := Split(Decode(s))
	return fmt.Sprintf("%dh %dm", h, m)
}
