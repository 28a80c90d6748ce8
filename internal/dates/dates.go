// Package dates parses the date expressions accepted on the command line:
// absolute dates, day names and offsets like "3d ago" or "2h".
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Absolute layouts tried by EventStart, in order. Parsed in now's location.
var eventLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// "3d", "3d ago", "1mo ago"
var offsetRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d|h|m)(\s+ago)?$`)

// "18:00" or "at 18:00" after a day expression
var clockRegex = regexp.MustCompile(`^(?:at\s+)?(\d{1,2}):(\d{2})$`)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "weds": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// Since parses a point in the past, as used by change filters. Offsets count
// back from now with or without "ago"; day names pick the most recent such
// day, today included, and "last <day>" the one before today.
func Since(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	input := strings.ToLower(raw)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	switch input {
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if m := offsetRegex.FindStringSubmatch(input); m != nil {
		return offset(now, m[1], m[2], -1)
	}

	last := false
	if rest, ok := strings.CutPrefix(input, "last "); ok {
		last = true
		input = strings.TrimSpace(rest)
	}
	if wd, ok := weekdays[input]; ok {
		base := startOfDay(now)
		delta := (int(base.Weekday()) - int(wd) + 7) % 7
		if last && delta == 0 {
			delta = 7
		}
		return base.AddDate(0, 0, -delta), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD, a day name or an offset like 7d", raw)
}

// EventStart parses an event start time. Besides absolute dates it accepts
// "today", "tomorrow" or a day name (the next such day, "next <day>" skips
// today), each optionally followed by a clock time, and offsets into the
// future like "2h". Results are truncated to the minute.
func EventStart(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	input := strings.ToLower(raw)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range eventLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return t, nil
		}
	}

	if m := offsetRegex.FindStringSubmatch(input); m != nil && m[3] == "" {
		t, err := offset(now, m[1], m[2], 1)
		return t.Truncate(time.Minute), err
	}

	day, clock, _ := strings.Cut(input, " ")
	if day == "next" {
		var name string
		name, clock, _ = strings.Cut(clock, " ")
		day = "next " + name
	}
	base, ok := futureDay(day, now)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD HH:MM, tomorrow 18:00 or a day name", raw)
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return base, nil
	}
	m := clockRegex.FindStringSubmatch(clock)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use HH:MM", clock)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid time %q: use HH:MM", clock)
	}
	return base.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}

func futureDay(day string, now time.Time) (time.Time, bool) {
	base := startOfDay(now)
	switch day {
	case "today":
		return base, true
	case "tomorrow":
		return base.AddDate(0, 0, 1), true
	}
	next := false
	if rest, ok := strings.CutPrefix(day, "next "); ok {
		next = true
		day = rest
	}
	wd, ok := weekdays[day]
	if !ok {
		return time.Time{}, false
	}
	delta := (int(wd) - int(base.Weekday()) + 7) % 7
	if next && delta == 0 {
		delta = 7
	}
	return base.AddDate(0, 0, delta), true
}

func offset(now time.Time, count, unit string, direction int) (time.Time, error) {
	n, err := strconv.Atoi(count)
	if err != nil || n < 1 {
		return time.Time{}, fmt.Errorf("invalid offset %s%s", count, unit)
	}
	n *= direction
	switch unit {
	case "mo":
		return now.AddDate(0, n, 0), nil
	case "w":
		return now.AddDate(0, 0, 7*n), nil
	case "d":
		return now.AddDate(0, 0, n), nil
	case "h":
		return now.Add(time.Duration(n) * time.Hour), nil
	case "m":
		return now.Add(time.Duration(n) * time.Minute), nil
	}
	return time.Time{}, fmt.Errorf("invalid offset unit %q", unit)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
