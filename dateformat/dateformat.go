// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dateformat

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Layout is the short date format elections carry, e.g. "11/05/26".
const Layout = "01/02/06"

// niceLayout is the long display form, e.g. "Nov 5, 2026".
const niceLayout = "Jan 2, 2006"

// DaysLeft renders the calendar-day distance from today to a short date:
// "in 3 days", "today", "5 days ago". Unparseable input comes back
// unchanged so a bad stored date still renders something.
func DaysLeft(date string) string {
	return daysLeftAt(date, time.Now())
}

func daysLeftAt(date string, now time.Time) string {
	t, err := time.ParseInLocation(Layout, date, now.Location())
	if err != nil {
		return date
	}
	days := int(calendarDay(t).Sub(calendarDay(now)).Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "in 1 day"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	case days == -1:
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", -days)
}

// NiceDate renders a short date in long form, e.g. "Nov 5, 2026".
// Unparseable input comes back unchanged.
func NiceDate(date string) string {
	t, err := time.Parse(Layout, date)
	if err != nil {
		return date
	}
	return t.Format(niceLayout)
}

// Ago renders a timestamp as a relative phrase, e.g. "2 hours ago".
func Ago(t time.Time) string {
	return humanize.Time(t)
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
