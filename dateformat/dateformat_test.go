// Copyright (c) 2025 The TeamVote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dateformat

import (
	"testing"
	"time"
)

func TestDaysLeft(t *testing.T) {
	// Fixed clock: mid-day June 15 2026 local time.
	now := time.Date(2026, 6, 15, 13, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		date string
		want string
	}{
		{"future", "06/18/26", "in 3 days"},
		{"tomorrow", "06/16/26", "in 1 day"},
		{"same day", "06/15/26", "today"},
		{"yesterday", "06/14/26", "1 day ago"},
		{"past", "06/10/26", "5 days ago"},
		{"across year boundary", "01/02/27", "in 201 days"},
		{"garbage passes through", "soonish", "soonish"},
		{"empty passes through", "", ""},
		{"wrong format passes through", "2026-06-18", "2026-06-18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := daysLeftAt(tt.date, now); got != tt.want {
				t.Errorf("daysLeftAt(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestNiceDate(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"11/05/26", "Nov 5, 2026"},
		{"01/01/00", "Jan 1, 2000"},
		{"not a date", "not a date"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NiceDate(tt.date); got != tt.want {
			t.Errorf("NiceDate(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestAgo(t *testing.T) {
	got := Ago(time.Now().Add(-2 * time.Hour))
	if got != "2 hours ago" {
		t.Errorf("Ago(2h back) = %q, want %q", got, "2 hours ago")
	}
}
