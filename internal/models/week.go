package models

import "time"

// Weeks start on Monday, 00:00 UTC. The same convention keys the point ledger
// and bounds the dashboard's "this week" window.

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) Date {
	d := NewDate(t)
	offset := (int(d.Weekday()) + 6) % 7
	return Date{Time: d.AddDate(0, 0, -offset)}
}

// WeekWindow returns the half-open interval [monday, next monday) containing t.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	start := WeekStart(t).Time
	return start, start.AddDate(0, 0, 7)
}

// WeekKey renders the week containing t as its Monday date.
func WeekKey(t time.Time) string {
	return WeekStart(t).String()
}
