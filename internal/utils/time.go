package utils

import (
	"math"
	"time"
)

// FormatCallDate formats a local timestamp as DD-MM-YY
func FormatCallDate(t time.Time) string {
	return t.Format("02-01-06")
}

// FormatCallTime formats a local timestamp as HH:MM in 24-hour format
func FormatCallTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatPeriod formats a window bound for message bodies and subjects
func FormatPeriod(t time.Time) string {
	return t.Format("January 02, 2006 15:04")
}

// FormatFileStamp formats a window bound for report filenames
func FormatFileStamp(t time.Time) string {
	return t.Format("20060102_1504")
}

// Round2 rounds a value to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SecondsToMinutes converts seconds to minutes, rounded to 2 decimal places
func SecondsToMinutes(seconds float64) float64 {
	return Round2(seconds / 60.0)
}
