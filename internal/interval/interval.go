// Package interval holds the date arithmetic every availability decision
// is built on. Stays are half-open [check-in, check-out): the checkout
// instant itself is free, so a room vacated on day X can be re-booked
// starting day X.
package interval

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any
// instant. Ranges that only touch at a boundary do not overlap.
//
// The repository layer renders this same inequality in SQL
// (check_in < ? AND check_out > ?); keep the two in sync.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// NormalizeDay pins t to midnight UTC. All stay boundaries pass through
// here so that night counts never drift across DST transitions.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the whole-night count between check-in and check-out,
// measured in calendar days at UTC. A same-day range counts zero nights.
func Nights(checkIn, checkOut time.Time) int {
	in := NormalizeDay(checkIn)
	out := NormalizeDay(checkOut)
	return int(out.Sub(in) / (24 * time.Hour))
}
