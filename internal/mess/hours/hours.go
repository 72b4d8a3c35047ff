// Package hours evaluates mess operating windows against wall-clock time.
//
// Windows are daily and recurring. A window whose close is earlier than its
// open wraps past midnight, so "22:00"-"02:00" covers late evening and the
// early hours of the next day.
package hours

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kampuskart/internal/mess/model"
)

const minutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("invalid time of day")

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3 PM", "3PM"}

// ParseClock converts a wall-clock string into minutes after midnight.
// "24:00" is accepted as end of day.
func ParseClock(s string) (int, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return 0, ErrInvalidClock
	}
	if v == "24:00" {
		return minutesPerDay, nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
}

// FormatClock renders minutes after midnight in the canonical HH:MM form.
func FormatClock(minutes int) string {
	if minutes == minutesPerDay {
		return "24:00"
	}
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinuteOfDay returns the wall-clock minute of t in t's own location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Contains reports whether minute falls inside the window. A nil window or one
// with a missing or unparseable bound never matches.
func Contains(w *model.MealWindow, minute int) bool {
	if w == nil || w.Open == "" || w.Close == "" {
		return false
	}
	open, err := ParseClock(w.Open)
	if err != nil {
		return false
	}
	closeAt, err := ParseClock(w.Close)
	if err != nil {
		return false
	}
	if closeAt < open {
		return minute >= open || minute < closeAt
	}
	return minute >= open && minute < closeAt
}

type namedWindow struct {
	name   string
	window *model.MealWindow
}

func windows(h model.OperatingHours) []namedWindow {
	return []namedWindow{
		{"breakfast", h.Breakfast},
		{"lunch", h.Lunch},
		{"eveningTea", h.EveningTea},
		{"dinner", h.Dinner},
	}
}

// CurrentWindow returns the name of the first window serving at t.
func CurrentWindow(h model.OperatingHours, at time.Time) (string, bool) {
	minute := MinuteOfDay(at)
	for _, nw := range windows(h) {
		if Contains(nw.window, minute) {
			return nw.name, true
		}
	}
	return "", false
}

// IsCurrentlyOpen reports whether any window of the mess is serving at t.
// Callers convert t into the campus location first.
func IsCurrentlyOpen(m *model.Mess, at time.Time) bool {
	if m == nil {
		return false
	}
	_, ok := CurrentWindow(m.OperatingHours, at)
	return ok
}

// Validate checks every present window has parseable bounds and that prices,
// where given, are non-negative. Prices are only allowed on lunch and dinner.
func Validate(h model.OperatingHours) error {
	for _, nw := range windows(h) {
		w := nw.window
		if w == nil {
			continue
		}
		if _, err := ParseClock(w.Open); err != nil {
			return fmt.Errorf("%s.open: %w", nw.name, err)
		}
		if _, err := ParseClock(w.Close); err != nil {
			return fmt.Errorf("%s.close: %w", nw.name, err)
		}
		if w.Price != nil {
			if nw.name != "lunch" && nw.name != "dinner" {
				return fmt.Errorf("%s: price is only supported for lunch and dinner", nw.name)
			}
			if *w.Price < 0 {
				return fmt.Errorf("%s.price must not be negative", nw.name)
			}
		}
	}
	return nil
}

// Normalize rewrites window bounds into HH:MM. It must be called after Validate.
func Normalize(h model.OperatingHours) model.OperatingHours {
	out := h
	for _, p := range []**model.MealWindow{&out.Breakfast, &out.Lunch, &out.EveningTea, &out.Dinner} {
		if *p == nil {
			continue
		}
		w := **p
		if m, err := ParseClock(w.Open); err == nil {
			w.Open = FormatClock(m)
		}
		if m, err := ParseClock(w.Close); err == nil {
			w.Close = FormatClock(m)
		}
		*p = &w
	}
	return out
}
