package ui

import (
	"fmt"
	"time"
)

// The emotion tags a post can carry; "All" is the feed filter wildcard.
var emotions = []string{"All", "Love", "Pain", "Friendship", "Life", "Hope"}

// relTime renders a post timestamp the way the feed shows it.
func relTime(now func() time.Time, t time.Time) string {
	if t.IsZero() {
		return "Just now"
	}
	d := now().Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
