package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelTime(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return base }

	cases := map[string]struct {
		at   time.Time
		want string
	}{
		"zero":        {time.Time{}, "Just now"},
		"seconds":     {base.Add(-30 * time.Second), "Just now"},
		"minutes":     {base.Add(-5 * time.Minute), "5m ago"},
		"hours":       {base.Add(-3 * time.Hour), "3h ago"},
		"days":        {base.Add(-49 * time.Hour), "2d ago"},
		"exactminute": {base.Add(-time.Minute), "1m ago"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, relTime(now, tc.at))
		})
	}
}
