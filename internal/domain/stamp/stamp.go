// Package stamp formats persisted timestamps.
package stamp

import "time"

// Layout is fixed-width so persisted timestamps sort lexicographically.
const Layout = "2006-01-02T15:04:05.000000Z"

func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

func Parse(raw string) (time.Time, error) {
	return time.Parse(Layout, raw)
}
