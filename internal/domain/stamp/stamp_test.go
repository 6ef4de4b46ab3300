package stamp

import (
	"testing"
	"time"
)

func TestFormatSortsLexicographically(t *testing.T) {
	early := Format(time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC))
	late := Format(time.Date(2024, 3, 1, 10, 0, 0, 500, time.UTC))
	if !(early < late) {
		t.Fatalf("Format() %q should sort before %q", early, late)
	}
	if len(early) != len(late) {
		t.Fatalf("Format() widths differ: %q %q", early, late)
	}
}

func TestFormatConvertsToUTC(t *testing.T) {
	ny := time.FixedZone("EST", -5*60*60)
	got := Format(time.Date(2024, 1, 1, 20, 0, 0, 0, ny))
	if got != "2024-01-02T01:00:00.000000Z" {
		t.Fatalf("Format() = %q", got)
	}

	parsed, err := Parse(got)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !parsed.Equal(time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)) {
		t.Fatalf("Parse() = %v", parsed)
	}
}
