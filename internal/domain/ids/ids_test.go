package ids

import (
	"errors"
	"testing"
)

var errInvalid = errors.New("invalid id")

func TestNormalizeCanonicalizes(t *testing.T) {
	got, err := Normalize("  6F9619FF-8B86-D011-B42D-00C04FC964FF ", errInvalid)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got != "6f9619ff-8b86-d011-b42d-00c04fc964ff" {
		t.Fatalf("Normalize() = %q", got)
	}
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-an-id", "507f1f77bcf86cd799439011"} {
		if _, err := Normalize(raw, errInvalid); !errors.Is(err, errInvalid) {
			t.Fatalf("Normalize(%q) error = %v, want errInvalid", raw, err)
		}
	}
}

func TestNewIsCanonical(t *testing.T) {
	id := New()
	got, err := Normalize(id, errInvalid)
	if err != nil || got != id {
		t.Fatalf("Normalize(New()) = %q, %v", got, err)
	}
}
