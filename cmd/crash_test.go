package cmd

import (
	"bytes"
	"strings"
	"testing"

	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
)

func TestParseVehicleFlag(t *testing.T) {
	v, err := parseVehicleFlag("plate=ABC1234, type=Sedan,make=Toyota,model=Camry,year=2017,damage=front")
	if err != nil {
		t.Fatalf("parseVehicleFlag() error = %v", err)
	}
	if v.VehicleID != "ABC1234" || v.VehicleType != "Sedan" || v.Make != "Toyota" || v.Model != "Camry" || v.Damage != "front" {
		t.Fatalf("vehicle = %+v", v)
	}
	if v.Year == nil || *v.Year != 2017 {
		t.Fatalf("year = %v", v.Year)
	}
}

func TestParseVehicleFlagRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"plate", "year=twenty", "color=red"} {
		if _, err := parseVehicleFlag(raw); err == nil {
			t.Fatalf("parseVehicleFlag(%q) expected error", raw)
		}
	}
}

func TestParseDayFlag(t *testing.T) {
	day, err := parseDayFlag("")
	if err != nil || day != nil {
		t.Fatalf("parseDayFlag(\"\") = %v, %v", day, err)
	}
	day, err = parseDayFlag("2024-03-09")
	if err != nil || day == nil || day.Day() != 9 {
		t.Fatalf("parseDayFlag() = %v, %v", day, err)
	}
	if _, err := parseDayFlag("03/09/2024"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestRenderCrashDetailThreadsReplies(t *testing.T) {
	parent := "c1"
	detail := crash.CrashDetail{
		Crash: ports.Crash{
			CrashID:            "crash-1",
			Borough:            "QUEENS",
			AccuracyPercentage: 75,
		},
		Witnesses: []crash.WitnessView{{Display: "Ann Lee", Vote: domaincrash.VoteVerify}},
		TopLevel:  []domaincrash.Comment{{ID: "c1", FirstName: "Ann", LastName: "Lee", Text: "saw it"}},
		Replies:   []domaincrash.Comment{{ID: "c2", FirstName: "Bo", LastName: "Kim", Text: "me too", ParentCommentID: &parent}},
	}

	var buf bytes.Buffer
	if err := renderCrashDetail(&buf, detail); err != nil {
		t.Fatalf("renderCrashDetail() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"crash-1", "75%", "Ann Lee: verify", "> Bo Kim: me too"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
