package crash

import (
	"context"
	"errors"
	"testing"
	"time"

	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

func intPtr(v int) *int { return &v }

func TestCreateCrashDefaultsAndLinks(t *testing.T) {
	env := setupService(t, Limits{})
	ctx := context.Background()
	creator := env.createUser(t, "creator", "Cara", "Diaz")

	detail, err := env.svc.CreateCrash(ctx, CreateCrashInput{
		CreatorID:  creator.UserID,
		OccurredAt: time.Now().Add(-2 * time.Hour),
		Borough:    "BROOKLYN",
		Summary:    "Van rear-ended a sedan",
		Vehicles: []domaincrash.Vehicle{
			{VehicleType: "Van", Make: "Ford", Model: "Transit", Year: intPtr(2018)},
		},
	})
	if err != nil {
		t.Fatalf("CreateCrash() error = %v", err)
	}
	if detail.Crash.Source != "creator" || detail.Crash.CollisionID != domaincrash.UnknownCollision {
		t.Fatalf("CreateCrash() defaults = source %q collision %q", detail.Crash.Source, detail.Crash.CollisionID)
	}
	if len(detail.Crash.Vehicles) != 1 || detail.Crash.Vehicles[0].ID == "" {
		t.Fatalf("CreateCrash() vehicles = %+v", detail.Crash.Vehicles)
	}

	submitted := env.reloadUser(t, creator.UserID).SubmittedCrashIDs
	if len(submitted) != 1 || submitted[0] != detail.Crash.CrashID {
		t.Fatalf("submitted crash ids = %v", submitted)
	}
}

func TestCreateCrashValidation(t *testing.T) {
	env := setupService(t, Limits{})
	ctx := context.Background()
	creator := env.createUser(t, "creator", "Cara", "Diaz")

	_, err := env.svc.CreateCrash(ctx, CreateCrashInput{CreatorID: creator.UserID, OccurredAt: time.Now().Add(time.Hour), Borough: "BRONX"})
	if !errors.Is(err, domaincrash.ErrFutureCrash) {
		t.Fatalf("CreateCrash(future) error = %v", err)
	}

	_, err = env.svc.CreateCrash(ctx, CreateCrashInput{
		CreatorID:  creator.UserID,
		OccurredAt: time.Now().Add(-time.Hour),
		Borough:    "BRONX",
		Casualties: domaincrash.Casualties{CyclistsKilled: -1},
	})
	if !errors.Is(err, domaincrash.ErrNegativeCount) {
		t.Fatalf("CreateCrash(negative) error = %v", err)
	}

	_, err = env.svc.CreateCrash(ctx, CreateCrashInput{CreatorID: creator.UserID, OccurredAt: time.Now().Add(-time.Hour)})
	if !errors.Is(err, domaincrash.ErrMissingField) {
		t.Fatalf("CreateCrash(no borough) error = %v", err)
	}

	_, err = env.svc.CreateCrash(ctx, CreateCrashInput{CreatorID: "11111111-1111-1111-1111-111111111111", OccurredAt: time.Now().Add(-time.Hour), Borough: "BRONX"})
	if errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("CreateCrash(missing creator) error = %v", err)
	}

	items, err := env.svc.ListCrashes(ctx, 0)
	if err != nil {
		t.Fatalf("ListCrashes() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("ListCrashes() = %d items after failed creates", len(items))
	}
}

func TestSearchCrashesDateRangeIncludesEndDay(t *testing.T) {
	env := setupService(t, Limits{})
	ctx := context.Background()
	creator := env.createUser(t, "creator", "Cara", "Diaz")

	create := func(at time.Time, borough string, summary string) {
		t.Helper()
		if _, err := env.svc.CreateCrash(ctx, CreateCrashInput{CreatorID: creator.UserID, OccurredAt: at, Borough: borough, Summary: summary}); err != nil {
			t.Fatalf("CreateCrash() error = %v", err)
		}
	}
	create(time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC), "QUEENS", "late evening sideswipe")
	create(time.Date(2024, 3, 2, 0, 0, 1, 0, time.UTC), "QUEENS", "just after midnight")
	create(time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC), "BRONX", "Cyclist doored")

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	items, err := env.svc.SearchCrashes(ctx, domaincrash.SearchCriteria{From: &from, To: &to, Borough: "All"})
	if err != nil {
		t.Fatalf("SearchCrashes() error = %v", err)
	}
	if len(items) != 1 || items[0].Summary != "late evening sideswipe" {
		t.Fatalf("SearchCrashes() = %+v", items)
	}

	items, err = env.svc.SearchCrashes(ctx, domaincrash.SearchCriteria{Keyword: "CYCLIST"})
	if err != nil {
		t.Fatalf("SearchCrashes(keyword) error = %v", err)
	}
	if len(items) != 1 || items[0].Borough != "BRONX" {
		t.Fatalf("SearchCrashes(keyword) = %+v", items)
	}

	if _, err := env.svc.SearchCrashes(ctx, domaincrash.SearchCriteria{Borough: "All"}); !errors.Is(err, domaincrash.ErrNoSearchCriteria) {
		t.Fatalf("SearchCrashes(all only) error = %v", err)
	}
}

func TestLookupVehicles(t *testing.T) {
	env := setupService(t, Limits{})
	ctx := context.Background()
	creator := env.createUser(t, "creator", "Cara", "Diaz")

	detail, err := env.svc.CreateCrash(ctx, CreateCrashInput{
		CreatorID:  creator.UserID,
		OccurredAt: time.Now().Add(-time.Hour),
		Borough:    "BRONX",
		Vehicles: []domaincrash.Vehicle{
			{VehicleID: "XYZ987", VehicleType: "Sedan", Make: "Honda", Model: "Civic", Year: intPtr(2020)},
			{VehicleType: "Bike", Make: "Trek"},
		},
	})
	if err != nil {
		t.Fatalf("CreateCrash() error = %v", err)
	}

	matches, err := env.svc.LookupVehicles(ctx, domaincrash.VehicleCriteria{Make: " honda ", Year: "2020"})
	if err != nil {
		t.Fatalf("LookupVehicles() error = %v", err)
	}
	if len(matches) != 1 || matches[0].CrashID != detail.Crash.CrashID || matches[0].Vehicle.VehicleID != "XYZ987" {
		t.Fatalf("LookupVehicles() = %+v", matches)
	}

	if _, err := env.svc.LookupVehicles(ctx, domaincrash.VehicleCriteria{}); !errors.Is(err, domaincrash.ErrNoSearchCriteria) {
		t.Fatalf("LookupVehicles(empty) error = %v", err)
	}
}

func TestStatisticsCacheInvalidatedOnCreate(t *testing.T) {
	env := setupService(t, Limits{})
	ctx := context.Background()
	creator := env.createUser(t, "creator", "Cara", "Diaz")
	env.createCrash(t, creator.UserID)

	stats, err := env.svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if len(stats.ByBorough) != 1 || stats.ByBorough[0].Crashes != 1 {
		t.Fatalf("Statistics() = %+v", stats.ByBorough)
	}
	if _, ok := env.cache.data[statsCacheKey]; !ok {
		t.Fatalf("Statistics() did not populate cache")
	}

	env.createCrash(t, creator.UserID)
	if _, ok := env.cache.data[statsCacheKey]; ok {
		t.Fatalf("CreateCrash() did not invalidate stats cache")
	}

	stats, err = env.svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats.ByBorough[0].Crashes != 2 {
		t.Fatalf("Statistics() after create = %+v", stats.ByBorough)
	}
}

func TestStatisticsServedFromCache(t *testing.T) {
	env := setupService(t, Limits{})
	env.cache.data[statsCacheKey] = `{"ByBoroughYear":[],"ByBorough":[{"Borough":"STATEN ISLAND","Crashes":42}]}`

	stats, err := env.svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if len(stats.ByBorough) != 1 || stats.ByBorough[0].Crashes != 42 {
		t.Fatalf("Statistics() = %+v", stats)
	}
}

func TestGetCrashViewerState(t *testing.T) {
	env := setupService(t, Limits{})
	ctx := context.Background()
	creator := env.createUser(t, "creator", "Cara", "Diaz")
	voter := env.createUser(t, "voter", "Vic", "Ortiz")
	crash := env.createCrash(t, creator.UserID)

	if _, err := env.svc.CastWitnessVote(ctx, CastWitnessVoteInput{CrashID: crash.Crash.CrashID, VoterID: voter.UserID, Vote: "reject"}); err != nil {
		t.Fatalf("CastWitnessVote() error = %v", err)
	}

	asVoter, err := env.svc.GetCrash(ctx, GetCrashInput{CrashID: crash.Crash.CrashID, ViewerID: voter.UserID})
	if err != nil {
		t.Fatalf("GetCrash() error = %v", err)
	}
	if !asVoter.HasRejected || asVoter.HasVerified {
		t.Fatalf("GetCrash(voter) state = %v/%v", asVoter.HasVerified, asVoter.HasRejected)
	}
	if len(asVoter.Witnesses) != 1 || asVoter.Witnesses[0].Display != "Vic Ortiz" {
		t.Fatalf("GetCrash(voter) witnesses = %+v", asVoter.Witnesses)
	}

	asCreator, err := env.svc.GetCrash(ctx, GetCrashInput{CrashID: crash.Crash.CrashID, ViewerID: creator.UserID})
	if err != nil {
		t.Fatalf("GetCrash() error = %v", err)
	}
	if asCreator.HasRejected || asCreator.HasVerified {
		t.Fatalf("GetCrash(creator) state = %v/%v", asCreator.HasVerified, asCreator.HasRejected)
	}

	if _, err := env.svc.GetCrash(ctx, GetCrashInput{CrashID: crash.Crash.CrashID, ViewerID: "bad"}); !errors.Is(err, domaincrash.ErrInvalidUserID) {
		t.Fatalf("GetCrash(bad viewer) error = %v", err)
	}
}
