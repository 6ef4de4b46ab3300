package ports

import (
	"context"

	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var ErrCrashNotFound = errs.New(errs.KindNotFound, "crash not found")

type Crash struct {
	CrashID            string
	Photos             []string
	Source             string
	CollisionID        string
	OccurredAt         string
	Borough            string
	ZipCode            string
	Latitude           float64
	Longitude          float64
	OnStreet           string
	CrossStreet        string
	OffStreet          string
	Casualties         domaincrash.Casualties
	Summary            string
	CreatedBy          string
	CreatedAt          string
	Vehicles           []domaincrash.Vehicle
	WitnessReports     []domaincrash.WitnessReport
	Comments           []domaincrash.Comment
	AccuracyPercentage int
	Revision           uint64
}

type CrashSearchFilter struct {
	Keyword string
	Borough string
	// FromInclusive and ToExclusive use the persisted timestamp layout.
	FromInclusive string
	ToExclusive   string
	Limit         int
}

type VehicleMatch struct {
	CrashID string
	Vehicle domaincrash.Vehicle
}

type BoroughYearCount struct {
	Borough string
	Year    string
	Crashes int64
	domaincrash.Casualties
}

type BoroughTotals struct {
	Borough string
	Crashes int64
	domaincrash.Casualties
}

type CrashStatistics struct {
	ByBoroughYear []BoroughYearCount
	ByBorough     []BoroughTotals
}

type CrashReadRepository interface {
	GetCrash(ctx context.Context, crashID string) (Crash, error)
	ListCrashes(ctx context.Context, limit int) ([]Crash, error)
	SearchCrashes(ctx context.Context, filter CrashSearchFilter) ([]Crash, error)
	LookupVehicles(ctx context.Context, criteria domaincrash.VehicleCriteria, limit int) ([]VehicleMatch, error)
	CountWitnessVotesByRater(ctx context.Context, raterID string) (int64, error)
	Statistics(ctx context.Context) (CrashStatistics, error)
}

type CrashRepository interface {
	CrashReadRepository
	CreateCrash(ctx context.Context, crash Crash) (Crash, error)
	// SaveWitnessReports writes reports and accuracy together, conditional on revision.
	SaveWitnessReports(ctx context.Context, crashID string, revision uint64, reports []domaincrash.WitnessReport, accuracy int) error
	// SaveComments replaces the thread, conditional on revision.
	SaveComments(ctx context.Context, crashID string, revision uint64, comments []domaincrash.Comment) error
}
