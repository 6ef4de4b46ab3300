package crash

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/logging"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/bootstrap/telemetry"
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/ids"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/stamp"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
)

type CreateCrashInput struct {
	CreatorID   string
	Source      string
	CollisionID string
	OccurredAt  time.Time
	Borough     string
	ZipCode     string
	Latitude    float64
	Longitude   float64
	OnStreet    string
	CrossStreet string
	OffStreet   string
	Casualties  domaincrash.Casualties
	Summary     string
	Photos      []string
	Vehicles    []domaincrash.Vehicle
}

// CreateCrash stores a new report and links it to the creator's submissions.
func (s *Service) CreateCrash(ctx context.Context, input CreateCrashInput) (detail CrashDetail, err error) {
	if err := s.checkReady(ctx, true, true); err != nil {
		return CrashDetail{}, err
	}

	creatorID, err := ids.Normalize(input.CreatorID, domaincrash.ErrInvalidUserID)
	if err != nil {
		return CrashDetail{}, err
	}
	now := s.now()
	if err := domaincrash.ValidateOccurredAt(input.OccurredAt, now); err != nil {
		return CrashDetail{}, err
	}
	if err := input.Casualties.Validate(); err != nil {
		return CrashDetail{}, err
	}
	borough := strings.TrimSpace(input.Borough)
	if borough == "" {
		return CrashDetail{}, errs.Wrap(domaincrash.ErrMissingField, "borough")
	}

	ctx, span := telemetry.Start(ctx, tracerName, "crash.CreateCrash", attribute.String("borough", borough))
	defer func() { telemetry.End(span, err) }()

	crash := ports.Crash{
		CrashID:     ids.New(),
		Photos:      input.Photos,
		Source:      strings.TrimSpace(input.Source),
		CollisionID: strings.TrimSpace(input.CollisionID),
		OccurredAt:  stamp.Format(input.OccurredAt),
		Borough:     borough,
		ZipCode:     strings.TrimSpace(input.ZipCode),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		OnStreet:    strings.TrimSpace(input.OnStreet),
		CrossStreet: strings.TrimSpace(input.CrossStreet),
		OffStreet:   strings.TrimSpace(input.OffStreet),
		Casualties:  input.Casualties,
		Summary:     strings.TrimSpace(input.Summary),
		CreatedBy:   creatorID,
		CreatedAt:   stamp.Format(now),
	}
	if crash.CollisionID == "" {
		crash.CollisionID = domaincrash.UnknownCollision
	}
	crash.Vehicles = make([]domaincrash.Vehicle, 0, len(input.Vehicles))
	for _, vehicle := range input.Vehicles {
		if vehicle.ID == "" {
			vehicle.ID = ids.New()
		}
		crash.Vehicles = append(crash.Vehicles, vehicle)
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.crash"),
		slog.String("crash_id", crash.CrashID),
		slog.String("creator_id", creatorID),
	)

	var created ports.Crash
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		creator, err := s.users.GetUser(txCtx, creatorID)
		if err != nil {
			return errs.Wrap(err, "load crash creator")
		}
		if crash.Source == "" {
			crash.Source = creator.Handle
		}

		created, err = s.crashes.CreateCrash(txCtx, crash)
		if err != nil {
			return err
		}
		return s.users.AddSubmittedCrash(txCtx, creatorID, created.CrashID)
	}); err != nil {
		return CrashDetail{}, err
	}

	crashesCreated.Inc()
	s.deleteCacheBestEffort(logCtx, statsCacheKey)

	logging.Info(logCtx, "crash created", slog.String("borough", borough), slog.Int("vehicles", len(created.Vehicles)))
	return newCrashDetail(created, creatorID), nil
}

type GetCrashInput struct {
	CrashID string
	// ViewerID is optional; when set the detail reports the viewer's own vote.
	ViewerID string
}

func (s *Service) GetCrash(ctx context.Context, input GetCrashInput) (CrashDetail, error) {
	if err := s.checkReady(ctx, false, false); err != nil {
		return CrashDetail{}, err
	}

	crashID, err := ids.Normalize(input.CrashID, domaincrash.ErrInvalidCrashID)
	if err != nil {
		return CrashDetail{}, err
	}
	viewerID := ""
	if strings.TrimSpace(input.ViewerID) != "" {
		viewerID, err = ids.Normalize(input.ViewerID, domaincrash.ErrInvalidUserID)
		if err != nil {
			return CrashDetail{}, err
		}
	}

	crash, err := s.crashes.GetCrash(ctx, crashID)
	if err != nil {
		return CrashDetail{}, err
	}
	return newCrashDetail(crash, viewerID), nil
}

// ListCrashes returns crashes newest first. limit <= 0 returns all.
func (s *Service) ListCrashes(ctx context.Context, limit int) ([]CrashListItem, error) {
	if err := s.checkReady(ctx, false, false); err != nil {
		return nil, err
	}

	crashes, err := s.crashes.ListCrashes(ctx, limit)
	if err != nil {
		return nil, err
	}
	return newCrashListItems(crashes), nil
}

// SearchCrashes filters by keyword, borough and an inclusive date range.
func (s *Service) SearchCrashes(ctx context.Context, criteria domaincrash.SearchCriteria) ([]CrashListItem, error) {
	if err := s.checkReady(ctx, false, false); err != nil {
		return nil, err
	}

	normalized, err := criteria.Normalize()
	if err != nil {
		return nil, err
	}

	filter := ports.CrashSearchFilter{
		Keyword: normalized.Keyword,
		Borough: normalized.Borough,
		Limit:   ResultLimit,
	}
	if normalized.From != nil {
		filter.FromInclusive = stamp.Format(*normalized.From)
	}
	if upper, ok := normalized.UpperBound(); ok {
		filter.ToExclusive = stamp.Format(upper)
	}

	crashes, err := s.crashes.SearchCrashes(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newCrashListItems(crashes), nil
}

// LookupVehicles finds embedded vehicles matching every given field.
func (s *Service) LookupVehicles(ctx context.Context, criteria domaincrash.VehicleCriteria) ([]ports.VehicleMatch, error) {
	if err := s.checkReady(ctx, false, false); err != nil {
		return nil, err
	}

	normalized, err := criteria.Normalize()
	if err != nil {
		return nil, err
	}
	return s.crashes.LookupVehicles(ctx, normalized, ResultLimit)
}
