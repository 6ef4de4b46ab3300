package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/infrastructure/persistence/sqlite/model"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
)

type CrashRepository struct {
	db *gorm.DB
}

var _ ports.CrashRepository = (*CrashRepository)(nil)

func NewCrashRepository(db *gorm.DB) *CrashRepository {
	return &CrashRepository{db: db}
}

func (r *CrashRepository) CreateCrash(ctx context.Context, crash ports.Crash) (ports.Crash, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Crash{}, err
	}

	row := toCrashRow(crash)
	row.Revision = 1
	if err := db.Create(&row).Error; err != nil {
		return ports.Crash{}, dbError(err, "insert crash")
	}
	return mapCrash(row), nil
}

func (r *CrashRepository) GetCrash(ctx context.Context, crashID string) (ports.Crash, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.Crash{}, err
	}

	var row model.Crash
	if err := db.Where("crash_id = ?", crashID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Crash{}, ports.ErrCrashNotFound
		}
		return ports.Crash{}, dbError(err, "query crash")
	}
	return mapCrash(row), nil
}

func (r *CrashRepository) ListCrashes(ctx context.Context, limit int) ([]ports.Crash, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Crash{}).Order("occurred_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Crash
	if err := query.Find(&rows).Error; err != nil {
		return nil, dbError(err, "query crashes")
	}
	return mapCrashes(rows), nil
}

func (r *CrashRepository) SearchCrashes(ctx context.Context, filter ports.CrashSearchFilter) ([]ports.Crash, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Crash{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := "%" + escapeLike(keyword) + "%"
		query = query.Where(
			"summary LIKE ? ESCAPE '\\' OR cross_street LIKE ? ESCAPE '\\' OR on_street LIKE ? ESCAPE '\\' OR off_street LIKE ? ESCAPE '\\' OR borough LIKE ? ESCAPE '\\' OR collision_id LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern, pattern, pattern, pattern,
		)
	}
	if borough := strings.TrimSpace(filter.Borough); borough != "" {
		query = query.Where("borough = ?", borough)
	}
	if filter.FromInclusive != "" {
		query = query.Where("occurred_at >= ?", filter.FromInclusive)
	}
	if filter.ToExclusive != "" {
		query = query.Where("occurred_at < ?", filter.ToExclusive)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []model.Crash
	if err := query.Order("occurred_at desc").Find(&rows).Error; err != nil {
		return nil, dbError(err, "search crashes")
	}
	return mapCrashes(rows), nil
}

func (r *CrashRepository) LookupVehicles(ctx context.Context, criteria domaincrash.VehicleCriteria, limit int) ([]ports.VehicleMatch, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	conds := make([]string, 0, 5)
	args := make([]any, 0, 5)
	addText := func(path string, value string) {
		if value == "" {
			return
		}
		conds = append(conds, "lower(json_extract(v.value, '"+path+"')) = lower(?)")
		args = append(args, value)
	}
	addText("$.vehicleId", criteria.PlateID)
	addText("$.vehicleType", criteria.VehicleType)
	addText("$.make", criteria.Make)
	addText("$.model", criteria.Model)
	if criteria.Year != "" {
		conds = append(conds, "json_extract(v.value, '$.year') = ?")
		if year, convErr := strconv.Atoi(criteria.Year); convErr == nil {
			args = append(args, year)
		} else {
			args = append(args, criteria.Year)
		}
	}
	if len(conds) == 0 {
		return nil, domaincrash.ErrNoSearchCriteria
	}

	query := db.Model(&model.Crash{}).
		Where("EXISTS (SELECT 1 FROM json_each(crashes.vehicles) AS v WHERE "+strings.Join(conds, " AND ")+")", args...).
		Order("occurred_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Crash
	if err := query.Find(&rows).Error; err != nil {
		return nil, dbError(err, "lookup vehicles")
	}

	matches := make([]ports.VehicleMatch, 0, len(rows))
	for _, row := range rows {
		for _, vehicle := range row.Vehicles {
			if criteria.Matches(vehicle) {
				matches = append(matches, ports.VehicleMatch{CrashID: row.CrashID, Vehicle: vehicle})
			}
		}
	}
	return matches, nil
}

func (r *CrashRepository) CountWitnessVotesByRater(ctx context.Context, raterID string) (int64, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Raw(
		"SELECT COUNT(*) FROM crashes, json_each(crashes.witness_reports) AS wr WHERE json_extract(wr.value, '$.raterId') = ?",
		raterID,
	).Scan(&count).Error; err != nil {
		return 0, dbError(err, "count witness votes")
	}
	return count, nil
}

type statsRow struct {
	Borough            string `gorm:"column:borough"`
	Year               string `gorm:"column:year"`
	Crashes            int64  `gorm:"column:crashes"`
	PersonsInjured     int    `gorm:"column:persons_injured"`
	PersonsKilled      int    `gorm:"column:persons_killed"`
	PedestriansInjured int    `gorm:"column:pedestrians_injured"`
	PedestriansKilled  int    `gorm:"column:pedestrians_killed"`
	CyclistsInjured    int    `gorm:"column:cyclists_injured"`
	CyclistsKilled     int    `gorm:"column:cyclists_killed"`
	MotoristsInjured   int    `gorm:"column:motorists_injured"`
	MotoristsKilled    int    `gorm:"column:motorists_killed"`
}

func (s statsRow) casualties() domaincrash.Casualties {
	return domaincrash.Casualties{
		PersonsInjured:     s.PersonsInjured,
		PersonsKilled:      s.PersonsKilled,
		PedestriansInjured: s.PedestriansInjured,
		PedestriansKilled:  s.PedestriansKilled,
		CyclistsInjured:    s.CyclistsInjured,
		CyclistsKilled:     s.CyclistsKilled,
		MotoristsInjured:   s.MotoristsInjured,
		MotoristsKilled:    s.MotoristsKilled,
	}
}

const statsSums = "COUNT(*) AS crashes, " +
	"COALESCE(SUM(persons_injured), 0) AS persons_injured, COALESCE(SUM(persons_killed), 0) AS persons_killed, " +
	"COALESCE(SUM(pedestrians_injured), 0) AS pedestrians_injured, COALESCE(SUM(pedestrians_killed), 0) AS pedestrians_killed, " +
	"COALESCE(SUM(cyclists_injured), 0) AS cyclists_injured, COALESCE(SUM(cyclists_killed), 0) AS cyclists_killed, " +
	"COALESCE(SUM(motorists_injured), 0) AS motorists_injured, COALESCE(SUM(motorists_killed), 0) AS motorists_killed"

func (r *CrashRepository) Statistics(ctx context.Context) (ports.CrashStatistics, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.CrashStatistics{}, err
	}

	var yearly []statsRow
	if err := db.Model(&model.Crash{}).
		Select("borough, substr(occurred_at, 1, 4) AS year, " + statsSums).
		Group("borough, substr(occurred_at, 1, 4)").
		Order("borough asc, year asc").
		Scan(&yearly).Error; err != nil {
		return ports.CrashStatistics{}, dbError(err, "aggregate crashes by borough and year")
	}

	var totals []statsRow
	if err := db.Model(&model.Crash{}).
		Select("borough, '' AS year, " + statsSums).
		Group("borough").
		Order("borough asc").
		Scan(&totals).Error; err != nil {
		return ports.CrashStatistics{}, dbError(err, "aggregate crashes by borough")
	}

	stats := ports.CrashStatistics{
		ByBoroughYear: make([]ports.BoroughYearCount, 0, len(yearly)),
		ByBorough:     make([]ports.BoroughTotals, 0, len(totals)),
	}
	for _, row := range yearly {
		stats.ByBoroughYear = append(stats.ByBoroughYear, ports.BoroughYearCount{
			Borough:    row.Borough,
			Year:       row.Year,
			Crashes:    row.Crashes,
			Casualties: row.casualties(),
		})
	}
	for _, row := range totals {
		stats.ByBorough = append(stats.ByBorough, ports.BoroughTotals{
			Borough:    row.Borough,
			Crashes:    row.Crashes,
			Casualties: row.casualties(),
		})
	}
	return stats, nil
}

func (r *CrashRepository) SaveWitnessReports(ctx context.Context, crashID string, revision uint64, reports []domaincrash.WitnessReport, accuracy int) error {
	return r.conditionalUpdate(ctx, crashID, revision, "save witness reports", map[string]any{
		"witness_reports":     datatypes.NewJSONSlice(nonNil(reports)),
		"accuracy_percentage": accuracy,
	})
}

func (r *CrashRepository) SaveComments(ctx context.Context, crashID string, revision uint64, comments []domaincrash.Comment) error {
	return r.conditionalUpdate(ctx, crashID, revision, "save comments", map[string]any{
		"comments": datatypes.NewJSONSlice(nonNil(comments)),
	})
}

func (r *CrashRepository) conditionalUpdate(ctx context.Context, crashID string, revision uint64, op string, values map[string]any) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	values["revision"] = gorm.Expr("revision + 1")
	result := db.Model(&model.Crash{}).
		Where("crash_id = ? AND revision = ?", crashID, revision).
		Updates(values)
	if result.Error != nil {
		return dbError(result.Error, op)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&model.Crash{}).Where("crash_id = ?", crashID).Count(&count).Error; err != nil {
		return dbError(err, "count crash after missed update")
	}
	if count > 0 {
		return ports.ErrRevisionConflict
	}
	return ports.ErrNoUpdatePerformed
}

func toCrashRow(crash ports.Crash) model.Crash {
	return model.Crash{
		CrashID:            crash.CrashID,
		Photos:             datatypes.NewJSONSlice(nonNil(crash.Photos)),
		Source:             crash.Source,
		CollisionID:        crash.CollisionID,
		OccurredAt:         crash.OccurredAt,
		Borough:            crash.Borough,
		ZipCode:            crash.ZipCode,
		Latitude:           crash.Latitude,
		Longitude:          crash.Longitude,
		OnStreet:           crash.OnStreet,
		CrossStreet:        crash.CrossStreet,
		OffStreet:          crash.OffStreet,
		PersonsInjured:     crash.Casualties.PersonsInjured,
		PersonsKilled:      crash.Casualties.PersonsKilled,
		PedestriansInjured: crash.Casualties.PedestriansInjured,
		PedestriansKilled:  crash.Casualties.PedestriansKilled,
		CyclistsInjured:    crash.Casualties.CyclistsInjured,
		CyclistsKilled:     crash.Casualties.CyclistsKilled,
		MotoristsInjured:   crash.Casualties.MotoristsInjured,
		MotoristsKilled:    crash.Casualties.MotoristsKilled,
		Summary:            crash.Summary,
		CreatedBy:          crash.CreatedBy,
		CreatedAt:          crash.CreatedAt,
		Vehicles:           datatypes.NewJSONSlice(nonNil(crash.Vehicles)),
		WitnessReports:     datatypes.NewJSONSlice(nonNil(crash.WitnessReports)),
		Comments:           datatypes.NewJSONSlice(nonNil(crash.Comments)),
		AccuracyPercentage: crash.AccuracyPercentage,
		Revision:           crash.Revision,
	}
}

func mapCrash(row model.Crash) ports.Crash {
	return ports.Crash{
		CrashID:     row.CrashID,
		Photos:      nonNil([]string(row.Photos)),
		Source:      row.Source,
		CollisionID: row.CollisionID,
		OccurredAt:  row.OccurredAt,
		Borough:     row.Borough,
		ZipCode:     row.ZipCode,
		Latitude:    row.Latitude,
		Longitude:   row.Longitude,
		OnStreet:    row.OnStreet,
		CrossStreet: row.CrossStreet,
		OffStreet:   row.OffStreet,
		Casualties: domaincrash.Casualties{
			PersonsInjured:     row.PersonsInjured,
			PersonsKilled:      row.PersonsKilled,
			PedestriansInjured: row.PedestriansInjured,
			PedestriansKilled:  row.PedestriansKilled,
			CyclistsInjured:    row.CyclistsInjured,
			CyclistsKilled:     row.CyclistsKilled,
			MotoristsInjured:   row.MotoristsInjured,
			MotoristsKilled:    row.MotoristsKilled,
		},
		Summary:            row.Summary,
		CreatedBy:          row.CreatedBy,
		CreatedAt:          row.CreatedAt,
		Vehicles:           nonNil([]domaincrash.Vehicle(row.Vehicles)),
		WitnessReports:     nonNil([]domaincrash.WitnessReport(row.WitnessReports)),
		Comments:           nonNil([]domaincrash.Comment(row.Comments)),
		AccuracyPercentage: row.AccuracyPercentage,
		Revision:           row.Revision,
	}
}

func mapCrashes(rows []model.Crash) []ports.Crash {
	items := make([]ports.Crash, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapCrash(row))
	}
	return items
}
