package model

import (
	"gorm.io/datatypes"

	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
)

type Crash struct {
	CrashID            string                                         `gorm:"column:crash_id;type:text;primaryKey"`
	Photos             datatypes.JSONSlice[string]                    `gorm:"column:photos;not null"`
	Source             string                                         `gorm:"column:source;type:text;not null"`
	CollisionID        string                                         `gorm:"column:collision_id;type:text;not null"`
	OccurredAt         string                                         `gorm:"column:occurred_at;type:text;not null;index"`
	Borough            string                                         `gorm:"column:borough;type:text;not null;index"`
	ZipCode            string                                         `gorm:"column:zip_code;type:text;not null"`
	Latitude           float64                                        `gorm:"column:latitude;not null;default:0"`
	Longitude          float64                                        `gorm:"column:longitude;not null;default:0"`
	OnStreet           string                                         `gorm:"column:on_street;type:text;not null"`
	CrossStreet        string                                         `gorm:"column:cross_street;type:text;not null"`
	OffStreet          string                                         `gorm:"column:off_street;type:text;not null"`
	PersonsInjured     int                                            `gorm:"column:persons_injured;not null;default:0"`
	PersonsKilled      int                                            `gorm:"column:persons_killed;not null;default:0"`
	PedestriansInjured int                                            `gorm:"column:pedestrians_injured;not null;default:0"`
	PedestriansKilled  int                                            `gorm:"column:pedestrians_killed;not null;default:0"`
	CyclistsInjured    int                                            `gorm:"column:cyclists_injured;not null;default:0"`
	CyclistsKilled     int                                            `gorm:"column:cyclists_killed;not null;default:0"`
	MotoristsInjured   int                                            `gorm:"column:motorists_injured;not null;default:0"`
	MotoristsKilled    int                                            `gorm:"column:motorists_killed;not null;default:0"`
	Summary            string                                         `gorm:"column:summary;type:text;not null"`
	CreatedBy          string                                         `gorm:"column:created_by;type:text;not null;index"`
	CreatedAt          string                                         `gorm:"column:created_at;type:text;not null"`
	Vehicles           datatypes.JSONSlice[domaincrash.Vehicle]       `gorm:"column:vehicles;not null"`
	WitnessReports     datatypes.JSONSlice[domaincrash.WitnessReport] `gorm:"column:witness_reports;not null"`
	Comments           datatypes.JSONSlice[domaincrash.Comment]       `gorm:"column:comments;not null"`
	AccuracyPercentage int                                            `gorm:"column:accuracy_percentage;not null;default:0"`
	Revision           uint64                                         `gorm:"column:revision;not null;default:1"`
}

func (Crash) TableName() string {
	return "crashes"
}
