package crash

import (
	"strconv"
	"strings"
	"time"
)

const (
	BoroughAll       = "All"
	UnknownCollision = "N/A"
)

type Vehicle struct {
	ID                string `json:"id"`
	VehicleID         string `json:"vehicleId,omitempty"`
	VehicleType       string `json:"vehicleType"`
	Make              string `json:"make"`
	Model             string `json:"model"`
	Year              *int   `json:"year"`
	StateRegistration string `json:"stateRegistration"`
	Damage            string `json:"damage"`
}

type Casualties struct {
	PersonsInjured     int
	PersonsKilled      int
	PedestriansInjured int
	PedestriansKilled  int
	CyclistsInjured    int
	CyclistsKilled     int
	MotoristsInjured   int
	MotoristsKilled    int
}

func (c Casualties) Validate() error {
	for _, n := range []int{
		c.PersonsInjured, c.PersonsKilled,
		c.PedestriansInjured, c.PedestriansKilled,
		c.CyclistsInjured, c.CyclistsKilled,
		c.MotoristsInjured, c.MotoristsKilled,
	} {
		if n < 0 {
			return ErrNegativeCount
		}
	}
	return nil
}

// ValidateOccurredAt rejects crashes reported in the future.
func ValidateOccurredAt(occurredAt time.Time, now time.Time) error {
	if occurredAt.IsZero() {
		return ErrMissingField
	}
	if occurredAt.After(now) {
		return ErrFutureCrash
	}
	return nil
}

// SearchCriteria filters crash listings. To is inclusive of its whole day.
type SearchCriteria struct {
	Keyword string
	Borough string
	From    *time.Time
	To      *time.Time
}

// Normalize trims fields, drops the "All" borough and fails when nothing is left.
func (c SearchCriteria) Normalize() (SearchCriteria, error) {
	out := SearchCriteria{
		Keyword: strings.TrimSpace(c.Keyword),
		Borough: strings.TrimSpace(c.Borough),
		From:    c.From,
		To:      c.To,
	}
	if strings.EqualFold(out.Borough, BoroughAll) {
		out.Borough = ""
	}
	if out.Keyword == "" && out.Borough == "" && out.From == nil && out.To == nil {
		return SearchCriteria{}, ErrNoSearchCriteria
	}
	return out, nil
}

// UpperBound returns the exclusive end of the range: midnight after To.
func (c SearchCriteria) UpperBound() (time.Time, bool) {
	if c.To == nil {
		return time.Time{}, false
	}
	day := c.To.UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, 1), true
}

// VehicleCriteria matches embedded vehicles by case-insensitive exact fields.
type VehicleCriteria struct {
	PlateID     string
	VehicleType string
	Make        string
	Model       string
	Year        string
}

func (c VehicleCriteria) Normalize() (VehicleCriteria, error) {
	out := VehicleCriteria{
		PlateID:     strings.TrimSpace(c.PlateID),
		VehicleType: strings.TrimSpace(c.VehicleType),
		Make:        strings.TrimSpace(c.Make),
		Model:       strings.TrimSpace(c.Model),
		Year:        strings.TrimSpace(c.Year),
	}
	if out == (VehicleCriteria{}) {
		return VehicleCriteria{}, ErrNoSearchCriteria
	}
	return out, nil
}

func (c VehicleCriteria) Matches(v Vehicle) bool {
	if c.PlateID != "" && !strings.EqualFold(c.PlateID, v.VehicleID) {
		return false
	}
	if c.VehicleType != "" && !strings.EqualFold(c.VehicleType, v.VehicleType) {
		return false
	}
	if c.Make != "" && !strings.EqualFold(c.Make, v.Make) {
		return false
	}
	if c.Model != "" && !strings.EqualFold(c.Model, v.Model) {
		return false
	}
	if c.Year != "" {
		if v.Year == nil {
			return false
		}
		year, err := strconv.Atoi(c.Year)
		if err != nil || year != *v.Year {
			return false
		}
	}
	return true
}
