package httpapi

import (
	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/user"
)

type registerRequest struct {
	Handle      string `json:"handle" validate:"required,max=64"`
	Password    string `json:"password" validate:"required,max=72"`
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Gender      string `json:"gender" validate:"max=32"`
	City        string `json:"city" validate:"max=100"`
	State       string `json:"state" validate:"max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
}

type loginRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ratingRequest struct {
	Direction string `json:"direction" validate:"required"`
}

type witnessRequest struct {
	Vote string `json:"vote" validate:"required"`
}

type commentRequest struct {
	Text            string `json:"text" validate:"required,max=4000"`
	ParentCommentID string `json:"parentCommentId" validate:"omitempty,uuid"`
}

type casualtiesBody struct {
	PersonsInjured     int `json:"personsInjured" validate:"gte=0"`
	PersonsKilled      int `json:"personsKilled" validate:"gte=0"`
	PedestriansInjured int `json:"pedestriansInjured" validate:"gte=0"`
	PedestriansKilled  int `json:"pedestriansKilled" validate:"gte=0"`
	CyclistsInjured    int `json:"cyclistsInjured" validate:"gte=0"`
	CyclistsKilled     int `json:"cyclistsKilled" validate:"gte=0"`
	MotoristsInjured   int `json:"motoristsInjured" validate:"gte=0"`
	MotoristsKilled    int `json:"motoristsKilled" validate:"gte=0"`
}

func (c casualtiesBody) domain() domaincrash.Casualties {
	return domaincrash.Casualties{
		PersonsInjured:     c.PersonsInjured,
		PersonsKilled:      c.PersonsKilled,
		PedestriansInjured: c.PedestriansInjured,
		PedestriansKilled:  c.PedestriansKilled,
		CyclistsInjured:    c.CyclistsInjured,
		CyclistsKilled:     c.CyclistsKilled,
		MotoristsInjured:   c.MotoristsInjured,
		MotoristsKilled:    c.MotoristsKilled,
	}
}

func newCasualtiesBody(c domaincrash.Casualties) casualtiesBody {
	return casualtiesBody{
		PersonsInjured:     c.PersonsInjured,
		PersonsKilled:      c.PersonsKilled,
		PedestriansInjured: c.PedestriansInjured,
		PedestriansKilled:  c.PedestriansKilled,
		CyclistsInjured:    c.CyclistsInjured,
		CyclistsKilled:     c.CyclistsKilled,
		MotoristsInjured:   c.MotoristsInjured,
		MotoristsKilled:    c.MotoristsKilled,
	}
}

type vehicleBody struct {
	ID                string `json:"id,omitempty"`
	PlateID           string `json:"plateId,omitempty" validate:"max=16"`
	VehicleType       string `json:"vehicleType"`
	Make              string `json:"make"`
	Model             string `json:"model"`
	Year              *int   `json:"year,omitempty" validate:"omitempty,gte=1886,lte=2100"`
	StateRegistration string `json:"stateRegistration,omitempty"`
	Damage            string `json:"damage,omitempty"`
}

type createCrashRequest struct {
	OccurredAt  string         `json:"occurredAt" validate:"required"`
	Borough     string         `json:"borough" validate:"required,max=32"`
	ZipCode     string         `json:"zipCode" validate:"max=10"`
	Latitude    float64        `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64        `json:"longitude" validate:"gte=-180,lte=180"`
	OnStreet    string         `json:"onStreet"`
	CrossStreet string         `json:"crossStreet"`
	OffStreet   string         `json:"offStreet"`
	Summary     string         `json:"summary" validate:"max=4000"`
	Source      string         `json:"source"`
	CollisionID string         `json:"collisionId"`
	Photos      []string       `json:"photos" validate:"omitempty,dive,url"`
	Casualties  casualtiesBody `json:"casualties"`
	Vehicles    []vehicleBody  `json:"vehicles" validate:"omitempty,dive"`
}

type searchRequest struct {
	Keyword  string `json:"keyword"`
	Borough  string `json:"borough"`
	DateFrom string `json:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"dateTo" validate:"omitempty,datetime=2006-01-02"`
}

type vehicleLookupRequest struct {
	PlateID     string `json:"plateId"`
	VehicleType string `json:"vehicleType"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        string `json:"year" validate:"omitempty,numeric"`
}

type profileResponse struct {
	UserID             string   `json:"userId"`
	Handle             string   `json:"handle"`
	FirstName          string   `json:"firstName"`
	LastName           string   `json:"lastName"`
	Email              string   `json:"email,omitempty"`
	Gender             string   `json:"gender,omitempty"`
	City               string   `json:"city,omitempty"`
	State              string   `json:"state,omitempty"`
	DateOfBirth        string   `json:"dateOfBirth,omitempty"`
	SocialCreditRating int      `json:"socialCreditRating"`
	CrashesWitnessed   int      `json:"crashesWitnessed"`
	SubmittedCrashIDs  []string `json:"submittedCrashIds"`
	CommentedCrashIDs  []string `json:"commentedCrashIds"`
	SignupDate         string   `json:"signupDate"`
	LastLogin          *string  `json:"lastLogin"`
	RatingCount        int      `json:"ratingCount"`
	ViewerVote         string   `json:"viewerVote,omitempty"`
}

func newProfileResponse(p user.Profile) profileResponse {
	resp := profileResponse{
		UserID:             p.UserID,
		Handle:             p.Handle,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              p.Email,
		Gender:             p.Gender,
		City:               p.City,
		State:              p.State,
		DateOfBirth:        p.DateOfBirth,
		SocialCreditRating: p.SocialCreditRating,
		CrashesWitnessed:   p.CrashesWitnessed,
		SubmittedCrashIDs:  p.SubmittedCrashIDs,
		CommentedCrashIDs:  p.CommentedCrashIDs,
		SignupDate:         p.SignupDate,
		LastLogin:          p.LastLogin,
		RatingCount:        p.RatingCount,
	}
	switch p.ViewerVote {
	case 1:
		resp.ViewerVote = "up"
	case -1:
		resp.ViewerVote = "down"
	}
	return resp
}

type commentResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	Text            string  `json:"text"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	CreatedAt       string  `json:"createdAt"`
	ParentCommentID *string `json:"parentCommentId"`
}

func newCommentResponses(comments []domaincrash.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse(c))
	}
	return out
}

type witnessResponse struct {
	Display string `json:"display"`
	Vote    string `json:"vote"`
}

type crashResponse struct {
	CrashID            string            `json:"crashId"`
	OccurredAt         string            `json:"occurredAt"`
	Borough            string            `json:"borough"`
	ZipCode            string            `json:"zipCode"`
	Latitude           float64           `json:"latitude"`
	Longitude          float64           `json:"longitude"`
	OnStreet           string            `json:"onStreet"`
	CrossStreet        string            `json:"crossStreet"`
	OffStreet          string            `json:"offStreet"`
	Summary            string            `json:"summary"`
	Source             string            `json:"source"`
	CollisionID        string            `json:"collisionId"`
	Photos             []string          `json:"photos"`
	Casualties         casualtiesBody    `json:"casualties"`
	Vehicles           []vehicleBody     `json:"vehicles"`
	CreatedBy          string            `json:"createdBy"`
	CreatedAt          string            `json:"createdAt"`
	AccuracyPercentage int               `json:"accuracyPercentage"`
	Witnesses          []witnessResponse `json:"witnesses"`
	HasVerified        bool              `json:"hasVerified"`
	HasRejected        bool              `json:"hasRejected"`
	Comments           []commentResponse `json:"comments"`
	Replies            []commentResponse `json:"replies"`
}

func newVehicleBody(v domaincrash.Vehicle) vehicleBody {
	return vehicleBody{
		ID:                v.ID,
		PlateID:           v.VehicleID,
		VehicleType:       v.VehicleType,
		Make:              v.Make,
		Model:             v.Model,
		Year:              v.Year,
		StateRegistration: v.StateRegistration,
		Damage:            v.Damage,
	}
}

func (v vehicleBody) domain() domaincrash.Vehicle {
	return domaincrash.Vehicle{
		VehicleID:         v.PlateID,
		VehicleType:       v.VehicleType,
		Make:              v.Make,
		Model:             v.Model,
		Year:              v.Year,
		StateRegistration: v.StateRegistration,
		Damage:            v.Damage,
	}
}

func newCrashResponse(d crash.CrashDetail) crashResponse {
	c := d.Crash
	resp := crashResponse{
		CrashID:            c.CrashID,
		OccurredAt:         c.OccurredAt,
		Borough:            c.Borough,
		ZipCode:            c.ZipCode,
		Latitude:           c.Latitude,
		Longitude:          c.Longitude,
		OnStreet:           c.OnStreet,
		CrossStreet:        c.CrossStreet,
		OffStreet:          c.OffStreet,
		Summary:            c.Summary,
		Source:             c.Source,
		CollisionID:        c.CollisionID,
		Photos:             c.Photos,
		Casualties:         newCasualtiesBody(c.Casualties),
		Vehicles:           make([]vehicleBody, 0, len(c.Vehicles)),
		CreatedBy:          c.CreatedBy,
		CreatedAt:          c.CreatedAt,
		AccuracyPercentage: c.AccuracyPercentage,
		Witnesses:          make([]witnessResponse, 0, len(d.Witnesses)),
		HasVerified:        d.HasVerified,
		HasRejected:        d.HasRejected,
		Comments:           newCommentResponses(d.TopLevel),
		Replies:            newCommentResponses(d.Replies),
	}
	for _, v := range c.Vehicles {
		resp.Vehicles = append(resp.Vehicles, newVehicleBody(v))
	}
	for _, w := range d.Witnesses {
		resp.Witnesses = append(resp.Witnesses, witnessResponse{Display: w.Display, Vote: string(w.Vote)})
	}
	return resp
}

type crashListItemResponse struct {
	CrashID            string `json:"crashId"`
	OccurredAt         string `json:"occurredAt"`
	Borough            string `json:"borough"`
	OnStreet           string `json:"onStreet"`
	CrossStreet        string `json:"crossStreet"`
	Summary            string `json:"summary"`
	AccuracyPercentage int    `json:"accuracyPercentage"`
	WitnessCount       int    `json:"witnessCount"`
	CommentCount       int    `json:"commentCount"`
}

func newCrashListResponse(items []crash.CrashListItem) []crashListItemResponse {
	out := make([]crashListItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, crashListItemResponse(item))
	}
	return out
}

type vehicleMatchResponse struct {
	CrashID string      `json:"crashId"`
	Vehicle vehicleBody `json:"vehicle"`
}

func newVehicleMatches(matches []ports.VehicleMatch) []vehicleMatchResponse {
	out := make([]vehicleMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, vehicleMatchResponse{CrashID: m.CrashID, Vehicle: newVehicleBody(m.Vehicle)})
	}
	return out
}

type boroughYearResponse struct {
	Borough    string         `json:"borough"`
	Year       string         `json:"year"`
	Crashes    int64          `json:"crashes"`
	Casualties casualtiesBody `json:"casualties"`
}

type boroughTotalsResponse struct {
	Borough    string         `json:"borough"`
	Crashes    int64          `json:"crashes"`
	Casualties casualtiesBody `json:"casualties"`
}

type statsResponse struct {
	ByBoroughYear []boroughYearResponse   `json:"byBoroughYear"`
	ByBorough     []boroughTotalsResponse `json:"byBorough"`
}

func newStatsResponse(stats ports.CrashStatistics) statsResponse {
	resp := statsResponse{
		ByBoroughYear: make([]boroughYearResponse, 0, len(stats.ByBoroughYear)),
		ByBorough:     make([]boroughTotalsResponse, 0, len(stats.ByBorough)),
	}
	for _, row := range stats.ByBoroughYear {
		resp.ByBoroughYear = append(resp.ByBoroughYear, boroughYearResponse{
			Borough:    row.Borough,
			Year:       row.Year,
			Crashes:    row.Crashes,
			Casualties: newCasualtiesBody(row.Casualties),
		})
	}
	for _, row := range stats.ByBorough {
		resp.ByBorough = append(resp.ByBorough, boroughTotalsResponse{
			Borough:    row.Borough,
			Crashes:    row.Crashes,
			Casualties: newCasualtiesBody(row.Casualties),
		})
	}
	return resp
}
