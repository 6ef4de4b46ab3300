package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domaincrash "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/crash"
	domainuser "github.com/1jkeepers3/aws-nyc-mv-gs/internal/domain/user"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/ports"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/crash"
	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/usecase/user"
)

// ActorHeader carries the id of the user performing a request. Session
// handling lives in front of this API.
const ActorHeader = "X-Actor-ID"

const maxBodyBytes = 1 << 20

type UserService interface {
	Register(ctx context.Context, input user.RegisterInput) (user.Profile, error)
	Authenticate(ctx context.Context, handle string, password string) (user.Profile, error)
	GetProfile(ctx context.Context, input user.GetProfileInput) (user.Profile, error)
	ListUsers(ctx context.Context) ([]user.Profile, error)
	RateUser(ctx context.Context, input user.RateUserInput) (user.Profile, error)
}

type CrashService interface {
	CreateCrash(ctx context.Context, input crash.CreateCrashInput) (crash.CrashDetail, error)
	GetCrash(ctx context.Context, input crash.GetCrashInput) (crash.CrashDetail, error)
	ListCrashes(ctx context.Context, limit int) ([]crash.CrashListItem, error)
	SearchCrashes(ctx context.Context, criteria domaincrash.SearchCriteria) ([]crash.CrashListItem, error)
	LookupVehicles(ctx context.Context, criteria domaincrash.VehicleCriteria) ([]ports.VehicleMatch, error)
	Statistics(ctx context.Context) (ports.CrashStatistics, error)
	CastWitnessVote(ctx context.Context, input crash.CastWitnessVoteInput) (crash.CrashDetail, error)
	CountVotesCast(ctx context.Context, userID string) (int64, error)
	PostComment(ctx context.Context, input crash.PostCommentInput) (crash.CommentItem, error)
}

// VoteGate is consulted before every witness vote.
type VoteGate interface {
	Allow(ctx context.Context, userID string) error
}

type Handler struct {
	users    UserService
	crashes  CrashService
	gate     VoteGate
	validate *validator.Validate
}

func NewHandler(users UserService, crashes CrashService, gate VoteGate) *Handler {
	return &Handler{
		users:    users,
		crashes:  crashes,
		gate:     gate,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes builds the router. Every route is wrapped with request ids, panic
// recovery and the request log.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/schemas", h.listSchemas)
	r.Get("/schemas/{name}", h.getSchema)

	r.Post("/sessions", h.login)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.registerUser)
		r.Get("/", h.listUsers)
		r.Get("/{userID}", h.getUser)
		r.Post("/{userID}/ratings", h.rateUser)
		r.Get("/{userID}/votes/count", h.countVotes)
	})

	r.Route("/crashes", func(r chi.Router) {
		r.Post("/", h.createCrash)
		r.Get("/", h.listCrashes)
		r.Post("/search", h.searchCrashes)
		r.Get("/stats", h.statistics)
		r.Get("/{crashID}", h.getCrash)
		r.Post("/{crashID}/witness", h.castWitnessVote)
		r.Post("/{crashID}/comments", h.postComment)
	})

	r.Post("/vehicles/lookup", h.lookupVehicles)
	return r
}

func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errs.Wrap(errInvalidBody, err.Error())
	}
	if err := h.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func actorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(ActorHeader))
}

func requireActor(r *http.Request) (string, error) {
	actor := actorID(r)
	if actor == "" {
		return "", errActorRequired
	}
	return actor, nil
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.users.Authenticate(r.Context(), req.Handle, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.users.Register(r.Context(), user.RegisterInput{
		Handle:      req.Handle,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Gender:      req.Gender,
		City:        req.City,
		State:       req.State,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProfileResponse(profile))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, newProfileResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetProfile(r.Context(), user.GetProfileInput{
		UserID:   chi.URLParam(r, "userID"),
		ViewerID: actorID(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

func (h *Handler) rateUser(w http.ResponseWriter, r *http.Request) {
	actor, err := requireActor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req ratingRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	value, err := domainuser.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := h.users.RateUser(r.Context(), user.RateUserInput{
		TargetUserID: chi.URLParam(r, "userID"),
		RaterID:      actor,
		Value:        value,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

func (h *Handler) countVotes(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	count, err := h.crashes.CountVotesCast(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userId": userID, "votes": count})
}

func (h *Handler) createCrash(w http.ResponseWriter, r *http.Request) {
	actor, err := requireActor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createCrashRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	occurredAt, err := time.Parse(time.RFC3339, req.OccurredAt)
	if err != nil {
		writeError(w, r, errs.New(errs.KindValidation, "occurredAt must be an RFC 3339 timestamp"))
		return
	}

	vehicles := make([]domaincrash.Vehicle, 0, len(req.Vehicles))
	for _, v := range req.Vehicles {
		vehicles = append(vehicles, v.domain())
	}

	detail, err := h.crashes.CreateCrash(r.Context(), crash.CreateCrashInput{
		CreatorID:   actor,
		Source:      req.Source,
		CollisionID: req.CollisionID,
		OccurredAt:  occurredAt,
		Borough:     req.Borough,
		ZipCode:     req.ZipCode,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		OnStreet:    req.OnStreet,
		CrossStreet: req.CrossStreet,
		OffStreet:   req.OffStreet,
		Casualties:  req.Casualties.domain(),
		Summary:     req.Summary,
		Photos:      req.Photos,
		Vehicles:    vehicles,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCrashResponse(detail))
}

func (h *Handler) listCrashes(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, errInvalidLimit)
			return
		}
		limit = n
	}
	items, err := h.crashes.ListCrashes(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCrashListResponse(items))
}

func (h *Handler) searchCrashes(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	criteria := domaincrash.SearchCriteria{Keyword: req.Keyword, Borough: req.Borough}
	var err error
	if criteria.From, err = parseDay(req.DateFrom); err != nil {
		writeError(w, r, err)
		return
	}
	if criteria.To, err = parseDay(req.DateTo); err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.crashes.SearchCrashes(r.Context(), criteria)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCrashListResponse(items))
}

func parseDay(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, errInvalidDate
	}
	return &day, nil
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.crashes.Statistics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStatsResponse(stats))
}

func (h *Handler) getCrash(w http.ResponseWriter, r *http.Request) {
	detail, err := h.crashes.GetCrash(r.Context(), crash.GetCrashInput{
		CrashID:  chi.URLParam(r, "crashID"),
		ViewerID: actorID(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCrashResponse(detail))
}

func (h *Handler) castWitnessVote(w http.ResponseWriter, r *http.Request) {
	actor, err := requireActor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req witnessRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if h.gate != nil {
		if err := h.gate.Allow(r.Context(), actor); err != nil {
			writeError(w, r, err)
			return
		}
	}
	detail, err := h.crashes.CastWitnessVote(r.Context(), crash.CastWitnessVoteInput{
		CrashID: chi.URLParam(r, "crashID"),
		VoterID: actor,
		Vote:    req.Vote,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCrashResponse(detail))
}

func (h *Handler) postComment(w http.ResponseWriter, r *http.Request) {
	actor, err := requireActor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req commentRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.crashes.PostComment(r.Context(), crash.PostCommentInput{
		CrashID:         chi.URLParam(r, "crashID"),
		AuthorID:        actor,
		Text:            req.Text,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"crashId": item.CrashID,
		"comment": commentResponse(item.Comment),
	})
}

func (h *Handler) lookupVehicles(w http.ResponseWriter, r *http.Request) {
	var req vehicleLookupRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	matches, err := h.crashes.LookupVehicles(r.Context(), domaincrash.VehicleCriteria{
		PlateID:     req.PlateID,
		VehicleType: req.VehicleType,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVehicleMatches(matches))
}
