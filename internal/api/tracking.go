package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	domain "github.com/fitnessbro/platform/internal/app/domain/tracking"
	"github.com/fitnessbro/platform/internal/app/services/tracking"
	apperrors "github.com/fitnessbro/platform/internal/errors"
	"github.com/fitnessbro/platform/internal/httputil"
	"github.com/fitnessbro/platform/internal/middleware"
	"github.com/fitnessbro/platform/pkg/logger"
)

// TrackingAPI serves the trackingd endpoints.
type TrackingAPI struct {
	svc *tracking.Service
	log *logger.Logger
}

// NewTrackingAPI constructs the tracking handler set.
func NewTrackingAPI(svc *tracking.Service, log *logger.Logger) *TrackingAPI {
	if log == nil {
		log = logger.NewDefault("tracking-api")
	}
	return &TrackingAPI{svc: svc, log: log}
}

// Routes registers the trackingd endpoints on r.
func (a *TrackingAPI) Routes(r *mux.Router) {
	r.HandleFunc("/tracking/me/stats", a.handleMyStats).Methods(http.MethodGet)
	r.HandleFunc("/tracking/coach/clients-stats", a.handleCoachClientsStats).Methods(http.MethodGet)
	r.HandleFunc("/tracking/sets", a.handleRecordSet).Methods(http.MethodPost)
	r.HandleFunc("/tracking/{clientId}/week", a.handleGetWeek).Methods(http.MethodGet)
	r.HandleFunc("/tracking/{clientId}/sets", a.handleListSets).Methods(http.MethodGet)
	r.HandleFunc("/tracking/{clientId}/stats", a.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/tracking/{clientId}/{day}", a.handleUpdateDay).Methods(http.MethodPatch)
}

func trackingCaller(r *http.Request) tracking.Identity {
	return tracking.Identity{
		Subject: middleware.GetUserID(r.Context()),
		Role:    middleware.GetUserRole(r.Context()),
	}
}

func (a *TrackingAPI) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	days, err := a.svc.GetWeek(r.Context(), trackingCaller(r), mux.Vars(r)["clientId"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, days)
}

func (a *TrackingAPI) handleUpdateDay(w http.ResponseWriter, r *http.Request) {
	var req tracking.UpdateDayRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	vars := mux.Vars(r)
	rec, err := a.svc.UpdateDay(r.Context(), trackingCaller(r), vars["clientId"], vars["day"], req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (a *TrackingAPI) handleMyStats(w http.ResponseWriter, r *http.Request) {
	caller := trackingCaller(r)
	stats, err := a.svc.Stats(r.Context(), caller, caller.Subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (a *TrackingAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.Stats(r.Context(), trackingCaller(r), mux.Vars(r)["clientId"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (a *TrackingAPI) handleCoachClientsStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.CoachClientsStats(r.Context(), trackingCaller(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

type recordSetRequest struct {
	Day          string  `json:"day"`
	Date         string  `json:"date"`
	ExerciseName string  `json:"exercise_name"`
	SetIndex     int     `json:"set_index"`
	Weight       float64 `json:"weight"`
}

func (a *TrackingAPI) handleRecordSet(w http.ResponseWriter, r *http.Request) {
	var req recordSetRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("date must be formatted YYYY-MM-DD"))
		return
	}

	caller := trackingCaller(r)
	set, err := a.svc.RecordSet(r.Context(), caller, domain.ExerciseSet{
		ClientID:     caller.Subject,
		Day:          req.Day,
		Date:         date,
		ExerciseName: req.ExerciseName,
		SetIndex:     req.SetIndex,
		Weight:       req.Weight,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, set)
}

func (a *TrackingAPI) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := a.svc.ListSets(r.Context(), trackingCaller(r), mux.Vars(r)["clientId"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sets)
}
