package api

import (
	"net/http"

	"github.com/gorilla/mux"

	domain "github.com/fitnessbro/platform/internal/app/domain/compliance"
	"github.com/fitnessbro/platform/internal/app/domain/user"
	"github.com/fitnessbro/platform/internal/app/services/compliance"
	apperrors "github.com/fitnessbro/platform/internal/errors"
	"github.com/fitnessbro/platform/internal/httputil"
	"github.com/fitnessbro/platform/internal/middleware"
	"github.com/fitnessbro/platform/pkg/logger"
)

// ComplianceAPI serves the complianced endpoints.
type ComplianceAPI struct {
	svc *compliance.Service
	log *logger.Logger
}

// NewComplianceAPI constructs the compliance handler set.
func NewComplianceAPI(svc *compliance.Service, log *logger.Logger) *ComplianceAPI {
	if log == nil {
		log = logger.NewDefault("compliance-api")
	}
	return &ComplianceAPI{svc: svc, log: log}
}

// Routes registers the complianced endpoints on r.
func (a *ComplianceAPI) Routes(r *mux.Router) {
	r.HandleFunc("/compliance/daily", a.handleDaily).Methods(http.MethodPost)
	r.HandleFunc("/compliance/weekly", a.handleWeekly).Methods(http.MethodPost)
	r.HandleFunc("/compliance/{clientId}/history", a.handleHistory).Methods(http.MethodGet)
}

// canAct allows the client themself and any coach caller.
func canAct(r *http.Request, clientID string) error {
	if middleware.GetUserID(r.Context()) == clientID {
		return nil
	}
	if middleware.GetUserRole(r.Context()) == user.RoleCoach {
		return nil
	}
	return apperrors.Forbidden("access denied")
}

type dailyRequest struct {
	ClientID string            `json:"client_id"`
	Entry    domain.DailyEntry `json:"entry"`
}

func (a *ComplianceAPI) handleDaily(w http.ResponseWriter, r *http.Request) {
	var req dailyRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := canAct(r, req.ClientID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := a.svc.CalculateDaily(r.Context(), req.ClientID, req.Entry)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

type weeklyRequest struct {
	ClientID string              `json:"client_id"`
	Entries  []domain.DailyEntry `json:"entries"`
}

func (a *ComplianceAPI) handleWeekly(w http.ResponseWriter, r *http.Request) {
	var req weeklyRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := canAct(r, req.ClientID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	summary, err := a.svc.CalculateWeekly(r.Context(), req.ClientID, req.Entries)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (a *ComplianceAPI) handleHistory(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]
	if err := canAct(r, clientID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	records, err := a.svc.History(r.Context(), clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}
