package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fitnessbro/platform/internal/app/services/program"
	apperrors "github.com/fitnessbro/platform/internal/errors"
	"github.com/fitnessbro/platform/internal/httputil"
	"github.com/fitnessbro/platform/internal/middleware"
	"github.com/fitnessbro/platform/pkg/logger"
)

// ProgramAPI serves the programd endpoints.
type ProgramAPI struct {
	svc    *program.Service
	videos program.VideoSearcher
	log    *logger.Logger
}

// NewProgramAPI constructs the program handler set.
func NewProgramAPI(svc *program.Service, videos program.VideoSearcher, log *logger.Logger) *ProgramAPI {
	if log == nil {
		log = logger.NewDefault("program-api")
	}
	return &ProgramAPI{svc: svc, videos: videos, log: log}
}

// Routes registers the programd endpoints on r.
func (a *ProgramAPI) Routes(r *mux.Router) {
	r.HandleFunc("/programs", a.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/programs/client/{clientId}", a.handleListByClient).Methods(http.MethodGet)
	r.HandleFunc("/programs/coach/{coachId}", a.handleListByCoach).Methods(http.MethodGet)
	r.HandleFunc("/programs/{id}", a.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/programs/{id}", a.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/programs/{id}", a.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/videos/search", a.handleVideoSearch).Methods(http.MethodGet)
}

func programCaller(r *http.Request) program.Identity {
	return program.Identity{
		Subject: middleware.GetUserID(r.Context()),
		Role:    middleware.GetUserRole(r.Context()),
	}
}

func (a *ProgramAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req program.Request
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	created, err := a.svc.Create(r.Context(), programCaller(r), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (a *ProgramAPI) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req program.Request
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	updated, err := a.svc.Update(r.Context(), programCaller(r), mux.Vars(r)["id"], req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (a *ProgramAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := a.svc.Get(r.Context(), programCaller(r), mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (a *ProgramAPI) handleListByClient(w http.ResponseWriter, r *http.Request) {
	programs, err := a.svc.ListByClient(r.Context(), programCaller(r), mux.Vars(r)["clientId"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, programs)
}

func (a *ProgramAPI) handleListByCoach(w http.ResponseWriter, r *http.Request) {
	programs, err := a.svc.ListByCoach(r.Context(), programCaller(r), mux.Vars(r)["coachId"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, programs)
}

func (a *ProgramAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Delete(r.Context(), programCaller(r), mux.Vars(r)["id"]); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ProgramAPI) handleVideoSearch(w http.ResponseWriter, r *http.Request) {
	exercise := strings.TrimSpace(r.URL.Query().Get("exercise"))
	if exercise == "" {
		httputil.WriteError(w, apperrors.InvalidInput("exercise query parameter is required"))
		return
	}
	url, err := a.videos.Search(r.Context(), exercise)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
