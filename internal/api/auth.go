package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fitnessbro/platform/internal/app/domain/user"
	"github.com/fitnessbro/platform/internal/app/services/auth"
	apperrors "github.com/fitnessbro/platform/internal/errors"
	"github.com/fitnessbro/platform/internal/httputil"
	"github.com/fitnessbro/platform/internal/middleware"
	"github.com/fitnessbro/platform/pkg/logger"
)

// AuthAPI serves the authd endpoints.
type AuthAPI struct {
	svc *auth.Service
	log *logger.Logger
}

// NewAuthAPI constructs the auth handler set.
func NewAuthAPI(svc *auth.Service, log *logger.Logger) *AuthAPI {
	if log == nil {
		log = logger.NewDefault("auth-api")
	}
	return &AuthAPI{svc: svc, log: log}
}

// SkipPaths are the authd endpoints served without a token. The user lookup
// prefix stays open for the cross-service identity resolver.
func (a *AuthAPI) SkipPaths() []string {
	return []string{"/auth/register", "/auth/login", "/auth/user/"}
}

// Routes registers the authd endpoints on r.
func (a *AuthAPI) Routes(r *mux.Router) {
	r.HandleFunc("/auth/register", a.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", a.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", a.handleMe).Methods(http.MethodGet)
	r.HandleFunc("/auth/user/{id}", a.handleGetUser).Methods(http.MethodGet)
	r.HandleFunc("/auth/clients", a.handleCreateClient).Methods(http.MethodPost)
	r.HandleFunc("/auth/clients", a.handleListClients).Methods(http.MethodGet)
	r.HandleFunc("/auth/clients/{id}", a.handleDeleteClient).Methods(http.MethodDelete)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (a *AuthAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	created, err := a.svc.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	token, err := a.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (a *AuthAPI) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := a.svc.GetUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (a *AuthAPI) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := a.svc.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

type createClientRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthAPI) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	created, err := a.svc.CreateClient(r.Context(), middleware.GetUserID(r.Context()), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (a *AuthAPI) handleListClients(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUserRole(r.Context()) != user.RoleCoach {
		httputil.WriteError(w, apperrors.Forbidden("coach role required"))
		return
	}
	clients, err := a.svc.ListClientsForCoach(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, clients)
}

func (a *AuthAPI) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if middleware.GetUserRole(ctx) != user.RoleCoach {
		httputil.WriteError(w, apperrors.Forbidden("coach role required"))
		return
	}
	clientID := mux.Vars(r)["id"]

	client, err := a.svc.GetUser(ctx, clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if client.CoachID != middleware.GetUserID(ctx) {
		httputil.WriteError(w, apperrors.Forbidden("client belongs to another coach"))
		return
	}
	if err := a.svc.DeleteClient(ctx, clientID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
