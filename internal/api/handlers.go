package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/streaks/internal/error_values"
	"github.com/limbo/streaks/internal/service"
	"github.com/limbo/streaks/pkg/calendar"
	"github.com/limbo/streaks/pkg/entity"
	"github.com/limbo/streaks/pkg/httputil"
	"github.com/limbo/streaks/pkg/logging"
)

const requestTimeout = 10 * time.Second

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type CreateHabitRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Category    string           `json:"category"`
	Frequency   entity.Frequency `json:"frequency"`
}

type UpdateHabitRequest struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Category    *string           `json:"category"`
	Frequency   *entity.Frequency `json:"frequency"`
}

// CheckInRequest toggles the given day, or today when Date is absent
type CheckInRequest struct {
	Date *calendar.Day `json:"date"`
}

type GetHabitsResponse struct {
	UserID string              `json:"uid"`
	Habits []*entity.HabitView `json:"habits"`
}

type GetRecordsResponse struct {
	HabitID string              `json:"habit_id"`
	From    *calendar.Day       `json:"from,omitempty"`
	To      *calendar.Day       `json:"to,omitempty"`
	Records []entity.HabitCheck `json:"records"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		logger.Warn("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserExists):
			logger.Warn("registering error: existed user")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user with such email already exists", nil)
		case errors.Is(err, errorvalues.ErrInvalidUser):
			logger.Warn("registering error: validation failed", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid user data", err)
		default:
			logger.Error("registering error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"uid": user.ID.String(),
	})
	logger.Info("successful registration")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		logger.Warn("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Warn("login error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such email doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Warn("login error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid email or password", nil)
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
		}
		return
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":   user.ID.String(),
		"token": token,
	})
	logger.Info("successful login")
}

func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("account deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req DeleteAccountRequest
	if err = httputil.DecodeJSON(r, &req, false); err != nil {
		logger.Warn("account deletion error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err = s.userService.DeleteAccount(ctx, uid, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Warn("account deletion error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid password", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Warn("account deletion error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
		default:
			logger.Error("account deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting account", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("account deleted")
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create habit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateHabitRequest
	if err = httputil.DecodeJSON(r, &req, false); err != nil {
		logger.Warn("create habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habit, err := s.habitsService.CreateHabit(ctx, uid, service.CreateHabitRequest{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Frequency:   req.Frequency,
	})
	if err != nil {
		writeServiceError(w, logger, "create habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created", slog.String("habit_id", habit.ID.String()))
}

func (s *Server) GetHabits(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get habits error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habits, err := s.habitsService.GetUserHabits(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get habits", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetHabitsResponse{
		UserID: uid.String(),
		Habits: habits,
	})
	logger.Info("habits provided")
}

func (s *Server) GetHabit(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	uid, habitID, ok := habitRequestIDs(w, r, logger, "get habit")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habit, err := s.habitsService.GetHabit(ctx, habitID, uid)
	if err != nil {
		writeServiceError(w, logger, "get habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
}

func (s *Server) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	uid, habitID, ok := habitRequestIDs(w, r, logger, "update habit")
	if !ok {
		return
	}
	var req UpdateHabitRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		logger.Warn("update habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habit, err := s.habitsService.UpdateHabit(ctx, habitID, uid, service.UpdateHabitRequest{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Frequency:   req.Frequency,
	})
	if err != nil {
		writeServiceError(w, logger, "update habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit updated", slog.String("habit_id", habitID.String()))
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	uid, habitID, ok := habitRequestIDs(w, r, logger, "habit deletion")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := s.habitsService.DeleteHabit(ctx, habitID, uid); err != nil {
		writeServiceError(w, logger, "habit deletion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("habit deleted", slog.String("habit_id", habitID.String()))
}

func (s *Server) CheckIn(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	uid, habitID, ok := habitRequestIDs(w, r, logger, "check-in")
	if !ok {
		return
	}
	var req CheckInRequest
	if err := httputil.DecodeJSON(r, &req, true); err != nil {
		logger.Warn("check-in error: invalid request body", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", errorvalues.ErrInvalidDate)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	habit, err := s.checksService.ToggleCheck(ctx, habitID, uid, req.Date)
	if err != nil {
		writeServiceError(w, logger, "check-in", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
}

func (s *Server) GetRecords(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	uid, habitID, ok := habitRequestIDs(w, r, logger, "get records")
	if !ok {
		return
	}
	from, err := dayQueryParam(r, "from")
	if err != nil {
		logger.Warn("get records error: invalid from")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid 'from' date", err)
		return
	}
	to, err := dayQueryParam(r, "to")
	if err != nil {
		logger.Warn("get records error: invalid to")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid 'to' date", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	records, err := s.checksService.GetHabitChecks(ctx, habitID, uid, from, to)
	if err != nil {
		writeServiceError(w, logger, "get records", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetRecordsResponse{
		HabitID: habitID.String(),
		From:    from,
		To:      to,
		Records: records,
	})
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get stats error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	stats, err := s.habitsService.GetUserStats(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get stats", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}

// habitRequestIDs extracts the caller and the {id} path value, writing the error response itself.
func habitRequestIDs(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string) (uuid.UUID, uuid.UUID, bool) {
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error(op + " error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return uuid.Nil, uuid.Nil, false
	}
	habitID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn(op + " error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return uid, habitID, true
}

func dayQueryParam(r *http.Request, name string) (*calendar.Day, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	day, err := calendar.ParseDay(raw)
	if err != nil {
		return nil, errorvalues.ErrInvalidDate
	}
	return &day, nil
}

func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrHabitNotFound):
		logger.Warn(op + " error: habit not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrUserNotFound):
		logger.Warn(op + " error: unexist user")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrInvalidDate):
		logger.Warn(op+" error: invalid date", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid date", err)
	case errors.Is(err, errorvalues.ErrInvalidHabit):
		logger.Warn(op+" error: invalid habit", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit data", err)
	default:
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}
