package handlers

import (
	"net/http"
	"time"

	"github.com/dom/sleep-tracker/internal/api/middleware"
	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/dom/sleep-tracker/internal/service"
	"go.uber.org/zap"
)

type SleepSessionHandler struct {
	sleepService *service.SleepService
	logger       *zap.Logger
}

func NewSleepSessionHandler(sleepService *service.SleepService, logger *zap.Logger) *SleepSessionHandler {
	return &SleepSessionHandler{sleepService: sleepService, logger: logger}
}

type ClockInRequest struct {
	StartTime *time.Time `json:"startTime" validate:"required"`
}

// ClockOutRequest leaves endTime unchecked here: a missing open session is
// reported before a missing end time.
type ClockOutRequest struct {
	EndTime *time.Time `json:"endTime"`
}

type SleepSessionResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	DurationSeconds *float64   `json:"durationSeconds"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toSleepSessionResponse(s *domain.SleepSession) SleepSessionResponse {
	resp := SleepSessionResponse{
		ID:        s.ID.String(),
		UserID:    s.UserID.String(),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		CreatedAt: s.CreatedAt,
	}
	if d, ok := s.Duration(); ok {
		secs := d.Seconds()
		resp.DurationSeconds = &secs
	}
	return resp
}

func (h *SleepSessionHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req ClockInRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(w, r, h.logger, "sleep.clock_in", err)
		return
	}

	session, err := h.sleepService.Open(r.Context(), userID, *req.StartTime)
	if err != nil {
		respondError(w, r, h.logger, "sleep.clock_in", err)
		return
	}

	writeJSON(w, http.StatusCreated, toSleepSessionResponse(session))
}

func (h *SleepSessionHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req ClockOutRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(w, r, h.logger, "sleep.clock_out", err)
		return
	}

	var endTime time.Time
	if req.EndTime != nil {
		endTime = *req.EndTime
	}

	session, err := h.sleepService.Close(r.Context(), userID, endTime)
	if err != nil {
		respondError(w, r, h.logger, "sleep.clock_out", err)
		return
	}

	writeJSON(w, http.StatusOK, toSleepSessionResponse(session))
}

func (h *SleepSessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	sessions, err := h.sleepService.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, "sleep.list", err)
		return
	}

	resp := make([]SleepSessionResponse, len(sessions))
	for i, s := range sessions {
		resp[i] = toSleepSessionResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SleepSessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	session, err := h.sleepService.Active(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, "sleep.active", err)
		return
	}

	writeJSON(w, http.StatusOK, toSleepSessionResponse(session))
}
