package handlers

import (
	"net/http"
	"time"

	"github.com/dom/sleep-tracker/internal/api/middleware"
	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/dom/sleep-tracker/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FollowHandler struct {
	followService *service.FollowService
	logger        *zap.Logger
}

func NewFollowHandler(followService *service.FollowService, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{followService: followService, logger: logger}
}

type FollowResponse struct {
	FollowerID string       `json:"followerId"`
	Followed   UserResponse `json:"followed"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// targetID parses the {userId} path parameter. An unparseable id cannot name
// any user, so it is reported as an unknown target.
func targetID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		return uuid.Nil, domain.ErrTargetNotFound
	}
	return id, nil
}

func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	target, err := targetID(r)
	if err != nil {
		respondError(w, r, h.logger, "follow.create", err)
		return
	}

	follow, err := h.followService.Follow(r.Context(), userID, target)
	if err != nil {
		respondError(w, r, h.logger, "follow.create", err)
		return
	}

	resp := FollowResponse{
		FollowerID: follow.FollowerID.String(),
		Followed:   UserResponse{ID: follow.FollowedID.String()},
		CreatedAt:  follow.CreatedAt,
	}
	if follow.Followed != nil {
		resp.Followed = toUserResponse(follow.Followed)
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	target, err := targetID(r)
	if err != nil {
		respondError(w, r, h.logger, "follow.delete", err)
		return
	}

	if err := h.followService.Unfollow(r.Context(), userID, target); err != nil {
		respondError(w, r, h.logger, "follow.delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	users, err := h.followService.ListFollowing(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, "follow.following", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponses(users))
}

func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	users, err := h.followService.ListFollowers(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, "follow.followers", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponses(users))
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toUserResponses(users []*domain.User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	return resp
}
