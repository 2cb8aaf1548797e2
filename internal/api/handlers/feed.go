package handlers

import (
	"net/http"
	"time"

	"github.com/dom/sleep-tracker/internal/api/middleware"
	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/dom/sleep-tracker/internal/service"
	"go.uber.org/zap"
)

type FeedHandler struct {
	feedService *service.FeedService
	logger      *zap.Logger
}

func NewFeedHandler(feedService *service.FeedService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{feedService: feedService, logger: logger}
}

type FeedOwnerResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type FeedItemResponse struct {
	SleepSessionResponse
	User FeedOwnerResponse `json:"user"`
}

type FeedResponse struct {
	Since time.Time          `json:"since"`
	Items []FeedItemResponse `json:"items"`
}

// Get serves the following feed. The optional since query parameter (RFC 3339)
// replaces the default window start.
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	since := h.feedService.WindowStart()
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, r, h.logger, "feed.get", domain.Validation("since must be an RFC 3339 timestamp"))
			return
		}
		since = parsed
	}

	entries, err := h.feedService.FollowingFeed(r.Context(), userID, &since)
	if err != nil {
		respondError(w, r, h.logger, "feed.get", err)
		return
	}

	items := make([]FeedItemResponse, len(entries))
	for i, e := range entries {
		items[i] = FeedItemResponse{
			SleepSessionResponse: toSleepSessionResponse(e.Session),
			User: FeedOwnerResponse{
				ID:          e.Owner.ID.String(),
				DisplayName: e.Owner.DisplayName,
			},
		}
	}

	writeJSON(w, http.StatusOK, FeedResponse{Since: since.UTC(), Items: items})
}
