package feed

import (
	"errors"
	"net/http"
	"strconv"

	"newsagent/internal/handler/http/respond"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// RecommendationsHandler serves the personalized feed for one user.
type RecommendationsHandler struct{ Svc RankingService }

func (h RecommendationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	items := h.Svc.RankForUser(r.Context(), userID, limit)

	respond.JSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"count":   len(items),
		"items":   toItemDTOs(items),
	})
}
