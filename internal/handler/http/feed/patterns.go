package feed

import (
	"errors"
	"net/http"
	"strconv"

	"newsagent/internal/handler/http/respond"
)

const defaultPatternDays = 7

// PatternsHandler summarizes a user's recent interaction behavior.
type PatternsHandler struct{ Svc LearningService }

func (h PatternsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	days := defaultPatternDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("days must be a positive integer"))
			return
		}
		days = parsed
	}

	respond.JSON(w, http.StatusOK, h.Svc.AnalyzePatterns(userID, days))
}

// StatsHandler reports aggregate learning engine counters.
type StatsHandler struct{ Svc LearningService }

func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Svc.Stats())
}
