package feed

import (
	"net/http"
)

// Register wires all personalization routes onto the mux.
func Register(mux *http.ServeMux, learner LearningService, ranker RankingService) {
	mux.Handle("POST /track", TrackHandler{Svc: learner})

	mux.Handle("GET /recommendations/{user_id}", RecommendationsHandler{Svc: ranker})

	mux.Handle("GET /preferences/{user_id}", PreferencesHandler{Svc: learner})
	mux.Handle("DELETE /preferences/{user_id}", ResetHandler{Svc: learner})
	mux.Handle("GET /confidence/{user_id}", ConfidenceHandler{Svc: learner})
	mux.Handle("GET /patterns/{user_id}", PatternsHandler{Svc: learner})
	mux.Handle("GET /stats", StatsHandler{Svc: learner})

	mux.Handle("GET /cache/stats", CacheStatsHandler{Svc: ranker})
	mux.Handle("POST /cache/clear", CacheClearHandler{Svc: ranker})
}
