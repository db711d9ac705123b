package feed

import (
	"encoding/json"
	"errors"
	"net/http"

	"newsagent/internal/domain/entity"
	"newsagent/internal/handler/http/respond"
)

// CacheStatsHandler reports hit rates and sizes per cache tier.
type CacheStatsHandler struct{ Svc RankingService }

func (h CacheStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Svc.CacheStats())
}

// CacheClearHandler invalidates one cache tier, or all of them.
type CacheClearHandler struct{ Svc RankingService }

type cacheClearRequest struct {
	Tier string `json:"tier"`
}

func (h CacheClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req cacheClearRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
			return
		}
	}
	if req.Tier == "" {
		req.Tier = "all"
	}

	if err := h.Svc.ClearCache(req.Tier); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInvalidInput) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"tier":   req.Tier,
		"status": "cleared",
	})
}
