package feed

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"newsagent/internal/domain/entity"
	"newsagent/internal/handler/http/respond"
)

// TrackHandler records one interaction event and returns the resulting
// learning update.
type TrackHandler struct{ Svc LearningService }

func (h TrackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	ev, err := req.toEvent()
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.Track(r.Context(), ev)
	if err != nil {
		var anomaly *entity.AnomalyError
		switch {
		case errors.As(err, &anomaly):
			w.Header().Set("Retry-After", strconv.Itoa(int(anomaly.RetryAfter.Seconds()+0.5)))
			respond.JSON(w, http.StatusTooManyRequests, map[string]any{
				"error": "event rate limit exceeded",
				"limit": anomaly.Limit,
				"count": anomaly.Count,
			})
		case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrUnknownCategory):
			respond.SafeError(w, http.StatusBadRequest, err)
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	respond.JSON(w, http.StatusOK, result)
}
