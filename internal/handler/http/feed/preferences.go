package feed

import (
	"errors"
	"net/http"

	"newsagent/internal/handler/http/respond"
)

// PreferencesHandler reports one user's learned preference profile.
type PreferencesHandler struct{ Svc LearningService }

func (h PreferencesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	prefs := h.Svc.Preferences(userID)
	out := PreferencesDTO{
		UserID:      userID,
		Preferences: make(map[string]float64, len(prefs)),
		Confidence:  h.Svc.Confidence(userID),
	}
	for cat, weight := range prefs {
		out.Preferences[string(cat)] = weight
	}
	for _, cat := range h.Svc.Interests(userID) {
		out.Interests = append(out.Interests, string(cat))
	}

	respond.JSON(w, http.StatusOK, out)
}

// ResetHandler discards one user's learned state.
type ResetHandler struct{ Svc LearningService }

func (h ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	h.Svc.Reset(r.Context(), userID)
	respond.JSON(w, http.StatusOK, map[string]string{
		"user_id": userID,
		"status":  "reset",
	})
}

// ConfidenceHandler reports how settled a user's profile is.
type ConfidenceHandler struct{ Svc LearningService }

func (h ConfidenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"user_id":    userID,
		"confidence": h.Svc.Confidence(userID),
	})
}
