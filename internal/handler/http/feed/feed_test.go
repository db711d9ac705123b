package feed_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/domain/entity"
	"newsagent/internal/handler/http/feed"
	"newsagent/internal/usecase/preference"
	"newsagent/pkg/ttlcache"
)

type fakeLearner struct {
	trackErr   error
	lastEvent  *entity.InteractionEvent
	resetUsers []string
}

func (f *fakeLearner) Track(_ context.Context, ev *entity.InteractionEvent) (*preference.LearningResult, error) {
	f.lastEvent = ev
	if f.trackErr != nil {
		return nil, f.trackErr
	}
	return &preference.LearningResult{
		EventID:   "ev-1",
		UserID:    ev.UserID,
		Category:  ev.Category,
		Action:    ev.Action,
		NewWeight: 0.2,
	}, nil
}

func (f *fakeLearner) Preferences(string) entity.PreferenceVector {
	return entity.PreferenceVector{entity.CategoryAIML: 0.4}
}

func (f *fakeLearner) Confidence(string) float64 { return 0.55 }

func (f *fakeLearner) Interests(string) []entity.Category {
	return []entity.Category{entity.CategoryAIML}
}

func (f *fakeLearner) Reset(_ context.Context, userID string) {
	f.resetUsers = append(f.resetUsers, userID)
}

func (f *fakeLearner) Stats() preference.SystemStats {
	return preference.SystemStats{TotalUsers: 3, TotalEvents: 42}
}

func (f *fakeLearner) AnalyzePatterns(userID string, days int) preference.PatternReport {
	return preference.PatternReport{UserID: userID, PeriodDays: days, UserType: "casual_reader"}
}

type fakeRanker struct {
	lastLimit    int
	clearedTiers []string
	clearErr     error
}

func (f *fakeRanker) RankForUser(_ context.Context, userID string, limit int) []entity.CandidateItem {
	f.lastLimit = limit
	items := make([]entity.CandidateItem, 0, limit)
	for i := 0; i < limit; i++ {
		items = append(items, entity.CandidateItem{
			ID:          fmt.Sprintf("item-%02d", i),
			Title:       "title",
			Category:    entity.CategoryAIML,
			Score:       0.9,
			PublishedAt: time.Now(),
		})
	}
	return items
}

func (f *fakeRanker) CacheStats() map[string]ttlcache.Stats {
	return map[string]ttlcache.Stats{
		"candidates": {Name: "candidates", Size: 1, Capacity: 100},
	}
}

func (f *fakeRanker) ClearCache(tier string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.clearedTiers = append(f.clearedTiers, tier)
	return nil
}

func newServer(learner *fakeLearner, ranker *fakeRanker) *http.ServeMux {
	mux := http.NewServeMux()
	feed.Register(mux, learner, ranker)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestTrack_OK(t *testing.T) {
	learner := &fakeLearner{}
	mux := newServer(learner, &fakeRanker{})

	rec, body := doJSON(t, mux, http.MethodPost, "/track", `{
		"user_id": "u-1",
		"action": "read",
		"content_id": "item-7",
		"category": "ai_ml",
		"reading_duration_seconds": 95,
		"scroll_percent": 80
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", body["user_id"])
	assert.Equal(t, "ev-1", body["event_id"])

	require.NotNil(t, learner.lastEvent)
	assert.Equal(t, 95*time.Second, learner.lastEvent.ReadingDuration)
	assert.False(t, learner.lastEvent.Timestamp.IsZero())
}

func TestTrack_InvalidJSON(t *testing.T) {
	mux := newServer(&fakeLearner{}, &fakeRanker{})

	rec, body := doJSON(t, mux, http.MethodPost, "/track", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "invalid JSON")
}

func TestTrack_BadTimestamp(t *testing.T) {
	mux := newServer(&fakeLearner{}, &fakeRanker{})

	rec, _ := doJSON(t, mux, http.MethodPost, "/track", `{
		"user_id": "u-1",
		"action": "view",
		"content_id": "c",
		"category": "ai_ml",
		"timestamp": "yesterday"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrack_ValidationErrorFromService(t *testing.T) {
	learner := &fakeLearner{trackErr: &entity.UnknownCategoryError{Category: "sports"}}
	mux := newServer(learner, &fakeRanker{})

	rec, _ := doJSON(t, mux, http.MethodPost, "/track", `{
		"user_id": "u-1",
		"action": "view",
		"content_id": "c",
		"category": "sports"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrack_AnomalyRejection(t *testing.T) {
	learner := &fakeLearner{trackErr: &entity.AnomalyError{
		UserID:     "u-1",
		Count:      1001,
		Limit:      1000,
		RetryAfter: 42 * time.Second,
	}}
	mux := newServer(learner, &fakeRanker{})

	rec, body := doJSON(t, mux, http.MethodPost, "/track", `{
		"user_id": "u-1",
		"action": "view",
		"content_id": "c",
		"category": "ai_ml"
	}`)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
	assert.Equal(t, float64(1000), body["limit"])
}

func TestRecommendations_DefaultLimit(t *testing.T) {
	ranker := &fakeRanker{}
	mux := newServer(&fakeLearner{}, ranker)

	rec, body := doJSON(t, mux, http.MethodGet, "/recommendations/u-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, ranker.lastLimit)
	assert.Equal(t, float64(10), body["count"])
}

func TestRecommendations_LimitCapped(t *testing.T) {
	ranker := &fakeRanker{}
	mux := newServer(&fakeLearner{}, ranker)

	rec, _ := doJSON(t, mux, http.MethodGet, "/recommendations/u-1?limit=500", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, ranker.lastLimit)
}

func TestRecommendations_InvalidLimit(t *testing.T) {
	mux := newServer(&fakeLearner{}, &fakeRanker{})

	rec, _ := doJSON(t, mux, http.MethodGet, "/recommendations/u-1?limit=zero", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreferences_Get(t *testing.T) {
	mux := newServer(&fakeLearner{}, &fakeRanker{})

	rec, body := doJSON(t, mux, http.MethodGet, "/preferences/u-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", body["user_id"])
	assert.Equal(t, 0.55, body["confidence"])

	prefs, ok := body["preferences"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.4, prefs["ai_ml"])
}

func TestPreferences_Reset(t *testing.T) {
	learner := &fakeLearner{}
	mux := newServer(learner, &fakeRanker{})

	rec, _ := doJSON(t, mux, http.MethodDelete, "/preferences/u-9", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u-9"}, learner.resetUsers)
}

func TestConfidence(t *testing.T) {
	mux := newServer(&fakeLearner{}, &fakeRanker{})

	rec, body := doJSON(t, mux, http.MethodGet, "/confidence/u-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.55, body["confidence"])
}

func TestPatterns_DaysParam(t *testing.T) {
	mux := newServer(&fakeLearner{}, &fakeRanker{})

	rec, body := doJSON(t, mux, http.MethodGet, "/patterns/u-1?days=30", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(30), body["period_days"])
	assert.Equal(t, "casual_reader", body["user_type"])
}

func TestPatterns_InvalidDays(t *testing.T) {
	mux := newServer(&fakeLearner{}, &fakeRanker{})

	rec, _ := doJSON(t, mux, http.MethodGet, "/patterns/u-1?days=-3", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	mux := newServer(&fakeLearner{}, &fakeRanker{})

	rec, body := doJSON(t, mux, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["total_users"])
}

func TestCacheStats(t *testing.T) {
	mux := newServer(&fakeLearner{}, &fakeRanker{})

	rec, body := doJSON(t, mux, http.MethodGet, "/cache/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, "candidates")
}

func TestCacheClear_DefaultsToAll(t *testing.T) {
	ranker := &fakeRanker{}
	mux := newServer(&fakeLearner{}, ranker)

	rec, _ := doJSON(t, mux, http.MethodPost, "/cache/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"all"}, ranker.clearedTiers)
}

func TestCacheClear_UnknownTier(t *testing.T) {
	ranker := &fakeRanker{clearErr: fmt.Errorf("unknown cache tier %q: %w", "bogus", entity.ErrInvalidInput)}
	mux := newServer(&fakeLearner{}, ranker)

	rec, _ := doJSON(t, mux, http.MethodPost, "/cache/clear", `{"tier":"bogus"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
