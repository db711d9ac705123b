package preference

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/domain/entity"
	"newsagent/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, clock *fakeClock, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewService(DefaultConfig(), opts...)
}

func viewEvent(userID string, cat entity.Category, at time.Time) *entity.InteractionEvent {
	return &entity.InteractionEvent{
		UserID:    userID,
		Action:    entity.ActionView,
		ContentID: "content-1",
		Category:  cat,
		Timestamp: at,
	}
}

func TestTrack_ValidationErrors(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	tests := []struct {
		name    string
		event   *entity.InteractionEvent
		wantErr error
	}{
		{
			name: "missing user id",
			event: &entity.InteractionEvent{
				Action: entity.ActionView, ContentID: "c", Category: entity.CategoryAIML,
			},
			wantErr: entity.ErrInvalidInput,
		},
		{
			name: "unknown action",
			event: &entity.InteractionEvent{
				UserID: "u", Action: "teleport", ContentID: "c", Category: entity.CategoryAIML,
			},
			wantErr: entity.ErrInvalidInput,
		},
		{
			name: "unknown category",
			event: &entity.InteractionEvent{
				UserID: "u", Action: entity.ActionView, ContentID: "c", Category: "astrology",
			},
			wantErr: entity.ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Track(context.Background(), tt.event)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}
}

func TestTrack_LeavesCallerEventUntouched(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	ev := viewEvent("dana", entity.CategoryAIML, time.Time{})
	_, err := svc.Track(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, ev.Timestamp.IsZero(), "missing timestamp must be stamped on a copy, not the caller's event")
}

func TestTrack_PositiveActionIncreasesWeight(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	uniform := entity.UniformPreferences()[entity.CategoryAIML]

	for i := 0; i < 5; i++ {
		ev := &entity.InteractionEvent{
			UserID:          "alice",
			Action:          entity.ActionDeepRead,
			ContentID:       "article-42",
			Category:        entity.CategoryAIML,
			ReadingDuration: 150 * time.Second,
			ScrollPercent:   95,
			Timestamp:       clock.Now(),
		}
		result, err := svc.Track(context.Background(), ev)
		require.NoError(t, err)
		assert.Equal(t, entity.ActionDeepRead, result.RefinedAction)
		assert.Positive(t, result.EngagementScore)
		clock.Advance(time.Minute)
	}

	prefs := svc.Preferences("alice")
	assert.Greater(t, prefs[entity.CategoryAIML], uniform)
	for cat, w := range prefs {
		if cat == entity.CategoryAIML {
			continue
		}
		assert.Less(t, w, prefs[entity.CategoryAIML], "%s should trail the trained category", cat)
	}
	assert.InDelta(t, 1.0, prefs.Sum(), 1e-3)
}

func TestTrack_NegativeActionDecreasesWeight(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	before := svc.Preferences("bob")[entity.CategoryWeb3Crypto]

	ev := &entity.InteractionEvent{
		UserID:    "bob",
		Action:    entity.ActionDislike,
		ContentID: "article-7",
		Category:  entity.CategoryWeb3Crypto,
		Timestamp: clock.Now(),
	}
	result, err := svc.Track(context.Background(), ev)
	require.NoError(t, err)
	assert.Negative(t, result.EngagementScore)

	after := svc.Preferences("bob")[entity.CategoryWeb3Crypto]
	assert.Less(t, after, before)
	assert.InDelta(t, 1.0, svc.Preferences("bob").Sum(), 1e-3)
}

func TestTrack_SumInvariantUnderMixedLoad(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	actions := []entity.Action{
		entity.ActionView, entity.ActionClick, entity.ActionRead,
		entity.ActionLike, entity.ActionDislike, entity.ActionShare,
		entity.ActionSkip, entity.ActionBookmark,
	}
	cats := entity.Categories()

	for i := 0; i < 200; i++ {
		ev := &entity.InteractionEvent{
			UserID:          "carol",
			Action:          actions[i%len(actions)],
			ContentID:       "c",
			Category:        cats[i%len(cats)],
			ReadingDuration: time.Duration(i%180) * time.Second,
			ScrollPercent:   float64(i % 100),
			Timestamp:       clock.Now(),
		}
		_, err := svc.Track(context.Background(), ev)
		require.NoError(t, err)
		clock.Advance(5 * time.Second)
	}

	prefs := svc.Preferences("carol")
	assert.InDelta(t, 1.0, prefs.Sum(), 1e-3)

	cfg := DefaultConfig()
	for cat, w := range prefs {
		assert.GreaterOrEqual(t, w, cfg.MinWeight-1e-9, "%s below floor", cat)
		assert.LessOrEqual(t, w, cfg.MaxWeight+1e-9, "%s above ceiling", cat)
	}
}

func TestTrack_SaturationBounds(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)
	cfg := DefaultConfig()

	// Hammer one category with the strongest positive signal available.
	for i := 0; i < 300; i++ {
		ev := &entity.InteractionEvent{
			UserID:          "dave",
			Action:          entity.ActionShare,
			ContentID:       "c",
			Category:        entity.CategoryProgramming,
			ReadingDuration: 150 * time.Second,
			ScrollPercent:   95,
			Timestamp:       clock.Now(),
		}
		_, err := svc.Track(context.Background(), ev)
		require.NoError(t, err)
		clock.Advance(10 * time.Second)
	}

	prefs := svc.Preferences("dave")
	assert.LessOrEqual(t, prefs[entity.CategoryProgramming], cfg.MaxWeight+1e-9)
	for cat, w := range prefs {
		assert.GreaterOrEqual(t, w, cfg.MinWeight-1e-9, "%s starved below floor", cat)
	}
	assert.InDelta(t, 1.0, prefs.Sum(), 1e-3)
}

func TestTrack_AnomalyGuard(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)
	cfg := DefaultConfig()

	for i := 0; i < cfg.AnomalyLimit; i++ {
		_, err := svc.Track(context.Background(), viewEvent("mallory", entity.CategoryAIML, clock.Now()))
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	_, err := svc.Track(context.Background(), viewEvent("mallory", entity.CategoryAIML, clock.Now()))
	require.Error(t, err)
	assert.True(t, entity.IsAnomaly(err))

	var anomaly *entity.AnomalyError
	require.ErrorAs(t, err, &anomaly)
	assert.Equal(t, "mallory", anomaly.UserID)
	assert.Equal(t, cfg.AnomalyLimit, anomaly.Limit)
	assert.Positive(t, anomaly.RetryAfter)

	// Other users are unaffected.
	_, err = svc.Track(context.Background(), viewEvent("trent", entity.CategoryAIML, clock.Now()))
	assert.NoError(t, err)

	// Rejected events leave no trace in the rejected user's state either.
	stats := svc.Stats()
	assert.Equal(t, uint64(1), stats.AnomaliesRejected)
}

func TestTrack_TemporalDecay(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	fresh, err := svc.Track(context.Background(), viewEvent("erin", entity.CategoryStartupVenture, clock.Now()))
	require.NoError(t, err)

	stale, err := svc.Track(context.Background(), viewEvent("erin2", entity.CategoryStartupVenture, clock.Now().AddDate(0, 0, -10)))
	require.NoError(t, err)

	assert.Greater(t, fresh.Adjustment, stale.Adjustment)
	assert.Positive(t, stale.Adjustment)
}

func TestConfidence_GrowsWithHistory(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	assert.Zero(t, svc.Confidence("frank"))

	actions := []entity.Action{
		entity.ActionView, entity.ActionClick, entity.ActionLike,
		entity.ActionShare, entity.ActionBookmark, entity.ActionComment,
	}
	for i := 0; i < 12; i++ {
		ev := viewEvent("frank", entity.CategoryAIML, clock.Now())
		ev.Action = actions[i%len(actions)]
		_, err := svc.Track(context.Background(), ev)
		require.NoError(t, err)
	}

	// Volume saturated (12 >= 10) plus full variety bonus (6 actions).
	assert.InDelta(t, 1.0, svc.Confidence("frank"), 1e-9)
}

func TestAdaptiveRate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	svc := NewService(cfg)

	assert.InDelta(t, cfg.BaseLearningRate*cfg.NewUserRateBoost, svc.adaptiveRate(0.1), 1e-9)
	assert.InDelta(t, cfg.BaseLearningRate, svc.adaptiveRate(0.5), 1e-9)
	assert.InDelta(t, cfg.BaseLearningRate*cfg.ExperiencedRateDamp, svc.adaptiveRate(0.9), 1e-9)
}

func TestReset(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	for i := 0; i < 5; i++ {
		_, err := svc.Track(context.Background(), viewEvent("grace", entity.CategoryHardwareChips, clock.Now()))
		require.NoError(t, err)
	}
	require.NotEqual(t, entity.UniformPreferences(), svc.Preferences("grace"))

	svc.Reset(context.Background(), "grace")

	assert.Equal(t, entity.UniformPreferences(), svc.Preferences("grace"))
	assert.Zero(t, svc.Confidence("grace"))
}

func TestInterests(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	// Fresh users sit on the uniform vector; every weight is 0.125 which
	// clears the 0.1 interest threshold, so the cap of three applies.
	assert.Len(t, svc.Interests("heidi"), 3)

	for i := 0; i < 20; i++ {
		ev := viewEvent("heidi", entity.CategoryAIML, clock.Now())
		ev.Action = entity.ActionLike
		_, err := svc.Track(context.Background(), ev)
		require.NoError(t, err)
	}

	interests := svc.Interests("heidi")
	require.NotEmpty(t, interests)
	assert.Equal(t, entity.CategoryAIML, interests[0])
	assert.LessOrEqual(t, len(interests), 3)
}

func TestAnalyzePatterns(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	report := svc.AnalyzePatterns("nobody", 7)
	assert.Equal(t, "casual_reader", report.UserType)
	assert.Zero(t, report.TotalEvents)

	for i := 0; i < 10; i++ {
		ev := &entity.InteractionEvent{
			UserID:          "ivan",
			Action:          entity.ActionRead,
			ContentID:       "c",
			Category:        entity.CategoryEnterpriseSaaS,
			ReadingDuration: 100 * time.Second,
			ScrollPercent:   90,
			Timestamp:       clock.Now(),
		}
		_, err := svc.Track(context.Background(), ev)
		require.NoError(t, err)
	}

	report = svc.AnalyzePatterns("ivan", 7)
	assert.Equal(t, 10, report.TotalEvents)
	assert.Equal(t, "deep_reader", report.UserType)
	assert.Equal(t, 10, report.ActionCounts[entity.ActionDeepRead])
}

func TestTrack_ConcurrentUsers(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	svc := newTestService(t, clock)

	var wg sync.WaitGroup
	users := []string{"u1", "u2", "u3", "u4"}
	for _, userID := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				ev := viewEvent(userID, entity.CategoryConsumerTech, clock.Now())
				_, err := svc.Track(context.Background(), ev)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for _, userID := range users {
		assert.InDelta(t, 1.0, svc.Preferences(userID).Sum(), 1e-3)
	}
	assert.Equal(t, uint64(200), svc.Stats().TotalEvents)
}

type memoryPrefRepo struct {
	mu    sync.Mutex
	prefs map[string]entity.PreferenceVector
}

func newMemoryPrefRepo() *memoryPrefRepo {
	return &memoryPrefRepo{prefs: make(map[string]entity.PreferenceVector)}
}

func (r *memoryPrefRepo) Save(_ context.Context, userID string, prefs entity.PreferenceVector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[userID] = prefs.Clone()
	return nil
}

func (r *memoryPrefRepo) Get(_ context.Context, userID string) (entity.PreferenceVector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userID]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (r *memoryPrefRepo) LoadAll(_ context.Context) (map[string]entity.PreferenceVector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]entity.PreferenceVector, len(r.prefs))
	for id, p := range r.prefs {
		out[id] = p.Clone()
	}
	return out, nil
}

func (r *memoryPrefRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.prefs, userID)
	return nil
}

func TestBootstrapAndFlush(t *testing.T) {
	t.Parallel()

	clock := newFakeClock(neutralTime)
	repo := newMemoryPrefRepo()

	seeded := entity.UniformPreferences()
	seeded[entity.CategoryAIML] = 0.3
	seeded[entity.CategoryConsumerTech] = 0.025
	require.NoError(t, repo.Save(context.Background(), "judy", seeded))

	svc := newTestService(t, clock, WithRepositories(repo, nil))
	require.NoError(t, svc.Bootstrap(context.Background()))

	got := svc.Preferences("judy")
	assert.InDelta(t, 0.3, got[entity.CategoryAIML], 1e-9)

	// Mutate in memory and flush back.
	_, err := svc.Track(context.Background(), viewEvent("judy", entity.CategoryAIML, clock.Now()))
	require.NoError(t, err)
	require.NoError(t, svc.Flush(context.Background()))

	stored, err := repo.Get(context.Background(), "judy")
	require.NoError(t, err)
	assert.Greater(t, stored[entity.CategoryAIML], 0.3)
}

var _ repository.PreferenceRepository = (*memoryPrefRepo)(nil)
