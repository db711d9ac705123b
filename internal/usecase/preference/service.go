package preference

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"newsagent/internal/domain/entity"
	"newsagent/internal/observability/metrics"
	"newsagent/internal/repository"
	"newsagent/pkg/ratelimit"
)

// LearningResult reports what a single tracked event did to the user's
// preference vector.
type LearningResult struct {
	EventID         string          `json:"event_id"`
	UserID          string          `json:"user_id"`
	Category        entity.Category `json:"category"`
	Action          entity.Action   `json:"action"`
	RefinedAction   entity.Action   `json:"refined_action"`
	EngagementScore float64         `json:"engagement_score"`
	OldWeight       float64         `json:"old_weight"`
	NewWeight       float64         `json:"new_weight"`
	Adjustment      float64         `json:"adjustment"`
	LearningRate    float64         `json:"learning_rate"`
	Confidence      float64         `json:"confidence"`
}

// SystemStats is an aggregate snapshot across all tracked users.
type SystemStats struct {
	TotalUsers        int    `json:"total_users"`
	TotalEvents       uint64 `json:"total_events"`
	LearningUpdates   uint64 `json:"learning_updates"`
	AnomaliesRejected uint64 `json:"anomalies_rejected"`
}

// PatternReport summarizes a user's recent interaction behavior.
type PatternReport struct {
	UserID       string                `json:"user_id"`
	PeriodDays   int                   `json:"period_days"`
	TotalEvents  int                   `json:"total_events"`
	ActionCounts map[entity.Action]int `json:"action_counts"`
	UserType     string                `json:"user_type"`
}

type historyEntry struct {
	action entity.Action
	at     time.Time
}

type userState struct {
	mu      sync.Mutex
	prefs   entity.PreferenceVector
	history []historyEntry
}

// Service is the adaptive preference learning engine. All state lives in
// memory; repositories, when configured, receive asynchronous write-behind
// copies and seed the in-memory state at startup.
type Service struct {
	cfg    Config
	clock  func() time.Time
	logger *slog.Logger
	guard  *ratelimit.SlidingWindow

	prefRepo  repository.PreferenceRepository
	eventRepo repository.EventRepository

	mu    sync.RWMutex
	users map[string]*userState

	statsMu           sync.Mutex
	totalEvents       uint64
	learningUpdates   uint64
	anomaliesRejected uint64
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithRepositories enables write-behind persistence and startup loading.
// Either repository may be nil.
func WithRepositories(prefs repository.PreferenceRepository, events repository.EventRepository) Option {
	return func(s *Service) {
		s.prefRepo = prefs
		s.eventRepo = events
	}
}

// NewService creates a learning engine with the given configuration.
func NewService(cfg Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		clock:  time.Now,
		logger: slog.Default(),
		users:  make(map[string]*userState),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.guard = ratelimit.NewSlidingWindow(cfg.AnomalyLimit, cfg.AnomalyWindow, clockFunc(s.clock))
	return s
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

// Track validates and applies one interaction event, returning the weight
// change it produced. Events beyond the per-user anomaly limit are rejected
// with an AnomalyError before any state changes.
func (s *Service) Track(ctx context.Context, ev *entity.InteractionEvent) (*LearningResult, error) {
	if err := ev.Validate(); err != nil {
		metrics.RecordEventRejected("validation")
		return nil, err
	}
	if ev.Timestamp.IsZero() {
		stamped := *ev
		stamped.Timestamp = s.clock()
		ev = &stamped
	}

	if d := s.guard.Allow(ev.UserID); !d.Allowed {
		s.statsMu.Lock()
		s.anomaliesRejected++
		s.statsMu.Unlock()
		metrics.RecordEventRejected("anomaly")
		s.logger.WarnContext(ctx, "anomalous event volume rejected",
			slog.String("user_id", ev.UserID),
			slog.Int("count", d.Count),
			slog.Int("limit", d.Limit),
		)
		return nil, &entity.AnomalyError{
			UserID:     ev.UserID,
			Count:      d.Count,
			Limit:      d.Limit,
			RetryAfter: d.RetryAfter,
		}
	}

	refined := refineAction(ev, s.cfg.Thresholds)
	score := engagementScore(ev, refined, s.cfg.Thresholds)

	st := s.state(ev.UserID)
	st.mu.Lock()
	defer st.mu.Unlock()

	now := s.clock()
	st.history = append(st.history, historyEntry{action: refined, at: ev.Timestamp})
	s.pruneHistoryLocked(st, now)

	confidence := s.confidenceLocked(st)
	rate := s.adaptiveRate(confidence)
	decay := s.decay(ev.Timestamp, now)

	old := st.prefs[ev.Category]
	adjustment := score * rate * decay
	updated := clamp(old+adjustment, s.cfg.MinWeight, s.cfg.MaxWeight)
	st.prefs[ev.Category] = updated
	s.normalizeLocked(st.prefs, ev.Category, adjustment)
	final := st.prefs[ev.Category]

	s.statsMu.Lock()
	s.totalEvents++
	s.learningUpdates++
	s.statsMu.Unlock()

	metrics.RecordEventTracked(string(refined), score)

	result := &LearningResult{
		EventID:         uuid.New().String(),
		UserID:          ev.UserID,
		Category:        ev.Category,
		Action:          ev.Action,
		RefinedAction:   refined,
		EngagementScore: round(score, 4),
		OldWeight:       round(old, 4),
		NewWeight:       round(final, 4),
		Adjustment:      round(final-old, 4),
		LearningRate:    round(rate, 4),
		Confidence:      round(confidence, 3),
	}

	s.persistAsync(result.EventID, ev, refined, score, st.prefs.Clone())

	s.logger.DebugContext(ctx, "event tracked",
		slog.String("user_id", ev.UserID),
		slog.String("action", string(refined)),
		slog.String("category", string(ev.Category)),
		slog.Float64("adjustment", result.Adjustment),
	)
	return result, nil
}

// Preferences returns a copy of the user's preference vector, or the uniform
// vector for unknown users.
func (s *Service) Preferences(userID string) entity.PreferenceVector {
	s.mu.RLock()
	st, ok := s.users[userID]
	s.mu.RUnlock()
	if !ok {
		return entity.UniformPreferences()
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.prefs.Clone()
}

// Confidence reports how settled the user's learned preferences are, in
// [0, 1]. Unknown users score zero.
func (s *Service) Confidence(userID string) float64 {
	s.mu.RLock()
	st, ok := s.users[userID]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return round(s.confidenceLocked(st), 3)
}

// Interests derives the user's current interest categories from learned
// weights: categories above the interest threshold, strongest first, capped.
func (s *Service) Interests(userID string) []entity.Category {
	return s.Preferences(userID).TopInterests(0.1, 3)
}

// Reset discards all learned state for the user. The anomaly window is
// deliberately left intact.
func (s *Service) Reset(ctx context.Context, userID string) {
	s.mu.Lock()
	delete(s.users, userID)
	s.mu.Unlock()
	metrics.UpdateTrackedUsers(s.userCount())

	if s.prefRepo != nil {
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.prefRepo.Delete(bg, userID); err != nil {
				metrics.RecordPersistenceWrite("preference_delete", false)
				s.logger.Warn("preference delete failed", slog.String("user_id", userID), slog.Any("error", err))
				return
			}
			metrics.RecordPersistenceWrite("preference_delete", true)
		}()
	}
	s.logger.InfoContext(ctx, "user state reset", slog.String("user_id", userID))
}

// Stats returns aggregate counters across all users.
func (s *Service) Stats() SystemStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return SystemStats{
		TotalUsers:        s.userCount(),
		TotalEvents:       s.totalEvents,
		LearningUpdates:   s.learningUpdates,
		AnomaliesRejected: s.anomaliesRejected,
	}
}

// AnalyzePatterns classifies the user's recent behavior within the last
// days of history.
func (s *Service) AnalyzePatterns(userID string, days int) PatternReport {
	if days <= 0 {
		days = 7
	}
	report := PatternReport{
		UserID:       userID,
		PeriodDays:   days,
		ActionCounts: make(map[entity.Action]int),
		UserType:     "casual_reader",
	}

	s.mu.RLock()
	st, ok := s.users[userID]
	s.mu.RUnlock()
	if !ok {
		return report
	}

	st.mu.Lock()
	cutoff := s.clock().AddDate(0, 0, -days)
	for _, h := range st.history {
		if h.at.Before(cutoff) {
			continue
		}
		report.TotalEvents++
		report.ActionCounts[h.action]++
	}
	st.mu.Unlock()

	report.UserType = classifyUser(report)
	return report
}

// Bootstrap loads persisted preference vectors and recent events into memory.
// Called once at startup; a missing repository is a no-op.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.prefRepo == nil {
		return nil
	}
	stored, err := s.prefRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	s.mu.Lock()
	for userID, prefs := range stored {
		st := &userState{prefs: prefs.Clone()}
		s.users[userID] = st
		if s.eventRepo == nil {
			continue
		}
		g.Go(func() error {
			events, err := s.eventRepo.RecentByUser(gctx, userID, s.cfg.HistoryLimit)
			if err != nil {
				return fmt.Errorf("load events for %s: %w", userID, err)
			}
			st.mu.Lock()
			for _, ev := range events {
				st.history = append(st.history, historyEntry{action: ev.RefinedAction, at: ev.Event.Timestamp})
			}
			sort.Slice(st.history, func(i, j int) bool { return st.history[i].at.Before(st.history[j].at) })
			st.mu.Unlock()
			return nil
		})
	}
	s.mu.Unlock()

	if err := g.Wait(); err != nil {
		return err
	}
	metrics.UpdateTrackedUsers(s.userCount())
	s.logger.InfoContext(ctx, "preference state loaded", slog.Int("users", len(stored)))
	return nil
}

// Flush writes every user's current preference vector through to the
// repository. Run periodically by the maintenance worker.
func (s *Service) Flush(ctx context.Context) error {
	if s.prefRepo == nil {
		return nil
	}
	s.mu.RLock()
	snapshots := make(map[string]entity.PreferenceVector, len(s.users))
	for userID, st := range s.users {
		st.mu.Lock()
		snapshots[userID] = st.prefs.Clone()
		st.mu.Unlock()
	}
	s.mu.RUnlock()

	for userID, prefs := range snapshots {
		if err := s.prefRepo.Save(ctx, userID, prefs); err != nil {
			metrics.RecordPersistenceWrite("preference_flush", false)
			return fmt.Errorf("flush preferences for %s: %w", userID, err)
		}
		metrics.RecordPersistenceWrite("preference_flush", true)
	}
	return nil
}

// Cleanup drops expired history entries and stale anomaly-window state.
func (s *Service) Cleanup() {
	now := s.clock()
	s.mu.RLock()
	states := make([]*userState, 0, len(s.users))
	for _, st := range s.users {
		states = append(states, st)
	}
	s.mu.RUnlock()

	for _, st := range states {
		st.mu.Lock()
		s.pruneHistoryLocked(st, now)
		st.mu.Unlock()
	}
	s.guard.Cleanup()
}

func (s *Service) state(userID string) *userState {
	s.mu.RLock()
	st, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return st
	}

	s.mu.Lock()
	st, ok = s.users[userID]
	if !ok {
		st = &userState{prefs: entity.UniformPreferences()}
		s.users[userID] = st
	}
	count := len(s.users)
	s.mu.Unlock()
	metrics.UpdateTrackedUsers(count)
	return st
}

func (s *Service) userCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Service) pruneHistoryLocked(st *userState, now time.Time) {
	cutoff := now.Add(-s.cfg.HistoryMaxAge)
	kept := st.history[:0]
	for _, h := range st.history {
		if !h.at.Before(cutoff) {
			kept = append(kept, h)
		}
	}
	st.history = kept
	if len(st.history) > s.cfg.HistoryLimit {
		st.history = st.history[len(st.history)-s.cfg.HistoryLimit:]
	}
}

// confidenceLocked scores confidence from event volume plus action variety.
func (s *Service) confidenceLocked(st *userState) float64 {
	if len(st.history) == 0 {
		return 0
	}
	volume := math.Min(float64(len(st.history))/float64(s.cfg.ConfidenceThreshold), 1.0)

	distinct := make(map[entity.Action]struct{})
	for _, h := range st.history {
		distinct[h.action] = struct{}{}
	}
	variety := math.Min(float64(len(distinct))/6.0, 0.2)

	return math.Min(volume+variety, 1.0)
}

func (s *Service) adaptiveRate(confidence float64) float64 {
	rate := s.cfg.BaseLearningRate
	switch {
	case confidence < s.cfg.LowConfidence:
		rate *= s.cfg.NewUserRateBoost
	case confidence > s.cfg.HighConfidence:
		rate *= s.cfg.ExperiencedRateDamp
	}
	return rate
}

func (s *Service) decay(eventTime, now time.Time) float64 {
	if eventTime.IsZero() || !eventTime.Before(now) {
		return 1
	}
	days := now.Sub(eventTime).Hours() / 24
	return math.Max(math.Pow(s.cfg.DecayFactor, days), s.cfg.DecayFloor)
}

// normalizeLocked restores the sum-to-one invariant after a single weight
// update. A positive adjustment is paid for proportionally by the other
// categories before the final renormalization, so the updated category keeps
// most of its gain.
func (s *Service) normalizeLocked(prefs entity.PreferenceVector, updated entity.Category, adjustment float64) {
	total := prefs.Sum()
	if total <= 0 {
		uniform := entity.UniformPreferences()
		for cat, w := range uniform {
			prefs[cat] = w
		}
		return
	}

	if adjustment > 0 && total > 1 {
		excess := total - 1
		var otherTotal float64
		for cat, w := range prefs {
			if cat != updated {
				otherTotal += w
			}
		}
		if otherTotal > 0 {
			reduction := excess / otherTotal
			for cat, w := range prefs {
				if cat == updated {
					continue
				}
				prefs[cat] = math.Max(w*(1-reduction), s.cfg.MinWeight)
			}
		}
	}

	for i := 0; i < 8; i++ {
		total = prefs.Sum()
		if total <= 0 {
			break
		}
		for cat, w := range prefs {
			prefs[cat] = w / total
		}
		if s.withinBounds(prefs) {
			return
		}
		for cat, w := range prefs {
			prefs[cat] = clamp(w, s.cfg.MinWeight, s.cfg.MaxWeight)
		}
		if math.Abs(prefs.Sum()-1) < 1e-9 {
			return
		}
	}
}

func (s *Service) withinBounds(prefs entity.PreferenceVector) bool {
	for _, w := range prefs {
		if w < s.cfg.MinWeight-1e-9 || w > s.cfg.MaxWeight+1e-9 {
			return false
		}
	}
	return true
}

func (s *Service) persistAsync(eventID string, ev *entity.InteractionEvent, refined entity.Action, score float64, prefs entity.PreferenceVector) {
	if s.prefRepo == nil && s.eventRepo == nil {
		return
	}
	evCopy := *ev
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.eventRepo != nil {
			stored := repository.StoredEvent{
				EventID:         eventID,
				Event:           evCopy,
				RefinedAction:   refined,
				EngagementScore: score,
			}
			if err := s.eventRepo.Append(bg, stored); err != nil {
				metrics.RecordPersistenceWrite("event", false)
				s.logger.Warn("event persist failed", slog.String("event_id", eventID), slog.Any("error", err))
			} else {
				metrics.RecordPersistenceWrite("event", true)
			}
		}
		if s.prefRepo != nil {
			if err := s.prefRepo.Save(bg, evCopy.UserID, prefs); err != nil {
				metrics.RecordPersistenceWrite("preference", false)
				s.logger.Warn("preference persist failed", slog.String("user_id", evCopy.UserID), slog.Any("error", err))
			} else {
				metrics.RecordPersistenceWrite("preference", true)
			}
		}
	}()
}

func classifyUser(r PatternReport) string {
	if r.TotalEvents == 0 {
		return "casual_reader"
	}
	total := float64(r.TotalEvents)
	deep := float64(r.ActionCounts[entity.ActionDeepRead])
	sharing := float64(r.ActionCounts[entity.ActionShare] + r.ActionCounts[entity.ActionComment])
	scanning := float64(r.ActionCounts[entity.ActionSkip] + r.ActionCounts[entity.ActionView])

	switch {
	case deep/total >= 0.3:
		return "deep_reader"
	case sharing/total >= 0.2:
		return "active_sharer"
	case scanning/total >= 0.5:
		return "quick_scanner"
	default:
		return "casual_reader"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
