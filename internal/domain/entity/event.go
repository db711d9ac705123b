package entity

import "time"

// Action enumerates the kinds of user interaction the learning engine accepts.
type Action string

const (
	ActionView          Action = "view"
	ActionClick         Action = "click"
	ActionRead          Action = "read"
	ActionDeepRead      Action = "deep_read"
	ActionLike          Action = "like"
	ActionShare         Action = "share"
	ActionBookmark      Action = "bookmark"
	ActionComment       Action = "comment"
	ActionDislike       Action = "dislike"
	ActionSkip          Action = "skip"
	ActionReport        Action = "report"
	ActionBlockCategory Action = "block_category"
)

// actionWeights maps each action to its base engagement weight.
// Negative weights implement negative reinforcement: a dislike or report
// pushes the category weight down instead of up.
var actionWeights = map[Action]float64{
	ActionView:          0.01,
	ActionClick:         0.03,
	ActionRead:          0.05,
	ActionDeepRead:      0.12,
	ActionShare:         0.18,
	ActionLike:          0.08,
	ActionBookmark:      0.10,
	ActionComment:       0.06,
	ActionDislike:       -0.12,
	ActionSkip:          -0.04,
	ActionReport:        -0.20,
	ActionBlockCategory: -0.25,
}

// Valid reports whether a is a known action kind.
func (a Action) Valid() bool {
	_, ok := actionWeights[a]
	return ok
}

// BaseWeight returns the base engagement weight of the action.
// Unknown actions weigh the same as a bare view.
func (a Action) BaseWeight() float64 {
	if w, ok := actionWeights[a]; ok {
		return w
	}
	return actionWeights[ActionView]
}

// Negative reports whether the action carries negative reinforcement.
func (a Action) Negative() bool { return a.BaseWeight() < 0 }

// InteractionEvent is an immutable record of one user interaction with a
// content item. Events are created by the caller and never mutated by the
// learning engine; action refinement produces a derived value instead.
type InteractionEvent struct {
	UserID          string
	Action          Action
	ContentID       string
	Category        Category
	Title           string
	ReadingDuration time.Duration
	ScrollPercent   float64
	Timestamp       time.Time
}

// Validate checks the event for structural problems. It returns a
// *ValidationError for malformed fields and ErrUnknownCategory (wrapped)
// when the category is outside the fixed set. Validation never mutates
// the event and runs before any engine state change.
func (e *InteractionEvent) Validate() error {
	if e.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "user_id is required"}
	}
	if e.ContentID == "" {
		return &ValidationError{Field: "content_id", Message: "content_id is required"}
	}
	if !e.Action.Valid() {
		return &ValidationError{Field: "action", Message: "unknown action kind: " + string(e.Action)}
	}
	if !e.Category.Valid() {
		return &UnknownCategoryError{Category: e.Category}
	}
	if e.ReadingDuration < 0 {
		return &ValidationError{Field: "reading_duration", Message: "reading_duration must be >= 0"}
	}
	if e.ScrollPercent < 0 || e.ScrollPercent > 100 {
		return &ValidationError{Field: "scroll_percent", Message: "scroll_percent must be between 0 and 100"}
	}
	return nil
}
