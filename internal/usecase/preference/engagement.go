package preference

import (
	"math"
	"time"

	"newsagent/internal/domain/entity"
)

// positiveScoreEpsilon is the floor for refined positive actions so that a
// promoted action never contributes zero.
const positiveScoreEpsilon = 0.001

// refineAction reinterprets the reported action using reading duration and
// scroll depth. Explicit feedback actions (like, share, dislike, report and
// the rest) are never reinterpreted.
func refineAction(ev *entity.InteractionEvent, th EngagementThresholds) entity.Action {
	switch ev.Action {
	case entity.ActionRead:
		if ev.ReadingDuration >= th.DeepReadDuration {
			if ev.ScrollPercent >= th.HighScroll {
				return entity.ActionDeepRead
			}
			return entity.ActionRead
		}
		if ev.ReadingDuration <= th.SkipDuration {
			return entity.ActionSkip
		}
		if ev.ScrollPercent < th.LowScroll {
			return entity.ActionSkip
		}
		return entity.ActionRead
	case entity.ActionClick:
		if ev.ReadingDuration > th.QualityReading {
			return entity.ActionRead
		}
		if ev.ReadingDuration <= th.Bounce {
			return entity.ActionSkip
		}
		return entity.ActionClick
	default:
		return ev.Action
	}
}

// engagementScore combines the refined action's base weight with duration,
// scroll and time-of-day multipliers. Negative actions keep their sign; only
// positive refined actions are floored at a small epsilon.
func engagementScore(ev *entity.InteractionEvent, refined entity.Action, th EngagementThresholds) float64 {
	score := refined.BaseWeight()

	if (refined == entity.ActionRead || refined == entity.ActionDeepRead) && ev.ReadingDuration > 60*time.Second {
		factor := math.Min(ev.ReadingDuration.Seconds()/120, 1.0)
		score *= 1 + factor*0.5
	}

	if ev.ScrollPercent > th.HighScroll {
		score *= 1.3
	} else if ev.ScrollPercent < th.LowScroll {
		score *= 0.7
	}

	hour := ev.Timestamp.Hour()
	if hour >= 9 && hour <= 17 {
		score *= 1.1
	} else if hour >= 21 && hour <= 23 {
		score *= 1.2
	}

	if score > 0 && score < positiveScoreEpsilon {
		score = positiveScoreEpsilon
	}
	return score
}
