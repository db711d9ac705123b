package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule validates a cron expression using the robfig/cron/v3 parser.
//
// The cron expression must follow the standard five-field format:
//   - "minute hour day month weekday"
//   - Example: "*/5 * * * *" (every five minutes)
//   - Example: "0 */6 * * *" (every six hours)
//
// Error messages include details about what went wrong, making them
// actionable for operators fixing configuration issues.
//
// Validation tool: https://crontab.guru/
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	return nil
}

// ValidateDuration validates that a duration is within a specified range.
// Both bounds are inclusive, and min must not exceed max.
//
// Example:
//
//	// Sweep interval between 10 seconds and 1 hour
//	err := ValidateDuration(5*time.Minute, 10*time.Second, time.Hour)
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid validation range: min (%v) > max (%v)", min, max)
	}

	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}

	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}

	return nil
}

// ValidateIntRange validates that an integer is within a specified range.
// Both bounds are inclusive, and min must not exceed max.
//
// Example:
//
//	// Cache capacity between 1 and 10000 entries
//	err := ValidateIntRange(capacity, 1, 10000)
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid validation range: min (%d) > max (%d)", min, max)
	}

	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}

	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}

	return nil
}

// ValidateFloatRange validates that a float is within a specified range.
// Both bounds are inclusive, and min must not exceed max.
//
// Example:
//
//	// Learning rate in the unit interval
//	err := ValidateFloatRange(rate, 0, 1)
func ValidateFloatRange(value, min, max float64) error {
	if min > max {
		return fmt.Errorf("invalid validation range: min (%g) > max (%g)", min, max)
	}

	if value < min {
		return fmt.Errorf("value %g is below minimum %g", value, min)
	}

	if value > max {
		return fmt.Errorf("value %g exceeds maximum %g", value, max)
	}

	return nil
}
