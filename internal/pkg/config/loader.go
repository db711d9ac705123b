package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult represents the result of loading one configuration value.
// It carries the loaded value, any warnings generated during loading, and a
// flag indicating whether the default value had to be used.
//
// Fields:
//   - Value: The loaded configuration value (the default if validation failed)
//   - Warnings: List of warning messages (one per fallback applied)
//   - FallbackApplied: True if the default value was used
//
// Example:
//
//	result := LoadEnvDuration("CACHE_CANDIDATE_TTL", 30*time.Minute, ValidatePositiveDuration)
//	if result.FallbackApplied {
//	    for _, warning := range result.Warnings {
//	        slog.Warn(warning)
//	    }
//	}
//	ttl := result.Value.(time.Duration)
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString loads a string value from an environment variable.
// If the environment variable is not set, the default value is returned.
// No validation is performed.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback loads a string value and validates it with the given
// validator. An unset variable silently yields the default; a set but
// invalid value yields the default plus a warning.
//
// Parameters:
//   - envKey: Environment variable name
//   - defaultValue: Value to use when unset or invalid
//   - validator: Validation function, may be nil
//
// Example:
//
//	result := LoadEnvWithFallback("MAINTENANCE_SCHEDULE", "*/5 * * * *", ValidateCronSchedule)
//	schedule := result.Value.(string)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return ConfigLoadResult{
				Value:           defaultValue,
				FallbackApplied: true,
				Warnings: []string{
					fmt.Sprintf("invalid value for %s: %v, using default %q", envKey, err, defaultValue),
				},
			}
		}
	}

	return ConfigLoadResult{Value: value}
}

// LoadEnvDuration loads a time.Duration from an environment variable with
// optional validation. Parse failures and validation failures both fall back
// to the default with a warning.
//
// Example:
//
//	result := LoadEnvDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute, ValidatePositiveDuration)
//	interval := result.Value.(time.Duration)
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return ConfigLoadResult{
			Value:           defaultValue,
			FallbackApplied: true,
			Warnings: []string{
				fmt.Sprintf("cannot parse %s=%q as duration: %v, using default %v", envKey, valueStr, err, defaultValue),
			},
		}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return ConfigLoadResult{
				Value:           defaultValue,
				FallbackApplied: true,
				Warnings: []string{
					fmt.Sprintf("invalid value for %s: %v, using default %v", envKey, err, defaultValue),
				},
			}
		}
	}

	return ConfigLoadResult{Value: value}
}

// LoadEnvInt loads an int from an environment variable with optional
// validation. Parse failures and validation failures both fall back to the
// default with a warning.
//
// Example:
//
//	result := LoadEnvInt("CACHE_CAPACITY", 100, func(v int) error { return ValidateIntRange(v, 1, 10000) })
//	capacity := result.Value.(int)
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return ConfigLoadResult{
			Value:           defaultValue,
			FallbackApplied: true,
			Warnings: []string{
				fmt.Sprintf("cannot parse %s=%q as integer: %v, using default %d", envKey, valueStr, err, defaultValue),
			},
		}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return ConfigLoadResult{
				Value:           defaultValue,
				FallbackApplied: true,
				Warnings: []string{
					fmt.Sprintf("invalid value for %s: %v, using default %d", envKey, err, defaultValue),
				},
			}
		}
	}

	return ConfigLoadResult{Value: value}
}

// LoadEnvFloat loads a float64 from an environment variable with optional
// validation.
//
// Example:
//
//	result := LoadEnvFloat("LEARNING_BASE_RATE", 0.12, func(v float64) error { return ValidateFloatRange(v, 0, 1) })
//	rate := result.Value.(float64)
func LoadEnvFloat(envKey string, defaultValue float64, validator func(float64) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return ConfigLoadResult{
			Value:           defaultValue,
			FallbackApplied: true,
			Warnings: []string{
				fmt.Sprintf("cannot parse %s=%q as float: %v, using default %g", envKey, valueStr, err, defaultValue),
			},
		}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return ConfigLoadResult{
				Value:           defaultValue,
				FallbackApplied: true,
				Warnings: []string{
					fmt.Sprintf("invalid value for %s: %v, using default %g", envKey, err, defaultValue),
				},
			}
		}
	}

	return ConfigLoadResult{Value: value}
}
