// Package config provides configuration management for the fight simulator.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/yourusername/fightsim/internal/odds"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("americanodds", validateAmericanOdds)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateAmericanOdds validates an American odds quote
func validateAmericanOdds(fl validator.FieldLevel) bool {
	return odds.American(fl.Field().Int()).Valid()
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	for _, fighter := range []FighterConfig{cfg.Fight.FighterA, cfg.Fight.FighterB} {
		if len(fighter.RoundWeights) != cfg.Fight.TotalRounds {
			return fmt.Errorf("fighter %q has %d round weights, total_rounds is %d",
				fighter.Name, len(fighter.RoundWeights), cfg.Fight.TotalRounds)
		}
	}

	if cfg.Fight.Draw.Enabled && cfg.Fight.Draw.Odds == 0 {
		return fmt.Errorf("draw odds are required when draws are enabled")
	}

	if cfg.Export.IncludeTrials && !cfg.Simulation.RetainTrials {
		return fmt.Errorf("export.include_trials requires simulation.retain_trials")
	}

	if cfg.Simulation.ProgressSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Simulation.ProgressSchedule); err != nil {
			return fmt.Errorf("invalid simulation.progress_schedule: %w", err)
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "americanodds":
			errMsg += fmt.Sprintf("- Field '%s' must be American odds with magnitude >= 100, got '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
