// conf/validate.go

package conf

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// SupportedBands are the observing bands the classifier can name
var SupportedBands = []string{"22GHz", "43GHz", "86GHz"}

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	if settings == nil {
		return errors.New("settings cannot be nil")
	}
	ve := ValidationError{}

	if err := validatePointingSettings(&settings.Pointing); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateLogSettings(&settings.Main.Log); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if settings.Threads < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("threads must be >= 0, got %d", settings.Threads))
	}

	ve.Errors = append(ve.Errors, validateOutputSettings(settings)...)

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validatePointingSettings(p *PointingConfig) error {
	var errs []string
	if !slices.Contains(SupportedBands, p.Band) {
		errs = append(errs, fmt.Sprintf("pointing band %q is not one of %s", p.Band, strings.Join(SupportedBands, ", ")))
	}
	if strings.TrimSpace(p.ErrorSentinel) == "" {
		errs = append(errs, "pointing error sentinel must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogSettings(l *LogConfig) error {
	if l.Level != "" && !slices.Contains(logLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("log level %q is not one of %s", l.Level, strings.Join(logLevels, ", "))
	}
	return nil
}

func validateOutputSettings(s *Settings) []string {
	var errs []string
	out := &s.Output
	if out.Table.Enabled && out.Table.Path == "" {
		errs = append(errs, "table output is enabled but path is empty")
	}
	if out.Product.Enabled && out.Product.Path == "" {
		errs = append(errs, "product output is enabled but path is empty")
	}
	if out.Figure.Enabled && out.Figure.Path == "" {
		errs = append(errs, "figure output is enabled but path is empty")
	}
	if out.SQLite.Enabled && out.SQLite.Path == "" {
		errs = append(errs, "sqlite output is enabled but path is empty")
	}
	if out.MySQL.Enabled && (out.MySQL.Host == "" || out.MySQL.Database == "") {
		errs = append(errs, "mysql output requires host and database")
	}
	if out.Metrics.Enabled && out.Metrics.Path == "" {
		errs = append(errs, "metrics output is enabled but path is empty")
	}
	return errs
}
