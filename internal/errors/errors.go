// Package errors provides centralized error handling with categories and
// structured context for the quick-look pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

// CategorizedError is an interface for errors that can specify their own category
type CategorizedError interface {
	error
	ErrorCategory() ErrorCategory
}

const (
	// Pipeline error kinds. All three are fatal to a run.
	CategoryDataFormat       ErrorCategory = "data-format"       // missing or malformed columns
	CategoryUnsupportedBand  ErrorCategory = "unsupported-band"  // band not accepted by this configuration
	CategoryInsufficientData ErrorCategory = "insufficient-data" // an axis scan or selected group is empty

	CategoryValidation    ErrorCategory = "validation"
	CategoryFileIO        ErrorCategory = "file-io"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryDatabase      ErrorCategory = "database"
	CategoryRender        ErrorCategory = "render"
	CategoryMetrics       ErrorCategory = "metrics"
	CategoryCancellation  ErrorCategory = "cancellation"
	CategoryGeneric       ErrorCategory = "generic"
)

// ComponentUnknown is used when the component was not set by the caller.
const ComponentUnknown = "unknown"

// Sentinel errors for the pipeline error kinds. Errors built by the pipeline
// wrap one of these so callers can use Is.
var (
	ErrDataFormat       = stderrors.New("data format error")
	ErrUnsupportedBand  = stderrors.New("unsupported band")
	ErrInsufficientData = stderrors.New("insufficient data")
)

// EnhancedError wraps an error with additional context and metadata
type EnhancedError struct {
	Err       error          // Original error
	component string         // Component where error occurred
	Category  ErrorCategory  // Error category for better grouping
	Context   map[string]any // Additional context data
	Timestamp time.Time      // When the error occurred
	mu        sync.RWMutex
}

// Error implements the error interface. Context values are appended in key
// order so the operator sees the file and the failing condition.
func (ee *EnhancedError) Error() string {
	ee.mu.RLock()
	defer ee.mu.RUnlock()

	if len(ee.Context) == 0 {
		return ee.Err.Error()
	}

	keys := make([]string, 0, len(ee.Context))
	for k := range ee.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(ee.Err.Error())
	sb.WriteString(" (")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", k, ee.Context[k])
	}
	sb.WriteString(")")
	return sb.String()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is implements error type checking
func (ee *EnhancedError) Is(target error) bool {
	if ee2, ok := target.(*EnhancedError); ok {
		return ee.Category == ee2.Category
	}
	return false
}

// ErrorCategory implements CategorizedError
func (ee *EnhancedError) ErrorCategory() ErrorCategory {
	return ee.Category
}

// GetComponent returns the component name
func (ee *EnhancedError) GetComponent() string {
	return ee.component
}

// GetCategory returns the error category
func (ee *EnhancedError) GetCategory() string {
	return string(ee.Category)
}

// GetContext returns a copy of the error context
func (ee *EnhancedError) GetContext() map[string]any {
	ee.mu.RLock()
	defer ee.mu.RUnlock()

	if ee.Context == nil {
		return nil
	}
	contextCopy := make(map[string]any, len(ee.Context))
	maps.Copy(contextCopy, ee.Context)
	return contextCopy
}

// ErrorBuilder provides a fluent interface for creating enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error with enhanced context
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new formatted error with enhanced context
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category for better grouping
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds context data to the error
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// FileContext records the base name of the log file the error belongs to
func (eb *ErrorBuilder) FileContext(fileBase string) *ErrorBuilder {
	if fileBase == "" {
		return eb
	}
	return eb.Context("file", fileBase)
}

// Build creates the EnhancedError
func (eb *ErrorBuilder) Build() *EnhancedError {
	ee := &EnhancedError{
		Err:       eb.err,
		component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
	if ee.component == "" {
		ee.component = ComponentUnknown
	}
	if ee.Category == "" {
		ee.Category = detectCategory(eb.err)
	}
	return ee
}

// detectCategory maps a wrapped sentinel onto its category
func detectCategory(err error) ErrorCategory {
	switch {
	case err == nil:
		return CategoryGeneric
	case stderrors.Is(err, ErrDataFormat):
		return CategoryDataFormat
	case stderrors.Is(err, ErrUnsupportedBand):
		return CategoryUnsupportedBand
	case stderrors.Is(err, ErrInsufficientData):
		return CategoryInsufficientData
	default:
		return CategoryGeneric
	}
}

// DataFormat builds a data-format error for a log file
func DataFormat(fileBase, condition string) *EnhancedError {
	return New(fmt.Errorf("%w: %s", ErrDataFormat, condition)).
		Component("pointing").
		Category(CategoryDataFormat).
		FileContext(fileBase).
		Build()
}

// UnsupportedBand builds an unsupported-band error for a log file
func UnsupportedBand(fileBase, band string) *EnhancedError {
	return New(fmt.Errorf("%w: frequency is %s", ErrUnsupportedBand, band)).
		Component("pointing").
		Category(CategoryUnsupportedBand).
		FileContext(fileBase).
		Build()
}

// InsufficientData builds an insufficient-data error for a log file
func InsufficientData(fileBase, condition string) *EnhancedError {
	return New(fmt.Errorf("%w: %s", ErrInsufficientData, condition)).
		Component("pointing").
		Category(CategoryInsufficientData).
		FileContext(fileBase).
		Build()
}

// Standard library passthrough functions

// NewStd creates a new standard error (passthrough to standard library)
func NewStd(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target (passthrough to standard library)
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target (passthrough to standard library)
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join returns an error that wraps the given errors (passthrough to standard library)
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// IsCategory checks if an error is an EnhancedError with the specified category.
func IsCategory(err error, category ErrorCategory) bool {
	var ee *EnhancedError
	return stderrors.As(err, &ee) && ee.Category == category
}

// CategoryOf returns the category of the first EnhancedError in err's tree,
// or CategoryGeneric.
func CategoryOf(err error) ErrorCategory {
	var ee *EnhancedError
	if stderrors.As(err, &ee) {
		return ee.Category
	}
	return CategoryGeneric
}
