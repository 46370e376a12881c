package router

import (
	"fmt"
	"strings"
)

// ValidationError describes one problem found while building a table.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Pattern is the offending path pattern
	Pattern string

	// Details contains additional error-specific information
	Details string
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorEmptyTable indicates a table without entries.
	ErrorEmptyTable ValidationErrorType = "EMPTY_TABLE"

	// ErrorInvalidPattern indicates a pattern that does not parse.
	ErrorInvalidPattern ValidationErrorType = "INVALID_PATTERN"

	// ErrorInvalidTarget indicates an entry with neither a view nor a redirect path.
	ErrorInvalidTarget ValidationErrorType = "INVALID_TARGET"

	// ErrorDuplicatePattern indicates two entries share a pattern.
	ErrorDuplicatePattern ValidationErrorType = "DUPLICATE_PATTERN"

	// ErrorDuplicateName indicates two entries share a name.
	ErrorDuplicateName ValidationErrorType = "DUPLICATE_NAME"

	// ErrorCatchAllNotLast indicates entries listed after a catch-all,
	// which could never match.
	ErrorCatchAllNotLast ValidationErrorType = "CATCH_ALL_NOT_LAST"

	// ErrorUnresolvedRedirect indicates a redirect whose target does not
	// reach a view.
	ErrorUnresolvedRedirect ValidationErrorType = "UNRESOLVED_REDIRECT"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Has reports whether any collected error is of the given type.
func (e *MultiValidationError) Has(typ ValidationErrorType) bool {
	for _, err := range e.Errors {
		if err.Type == typ {
			return true
		}
	}
	return false
}

// validator checks a list of entries and compiles their patterns.
type validator struct {
	entries []Entry
	errors  []ValidationError
}

func (v *validator) add(typ ValidationErrorType, pattern, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Pattern: pattern,
	})
}

// validate compiles every pattern and checks table-wide invariants.
// It returns nil or a *MultiValidationError holding every problem found.
func (v *validator) validate() error {
	v.errors = nil

	if len(v.entries) == 0 {
		v.add(ErrorEmptyTable, "", "route table has no entries")
		return &MultiValidationError{Errors: v.errors}
	}

	v.compilePatterns()
	v.validateTargets()
	v.validateDuplicates()
	v.validateCatchAll()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

func (v *validator) compilePatterns() {
	for i := range v.entries {
		p, err := ParsePattern(v.entries[i].Pattern)
		if err != nil {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorInvalidPattern,
				Message: "pattern does not parse",
				Pattern: v.entries[i].Pattern,
				Details: err.Error(),
			})
			continue
		}
		v.entries[i].compiled = p
	}
}

func (v *validator) validateTargets() {
	for _, e := range v.entries {
		switch e.Target.Kind {
		case TargetView:
			if e.Target.View == "" {
				v.add(ErrorInvalidTarget, e.Pattern, "route %s has an empty view", e.Pattern)
			}
		case TargetRedirect:
			if !strings.HasPrefix(e.Target.Redirect, "/") {
				v.add(ErrorInvalidTarget, e.Pattern, "route %s redirects to non-absolute path %q", e.Pattern, e.Target.Redirect)
			}
		default:
			v.add(ErrorInvalidTarget, e.Pattern, "route %s has no target", e.Pattern)
		}
	}
}

// validateDuplicates checks that patterns (catch-alls excepted) and names
// are pairwise distinct.
func (v *validator) validateDuplicates() {
	patterns := make(map[string]int)
	names := make(map[string]int)

	for i, e := range v.entries {
		if !e.IsCatchAll() {
			if first, ok := patterns[e.Pattern]; ok {
				v.add(ErrorDuplicatePattern, e.Pattern, "pattern %s is declared by entries %d and %d", e.Pattern, first, i)
			} else {
				patterns[e.Pattern] = i
			}
		}

		if e.Name == "" {
			continue
		}
		if first, ok := names[e.Name]; ok {
			v.add(ErrorDuplicateName, e.Pattern, "name %q is declared by entries %d and %d", e.Name, first, i)
		} else {
			names[e.Name] = i
		}
	}
}

func (v *validator) validateCatchAll() {
	for i, e := range v.entries {
		if e.IsCatchAll() && i != len(v.entries)-1 {
			v.add(ErrorCatchAllNotLast, e.Pattern, "catch-all %s at position %d shadows %d later entries", e.Pattern, i, len(v.entries)-1-i)
		}
	}
}
