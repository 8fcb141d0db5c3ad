// Package validation checks submitted form fields against per-resource rules.
// Validators are pure: they never fail, they only return a verdict with a
// field-keyed error map ready to serialize as an error body.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Result is the verdict for one submission.
type Result struct {
	Errors map[string]string
}

// IsValid reports whether no field was flagged.
func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

func newResult() Result {
	return Result{Errors: make(map[string]string)}
}

var validate = validator.New()

func isEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

// Scheme-less values like "twitter.com/handle" are accepted; clients have
// always submitted social links without a scheme.
func isURL(s string) bool {
	if validate.Var(s, "url") == nil {
		return true
	}
	if !strings.Contains(s, "://") {
		return validate.Var("https://"+s, "url") == nil
	}
	return false
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
