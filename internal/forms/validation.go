package forms

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches parsed tags.
var validate = validator.New()

// Predicate reports whether field satisfies the rule.
type Predicate func(sub Submission, field string) bool

type Rule struct {
	Field   string
	Check   Predicate
	Message string
}

// Validate evaluates every rule and returns field -> message for failures.
// The first failing rule for a field wins.
func Validate(rules []Rule, sub Submission) map[string]string {
	errs := map[string]string{}
	for _, r := range rules {
		if _, seen := errs[r.Field]; seen {
			continue
		}
		if !r.Check(sub, r.Field) {
			errs[r.Field] = r.Message
		}
	}
	return errs
}

func Required(sub Submission, field string) bool {
	return strings.TrimSpace(sub.Value(field)) != ""
}

func RequiredEmail(sub Submission, field string) bool {
	return IsEmail(sub.Value(field))
}

func RequiredNonNegativeNumber(sub Submission, field string) bool {
	v := strings.TrimSpace(sub.Value(field))
	if v == "" {
		return false
	}
	n, err := strconv.ParseFloat(v, 64)
	return err == nil && n >= 0 && !math.IsInf(n, 1)
}

func RequiredFile(sub Submission, field string) bool {
	_, ok := sub.File(field)
	return ok
}

func RequiredAny(sub Submission, field string) bool {
	return len(sub.Values(field)) > 0
}

// IsEmail accepts a bare address with a dotted domain.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	if err := validate.Var(s, "required,email"); err != nil {
		return false
	}
	domain := s[strings.LastIndex(s, "@")+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
