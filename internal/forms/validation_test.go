package forms

import (
	"testing"

	"github.com/olfat123/profile-creator/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	for _, ok := range []string{"jane@x.com", "a.b+c@sub.example.org"} {
		assert.True(t, IsEmail(ok), ok)
	}
	for _, bad := range []string{"", "jane", "jane@x", "Jane <jane@x.com>", "jane@.com", "jane@x.com.", "jane doe@x.com", "jane@@x.com"} {
		assert.False(t, IsEmail(bad), bad)
	}
}

func TestRequiredNonNegativeNumber(t *testing.T) {
	check := func(v string) bool {
		return RequiredNonNegativeNumber(NewSubmission("", "", map[string][]string{"n": {v}}, nil), "n")
	}
	assert.True(t, check("5"))
	assert.True(t, check("0"))
	assert.True(t, check(" 2.5 "))
	assert.False(t, check("-1"))
	assert.False(t, check("five"))
	assert.False(t, check(""))
	assert.False(t, check("NaN"))
	assert.False(t, check("Inf"))
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	sub := NewSubmission("consultant", "", map[string][]string{
		"name":  {"Jane"},
		"email": {"not-an-email"},
	}, map[string]models.FileBlob{})

	errs := Validate(Consultant().Rules, sub)
	assert.NotContains(t, errs, "name")
	assert.Equal(t, "Valid email is required", errs["email"])
	assert.Equal(t, "CV upload is required", errs["cv"])
	assert.Equal(t, "At least one sector must be selected", errs["sectors"])
	assert.Len(t, errs, 10)
}

func TestValidate_FirstRulePerFieldWins(t *testing.T) {
	rules := []Rule{
		{Field: "name", Check: Required, Message: "first"},
		{Field: "name", Check: Required, Message: "second"},
	}
	errs := Validate(rules, NewSubmission("", "", nil, nil))
	assert.Equal(t, map[string]string{"name": "first"}, errs)
}
