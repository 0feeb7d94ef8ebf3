package forms

import (
	"testing"

	"github.com/olfat123/profile-creator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmission_NormalisesNames(t *testing.T) {
	sub := NewSubmission("consultant", "tok", map[string][]string{
		"languages[]": {"English", "French"},
		"name":        {"Jane"},
	}, map[string]models.FileBlob{
		"cv": {FileName: "cv.pdf", Data: []byte("x")},
	})

	assert.Equal(t, []string{"English", "French"}, sub.Values("languages"))
	assert.True(t, sub.Has("languages"))
	assert.False(t, sub.Has("languages[]"))
	assert.Equal(t, "Jane", sub.Value("name"))
	_, ok := sub.File("cv")
	assert.True(t, ok)
	_, ok = sub.File("photo")
	assert.False(t, ok)
}

func TestSubmission_ValuesSkipsBlanks(t *testing.T) {
	sub := NewSubmission("x", "", map[string][]string{"services": {"", " ", "3"}}, nil)
	assert.Equal(t, []string{"3"}, sub.Values("services"))
	assert.Nil(t, sub.Values("missing"))
}

func TestSubmission_EmptyFileIsAbsent(t *testing.T) {
	sub := NewSubmission("x", "", nil, map[string]models.FileBlob{"cv": {FileName: "cv.pdf"}})
	_, ok := sub.File("cv")
	assert.False(t, ok)
}

func TestSubmission_Repeater(t *testing.T) {
	sub := NewSubmission("consultant", "", map[string][]string{
		"education[2][school]": {"MIT"},
		"education[0][school]": {"LSE"},
		"education[0][degree]": {"MSc"},
		"education[x][school]": {"bad index"},
		"education[1]":         {"no sub field"},
		"educationfoo":         {"not a repeater"},
	}, nil)

	rows := sub.Repeater("education")
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"school": "LSE", "degree": "MSc"}, rows[0])
	assert.Equal(t, map[string]string{"school": "MIT"}, rows[1])
	assert.True(t, sub.Has("education"))
	assert.Empty(t, sub.Repeater("specific_contact"))
}

func TestSubmission_EchoDropsPasswords(t *testing.T) {
	sub := NewSubmission("x", "", map[string][]string{
		"name":      {"Jane"},
		"languages": {"English", "Arabic"},
		"password":  {"hunter2"},
	}, nil)

	echo := sub.Echo()
	assert.Equal(t, "Jane", echo["name"])
	assert.Equal(t, []string{"English", "Arabic"}, echo["languages"])
	assert.NotContains(t, echo, "password")
}
