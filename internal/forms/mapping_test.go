package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizers(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", SanitizePlain("  <b>Tom</b> &amp;\n Jerry <script>x()</script>"))
	assert.Equal(t, "<p>Hello <strong>there</strong></p>", SanitizeRich(`<p onclick="x()">Hello <strong>there</strong></p><script>alert(1)</script>`))

	n, ok := CoerceNumber("05")
	assert.True(t, ok)
	assert.Equal(t, "5", n)
	n, _ = CoerceNumber("2.50")
	assert.Equal(t, "2.5", n)
	_, ok = CoerceNumber("abc")
	assert.False(t, ok)
}

func TestMapFields_OnlyPresentKeys(t *testing.T) {
	sub := NewSubmission("consultant", "", map[string][]string{
		"telephone":            {" +254 700 "},
		"experience":           {"07"},
		"languages[]":          {"English", "Swahili"},
		"qualifications":       {"<p>PhD</p><iframe></iframe>"},
		"education[3][school]": {"<i>UoN</i>"},
		"education[3][bogus]":  {"dropped"},
		"education[1][school]": {"LSE"},
		"unknown":              {"ignored"},
	}, nil)

	got := MapFields(Consultant().Mapping, "", sub)

	assert.Equal(t, "+254 700", got["telephone"])
	assert.Equal(t, "7", got["experience"])
	assert.Equal(t, []string{"English", "Swahili"}, got["languages"])
	assert.Equal(t, "<p>PhD</p>", got["overview"])
	assert.Equal(t, []map[string]string{
		{"school": "LSE", "degree": "", "field": "", "start_date": "", "end_date": ""},
		{"school": "UoN", "degree": "", "field": "", "start_date": "", "end_date": ""},
	}, got["education"])

	assert.NotContains(t, got, "mobile")
	assert.NotContains(t, got, "services")
	assert.NotContains(t, got, "unknown")
	assert.Len(t, got, 5)
}

func TestMapFields_Prefix(t *testing.T) {
	sub := NewSubmission("dip", "", map[string][]string{
		"headquarters": {"Kenya"},
		"clients":      {"UNDP"},
	}, nil)

	got := MapFields(DevelopmentPartner().Mapping, "dip_", sub)
	assert.Equal(t, []string{"Kenya"}, got["dip_headquarters"])
	assert.Equal(t, "UNDP", got["dip_projects"])
	assert.Len(t, got, 2)
}

func TestMapFields_EmptyListStillWritten(t *testing.T) {
	sub := NewSubmission("consultant", "", map[string][]string{"subservices[]": {""}}, nil)
	got := MapFields(Consultant().Mapping, "", sub)
	assert.Equal(t, []string{}, got["sub_services"])
}
