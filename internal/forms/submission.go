// Package forms holds the profile submission pipeline: per-type form
// configurations, validation rules, field mapping and the engine that runs
// a submission from gate check to redirect.
package forms

import (
	"sort"
	"strconv"
	"strings"

	"github.com/olfat123/profile-creator/internal/models"
)

// Submission is one posted form. Treat it as read-only once built.
type Submission struct {
	Type   string
	Token  string
	Fields map[string][]string
	Files  map[string]models.FileBlob
}

// NewSubmission copies fields and files, dropping a trailing "[]" from
// multi-valued names.
func NewSubmission(typ, token string, fields map[string][]string, files map[string]models.FileBlob) Submission {
	sub := Submission{
		Type:   typ,
		Token:  token,
		Fields: make(map[string][]string, len(fields)),
		Files:  make(map[string]models.FileBlob, len(files)),
	}
	for k, v := range fields {
		k = strings.TrimSuffix(k, "[]")
		sub.Fields[k] = append(sub.Fields[k], v...)
	}
	for k, f := range files {
		sub.Files[strings.TrimSuffix(k, "[]")] = f
	}
	return sub
}

// Has reports whether name was posted at all, either directly or as an
// index-keyed repeater (name[0][sub]).
func (s Submission) Has(name string) bool {
	if _, ok := s.Fields[name]; ok {
		return true
	}
	prefix := name + "["
	for k := range s.Fields {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// Value returns the first posted value of name.
func (s Submission) Value(name string) string {
	if v := s.Fields[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Values returns every non-blank value posted under name.
func (s Submission) Values(name string) []string {
	var out []string
	for _, v := range s.Fields[name] {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s Submission) File(name string) (models.FileBlob, bool) {
	f, ok := s.Files[name]
	if !ok || f.Empty() {
		return models.FileBlob{}, false
	}
	return f, true
}

// Repeater collects name[i][sub] keys into rows ordered by i. Missing
// indices are skipped, so a sparse posting yields a dense slice.
func (s Submission) Repeater(name string) []map[string]string {
	rows := map[int]map[string]string{}
	prefix := name + "["
	for k, v := range s.Fields {
		if !strings.HasPrefix(k, prefix) || len(v) == 0 {
			continue
		}
		idx, sub, ok := splitRepeaterKey(strings.TrimPrefix(k, prefix))
		if !ok {
			continue
		}
		if rows[idx] == nil {
			rows[idx] = map[string]string{}
		}
		rows[idx][sub] = v[0]
	}

	keys := make([]int, 0, len(rows))
	for i := range rows {
		keys = append(keys, i)
	}
	sort.Ints(keys)

	out := make([]map[string]string, 0, len(keys))
	for _, i := range keys {
		out = append(out, rows[i])
	}
	return out
}

// splitRepeaterKey parses "3][school]" into (3, "school").
func splitRepeaterKey(rest string) (int, string, bool) {
	end := strings.Index(rest, "]")
	if end <= 0 {
		return 0, "", false
	}
	idx, err := strconv.Atoi(rest[:end])
	if err != nil || idx < 0 {
		return 0, "", false
	}
	sub := rest[end+1:]
	if !strings.HasPrefix(sub, "[") || !strings.HasSuffix(sub, "]") {
		return 0, "", false
	}
	sub = sub[1 : len(sub)-1]
	if sub == "" {
		return 0, "", false
	}
	return idx, sub, true
}

// Echo is the payload handed back on a re-render. Passwords are never echoed.
func (s Submission) Echo() map[string]any {
	out := make(map[string]any, len(s.Fields))
	for k, v := range s.Fields {
		if strings.Contains(k, "password") {
			continue
		}
		switch len(v) {
		case 0:
		case 1:
			out[k] = v[0]
		default:
			out[k] = append([]string(nil), v...)
		}
	}
	return out
}
