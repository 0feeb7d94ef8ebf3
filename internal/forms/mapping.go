package forms

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer int

const (
	PlainText Sanitizer = iota
	RichText
	List
	Structured
	Numeric
)

// FieldMapping maps a submitted field to a metadata key. SubFields lists the
// columns kept for a Structured repeater.
type FieldMapping struct {
	Source    string
	Dest      string
	Sanitize  Sanitizer
	SubFields []string
}

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// SanitizePlain strips markup and collapses whitespace.
func SanitizePlain(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(strictPolicy.Sanitize(s))), " ")
}

// SanitizeRich keeps a safe HTML subset.
func SanitizeRich(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

// CoerceNumber returns the canonical decimal form of s ("05" -> "5",
// "2.50" -> "2.5").
func CoerceNumber(s string) (string, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return "", false
	}
	return strconv.FormatFloat(n, 'f', -1, 64), true
}

// MapFields applies the mapping table to sub. Only fields present in the
// submission produce a key; the result is keyed by prefix+Dest.
func MapFields(table []FieldMapping, prefix string, sub Submission) map[string]any {
	out := make(map[string]any, len(table))
	for _, m := range table {
		if !sub.Has(m.Source) {
			continue
		}
		key := prefix + m.Dest

		switch m.Sanitize {
		case PlainText:
			out[key] = SanitizePlain(sub.Value(m.Source))
		case RichText:
			out[key] = SanitizeRich(sub.Value(m.Source))
		case List:
			vals := sub.Values(m.Source)
			if vals == nil {
				vals = []string{}
			}
			out[key] = vals
		case Structured:
			out[key] = structuredRows(sub.Repeater(m.Source), m.SubFields)
		case Numeric:
			if n, ok := CoerceNumber(sub.Value(m.Source)); ok {
				out[key] = n
			}
		}
	}
	return out
}

func structuredRows(rows []map[string]string, cols []string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		clean := make(map[string]string, len(cols))
		for _, c := range cols {
			clean[c] = SanitizePlain(row[c])
		}
		out = append(out, clean)
	}
	return out
}
