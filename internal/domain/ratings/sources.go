package ratings

import (
	"strings"

	"github.com/sureshchouksey8/MOVIERATINGS/internal/domain/model"
)

// Mapping-list source markers, matched case-insensitively as substrings.
const (
	NumericSource = "internet movie database"
	PercentSource = "rotten"
)

// SourceValue returns the value of the first mapping-list entry whose source
// contains substr (case-insensitive).
func SourceValue(sources []model.SourceRating, substr string) (string, bool) {
	needle := strings.ToLower(substr)
	for _, s := range sources {
		if strings.Contains(strings.ToLower(s.Source), needle) && s.Value != "" {
			return s.Value, true
		}
	}
	return "", false
}

// numericFrom prefers the dedicated numeric field, formatted as "<v>/10", and
// falls back to the raw mapping-list value.
func numericFrom(rec model.RatingRecord) (string, bool) {
	if v := strings.TrimSpace(rec.NumericScore); v != "" && v != model.NoData {
		return v + "/10", true
	}
	return SourceValue(rec.Sources, NumericSource)
}

func percentFrom(rec model.RatingRecord) (string, bool) {
	return SourceValue(rec.Sources, PercentSource)
}
