package services

import (
	"fmt"
	"strings"
	"time"

	"doctor-survey-targeting/predictions/models"
)

// ExportFilePrefix starts every export file name.
const ExportFilePrefix = "doctor_predictions_"

// ExportFileName returns doctor_predictions_<YYYY-MM-DD>.<ext> for the UTC date of now.
func ExportFileName(now time.Time, ext string) string {
	return fmt.Sprintf("%s%s.%s", ExportFilePrefix, now.UTC().Format("2006-01-02"), ext)
}

// BuildCSV renders records as CSV text. The header is the first record's keys
// and every row lists values in that same key order. Values are joined as-is:
// embedded commas, quotes or newlines are not escaped. ok is false for an
// empty list, in which case there is nothing to export.
func BuildCSV(records []models.DoctorRecommendation) (content string, ok bool) {
	if len(records) == 0 {
		return "", false
	}

	keys := records[0].Keys()
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(keys, ","))

	for _, rec := range records {
		values := make([]string, len(keys))
		for i, k := range keys {
			values[i] = models.Text(rec.Value(k))
		}
		lines = append(lines, strings.Join(values, ","))
	}

	return strings.Join(lines, "\n"), true
}
