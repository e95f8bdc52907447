package services

import (
	"encoding/json"
	"testing"
	"time"

	"doctor-survey-targeting/predictions/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, body string) []models.DoctorRecommendation {
	t.Helper()
	var out []models.DoctorRecommendation
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestBuildCSV_Empty(t *testing.T) {
	content, ok := BuildCSV(nil)
	assert.False(t, ok)
	assert.Empty(t, content)
}

func TestBuildCSV_GenericRecords(t *testing.T) {
	content, ok := BuildCSV(decodeRecords(t, `[{"a":1,"b":2},{"a":3,"b":4}]`))
	require.True(t, ok)
	assert.Equal(t, "a,b\n1,2\n3,4", content)
}

func TestBuildCSV_UsesFirstRecordKeyOrder(t *testing.T) {
	content, ok := BuildCSV(decodeRecords(t, `[{"b":1,"a":2},{"a":3,"b":4,"c":5}]`))
	require.True(t, ok)
	assert.Equal(t, "b,a\n1,2\n4,3", content)
}

func TestBuildCSV_NoEscaping(t *testing.T) {
	content, ok := BuildCSV(decodeRecords(t, `[{"npi":"1","specialty":"Family, Medicine","region":null,"likelihood_score":55.5}]`))
	require.True(t, ok)
	assert.Equal(t, "npi,specialty,region,likelihood_score\n1,Family, Medicine,,55.5", content)
}

func TestExportFileName_UsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2026, 10, 19, 5, 0, 0, 0, loc)
	assert.Equal(t, "doctor_predictions_2026-10-18.csv", ExportFileName(now, "csv"))
}
