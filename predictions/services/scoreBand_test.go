package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  ScoreBand
	}{
		{0, BandLow},
		{10, BandLow},
		{39.9, BandLow},
		{40, BandMedium},
		{55, BandMedium},
		{69.9, BandMedium},
		{70, BandHigh},
		{85, BandHigh},
		{100, BandHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BandForScore(tc.score), "score %v", tc.score)
	}
}

func TestBandForScore_NaNIsHigh(t *testing.T) {
	assert.Equal(t, BandHigh, BandForScore(math.NaN()))
}

func TestScoreBandLabel(t *testing.T) {
	assert.Equal(t, "low", BandLow.Label())
	assert.Equal(t, "medium", BandMedium.Label())
	assert.Equal(t, "high", BandHigh.Label())
}
