package services

// ScoreBand is the color band of a likelihood score bar.
type ScoreBand string

const (
	BandLow    ScoreBand = "bg-danger"
	BandMedium ScoreBand = "bg-warning"
	BandHigh   ScoreBand = "bg-success"
)

// BandForScore maps a score to its band: below 40 is low, below 70 is medium,
// anything else is high. NaN fails both comparisons and lands in high.
func BandForScore(score float64) ScoreBand {
	if score < 40 {
		return BandLow
	}
	if score < 70 {
		return BandMedium
	}
	return BandHigh
}

// Label is a short human name for the band, used by the CLI table.
func (b ScoreBand) Label() string {
	switch b {
	case BandLow:
		return "low"
	case BandMedium:
		return "medium"
	default:
		return "high"
	}
}
