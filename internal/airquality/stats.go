package airquality

import "math"

// AQI bucket boundaries. Buckets are half-open on the upper side:
// good (-inf,50], warning (50,100], danger (100,inf).
const (
	bucketGoodMax    = 50
	bucketWarningMax = 100
)

// StatsSummary holds derived statistics over a reading sequence.
// It is recomputed per snapshot and never persisted.
type StatsSummary struct {
	// AverageAQI is the mean of all known AQI values, rounded to one
	// decimal place. Zero when no reading carries a known AQI; that is
	// a "no data" sentinel, not a true average.
	AverageAQI float64 `json:"averageAqi"`

	// CountGood counts readings with AQI <= 50.
	CountGood int `json:"countGood"`

	// CountWarning counts readings with 50 < AQI <= 100.
	CountWarning int `json:"countWarning"`

	// CountDanger counts readings with AQI > 100.
	CountDanger int `json:"countDanger"`
}

// Summarize computes summary statistics for a sequence of readings.
// Readings without a known AQI contribute to neither the average nor
// any bucket. Pure and deterministic.
func Summarize(readings []StationReading) StatsSummary {
	var summary StatsSummary
	var sum float64
	var known int

	for _, r := range readings {
		if !r.AQI.Known {
			continue
		}
		known++
		sum += r.AQI.Value

		switch {
		case r.AQI.Value <= bucketGoodMax:
			summary.CountGood++
		case r.AQI.Value <= bucketWarningMax:
			summary.CountWarning++
		default:
			summary.CountDanger++
		}
	}

	if known == 0 {
		return summary
	}

	summary.AverageAQI = math.Round(sum/float64(known)*10) / 10
	return summary
}
