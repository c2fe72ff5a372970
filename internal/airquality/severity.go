package airquality

// Severity is a human-readable AQI classification tier.
type Severity string

// Severity tiers, ordered. Each tier is a half-open interval on the
// upper bound; classification walks them in ascending order and the
// first match wins.
const (
	SeverityGood               Severity = "Good"
	SeverityModerate           Severity = "Moderate"
	SeverityUnhealthySensitive Severity = "Unhealthy for sensitive groups"
	SeverityUnhealthy          Severity = "Unhealthy"
	SeverityVeryUnhealthy      Severity = "Very unhealthy"
	SeverityHazardous          Severity = "Hazardous"
)

// severityTiers maps upper bounds to tiers; anything above the last
// bound is hazardous.
var severityTiers = []struct {
	max      float64
	severity Severity
}{
	{50, SeverityGood},
	{100, SeverityModerate},
	{150, SeverityUnhealthySensitive},
	{200, SeverityUnhealthy},
	{300, SeverityVeryUnhealthy},
}

// Classify returns the severity tier for an AQI value. An unknown AQI
// yields the empty severity: no tier, no error.
func Classify(aqi Metric) Severity {
	if !aqi.Known {
		return ""
	}
	for _, tier := range severityTiers {
		if aqi.Value <= tier.max {
			return tier.severity
		}
	}
	return SeverityHazardous
}
