// Package notify composes air quality alert messages and dispatches
// them to recipients through an external delivery service.
package notify

import (
	"fmt"
	"strings"

	"github.com/smartaircity/smartaircity/internal/airquality"
)

// observedLayout formats the observation time for message bodies.
const observedLayout = "Mon, 02 Jan 2006 15:04 MST"

// ComposeAlert renders a notification message for one station reading
// and a resolved place name. Pure and deterministic: the same inputs
// always produce the same message.
//
// Every measurement renders independently; an absent value shows the
// explicit unknown marker. The severity line is omitted when the AQI
// is unknown. The location line is omitted when the reading carried no
// coordinates; the place argument is ignored in that case.
func ComposeAlert(r airquality.StationReading, place string) string {
	var b strings.Builder

	b.WriteString("Air quality alert\n\n")
	fmt.Fprintf(&b, "Station: %s\n", stationLabel(r))
	fmt.Fprintf(&b, "AQI: %s\n", r.AQI)

	if severity := airquality.Classify(r.AQI); severity != "" {
		fmt.Fprintf(&b, "Severity: %s\n", severity)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "PM2.5: %s µg/m³\n", r.PM25)
	fmt.Fprintf(&b, "PM10: %s µg/m³\n", r.PM10)
	fmt.Fprintf(&b, "CO: %s mg/m³\n", r.CO)
	fmt.Fprintf(&b, "SO2: %s µg/m³\n", r.SO2)
	fmt.Fprintf(&b, "NO2: %s µg/m³\n", r.NO2)
	fmt.Fprintf(&b, "O3: %s µg/m³\n", r.O3)

	b.WriteString("\n")
	fmt.Fprintf(&b, "Observed: %s\n", r.ObservedAt.Format(observedLayout))

	if r.Location != nil {
		fmt.Fprintf(&b, "Location: %s\n", place)
	}

	return b.String()
}

func stationLabel(r airquality.StationReading) string {
	if r.Name != "" {
		return r.Name
	}
	return r.StationID
}
