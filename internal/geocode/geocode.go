// Package geocode resolves coordinates to human-readable place names.
package geocode

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartaircity/smartaircity/internal/airquality"
)

// Resolver errors.
var (
	ErrNoAddress = errors.New("no address found for coordinates")
)

// Resolver looks up a display name for a coordinate pair.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) (string, error)
}

// FallbackLabel renders raw coordinates to four decimal places. It is
// the deterministic substitute used whenever resolution fails.
func FallbackLabel(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// ResolveOrFallback resolves a location's place name, substituting the
// coordinate fallback on any failure. Lookup errors never propagate to
// the caller.
func ResolveOrFallback(ctx context.Context, r Resolver, loc airquality.Location) string {
	name, err := r.Resolve(ctx, loc.Lat, loc.Lon)
	if err != nil || name == "" {
		return FallbackLabel(loc.Lat, loc.Lon)
	}
	return name
}
