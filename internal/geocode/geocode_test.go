package geocode_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartaircity/smartaircity/internal/airquality"
	"github.com/smartaircity/smartaircity/internal/geocode"
)

// stubResolver returns a fixed result.
type stubResolver struct {
	name string
	err  error
}

func (s *stubResolver) Resolve(_ context.Context, _, _ float64) (string, error) {
	return s.name, s.err
}

func TestFallbackLabel(t *testing.T) {
	assert.Equal(t, "21.0285, 105.8542", geocode.FallbackLabel(21.02850, 105.85420))
	assert.Equal(t, "10.7626, 106.6602", geocode.FallbackLabel(10.76262, 106.66017))
	assert.Equal(t, "-33.8688, 151.2093", geocode.FallbackLabel(-33.86880, 151.20930))
	assert.Equal(t, "0.0000, 0.0000", geocode.FallbackLabel(0, 0))
}

func TestResolveOrFallback_Success(t *testing.T) {
	resolver := &stubResolver{name: "Trang Tien, Hoan Kiem, Hanoi"}
	loc := airquality.Location{Lat: 21.0285, Lon: 105.8542}

	got := geocode.ResolveOrFallback(context.Background(), resolver, loc)
	assert.Equal(t, "Trang Tien, Hoan Kiem, Hanoi", got)
}

func TestResolveOrFallback_ErrorYieldsCoordinates(t *testing.T) {
	resolver := &stubResolver{err: errors.New("service unavailable")}
	loc := airquality.Location{Lat: 21.0285, Lon: 105.8542}

	got := geocode.ResolveOrFallback(context.Background(), resolver, loc)
	assert.Equal(t, "21.0285, 105.8542", got)
}

func TestResolveOrFallback_EmptyNameYieldsCoordinates(t *testing.T) {
	resolver := &stubResolver{name: ""}
	loc := airquality.Location{Lat: 1.5, Lon: -2.25}

	got := geocode.ResolveOrFallback(context.Background(), resolver, loc)
	assert.Equal(t, "1.5000, -2.2500", got)
}
