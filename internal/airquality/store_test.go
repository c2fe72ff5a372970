package airquality_test

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaircity/smartaircity/internal/airquality"
)

func testStore() *airquality.Store {
	return airquality.NewStore(airquality.StoreConfig{
		Logger: zerolog.New(io.Discard),
	})
}

func testReading(stationID string, aqi float64) airquality.StationReading {
	return airquality.StationReading{
		StationID:  stationID,
		Name:       "Station " + stationID,
		AQI:        airquality.KnownMetric(aqi),
		PM25:       airquality.KnownMetric(12.5),
		Location:   &airquality.Location{Lat: 21.0285, Lon: 105.8542},
		ObservedAt: time.Now(),
	}
}

func TestStore_PublishAndLatest(t *testing.T) {
	store := testStore()

	store.Publish(testReading("sac-002", 70))
	store.Publish(testReading("sac-001", 30))
	store.Publish(testReading("sac-001", 35)) // supersedes first sac-001 reading

	latest := store.Latest()
	require.Len(t, latest, 2)

	// Ordered by station ID, latest reading wins.
	assert.Equal(t, "sac-001", latest[0].StationID)
	assert.Equal(t, 35.0, latest[0].AQI.Value)
	assert.Equal(t, "sac-002", latest[1].StationID)
}

func TestStore_Get(t *testing.T) {
	store := testStore()
	store.Publish(testReading("sac-001", 30))

	r, err := store.Get("sac-001")
	require.NoError(t, err)
	assert.Equal(t, 30.0, r.AQI.Value)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, airquality.ErrStationNotFound)
}

func TestStore_Subscribe(t *testing.T) {
	store := testStore()

	ch, cancel := store.Subscribe()
	assert.Equal(t, 1, store.SubscriberCount())

	store.Publish(testReading("sac-001", 30))

	select {
	case r := <-ch:
		assert.Equal(t, "sac-001", r.StationID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published reading")
	}

	cancel()
	assert.Equal(t, 0, store.SubscriberCount())

	// Channel is closed on cancel.
	_, open := <-ch
	assert.False(t, open)

	// Cancel is idempotent.
	cancel()
}

func TestStore_SlowSubscriberDropsReadings(t *testing.T) {
	store := airquality.NewStore(airquality.StoreConfig{
		Logger:           zerolog.New(io.Discard),
		SubscriberBuffer: 1,
	})

	ch, cancel := store.Subscribe()
	defer cancel()

	// Second publish finds the buffer full and is dropped; the
	// publisher never blocks.
	store.Publish(testReading("sac-001", 30))
	store.Publish(testReading("sac-002", 70))

	r := <-ch
	assert.Equal(t, "sac-001", r.StationID)

	select {
	case r := <-ch:
		t.Fatalf("expected dropped reading, got %s", r.StationID)
	default:
	}
}

func TestStore_Summary(t *testing.T) {
	store := testStore()
	store.Publish(testReading("sac-001", 30))
	store.Publish(testReading("sac-002", 70))
	store.Publish(testReading("sac-003", 150))

	summary := store.Summary()
	assert.Equal(t, 83.3, summary.AverageAQI)
	assert.Equal(t, 1, summary.CountGood)
	assert.Equal(t, 1, summary.CountWarning)
	assert.Equal(t, 1, summary.CountDanger)
}

func TestStore_Connectivity(t *testing.T) {
	store := testStore()
	assert.False(t, store.Connected())

	store.SetError(errors.New("broker unreachable"))
	assert.Error(t, store.Err())

	// Connecting clears the last error.
	store.SetConnected(true)
	assert.True(t, store.Connected())
	assert.NoError(t, store.Err())
}
