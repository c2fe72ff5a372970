package airquality

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StoreConfig holds configuration for the reading store.
type StoreConfig struct {
	// Logger for store operations.
	Logger zerolog.Logger

	// SubscriberBuffer is the channel buffer per subscriber (default: 64).
	// A subscriber that falls behind drops readings rather than blocking
	// the publisher.
	SubscriberBuffer int
}

// Store holds the latest reading per station and fans updates out to
// subscribers. It is the single owner of realtime dashboard state;
// consumers receive it by reference rather than through a global.
type Store struct {
	logger zerolog.Logger
	buffer int

	mu          sync.RWMutex
	readings    map[string]StationReading
	connected   bool
	lastErr     error
	updatedAt   time.Time
	nextSubID   int
	subscribers map[int]chan StationReading
}

// NewStore creates an empty reading store.
func NewStore(cfg StoreConfig) *Store {
	buffer := cfg.SubscriberBuffer
	if buffer == 0 {
		buffer = 64
	}
	return &Store{
		logger:      cfg.Logger,
		buffer:      buffer,
		readings:    make(map[string]StationReading),
		subscribers: make(map[int]chan StationReading),
	}
}

// Publish records the latest reading for its station and broadcasts it.
// Subscribers with a full buffer miss this update.
func (s *Store) Publish(r StationReading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readings[r.StationID] = r
	s.updatedAt = time.Now()

	for id, ch := range s.subscribers {
		select {
		case ch <- r:
		default:
			s.logger.Debug().
				Int("subscriber", id).
				Str("station_id", r.StationID).
				Msg("subscriber buffer full, dropping reading")
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// must be called to release the subscription; the channel is closed by
// the store on cancellation.
func (s *Store) Subscribe() (<-chan StationReading, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan StationReading, s.buffer)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}

	return ch, cancel
}

// SubscriberCount returns the number of active subscribers.
func (s *Store) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// Latest returns the latest reading per station, ordered by station ID.
func (s *Store) Latest() []StationReading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	readings := make([]StationReading, 0, len(s.readings))
	for _, r := range s.readings {
		readings = append(readings, r)
	}
	sort.Slice(readings, func(i, j int) bool {
		return readings[i].StationID < readings[j].StationID
	})
	return readings
}

// Get returns the latest reading for a station.
func (s *Store) Get(stationID string) (StationReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.readings[stationID]
	if !ok {
		return StationReading{}, ErrStationNotFound
	}
	return r, nil
}

// Summary computes derived statistics over the current readings.
func (s *Store) Summary() StatsSummary {
	return Summarize(s.Latest())
}

// SetConnected records data-source connectivity. A successful connect
// clears the last error.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
	if connected {
		s.lastErr = nil
	}
}

// Connected reports whether the data source is currently connected.
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// SetError records the most recent data-source error.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// Err returns the most recent data-source error, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// UpdatedAt returns when a reading was last published.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
