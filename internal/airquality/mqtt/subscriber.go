// Package mqtt ingests station readings from the sensor MQTT bridge
// and publishes them into the reading store.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/smartaircity/smartaircity/internal/airquality"
)

const (
	// DefaultTopic is the sensor contribution topic tree.
	DefaultTopic = "smartair/sensors/#"

	// DefaultConnectTimeout bounds the initial broker connect.
	DefaultConnectTimeout = 10 * time.Second
)

// SubscriberConfig holds configuration for the MQTT subscriber.
type SubscriberConfig struct {
	// BrokerURL is the MQTT broker address (e.g. "tcp://localhost:1883").
	BrokerURL string

	// ClientID identifies this subscriber to the broker.
	ClientID string

	// Topic is the subscription filter (defaults to DefaultTopic).
	Topic string

	// Store receives decoded readings.
	Store *airquality.Store

	// Logger for subscriber operations.
	Logger zerolog.Logger
}

// Subscriber bridges sensor payloads from MQTT into the store.
type Subscriber struct {
	client pahomqtt.Client
	topic  string
	store  *airquality.Store
	logger zerolog.Logger
}

// NewSubscriber creates a subscriber. Connectivity transitions are
// reflected in the store so API consumers can report them.
func NewSubscriber(cfg SubscriberConfig) *Subscriber {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	s := &Subscriber{
		topic:  topic,
		store:  cfg.Store,
		logger: cfg.Logger,
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(DefaultConnectTimeout).
		SetOnConnectHandler(s.onConnect).
		SetConnectionLostHandler(s.onConnectionLost)

	s.client = pahomqtt.NewClient(opts)
	return s
}

// Start connects to the broker. Subscription happens in the connect
// handler so it is re-established after reconnects.
func (s *Subscriber) Start() error {
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to broker: %w", token.Error())
	}
	return nil
}

// Stop disconnects from the broker, allowing in-flight work to finish.
func (s *Subscriber) Stop() {
	s.client.Disconnect(250)
	s.store.SetConnected(false)
}

func (s *Subscriber) onConnect(client pahomqtt.Client) {
	s.store.SetConnected(true)
	s.logger.Info().Str("topic", s.topic).Msg("mqtt connected, subscribing")

	if token := client.Subscribe(s.topic, 1, s.handleMessage); token.Wait() && token.Error() != nil {
		s.store.SetError(token.Error())
		s.logger.Error().Err(token.Error()).Msg("mqtt subscribe failed")
	}
}

func (s *Subscriber) onConnectionLost(_ pahomqtt.Client, err error) {
	s.store.SetConnected(false)
	s.store.SetError(err)
	s.logger.Warn().Err(err).Msg("mqtt connection lost")
}

func (s *Subscriber) handleMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	reading, err := DecodeReading(msg.Payload())
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("topic", msg.Topic()).
			Msg("discarding malformed sensor payload")
		return
	}

	s.store.Publish(reading)
	s.logger.Debug().
		Str("station_id", reading.StationID).
		Str("aqi", reading.AQI.String()).
		Msg("reading ingested")
}

// sensorPayload is the JSON shape published by the sensor bridge.
// Every measurement is optional; absent fields become unknown metrics.
type sensorPayload struct {
	StationID    string           `json:"stationId"`
	Name         string           `json:"name"`
	AQI          *float64         `json:"aqi"`
	PM25         *float64         `json:"pm25"`
	PM10         *float64         `json:"pm10"`
	CO           *float64         `json:"co"`
	SO2          *float64         `json:"so2"`
	NO2          *float64         `json:"no2"`
	O3           *float64         `json:"o3"`
	Location     *payloadLocation `json:"location"`
	DateObserved string           `json:"dateObserved"`
	Timestamp    string           `json:"timestamp"`
}

type payloadLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DecodeReading converts a sensor payload into a StationReading.
// Absence is decided here, once: missing numeric fields map to unknown
// metrics, and a negative AQI is treated as unknown rather than carried
// into aggregation.
func DecodeReading(data []byte) (airquality.StationReading, error) {
	var p sensorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return airquality.StationReading{}, fmt.Errorf("decode sensor payload: %w", err)
	}

	if p.StationID == "" {
		return airquality.StationReading{}, fmt.Errorf("sensor payload missing stationId")
	}

	reading := airquality.StationReading{
		StationID:  p.StationID,
		Name:       p.Name,
		AQI:        toMetric(p.AQI),
		PM25:       toMetric(p.PM25),
		PM10:       toMetric(p.PM10),
		CO:         toMetric(p.CO),
		SO2:        toMetric(p.SO2),
		NO2:        toMetric(p.NO2),
		O3:         toMetric(p.O3),
		ObservedAt: observedAt(p),
	}

	if p.AQI != nil && *p.AQI < 0 {
		reading.AQI = airquality.Metric{}
	}

	if p.Location != nil {
		reading.Location = &airquality.Location{Lat: p.Location.Lat, Lon: p.Location.Lng}
	}

	return reading, nil
}

func toMetric(v *float64) airquality.Metric {
	if v == nil {
		return airquality.Metric{}
	}
	return airquality.KnownMetric(*v)
}

// observedAt picks the observation time: dateObserved first, then
// timestamp, then receipt time.
func observedAt(p sensorPayload) time.Time {
	for _, raw := range []string{p.DateObserved, p.Timestamp} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
	}
	return time.Now()
}
