package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/jyotish-back/pkg/config"
	"github.com/jyotish-back/pkg/models"
)

// Subjects published by this service.
const (
	SubjectChartComputed = "charts.computed"
	SubjectArcsRebuilt   = "arcs.rebuilt"
	SubjectHealth        = "system.health"
)

// ChartComputedEvent is the payload published after each chart computation.
type ChartComputedEvent struct {
	ComputedAt  time.Time           `json:"computed_at"`
	Request     models.ChartRequest `json:"request"`
	AscLonDeg   float64             `json:"asc_lon_deg"`
	MCLonDeg    float64             `json:"mc_lon_deg"`
	AscSign     string              `json:"asc_sign"`
	PlanetCount int                 `json:"planet_count"`
}

// ArcsRebuiltEvent announces a fresh constellation arc table.
type ArcsRebuiltEvent struct {
	Epoch    string    `json:"epoch"`
	ArcCount int       `json:"arc_count"`
	BuiltAt  time.Time `json:"built_at"`
}

// NATSClient handles NATS messaging operations
type NATSClient struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	encoder *nats.EncodedConn
	logger  *logrus.Entry
	cfg     *config.NATSConfig

	// Subscriptions
	subs   map[string]*nats.Subscription
	subsMu sync.RWMutex
}

// NewNATSClient creates a new NATS client
func NewNATSClient(cfg *config.NATSConfig, logger *logrus.Logger) (*NATSClient, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	// Create JetStream context
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Create encoded connection for JSON
	encoder, err := nats.NewEncodedConn(conn, nats.JSON_ENCODER)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create encoded connection: %w", err)
	}

	nc := &NATSClient{
		conn:    conn,
		js:      js,
		encoder: encoder,
		logger:  logger.WithField("component", "nats"),
		cfg:     cfg,
		subs:    make(map[string]*nats.Subscription),
	}

	// Initialize streams
	if err := nc.initializeStreams(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to initialize streams: %w", err)
	}

	return nc, nil
}

// Close closes the NATS connection
func (nc *NATSClient) Close() error {
	nc.subsMu.Lock()
	for _, sub := range nc.subs {
		sub.Unsubscribe()
	}
	nc.subs = make(map[string]*nats.Subscription)
	nc.subsMu.Unlock()

	nc.encoder.Close()
	nc.conn.Close()
	return nil
}

// IsConnected checks if NATS is connected
func (nc *NATSClient) IsConnected() bool {
	return nc.conn.IsConnected()
}

// initializeStreams creates JetStream streams
func (nc *NATSClient) initializeStreams() error {
	// Charts stream for computed chart events
	_, err := nc.js.AddStream(&nats.StreamConfig{
		Name:     "CHARTS",
		Subjects: []string{"charts.>"},
		Storage:  nats.MemoryStorage,
		MaxAge:   24 * time.Hour,
		MaxMsgs:  100000,
		Replicas: 1,
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return fmt.Errorf("failed to create CHARTS stream: %w", err)
	}

	// Arcs stream for reference table rebuild announcements
	_, err = nc.js.AddStream(&nats.StreamConfig{
		Name:     "ARCS",
		Subjects: []string{"arcs.>"},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
		MaxMsgs:  1000,
		Replicas: 1,
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return fmt.Errorf("failed to create ARCS stream: %w", err)
	}

	// System stream for health and monitoring
	_, err = nc.js.AddStream(&nats.StreamConfig{
		Name:     "SYSTEM",
		Subjects: []string{"system.>"},
		Storage:  nats.MemoryStorage,
		MaxAge:   1 * time.Hour,
		MaxMsgs:  10000,
		Replicas: 1,
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return fmt.Errorf("failed to create SYSTEM stream: %w", err)
	}

	return nil
}

// PublishChartComputed publishes a chart computation event
func (nc *NATSClient) PublishChartComputed(req *models.ChartRequest, resp *models.ChartResponse) error {
	event := ChartComputedEvent{
		ComputedAt:  time.Now().UTC(),
		Request:     *req,
		AscLonDeg:   resp.Ascendant.LonDeg,
		MCLonDeg:    resp.MC.LonDeg,
		AscSign:     resp.Ascendant.Sign,
		PlanetCount: len(resp.Planets),
	}

	if err := nc.encoder.Publish(SubjectChartComputed, &event); err != nil {
		return fmt.Errorf("failed to publish chart event: %w", err)
	}

	nc.logger.WithFields(logrus.Fields{
		"subject":  SubjectChartComputed,
		"asc_sign": event.AscSign,
	}).Debug("Chart event published")
	return nil
}

// PublishArcsRebuilt announces a rebuilt constellation arc table
func (nc *NATSClient) PublishArcsRebuilt(epoch string, arcCount int) error {
	event := ArcsRebuiltEvent{
		Epoch:    epoch,
		ArcCount: arcCount,
		BuiltAt:  time.Now().UTC(),
	}

	if err := nc.encoder.Publish(SubjectArcsRebuilt, &event); err != nil {
		return fmt.Errorf("failed to publish arcs event: %w", err)
	}
	return nil
}

// PublishHealth publishes a service health heartbeat
func (nc *NATSClient) PublishHealth(status map[string]interface{}) error {
	return nc.encoder.Publish(SubjectHealth, status)
}

// SubscribeChartComputed subscribes to chart computation events
func (nc *NATSClient) SubscribeChartComputed(handler func(*ChartComputedEvent)) error {
	sub, err := nc.encoder.Subscribe(SubjectChartComputed, func(event *ChartComputedEvent) {
		handler(event)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to chart events: %w", err)
	}

	nc.subsMu.Lock()
	nc.subs[SubjectChartComputed] = sub
	nc.subsMu.Unlock()
	return nil
}
