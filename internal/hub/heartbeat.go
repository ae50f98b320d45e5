package hub

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Monitor periodically probes every registered connection with a heartbeat
// event and prunes the ones that stop answering. It is the only thing that
// reclaims half-open connections whose client crashed without a clean close.
type Monitor struct {
	registry *Registry
	interval time.Duration
	grace    time.Duration
}

// NewMonitor creates a heartbeat monitor over the hub's registry.
func NewMonitor(h *Hub) *Monitor {
	return &Monitor{
		registry: h.registry,
		interval: h.cfg.HeartbeatInterval,
		grace:    h.cfg.HeartbeatGrace,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

// sweep probes every connection once. An open connection with no activity
// since the previous probe goes stale; a stale connection past the grace
// window is closed and removed.
func (m *Monitor) sweep(now time.Time) {
	for _, conn := range m.registry.Connections() {
		switch conn.State() {
		case StateClosed:
			m.registry.drop(conn)

		case StateStale:
			if now.Sub(conn.StaleSince()) > m.grace {
				log.Info().
					Str("user_id", conn.UserID().String()).
					Msg("hub: closing connection after heartbeat timeout")
				m.registry.drop(conn)
				continue
			}
			// Keep probing during the grace window so a recovered client
			// has something to acknowledge.
			if err := conn.Send(heartbeatEvent()); err != nil {
				m.registry.drop(conn)
			}

		case StateOpen:
			if now.Sub(conn.LastAck()) > m.interval {
				conn.markStale(now)
			}
			if err := conn.Send(heartbeatEvent()); err != nil {
				m.registry.drop(conn)
			}
		}
	}
}
