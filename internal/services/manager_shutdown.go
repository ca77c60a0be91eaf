package services

import (
	"context"
)

// Shutdown stops the servers, waits for the listener to drain (it stops when
// the context passed to Start is cancelled) and releases connections.
func (m *Manager) Shutdown(ctx context.Context) {
	for i, srv := range m.servers {
		m.logger.Info("Stopping server", "name", m.serverNames[i])
		if err := srv.Shutdown(ctx); err != nil {
			m.logger.Error("Error shutting down server", "name", m.serverNames[i], "error", err)
		}
	}

	m.logger.Info("Waiting for background tasks to finish...")
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Background tasks finished")
	case <-ctx.Done():
		m.logger.Warn("Timeout waiting for background tasks")
	}

	if m.natsConn != nil {
		m.logger.Info("Closing NATS connection...")
		m.natsConn.Close()
	}

	for _, closeFn := range m.closers {
		if err := closeFn(ctx); err != nil {
			m.logger.Error("Error closing gateway", "error", err)
		}
	}
}
