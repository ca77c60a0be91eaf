package services

import (
	"context"
	"errors"
	"net/http"
)

func (m *Manager) Start(bgCtx context.Context) {
	for i, srv := range m.servers {
		m.wg.Add(1)
		go func(s *http.Server, name string) {
			defer m.wg.Done()
			m.logger.Info("Server listening", "name", name, "addr", s.Addr)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				m.logger.Error("Server error", "name", name, "error", err)
			}
		}(srv, m.serverNames[i])
	}

	if m.consumer != nil {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.logger.Info("Starting listener...")
			if err := m.consumer.Start(bgCtx); err != nil {
				m.logger.Error("Listener stopped with error", "error", err)
			}
		}()
	}
}
