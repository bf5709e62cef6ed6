// Package zeroconf advertises the bench time server over mDNS/DNS-SD so a
// device on the same LAN can be pointed at it by name.
package zeroconf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grandcat/zeroconf"
)

// ServiceType is the DNS-SD type the time server registers under.
const ServiceType = "_timestamper-time._tcp"

// Service manages mDNS service registration.
type Service struct {
	name string // instance name, e.g. the hostname
	port int
	path string // HTTP path of the seconds endpoint
}

// New creates a Service that will advertise path on port.
func New(name string, port int, path string) *Service {
	return &Service{name: name, port: port, path: path}
}

// TXT returns the TXT records published with the service.
func (s *Service) TXT() []string {
	return []string{"path=" + s.path, "format=unix-seconds"}
}

// Start registers the service and blocks until ctx is cancelled, then
// unregisters it.
func (s *Service) Start(ctx context.Context) error {
	server, err := zeroconf.Register(s.name, ServiceType, "local.", s.port, s.TXT(), nil)
	if err != nil {
		return fmt.Errorf("zeroconf register: %w", err)
	}
	slog.Info("zeroconf: registered", "name", s.name, "type", ServiceType, "port", s.port)

	<-ctx.Done()

	server.Shutdown()
	slog.Info("zeroconf: unregistered", "name", s.name)
	return nil
}
