package metrics

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CreateMetricsServer registers the collectors on a fresh registry and serves
// them on addr under /metrics. The listener is bound before returning so address
// errors are reported to the caller; the returned server's Addr is the bound address.
func CreateMetricsServer(addr string, collectors ...prometheus.Collector) (*http.Server, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(prometheus.NewGoCollector()); err != nil {
		return nil, err
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: listener.Addr().String(), Handler: mux}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start metrics server", "error", err)
		}
	}()

	return server, nil
}
