package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	appconfig "github.com/wolfman30/mhrs-booking/internal/config"
	"github.com/wolfman30/mhrs-booking/internal/observability/metrics"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

// BuildAPIClient returns the backend client with request metrics registered
// on reg. A nil reg disables metrics.
func BuildAPIClient(cfg *appconfig.Config, logger *logging.Logger, reg prometheus.Registerer) *apiclient.Client {
	if logger == nil {
		logger = logging.Default()
	}
	opts := []apiclient.Option{
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithLogger(logger),
	}
	if reg != nil {
		opts = append(opts, apiclient.WithMetrics(metrics.NewClientMetrics(reg)))
	}
	return apiclient.New(cfg.APIBaseURL, opts...)
}

// MetricsServer serves /metrics for a registry while the shell runs.
type MetricsServer struct {
	srv    *http.Server
	ln     net.Listener
	logger *logging.Logger
}

// StartMetricsServer listens on addr and serves gatherer in the background.
func StartMetricsServer(addr string, gatherer prometheus.Gatherer, logger *logging.Logger) (*MetricsServer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	m := &MetricsServer{
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
		logger: logger,
	}
	go func() {
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", ln.Addr().String())
	return m, nil
}

// Addr is the bound address, useful when addr used port 0.
func (m *MetricsServer) Addr() string { return m.ln.Addr().String() }

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
