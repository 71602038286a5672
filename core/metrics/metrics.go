package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpdatesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screambot_updates_handled_total",
		Help: "Updates handled, by handler and outcome",
	}, []string{"handler", "outcome"})

	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screambot_messages_sent_total",
		Help: "Outbound Bot API calls, by method",
	}, []string{"method"})

	ModeSwitches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screambot_mode_switches_total",
		Help: "Screaming mode switches, by target mode",
	}, []string{"mode"})

	SourceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "screambot_source_requests_total",
		Help: "Response source calls, by source, operation and result kind",
	}, []string{"source", "op", "result"})

	SourceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "screambot_source_request_duration_seconds",
		Help:    "Duration of response source calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "op"})
)

// Serve exposes /metrics on listen until ctx is done.
func Serve(ctx context.Context, listen string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
