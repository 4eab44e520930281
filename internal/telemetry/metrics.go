package telemetry

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cipherweave/internal/logging"
)

var (
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cipherweave",
		Name:      "runs_total",
		Help:      "Pipeline runs by terminal state.",
	}, []string{"state"})

	Steps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cipherweave",
		Name:      "steps_total",
		Help:      "Encode steps applied, by cipher.",
	}, []string{"cipher"})

	StepFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cipherweave",
		Name:      "step_failures_total",
		Help:      "Encode steps that failed, by cipher.",
	}, []string{"cipher"})

	ParamFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cipherweave",
		Name:      "param_fallbacks_total",
		Help:      "Caller parameters replaced by defaults, by cipher.",
	}, []string{"cipher"})

	SinkErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cipherweave",
		Name:      "sink_errors_total",
		Help:      "Failed sink pushes, by sink.",
	}, []string{"sink"})
)

// Expose serves /metrics on port in the background. Port 0 disables it.
func Expose(port int) *http.Server {
	if port == 0 {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error("metrics server stopped", "port", port, "err", err)
		}
	}()
	return srv
}
