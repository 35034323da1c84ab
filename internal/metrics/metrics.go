// Package metrics exposes Prometheus counters for the board flows and the
// activities API through a scrape registry.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns a Prometheus registry and the service's counters.
type Registry struct {
	prom     *prometheus.Registry
	flows    *prometheus.CounterVec
	requests *prometheus.CounterVec
}

// NewRegistry creates a registry with Go and process collectors plus the
// service counters.
func NewRegistry() (*Registry, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("registering go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("registering process collector: %w", err)
	}

	flows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_board_flows_total",
		Help: "Board flows (load, signup, unregister) by outcome.",
	}, []string{"flow", "outcome"})
	if err := reg.Register(flows); err != nil {
		return nil, fmt.Errorf("registering counter vec %q: %w", "activity_board_flows_total", err)
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_api_requests_total",
		Help: "Activities API operations by outcome.",
	}, []string{"operation", "outcome"})
	if err := reg.Register(requests); err != nil {
		return nil, fmt.Errorf("registering counter vec %q: %w", "activity_api_requests_total", err)
	}

	return &Registry{prom: reg, flows: flows, requests: requests}, nil
}

// Handler returns an http.Handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// FlowCompleted counts one finished board flow.
func (r *Registry) FlowCompleted(flow, outcome string) {
	r.flows.With(prometheus.Labels{"flow": flow, "outcome": outcome}).Inc()
}

// RequestCompleted counts one finished API operation.
func (r *Registry) RequestCompleted(operation, outcome string) {
	r.requests.With(prometheus.Labels{"operation": operation, "outcome": outcome}).Inc()
}
