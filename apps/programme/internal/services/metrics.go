package services

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

type Metrics struct {
	registry            *prometheus.Registry
	HighlightWrites     *prometheus.CounterVec
	SubscriptionsActive prometheus.Gauge
	ProgrammeReloads    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	metrics := &Metrics{
		registry: registry,
		HighlightWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "highlight_writes_total",
			Help: "Highlight document overwrites by result.",
		}, []string{"result"}),
		SubscriptionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "highlight_subscriptions_active",
			Help: "Open highlight subscriptions.",
		}),
		ProgrammeReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "programme_reloads_total",
			Help: "Programme document reloads by result.",
		}, []string{"result"}),
	}

	registry.MustRegister(
		metrics.HighlightWrites,
		metrics.SubscriptionsActive,
		metrics.ProgrammeReloads,
	)

	return metrics
}

func (metrics *Metrics) Handler() http.Handler {
	//nolint:exhaustruct //other fields are optional
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}
