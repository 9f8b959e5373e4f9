package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ChargesTotal   *prometheus.CounterVec
	CheckoutsTotal *prometheus.CounterVec
	OrdersCreated  prometheus.Counter
	CacheLookups   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChargesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_charges_total",
			Help: "Charge relay attempts by outcome.",
		}, []string{"outcome"}),
		CheckoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_checkouts_total",
			Help: "Checkout attempts by result.",
		}, []string{"result"}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_orders_created_total",
			Help: "Orders persisted after a succeeded charge.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_cache_lookups_total",
			Help: "Market product cache lookups by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.ChargesTotal, m.CheckoutsTotal, m.OrdersCreated, m.CacheLookups)
	return m
}
