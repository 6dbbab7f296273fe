package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_events_total",
			Help: "Gateway events handled, by type and outcome",
		},
		[]string{"event_type", "outcome"},
	)

	SeatReservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_seat_reservations_total",
			Help: "Sponsored seat claims, by result",
		},
		[]string{"status"},
	)

	SettlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_ledger_entries_total",
			Help: "Ledger entries written, by settlement type",
		},
		[]string{"settlement_type"},
	)

	SettlementAmounts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "settlement_base_price_minor_units",
			Help:    "Base price of settled purchases in minor units",
			Buckets: prometheus.ExponentialBuckets(100, 2, 14),
		},
		[]string{"settlement_type"},
	)

	VoucherTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_voucher_transitions_total",
			Help: "Voucher state changes, by target state",
		},
		[]string{"status"},
	)

	InvariantViolationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_invariant_violations_total",
			Help: "Pipelines aborted because a split failed to balance",
		},
	)

	SignatureFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_signature_failures_total",
			Help: "Deliveries rejected for a bad signature",
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		EventsTotal,
		SeatReservationsTotal,
		SettlementsTotal,
		SettlementAmounts,
		VoucherTransitionsTotal,
		InvariantViolationsTotal,
		SignatureFailuresTotal,
	)
}
