package services

import "github.com/prometheus/client_golang/prometheus"

var OrderStatusTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "orders",
		Name:      "status_transitions_total",
		Help:      "Order status changes by previous and new status",
	},
	[]string{"from", "to"},
)

var OrdersCreated = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "pos",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Orders created",
	},
)
