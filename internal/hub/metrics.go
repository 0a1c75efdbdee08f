package hub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 房间维度的运行指标，经由私有监听的 /metrics 暴露
var (
	connectionsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fridge_board",
		Subsystem: "hub",
		Name:      "connections",
		Help:      "Current number of websocket connections per room.",
	}, []string{"room"})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fridge_board",
		Subsystem: "hub",
		Name:      "events_total",
		Help:      "Total number of events fanned out per room and event type.",
	}, []string{"room", "type"})

	relayDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fridge_board",
		Subsystem: "hub",
		Name:      "relay_dropped_total",
		Help:      "Total number of inbound frames dropped for carrying an unknown tag.",
	}, []string{"room"})
)
