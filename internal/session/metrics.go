package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "hireboard_sessions_active",
	Help: "Logged-in operator sessions held in memory.",
})
