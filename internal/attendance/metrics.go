package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "backoffice_attendance_transitions_total",
	Help: "Successful attendance state transitions by action.",
}, []string{"action"})
