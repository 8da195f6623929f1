package guard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "guard_decisions_total",
	Help: "Access guard verdicts by route class and action.",
}, []string{"class", "action"})

func observe(d Decision) {
	decisions.WithLabelValues(d.Class.String(), d.Action.String()).Inc()
}
