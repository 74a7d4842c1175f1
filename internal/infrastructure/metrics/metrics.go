package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "filemanager",
			Name:      "general_counters",
			Help:      "Outcome counters of file operations, variant jobs and requests.",
		},
		[]string{"result"})
}
