// Package metrics holds the Prometheus collectors of the prompt service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "promptlab"

// Version record reasons.
const (
	ReasonUpdate = "update"
	ReasonRecord = "record"
	ReasonRevert = "revert"
)

var (
	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Store mutations by entity, operation and result.",
		},
		[]string{"entity", "op", "result"},
	)

	VersionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "versions_recorded_total",
			Help:      "Prompt versions recorded, by what caused them.",
		},
		[]string{"reason"},
	)

	OrphanedPrompts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_prompts_total",
			Help:      "Prompts detached from a collection because it was deleted.",
		},
	)
)

// ObserveMutation counts one mutation attempt.
func ObserveMutation(entity, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Mutations.WithLabelValues(entity, op, result).Inc()
}

// VersionRecorded counts one recorded version.
func VersionRecorded(reason string) { VersionsRecorded.WithLabelValues(reason).Inc() }

// PromptsOrphaned counts n prompts detached by a collection delete.
func PromptsOrphaned(n int) { OrphanedPrompts.Add(float64(n)) }

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
