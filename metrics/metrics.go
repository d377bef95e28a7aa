// Package metrics holds the Prometheus collectors of the swap proxy.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry collects every swapproxy metric. It is separate from the default
// registerer so that embedding programs decide what to expose.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	Invocations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swapproxy",
			Name:      "invocations_total",
			Help:      "Proxy invocations by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	Transfers = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swapproxy",
			Name:      "transfers_total",
			Help:      "Fund movements performed by the proxy by kind",
		},
		[]string{"kind"},
	)

	Aborts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swapproxy",
			Name:      "aborts_total",
			Help:      "Aborted invocations by abort code",
		},
		[]string{"code"},
	)
)

// WriteTextfile writes the current metric values to path.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
