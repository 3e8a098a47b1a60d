// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every collector exported by switchctl.
var Registry = prometheus.NewRegistry()

var (
	SMITransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mvswitch_smi_transactions_total",
			Help: "Number of SMI bus transactions issued, by kind",
		},
		[]string{"op"},
	)

	SMITimeoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mvswitch_smi_timeouts_total",
			Help: "Number of SMI polls that ran out of iterations, by phase",
		},
		[]string{"phase"},
	)

	TableOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mvswitch_table_operations_total",
			Help: "Number of indirect table operations issued, by table and opcode",
		},
		[]string{"table", "op"},
	)

	BringupFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mvswitch_bringup_failures_total",
			Help: "Number of aborted bring-up sequences",
		},
	)

	PortLinkUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mvswitch_port_link_up",
			Help: "Last observed link state per switch port (1 = up)",
		},
		[]string{"port"},
	)
)

func init() {
	Registry.MustRegister(SMITransactionsTotal)
	Registry.MustRegister(SMITimeoutsTotal)
	Registry.MustRegister(TableOperationsTotal)
	Registry.MustRegister(BringupFailuresTotal)
	Registry.MustRegister(PortLinkUp)
}
