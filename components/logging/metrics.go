// components/logging/metrics.go
package logging

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "kit_log"

// Metrics holds the logging collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	writes      *prometheus.CounterVec
	writeErrors *prometheus.CounterVec
	rotations   *prometheus.CounterVec
	state       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg. Collectors already registered
// on reg (e.g. by a previous Manager) are reused. Other registration errors are joined and returned
// along with the collectors, which still count but are not exported.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &Metrics{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sink_writes_total",
			Help:      "Records written to a log file sink.",
		}, []string{"sink"}),
		writeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sink_write_errors_total",
			Help:      "Failed writes or rotations on a log file sink.",
		}, []string{"sink"}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sink_rotations_total",
			Help:      "Completed rotations of a log file sink.",
		}, []string{"sink"}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "state",
			Help:      "Logging state: 0 uninitialized, 1 configured, 2 base.",
		}),
	}
	var errs []error
	m.writes = register(reg, m.writes, &errs)
	m.writeErrors = register(reg, m.writeErrors, &errs)
	m.rotations = register(reg, m.rotations, &errs)
	m.state = register(reg, m.state, &errs)
	return m, errors.Join(errs...)
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C, errs *[]error) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	*errs = append(*errs, err)
	return c
}

func (m *Metrics) wrote(sink string) {
	if m != nil {
		m.writes.WithLabelValues(sink).Inc()
	}
}

func (m *Metrics) failed(sink string) {
	if m != nil {
		m.writeErrors.WithLabelValues(sink).Inc()
	}
}

func (m *Metrics) rotated(sink string) {
	if m != nil {
		m.rotations.WithLabelValues(sink).Inc()
	}
}

func (m *Metrics) setState(s State) {
	if m != nil {
		m.state.Set(float64(s))
	}
}
