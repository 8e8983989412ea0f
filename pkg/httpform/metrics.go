package httpform

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission results recorded by the counter.
const (
	ResultSuccess  = "success"
	ResultInvalid  = "invalid"
	ResultRejected = "rejected"
	ResultToggle   = "toggle"
	ResultError    = "error"
)

func newSubmissionCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dynamicform",
		Name:      "submissions_total",
		Help:      "Form posts handled, partitioned by result.",
	}, []string{"result"})
}

// registerCounter registers counter, reusing an identical collector that is
// already registered (several handlers can share one registry).
func registerCounter(reg prometheus.Registerer, counter *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if reg == nil {
		return counter, nil
	}
	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return counter, nil
}
