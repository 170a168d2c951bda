// Package metrics exposes Prometheus collectors for form submissions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded in the outcome label.
const (
	OutcomeNotSubmitted = "not_submitted"
	OutcomeInvalid      = "invalid"
	OutcomePersisted    = "persisted"
	OutcomeFailed       = "failed"
)

// Recorder counts submissions and times worksheet appends. A nil *Recorder
// is valid and records nothing.
type Recorder struct {
	submissions *prometheus.CounterVec
	appends     *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil registerer leaves the collectors
// unregistered, which is handy in tests.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sheetform",
			Name:      "submissions_total",
			Help:      "Form submissions by form and outcome.",
		}, []string{"form", "outcome"}),
		appends: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sheetform",
			Name:      "append_duration_seconds",
			Help:      "Time spent appending a row to the worksheet.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"form"}),
	}
	if reg == nil {
		return r, nil
	}
	for _, c := range []prometheus.Collector{r.submissions, r.appends} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Submission increments the submission counter.
func (r *Recorder) Submission(form, outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(form, outcome).Inc()
}

// ObserveAppend records the duration of one append.
func (r *Recorder) ObserveAppend(form string, d time.Duration) {
	if r == nil {
		return
	}
	r.appends.WithLabelValues(form).Observe(d.Seconds())
}
