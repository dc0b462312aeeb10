// Package metrics exposes Prometheus instrumentation for a running Engine:
// how many steps have been taken, how long they took, how many recoverable
// errors have been recorded, and the engine's current adaptive time
// resolution.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topside",
			Subsystem: "engine",
			Name:      "steps_total",
			Help:      "Total Step calls completed, labeled by engine instance.",
		},
		[]string{"engine"},
	)

	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "topside",
			Subsystem: "engine",
			Name:      "step_duration_seconds",
			Help:      "Wall-clock time spent inside a single Step call.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	errorsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topside",
			Subsystem: "engine",
			Name:      "errors_recorded_total",
			Help:      "Total recoverable errors added to an engine's ErrorSet.",
		},
		[]string{"engine"},
	)

	timeResMicros = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "topside",
			Subsystem: "engine",
			Name:      "time_res_microseconds",
			Help:      "Current adaptive integration time resolution, in microseconds.",
		},
		[]string{"engine"},
	)
)

func init() {
	prometheus.MustRegister(stepsTotal, stepDuration, errorsRecorded, timeResMicros)
}

// Recorder instruments one named Engine instance. The zero value is not
// usable; construct with NewRecorder.
type Recorder struct {
	name string
}

// NewRecorder returns a Recorder that labels every metric it emits with
// name, so multiple engines in the same process stay distinguishable.
func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

// ObserveStep records one completed Step call and its duration in seconds.
func (r *Recorder) ObserveStep(durationSeconds float64) {
	stepsTotal.WithLabelValues(r.name).Inc()
	stepDuration.WithLabelValues(r.name).Observe(durationSeconds)
}

// ObserveErrorRecorded increments the count of recoverable errors seen.
func (r *Recorder) ObserveErrorRecorded() {
	errorsRecorded.WithLabelValues(r.name).Inc()
}

// SetTimeRes publishes the engine's current time_res, in microseconds.
func (r *Recorder) SetTimeRes(micros int64) {
	timeResMicros.WithLabelValues(r.name).Set(float64(micros))
}
