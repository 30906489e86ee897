package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "obd_dashboard"

type engineMetrics struct {
	readingsApplied  prometheus.Counter
	noDataReadings   prometheus.Counter
	cardsCreated     prometheus.Counter
	ticks            prometheus.Counter
	customMetrics    prometheus.Counter
	recordingErrors  prometheus.Counter
	trackRequests    prometheus.Counter
	troubleCodes     prometheus.Gauge
	collectorsToFree []prometheus.Collector
}

func newEngineMetrics(registerer prometheus.Registerer, widgets WidgetCache, trackers TrackerRegistry) (*engineMetrics, error) {
	m := &engineMetrics{
		readingsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "readings_applied_total",
			Help:      "Metric readings applied to the widget cache.",
		}),
		noDataReadings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "no_data_readings_total",
			Help:      "Metric readings that carried the no data sentinel.",
		}),
		cardsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cards_created_total",
			Help:      "Cards created on the first reading of a metric.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sample_clock_ticks_total",
			Help:      "Sample clock ticks delivered to the live trackers.",
		}),
		customMetrics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "custom_metrics_registered_total",
			Help:      "Custom metric definitions accepted by the diagnostic session.",
		}),
		recordingErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "recording_errors_total",
			Help:      "Readings the recorder failed to persist.",
		}),
		trackRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "track_requests_total",
			Help:      "Accepted track requests.",
		}),
		troubleCodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "trouble_codes",
			Help:      "Trouble codes currently reported by the vehicle.",
		}),
	}

	collectors := []prometheus.Collector{
		m.readingsApplied,
		m.noDataReadings,
		m.cardsCreated,
		m.ticks,
		m.customMetrics,
		m.recordingErrors,
		m.trackRequests,
		m.troubleCodes,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "cards",
			Help:      "Cards currently on the view.",
		}, func() float64 {
			return float64(widgets.Len())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "live_trackers",
			Help:      "Graph targets with a live tracker.",
		}, func() float64 {
			return float64(trackers.LiveTrackers())
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "samples_appended_total",
			Help:      "Samples appended to the rolling windows.",
		}, func() float64 {
			return float64(trackers.SamplesAppended())
		}),
	}

	for _, collector := range collectors {
		err := registerer.Register(collector)
		if err != nil {
			m.unregister(registerer)
			return nil, err
		}
		m.collectorsToFree = append(m.collectorsToFree, collector)
	}

	return m, nil
}

func (m *engineMetrics) unregister(registerer prometheus.Registerer) {
	for _, collector := range m.collectorsToFree {
		registerer.Unregister(collector)
	}
	m.collectorsToFree = nil
}
