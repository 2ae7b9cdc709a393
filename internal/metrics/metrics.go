// Package metrics records simulation telemetry in Prometheus collectors on a
// private registry. Nothing is served; the registry is dumped to a textfile
// (node_exporter textfile format) when the program exits.
package metrics

import (
	"errors"
	"fmt"
	"strconv"

	"event-horizon.klederson.com/internal/sensor"
	"event-horizon.klederson.com/internal/sim"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements sim.Telemetry.
type Collector struct {
	registry *prometheus.Registry

	DisplayDistance prometheus.Gauge
	DilationFactor  prometheus.Gauge
	MissionTime     prometheus.Gauge
	ShipTime        prometheus.Gauge
	LinkConnected   prometheus.Gauge

	Dilation        prometheus.Histogram
	Samples         prometheus.Counter
	LinkErrors      *prometheus.CounterVec
	Warnings        prometheus.Counter
	ProximityAlerts *prometheus.CounterVec
	HorizonCrossing prometheus.Counter
}

var _ sim.Telemetry = (*Collector)(nil)

// NewCollector registers every metric on a fresh registry.
func NewCollector() (*Collector, error) {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		DisplayDistance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_horizon_display_distance_km",
			Help: "Simulated distance from the event horizon.",
		}),
		DilationFactor: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_horizon_dilation_factor",
			Help: "Current gravitational time dilation factor.",
		}),
		MissionTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_horizon_mission_time_seconds",
			Help: "Elapsed time for the distant observer.",
		}),
		ShipTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_horizon_ship_time_seconds",
			Help: "Elapsed proper time aboard the ship.",
		}),
		LinkConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "event_horizon_link_connected",
			Help: "1 while a sensor session is connected.",
		}),
		Dilation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "event_horizon_dilation_factor_samples",
			Help:    "Distribution of dilation factors over applied samples.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		Samples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "event_horizon_samples_total",
			Help: "Sensor readings applied to the simulation.",
		}),
		LinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "event_horizon_link_errors_total",
			Help: "Sensor link errors, labeled by kind.",
		}, []string{"kind"}),
		Warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "event_horizon_warnings_total",
			Help: "Proximity warning klaxons fired.",
		}),
		ProximityAlerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "event_horizon_proximity_alerts_total",
			Help: "Critical-zone pulses, labeled by intensity.",
		}, []string{"intensity"}),
		HorizonCrossing: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "event_horizon_crossings_total",
			Help: "Times the ship reached the event horizon.",
		}),
	}

	for name, col := range map[string]prometheus.Collector{
		"display_distance": c.DisplayDistance,
		"dilation_factor":  c.DilationFactor,
		"mission_time":     c.MissionTime,
		"ship_time":        c.ShipTime,
		"link_connected":   c.LinkConnected,
		"dilation":         c.Dilation,
		"samples":          c.Samples,
		"link_errors":      c.LinkErrors,
		"warnings":         c.Warnings,
		"proximity_alerts": c.ProximityAlerts,
		"horizon_crossing": c.HorizonCrossing,
	} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
	}
	return c, nil
}

// Registry exposes the underlying gatherer.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) SampleApplied(p sim.PhysicalState) {
	c.Samples.Inc()
	c.DisplayDistance.Set(p.DisplayDistance)
	c.DilationFactor.Set(p.DilationFactor)
	c.Dilation.Observe(p.DilationFactor)
}

func (c *Collector) WarningFired() {
	c.Warnings.Inc()
}

func (c *Collector) ProximityAlert(intensity int) {
	c.ProximityAlerts.WithLabelValues(strconv.Itoa(intensity)).Inc()
}

func (c *Collector) HorizonCrossed() {
	c.HorizonCrossing.Inc()
}

func (c *Collector) LinkChanged(connected bool) {
	if connected {
		c.LinkConnected.Set(1)
		return
	}
	c.LinkConnected.Set(0)
}

func (c *Collector) LinkError(err error) {
	c.LinkErrors.WithLabelValues(ErrorKind(err)).Inc()
}

func (c *Collector) Frame(cs sim.ClockState) {
	c.MissionTime.Set(cs.MissionTimeSeconds)
	c.ShipTime.Set(cs.ShipTimeSeconds)
}

// ErrorKind buckets a link error for the kind label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, sensor.ErrDataFormat):
		return "data_format"
	case errors.Is(err, sensor.ErrUnexpectedDisconnect):
		return "disconnect"
	case errors.Is(err, sensor.ErrServiceUnavailable):
		return "service_unavailable"
	case errors.Is(err, sensor.ErrNoDeviceSelected):
		return "no_device"
	case errors.Is(err, sensor.ErrLinkUnavailable):
		return "link_unavailable"
	default:
		return "other"
	}
}

// WriteTextfile dumps the registry to path.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
