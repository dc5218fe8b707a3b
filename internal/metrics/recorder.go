// Package metrics exports simulation outcomes as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"

	"github.com/guimove/greendc/internal/model"
)

const namespace = "greendc"

var labels = []string{"scenario", "policy"}

// Recorder accumulates per-scenario metrics on a private registry. It is safe
// for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	episodes       *prometheus.CounterVec
	tasksProcessed *prometheus.CounterVec
	tasksDropped   *prometheus.CounterVec
	arrivals       *prometheus.CounterVec
	gridEnergy     *prometheus.CounterVec
	greenEnergy    *prometheus.CounterVec
	carbon         *prometheus.CounterVec
	battery        *prometheus.GaugeVec
	queue          *prometheus.GaugeVec
	episodeReward  *prometheus.GaugeVec
	stepReward     *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	}

	r := &Recorder{
		registry:       prometheus.NewRegistry(),
		episodes:       counter("episodes_total", "Completed 24-hour episodes."),
		tasksProcessed: counter("tasks_processed_total", "Tasks processed."),
		tasksDropped:   counter("tasks_dropped_total", "Tasks dropped on queue overflow."),
		arrivals:       counter("task_arrivals_total", "Tasks that arrived."),
		gridEnergy:     counter("grid_energy_kwh_total", "Energy drawn from the grid in kWh."),
		greenEnergy:    counter("green_energy_kwh_total", "Energy drawn from solar, wind and battery in kWh."),
		carbon:         counter("carbon_emitted_grams_total", "Grid carbon emitted in gCO2."),
		battery:        gauge("battery_charge_kwh", "Battery charge at the end of the last episode."),
		queue:          gauge("queue_length", "Queue length at the end of the last episode."),
		episodeReward:  gauge("episode_reward", "Total reward of the last episode."),
		stepReward: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_reward",
			Help:      "Distribution of per-hour rewards.",
			Buckets:   []float64{-200, -100, -50, -20, -10, 0, 10, 25, 50, 100},
		}, labels),
	}

	r.registry.MustRegister(
		r.episodes, r.tasksProcessed, r.tasksDropped, r.arrivals,
		r.gridEnergy, r.greenEnergy, r.carbon,
		r.battery, r.queue, r.episodeReward, r.stepReward,
	)
	return r
}

// Registry returns the registry the recorder writes to.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveEpisode records a finished episode.
func (r *Recorder) ObserveEpisode(ep *model.EpisodeResult) {
	scenario := ep.Scenario
	if scenario == "" {
		scenario = ep.Policy
	}
	lv := []string{scenario, ep.Policy}
	t := ep.Totals

	r.episodes.WithLabelValues(lv...).Inc()
	r.tasksProcessed.WithLabelValues(lv...).Add(float64(t.TasksProcessed))
	r.tasksDropped.WithLabelValues(lv...).Add(float64(t.DroppedTasks))
	r.arrivals.WithLabelValues(lv...).Add(float64(t.Arrivals))
	r.gridEnergy.WithLabelValues(lv...).Add(t.GridUsed)
	r.greenEnergy.WithLabelValues(lv...).Add(t.GreenUsed)
	r.carbon.WithLabelValues(lv...).Add(t.CarbonEmitted)
	r.battery.WithLabelValues(lv...).Set(t.FinalBattery)
	r.queue.WithLabelValues(lv...).Set(float64(t.FinalQueue))
	r.episodeReward.WithLabelValues(lv...).Set(t.Reward)

	hist := r.stepReward.WithLabelValues(lv...)
	for _, s := range ep.Steps {
		hist.Observe(s.Reward)
	}
}

// WriteText writes every metric in the text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteFile writes the metrics to path atomically, suitable for a node
// exporter textfile collector.
func (r *Recorder) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	if err := r.WriteText(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing metrics file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing metrics file: %w", err)
	}
	logrus.WithField("path", path).Info("wrote metrics")
	return nil
}
