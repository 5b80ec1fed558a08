// Package stats is a thin layer over go-metrics for the counters, gauges and
// latencies recorded during one invocation of the cli. Names are scoped with
// '/' so a receiver can be handed down a call tree and narrowed at each
// level. The registry renders as flat Finagle style JSON.
//
// Original license: github.com/rcrowley/go-metrics/blob/master/LICENSE
package stats

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

// For testing.
var Time StatsTime = DefaultStatsTime()

// Latencies are recorded in nanoseconds and rendered in this unit.
const LatencyPrecision = time.Millisecond

// StatsReceiver creates instruments under its scope.
type StatsReceiver interface {
	// Return a stats receiver that will automatically namespace elements with
	// the given scope args.
	//
	//   statsReceiver.Scope("foo", "bar").Counter("baz")  // is equivalent to
	//   statsReceiver.Counter("foo", "bar", "baz")
	//
	Scope(scope ...string) StatsReceiver

	// Provides an event counter
	Counter(name ...string) Counter

	// Add a gauge, which holds an int64 value that can be set arbitrarily.
	Gauge(name ...string) Gauge

	// Provides a histogram of sampled durations.
	Latency(name ...string) Latency

	// Construct a JSON string by marshaling the registry.
	Render(pretty bool) []byte
}

// DefaultStatsReceiver records into a fresh Registry.
func DefaultStatsReceiver() StatsReceiver {
	return &defaultStatsReceiver{registry: NewRegistry()}
}

type defaultStatsReceiver struct {
	registry *Registry
	scope    []string
}

func (s *defaultStatsReceiver) Scope(scope ...string) StatsReceiver {
	return &defaultStatsReceiver{s.registry, s.scoped(scope...)}
}

func (s *defaultStatsReceiver) Counter(name ...string) Counter {
	return s.registry.GetOrRegister(s.scopedName(name...), metrics.NewCounter).(Counter)
}

func (s *defaultStatsReceiver) Gauge(name ...string) Gauge {
	return s.registry.GetOrRegister(s.scopedName(name...), metrics.NewGauge).(Gauge)
}

func (s *defaultStatsReceiver) Latency(name ...string) Latency {
	return s.registry.GetOrRegister(s.scopedName(name...), newLatency).(Latency)
}

func (s *defaultStatsReceiver) Render(pretty bool) []byte {
	var err error
	var bytes []byte
	if pretty {
		bytes, err = s.registry.MarshalJSONPretty()
	} else {
		bytes, err = s.registry.MarshalJSON()
	}
	if err != nil {
		panic("stats registry bug, cannot be marshaled")
	}
	return bytes
}

// Append to existing scope and scrub slashes
func (s *defaultStatsReceiver) scoped(scope ...string) []string {
	scrubbed := make([]string, 0, len(s.scope)+len(scope))
	scrubbed = append(scrubbed, s.scope...)
	for _, sc := range scope {
		scrubbed = append(scrubbed, strings.Replace(sc, "/", "_SLASH_", -1))
	}
	return scrubbed
}

// Append to the existing scope and convert to slash-delimited string.
func (s *defaultStatsReceiver) scopedName(scope ...string) string {
	return strings.Join(s.scoped(scope...), "/")
}

//
// NilStats ignores all stats operations.
//
func NilStatsReceiver() StatsReceiver {
	return &nilStatsReceiver{}
}

type nilStatsReceiver struct{}

func (s *nilStatsReceiver) Scope(scope ...string) StatsReceiver { return s }
func (s *nilStatsReceiver) Counter(name ...string) Counter       { return metrics.NilCounter{} }
func (s *nilStatsReceiver) Gauge(name ...string) Gauge           { return metrics.NilGauge{} }
func (s *nilStatsReceiver) Latency(name ...string) Latency       { return nilLatency{} }
func (s *nilStatsReceiver) Render(pretty bool) []byte            { return []byte{} }

// Counter is satisfied by go-metrics counters.
type Counter interface {
	Count() int64
	Inc(int64)
}

// Gauge is satisfied by go-metrics gauges.
type Gauge interface {
	Update(int64)
	Value() int64
}

// Latency times a call site: defer stat.Latency("x").Time().Stop()
type Latency interface {
	Time() Latency //returns self.
	Stop()
}

// metricLatency is a go-metrics Histogram of nanosecond samples.
type metricLatency struct {
	metrics.Histogram
	start time.Time
}

func newLatency() *metricLatency {
	return &metricLatency{Histogram: metrics.NewHistogram(metrics.NewUniformSample(1000))}
}

func (l *metricLatency) Time() Latency { l.start = Time.Now(); return l }
func (l *metricLatency) Stop()         { l.Update(Time.Since(l.start).Nanoseconds()) }

type nilLatency struct{}

func (nilLatency) Time() Latency { return nilLatency{} }
func (nilLatency) Stop()         {}

//
// Twitter/Finagle style metrics
//
type Registry struct {
	metrics metrics.Registry
}

func NewRegistry() *Registry {
	return &Registry{metrics.NewRegistry()}
}

// GetOrRegister returns the instrument named name, registering metric (or
// the result of calling it, when it is a constructor) if there is none.
func (r *Registry) GetOrRegister(name string, metric interface{}) interface{} {
	return r.metrics.GetOrRegister(name, metric)
}

type jsonMap map[string]interface{}

// MarshalJSON returns a byte slice containing a JSON representation of all
// the metrics in the Registry.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.marshalAll())
}

func (r *Registry) MarshalJSONPretty() ([]byte, error) {
	return json.MarshalIndent(r.marshalAll(), "", "  ")
}

func (r *Registry) marshalAll() jsonMap {
	data := make(jsonMap)
	r.metrics.Each(func(name string, i interface{}) {
		switch stat := i.(type) {
		case *metricLatency:
			marshalHistogram(data, name, stat.Snapshot())
		case Counter:
			data[name] = stat.Count()
		case Gauge:
			data[name] = stat.Value()
		default:
			log.Info("Unrecognized marshal instrument: ", name, i)
		}
	})
	return data
}

func marshalHistogram(data jsonMap, name string, hist metrics.Histogram) {
	f64p := float64(LatencyPrecision)
	i64p := int64(LatencyPrecision)
	data[name+".avg"] = hist.Mean() / f64p
	data[name+".count"] = hist.Count()
	data[name+".max"] = hist.Max() / i64p
	data[name+".min"] = hist.Min() / i64p
	data[name+".sum"] = hist.Sum() / i64p

	pctls := hist.Percentiles(defaultPercentiles)
	for i, pctl := range pctls {
		data[name+"."+defaultPercentileLabels[i]] = pctl / f64p
	}
}

var defaultPercentiles = []float64{0.5, 0.9, 0.99}
var defaultPercentileLabels = []string{"p50", "p90", "p99"}
