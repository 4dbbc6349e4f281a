package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// Route values for AssistCall.
const (
	RoutePrimary  = "primary"
	RouteFallback = "fallback"
	RouteQuota    = "quota"
)

var (
	assistCalls = newCounterVec("assist_calls_total", "AI assist requests by endpoint, serving route and result", "endpoint", "route", "result")
	atsScores   atomic.Uint64

	providerLatency = newHistogramVec("provider_duration_ms", "Primary provider call duration in milliseconds",
		[]float64{100, 250, 500, 1000, 2000, 5000, 10000, 20000, 60000}, "outcome")
)

// AssistCall counts one orchestrated request. route is one of the Route
// constants; ok is false when no tier produced text.
func AssistCall(endpoint, route string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	assistCalls.inc(endpoint, route, result)
}

// IncATSScore counts a computed ATS score.
func IncATSScore() {
	atsScores.Add(1)
}

// ObserveProviderDuration records one primary call, labelled by outcome kind.
func ObserveProviderDuration(outcome string, ms float64) {
	providerLatency.observe(max(ms, 0), outcome)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.Status(http.StatusOK)
		Write(c.Writer)
	}
}

// Write renders every metric family in Prometheus text format.
func Write(w io.Writer) {
	assistCalls.write(w)
	fmt.Fprintf(w, "# HELP ats_scores_total Total ATS scores computed\n# TYPE ats_scores_total counter\nats_scores_total %d\n", atsScores.Load())
	providerLatency.write(w)
}

// Render returns Write's output as a string.
func Render() string {
	var sb strings.Builder
	Write(&sb)
	return sb.String()
}

func labelSet(names, values []string) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + strconv.Quote(values[i])
	}
	return strings.Join(parts, ",")
}

type counterVec struct {
	name, help string
	labels     []string

	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec(name, help string, labels ...string) *counterVec {
	return &counterVec{name: name, help: help, labels: labels, values: map[string]uint64{}}
}

func (v *counterVec) inc(values ...string) {
	key := labelSet(v.labels, values)
	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) write(w io.Writer) {
	v.mu.Lock()
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n", v.name, v.help, v.name)
	for _, k := range keys {
		fmt.Fprintf(w, "%s{%s} %d\n", v.name, k, v.values[k])
	}
	v.mu.Unlock()
}

type series struct {
	counts []uint64
	sum    float64
	total  uint64
}

type histogramVec struct {
	name, help string
	bounds     []float64
	labels     []string

	mu     sync.Mutex
	series map[string]*series
}

func newHistogramVec(name, help string, bounds []float64, labels ...string) *histogramVec {
	return &histogramVec{name: name, help: help, bounds: bounds, labels: labels, series: map[string]*series{}}
}

func (h *histogramVec) observe(value float64, values ...string) {
	key := labelSet(h.labels, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.series[key]
	if !ok {
		s = &series{counts: make([]uint64, len(h.bounds))}
		h.series[key] = s
	}
	s.total++
	s.sum += value
	// first bucket only; write accumulates
	if i := sort.SearchFloat64s(h.bounds, value); i < len(h.bounds) {
		s.counts[i]++
	}
}

func (h *histogramVec) write(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := make([]string, 0, len(h.series))
	for k := range h.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name)
	for _, k := range keys {
		s := h.series[k]
		var running uint64
		for i, bound := range h.bounds {
			running += s.counts[i]
			fmt.Fprintf(w, "%s_bucket{%s,le=%q} %d\n", h.name, k, strconv.FormatFloat(bound, 'f', -1, 64), running)
		}
		fmt.Fprintf(w, "%s_bucket{%s,le=\"+Inf\"} %d\n", h.name, k, s.total)
		fmt.Fprintf(w, "%s_sum{%s} %s\n", h.name, k, strconv.FormatFloat(s.sum, 'f', -1, 64))
		fmt.Fprintf(w, "%s_count{%s} %d\n", h.name, k, s.total)
	}
}
