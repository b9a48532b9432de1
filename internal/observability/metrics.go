package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration map[string]time.Duration
	jobRuns       map[string]int64
	jobFailures   map[string]int64
}

// RouteStat summarizes traffic for one path/method/status key.
type RouteStat struct {
	Key          string  `json:"key"`
	Count        int64   `json:"count"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Requests    []RouteStat      `json:"requests"`
	Errors      map[string]int64 `json:"errors"`
	JobRuns     map[string]int64 `json:"job_runs"`
	JobFailures map[string]int64 `json:"job_failures"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		totalDuration: make(map[string]time.Duration),
		jobRuns:       make(map[string]int64),
		jobFailures:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordJob counts a background job run and whether it failed.
func (m *Metrics) RecordJob(name string, failed bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobRuns[name]++
	if failed {
		m.jobFailures[name]++
	}
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Errors:      map[string]int64{},
		JobRuns:     map[string]int64{},
		JobFailures: map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, count := range m.requestCount {
		avg := float64(m.totalDuration[key].Microseconds()) / float64(count) / 1000
		snap.Requests = append(snap.Requests, RouteStat{Key: key, Count: count, AvgLatencyMS: avg})
	}
	sort.Slice(snap.Requests, func(i, j int) bool { return snap.Requests[i].Key < snap.Requests[j].Key })
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.jobRuns {
		snap.JobRuns[k] = v
	}
	for k, v := range m.jobFailures {
		snap.JobFailures[k] = v
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
