// Package metrics holds the Prometheus collectors shared by the commander,
// push/event listeners, vision source and hub, plus a lock-light local mirror
// used for periodic slog snapshots when no scrape target is configured.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/robo-ep/sdk/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommanderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "commander_request_duration_seconds",
		Help:    "Commander request/response round-trip latency by command verb.",
		Buckets: prometheus.DefBuckets,
	}, []string{"verb"})
	CommanderRemoteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commander_remote_errors_total",
		Help: "Total remote error responses by command verb.",
	}, []string{"verb"})
	PushRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "push_records_total",
		Help: "Total push telegram records decoded, by subsystem/group.",
	}, []string{"subsystem", "group"})
	EventRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_records_total",
		Help: "Total event telegram records decoded, by subsystem/kind.",
	}, []string{"subsystem", "kind"})
	MalformedTelegrams = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "malformed_telegrams_total",
		Help: "Total malformed push/event telegrams dropped, by source.",
	}, []string{"source"})
	QueueDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_dropped_total",
		Help: "Total records dropped by a bounded queue, by queue name and policy.",
	}, []string{"queue", "policy"})
	QueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "queue_depth",
		Help: "Current queue depth, by queue name.",
	}, []string{"queue"})
	HubWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hub_workers_running",
		Help: "Current number of running workers.",
	})
	HubState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hub_state",
		Help: "Hub state machine indicator (value is always 1 for the current state).",
	}, []string{"state"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version"})

	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Error label constants (stable label values bound cardinality).
const (
	ErrIo        = "io"
	ErrTimeout   = "timeout"
	ErrHandshake = "handshake"
	ErrRemote    = "remote"
	ErrInvalid   = "invalid_arg"
	ErrParse     = "parse"
	ErrClosed    = "closed"
	ErrDiscovery = "discovery_timeout"
)

// Local atomics mirrored for cheap periodic logging without scraping Prometheus in-process.
var (
	localPushRecords  uint64
	localEventRecords uint64
	localMalformed    uint64
	localQueueDrops   uint64
	localErrors       uint64
)

// Snapshot is a cheap copy of the local counters.
type Snapshot struct {
	PushRecords  uint64
	EventRecords uint64
	Malformed    uint64
	QueueDrops   uint64
	Errors       uint64
}

func Snap() Snapshot {
	return Snapshot{
		PushRecords:  atomic.LoadUint64(&localPushRecords),
		EventRecords: atomic.LoadUint64(&localEventRecords),
		Malformed:    atomic.LoadUint64(&localMalformed),
		QueueDrops:   atomic.LoadUint64(&localQueueDrops),
		Errors:       atomic.LoadUint64(&localErrors),
	}
}

func IncPushRecord(subsystem, group string) {
	PushRecords.WithLabelValues(subsystem, group).Inc()
	atomic.AddUint64(&localPushRecords, 1)
}

func IncEventRecord(subsystem, kind string) {
	EventRecords.WithLabelValues(subsystem, kind).Inc()
	atomic.AddUint64(&localEventRecords, 1)
}

func IncMalformed(source string) {
	MalformedTelegrams.WithLabelValues(source).Inc()
	atomic.AddUint64(&localMalformed, 1)
}

func IncQueueDrop(queue, policy string) {
	QueueDropped.WithLabelValues(queue, policy).Inc()
	atomic.AddUint64(&localQueueDrops, 1)
}

func SetQueueDepth(queue string, n int) {
	QueueDepth.WithLabelValues(queue).Set(float64(n))
}

func SetHubWorkers(n int) { HubWorkers.Set(float64(n)) }

func SetHubState(state string, states []string) {
	for _, s := range states {
		if s == state {
			HubState.WithLabelValues(s).Set(1)
		} else {
			HubState.WithLabelValues(s).Set(0)
		}
	}
}

func IncError(label string) {
	Errors.WithLabelValues(label).Inc()
	atomic.AddUint64(&localErrors, 1)
}

func ObserveCommanderRequest(verb string, seconds float64) {
	CommanderRequestDuration.WithLabelValues(verb).Observe(seconds)
}

func IncCommanderRemoteError(verb string) {
	CommanderRemoteErrors.WithLabelValues(verb).Inc()
}

// InitBuildInfo sets the build info gauge and pre-registers bounded error label series.
func InitBuildInfo(version string) {
	BuildInfo.WithLabelValues(version).Set(1)
	for _, lbl := range []string{ErrIo, ErrTimeout, ErrHandshake, ErrRemote, ErrInvalid, ErrParse, ErrClosed, ErrDiscovery} {
		Errors.WithLabelValues(lbl).Add(0)
	}
}

// SetReadinessFunc registers a function used by /healthz and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil {
		return true
	}
	return fn()
}

// StartHTTP serves Prometheus metrics at /metrics and readiness at /healthz.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}
