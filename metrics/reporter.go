package metrics

import (
	"sort"
	"sync"
	"time"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
)

// Backend receives periodic snapshots from a Reporter.
type Backend interface {
	Report(values map[string]float64) error
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(map[string]float64) error

// Report calls f.
func (f BackendFunc) Report(values map[string]float64) error { return f(values) }

// Reporter flattens a registry every interval and pushes the values to its
// backends. The generate command uses it to print search progress.
type Reporter struct {
	mu       sync.Mutex
	registry gethmetrics.Registry
	interval time.Duration
	backends []Backend
	onError  func(error)

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewReporter creates a reporter over r. onError, if non-nil, receives
// backend failures.
func NewReporter(r gethmetrics.Registry, interval time.Duration, onError func(error)) *Reporter {
	return &Reporter{registry: r, interval: interval, onError: onError}
}

// AddBackend registers a backend. Backends added while running are picked
// up on the next tick.
func (r *Reporter) AddBackend(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends = append(r.backends, b)
}

// Start begins periodic reporting. Calling Start on a running reporter is a
// no-op.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.interval <= 0 {
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	go r.loop(r.stopCh, r.doneCh)
}

// Stop halts reporting, blocks until the loop exits and then sends one
// final report so short runs are still visible.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stopCh)
	done := r.doneCh
	r.mu.Unlock()

	<-done
	r.ReportOnce()
}

// Running reports whether the loop is active.
func (r *Reporter) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Reporter) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.ReportOnce()
		}
	}
}

// ReportOnce snapshots the registry and sends it to every backend.
func (r *Reporter) ReportOnce() {
	values := Flatten(r.registry)

	r.mu.Lock()
	backends := append([]Backend(nil), r.backends...)
	r.mu.Unlock()

	for _, b := range backends {
		if err := b.Report(values); err != nil && r.onError != nil {
			r.onError(err)
		}
	}
}

// Flatten reads every metric in reg into a name to value map. Meters
// contribute ".count" and ".rate1", timers ".count" and ".mean" (in
// seconds).
func Flatten(reg gethmetrics.Registry) map[string]float64 {
	out := make(map[string]float64)
	reg.Each(func(name string, m interface{}) {
		switch m := m.(type) {
		case *gethmetrics.Counter:
			out[name] = float64(m.Snapshot().Count())
		case *gethmetrics.Gauge:
			out[name] = float64(m.Snapshot().Value())
		case *gethmetrics.Meter:
			s := m.Snapshot()
			out[name+".count"] = float64(s.Count())
			out[name+".rate1"] = s.Rate1()
		case *gethmetrics.Timer:
			s := m.Snapshot()
			out[name+".count"] = float64(s.Count())
			out[name+".mean"] = s.Mean() / float64(time.Second)
		}
	})
	return out
}

// Names returns the keys of values in sorted order.
func Names(values map[string]float64) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
