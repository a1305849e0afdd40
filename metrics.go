package coroutine

import (
	"sync/atomic"
)

// Metrics is a point-in-time snapshot of scheduler statistics, as returned
// by [Scheduler.Metrics]. Collection is disabled by default; enable it with
// [WithMetrics].
//
// Thread Safety:
//   - The underlying counters use atomic operations, and a snapshot may be
//     taken from any goroutine, including while the host goroutine is
//     blocked inside [Scheduler.Resume].
type Metrics struct {
	// Resumes is the number of Resume calls that transferred control into a
	// coroutine (no-op resumes of dead ids are not counted).
	Resumes int64
	// Yields is the number of Yield calls.
	Yields int64
	// Created is the number of coroutines installed by New.
	Created int64
	// Completed is the number of coroutines whose function returned,
	// including by panic.
	Completed int64
	// Killed is the number of suspended coroutines unwound by Close.
	Killed int64
	// Live is the number of coroutines currently occupying slots.
	Live int64
	// CaptureHighWater is the largest live stack capture observed at any
	// yield, in bytes.
	CaptureHighWater int64
}

// metrics holds the scheduler's counters. All fields are updated atomically;
// the slower paths that update them are already per-transfer, so there is no
// batching.
type metrics struct {
	resumes          atomic.Int64
	yields           atomic.Int64
	created          atomic.Int64
	completed        atomic.Int64
	killed           atomic.Int64
	live             atomic.Int64
	captureHighWater atomic.Int64
}

// recordCapture updates the capture high-water mark. Captures only occur
// from the running coroutine, so there is a single writer, and a plain
// load-compare-store is sufficient.
func (m *metrics) recordCapture(n int) {
	if m == nil {
		return
	}
	if int64(n) > m.captureHighWater.Load() {
		m.captureHighWater.Store(int64(n))
	}
}

func (m *metrics) snapshot() Metrics {
	if m == nil {
		return Metrics{}
	}
	return Metrics{
		Resumes:          m.resumes.Load(),
		Yields:           m.yields.Load(),
		Created:          m.created.Load(),
		Completed:        m.completed.Load(),
		Killed:           m.killed.Load(),
		Live:             m.live.Load(),
		CaptureHighWater: m.captureHighWater.Load(),
	}
}

// Metrics returns a snapshot of the scheduler's runtime statistics. The
// zero value is returned unless metrics collection was enabled via
// [WithMetrics].
func (x *Scheduler) Metrics() Metrics {
	return x.metrics.snapshot()
}
