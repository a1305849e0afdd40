package coroutine

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// schedulerOptions holds configuration options for Scheduler creation.
type schedulerOptions struct {
	logger          *logiface.Logger[logiface.Event]
	stackBudget     int
	initialCapacity int
	metricsEnabled  bool
}

// Option configures a Scheduler instance.
type Option interface {
	applyScheduler(*schedulerOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applySchedulerFunc func(*schedulerOptions) error
}

func (o *optionImpl) applyScheduler(opts *schedulerOptions) error {
	return o.applySchedulerFunc(opts)
}

// WithStackBudget sets the stack budget, in bytes, which bounds the live
// stack extent a coroutine may hold at any yield point. A coroutine whose
// capture reaches the budget is a fatal error. Defaults to
// [DefaultStackBudget] (1 MiB); the budget must exceed the peak live depth
// of every coroutine the scheduler will run.
func WithStackBudget(n int) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		if n <= 0 {
			return fmt.Errorf(`coroutine: stack budget must be positive: %d`, n)
		}
		opts.stackBudget = n
		return nil
	}}
}

// WithInitialCapacity sets the initial capacity of the slot table. The table
// grows by doubling whenever it fills. Defaults to [DefaultCapacity].
func WithInitialCapacity(n int) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		if n <= 0 {
			return fmt.Errorf(`coroutine: initial capacity must be positive: %d`, n)
		}
		opts.initialCapacity = n
		return nil
	}}
}

// WithLogger sets the logger used for scheduler lifecycle events. The
// logger may be nil (the default), which disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithMetrics enables runtime metrics collection on the Scheduler. When
// enabled, metrics can be accessed via [Scheduler.Metrics]. The counters are
// updated with atomic operations, adding minimal overhead to each transfer.
func WithMetrics(enabled bool) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// resolveSchedulerOptions applies Option instances to schedulerOptions.
func resolveSchedulerOptions(opts []Option) (*schedulerOptions, error) {
	cfg := &schedulerOptions{
		stackBudget:     DefaultStackBudget,
		initialCapacity: DefaultCapacity,
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyScheduler(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
