// Structured logging for the coroutine package.
//
// Logging integrates with the logiface facade, rather than defining a local
// logger interface: the scheduler holds an optional
// *logiface.Logger[logiface.Event], wired via WithLogger, and every call
// site goes through the nil-safe fluent builder. With no logger configured
// the builders are nil, and field construction is skipped entirely.

package coroutine

import (
	"github.com/joeycumines/logiface"
)

// debug returns a builder for a debug-level event. Transfers are frequent,
// so everything the scheduler logs per-coroutine is at debug level.
func (x *Scheduler) debug() *logiface.Builder[logiface.Event] {
	return x.logger.Debug()
}
