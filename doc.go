// Package coroutine provides stackful asymmetric coroutines for Go: a set
// of logical tasks sharing a single logical thread of execution, transferring
// control among themselves only at explicit suspend and resume points.
//
// # Architecture
//
// The package is built around a [Scheduler] that owns a table of coroutine
// slots, the identity of the running coroutine, and a capture buffer bounded
// by a configurable stack budget. The host drives coroutines by id via
// [Scheduler.Resume]; a coroutine gives control back via [Scheduler.Yield],
// or by returning from its function, which releases its slot.
//
// Transfers are asymmetric: control always moves between the host (the
// "main" context) and exactly one coroutine, never directly between
// coroutines. There is no preemption, and outside of [Scheduler.Close] no
// two coroutines ever execute concurrently; every transfer is a strict
// rendezvous.
//
// # Execution Model
//
// Each coroutine is backed by a dedicated goroutine, parked at its
// suspension point. Resume wakes the goroutine and blocks the host; Yield
// captures the coroutine's live stack extent, wakes the host, and parks.
// The captured stack is held in a right-sized private buffer for as long as
// the coroutine stays suspended, and is available via [Scheduler.Stack] for
// inspection. The stack budget (default 1 MiB) bounds the live extent a
// coroutine may hold at any yield point; exceeding it is fatal.
//
// # Lifecycle
//
// A coroutine is created Ready, becomes Running on its first resume,
// alternates Running and Suspended as it yields and is resumed, and becomes
// Dead when its function returns. Death releases every resource the
// coroutine held, and frees its slot for reuse, before control returns to
// the resuming caller. [Scheduler.Close] releases any coroutines still
// present, unwinding suspended ones at their yield points so their deferred
// statements run. Close starts these unwinds together, so the deferred
// statements of distinct suspended coroutines run concurrently with one
// another.
//
// # Error Handling
//
// Programming errors (nested resume, out-of-range ids, yielding with no
// coroutine running, exceeding the stack budget) are fatal, and panic:
// this is a primitive on which higher-level runtimes are built, and silent
// recovery from misuse would hide bugs. Resuming a dead id is the one
// benign case, and is a silent no-op. A panic inside a coroutine function
// kills that coroutine, and is rethrown to the resuming caller wrapped in
// [*PanicError]. [Scheduler.New] reports [ErrClosed] after Close.
//
// # Thread Safety
//
// A Scheduler is confined to one goroutine at a time: the host drives it,
// and coroutine functions touch it only while they are the running
// coroutine. The rendezvous at each transfer orders all scheduler state
// between the two sides. Distinct Scheduler instances are independent, and
// may be driven from distinct goroutines.
//
// # Usage
//
//	s, err := coroutine.Open()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	id, _ := s.New(func(s *coroutine.Scheduler, data any) {
//		fmt.Println("step 1:", data)
//		s.Yield()
//		fmt.Println("step 2:", data)
//	}, "hello")
//
//	s.Resume(id) // prints "step 1: hello"
//	s.Resume(id) // prints "step 2: hello"; the coroutine is now dead
package coroutine
