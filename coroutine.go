package coroutine

// Func is the task function executed by a coroutine. It receives the owning
// scheduler, which it may use to yield, and the opaque datum provided to
// [Scheduler.New]. When fn returns, the coroutine dies, and its slot is
// released before control returns to the resuming caller.
type Func func(s *Scheduler, data any)

// killSentinel is panicked at the yield point of a suspended coroutine when
// the scheduler closes, unwinding the coroutine function. The type is
// unexported so user code cannot forge it.
type killSentinel struct{}

// coroutine is the per-task record. It is a passive container: all state
// transitions are driven by the scheduler, from [Scheduler.Resume] and
// [Scheduler.Yield], or by the trampoline on its behalf.
//
// Every access to the mutable fields happens either on the host goroutine
// while the coroutine is parked, or on the coroutine's goroutine while the
// host is parked; the wake/park rendezvous orders the two. The killed field
// is the one exception, and is ordered by the close of wake.
type coroutine struct {
	fn   Func
	data any

	// sch is a back-reference to the owning scheduler. Non-owning; the
	// scheduler outlives all of its coroutines.
	sch *Scheduler

	// wake is the host→coroutine transfer signal. The coroutine's saved
	// context is its goroutine, parked receiving on this channel at the
	// yield point. Resume sends to transfer control in; Close closes it to
	// force an unwind.
	wake chan struct{}

	// stack holds the coroutine's live stack capture while Suspended, in
	// stack[:size]. The buffer capacity is a high-water mark: it grows to
	// exactly the capture length when exceeded, and is never shrunk. nil
	// while Ready, released at death.
	stack []byte
	size  int

	status Status

	// killed is set by Close, before wake is closed, and read by the
	// coroutine after its receive on wake completes.
	killed bool
}

func newCoroutine(s *Scheduler, fn Func, data any) *coroutine {
	return &coroutine{
		fn:   fn,
		data: data,
		sch:  s,
		wake: make(chan struct{}),
	}
}

// save copies a live stack capture into the private buffer. Reallocates to
// exactly the capture length when it exceeds the current capacity.
func (c *coroutine) save(src []byte) {
	if len(src) > cap(c.stack) {
		c.stack = make([]byte, len(src))
	}
	c.stack = c.stack[:cap(c.stack)]
	copy(c.stack, src)
	c.size = len(src)
}

// release frees the private stack buffer.
func (c *coroutine) release() {
	c.stack = nil
	c.size = 0
}
