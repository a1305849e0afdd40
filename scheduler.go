package coroutine

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/joeycumines/logiface"
)

const (
	// None is the sentinel id reported by [Scheduler.Running] when no
	// coroutine is executing, i.e. the main context is live.
	None = -1

	// DefaultCapacity is the initial capacity of the slot table. The table
	// grows by doubling; see [WithInitialCapacity].
	DefaultCapacity = 16

	// DefaultStackBudget is the default bound on the live stack extent a
	// coroutine may hold at any yield point; see [WithStackBudget].
	DefaultStackBudget = 1 << 20
)

// Scheduler owns a set of coroutines, and is the entry point for every
// operation on them. Instances must be created with [Open].
//
// Control flow is asymmetric: the host goroutine resumes a coroutine, and
// that coroutine either runs to completion, or yields, transferring control
// back to the host. Coroutines never transfer directly to one another, and,
// outside of [Scheduler.Close], at most one coroutine executes at any
// instant; transfers are a strict
// rendezvous, so the scheduler and all of its coroutines amount to a single
// logical thread of execution.
//
// A Scheduler is not safe for concurrent use: the host must drive it from
// one goroutine at a time, and coroutine functions may only touch it via
// [Scheduler.Yield] (and the query methods) while they are the running
// coroutine. Multiple Scheduler instances are independent.
type Scheduler struct {
	logger  *logiface.Logger[logiface.Event]
	metrics *metrics

	// scratch is the capture buffer: every live stack capture lands here
	// before being copied out to the suspending coroutine's private buffer.
	// Its length is the stack budget, and a capture that fills it is fatal.
	scratch []byte

	// slots is the coroutine table, indexed by id. nil entries are free.
	slots []*coroutine

	// park is the coroutine→host transfer signal, for both yield and death.
	// Strict alternation means a single unbuffered channel serves every
	// coroutine.
	park chan struct{}

	// trap holds a panic value recovered from a coroutine function, to be
	// rethrown by the Resume call that was driving it.
	trap any

	// wg tracks live coroutine goroutines, so Close can wait for them.
	wg sync.WaitGroup

	// count is the number of occupied slots.
	count int

	// running is the id of the running coroutine, or None.
	running int

	closed bool
}

// Open constructs a Scheduler with an empty slot table, no coroutine
// running, and a capture buffer of the configured stack budget. The returned
// error is non-nil only for invalid options.
func Open(opts ...Option) (*Scheduler, error) {
	cfg, err := resolveSchedulerOptions(opts)
	if err != nil {
		return nil, err
	}
	x := &Scheduler{
		logger:  cfg.logger,
		scratch: make([]byte, cfg.stackBudget),
		slots:   make([]*coroutine, cfg.initialCapacity),
		park:    make(chan struct{}),
		running: None,
	}
	if cfg.metricsEnabled {
		x.metrics = &metrics{}
	}
	x.debug().
		Int(`budget`, cfg.stackBudget).
		Int(`capacity`, cfg.initialCapacity).
		Log(`scheduler opened`)
	return x, nil
}

// Close releases every still-present coroutine, then the slot table. Closing
// while coroutines are suspended is permitted: each one is unwound at its
// yield point (running its deferred statements), and Close blocks until all
// coroutine goroutines have exited. The unwinds are started together, so the
// deferred statements of distinct suspended coroutines run concurrently with
// one another. Close must not be called while a coroutine is running, and is
// otherwise idempotent.
func (x *Scheduler) Close() error {
	if x.running != None {
		panic(`coroutine: close while a coroutine is running`)
	}
	if x.closed {
		return nil
	}
	x.closed = true
	var killed int
	for _, c := range x.slots {
		if c != nil && c.status == Suspended {
			c.killed = true
			close(c.wake)
			killed++
		}
	}
	x.wg.Wait()
	x.slots = nil
	x.count = 0
	if x.metrics != nil {
		x.metrics.killed.Add(int64(killed))
		x.metrics.live.Store(0)
	}
	x.debug().Int(`killed`, killed).Log(`scheduler closed`)
	return nil
}

// New installs a coroutine in the Ready state, returning its slot id. The
// id is stable for the coroutine's lifetime; after it dies the id may be
// reused. fn does not start until the first [Scheduler.Resume]. Returns
// [ErrClosed] after Close; a nil fn panics.
func (x *Scheduler) New(fn Func, data any) (int, error) {
	if fn == nil {
		panic(`coroutine: nil coroutine function`)
	}
	if x.closed {
		return None, ErrClosed
	}
	c := newCoroutine(x, fn, data)
	id := None
	if x.count >= len(x.slots) {
		id = len(x.slots)
		slots := make([]*coroutine, len(x.slots)*2)
		copy(slots, x.slots)
		slots[id] = c
		x.slots = slots
	} else {
		for i, slot := range x.slots {
			if slot == nil {
				id = i
				x.slots[i] = c
				break
			}
		}
		if id == None {
			// count < len(slots) guarantees a free slot
			panic(`coroutine: slot table invariant violated`)
		}
	}
	x.count++
	if x.metrics != nil {
		x.metrics.created.Add(1)
		x.metrics.live.Add(1)
	}
	x.debug().Int(`id`, id).Int(`live`, x.count).Log(`coroutine created`)
	return id, nil
}

// Resume transfers control to the coroutine with the given id, returning
// when it next yields or dies. Resuming a dead id is a silent no-op.
//
// Preconditions, fatal on violation: no coroutine may be running (nested
// resume is illegal), and id must be within the slot table.
//
// If the coroutine's function panics, the coroutine dies, its slot is
// released, and the panic is rethrown to the caller wrapped in
// [*PanicError].
func (x *Scheduler) Resume(id int) {
	if x.running != None {
		panic(`coroutine: resume while another coroutine is running`)
	}
	if id < 0 || id >= len(x.slots) {
		panic(fmt.Sprintf(`coroutine: resume of out of range id %d`, id))
	}
	c := x.slots[id]
	if c == nil {
		// Already dead. Race-free hosts may legitimately resume an id that
		// completed on a previous turn, so this is not an error.
		return
	}
	switch c.status {
	case Ready:
		c.status = Running
		x.running = id
		x.wg.Add(1)
		x.debug().Int(`id`, id).Log(`coroutine started`)
		go x.trampoline(c, id)
	case Suspended:
		c.status = Running
		x.running = id
		x.debug().Int(`id`, id).Log(`coroutine resumed`)
		c.wake <- struct{}{}
	default:
		panic(fmt.Sprintf(`coroutine: resume of %v coroutine %d`, c.status, id))
	}
	if x.metrics != nil {
		x.metrics.resumes.Add(1)
	}
	<-x.park
	if r := x.trap; r != nil {
		x.trap = nil
		panic(&PanicError{Value: r})
	}
}

// Yield suspends the running coroutine, transferring control back to the
// Resume call that is driving it. The coroutine's live stack extent is
// captured before it parks; a capture that reaches the stack budget is
// fatal. Yield returns when the coroutine is next resumed.
//
// Yield must be called from inside a running coroutine; calling it with no
// coroutine running is fatal.
func (x *Scheduler) Yield() {
	id := x.running
	if id == None {
		panic(`coroutine: yield with no coroutine running`)
	}
	c := x.slots[id]
	n := runtime.Stack(x.scratch, false)
	if n >= len(x.scratch) {
		panic(fmt.Sprintf(`coroutine: live stack exceeds the %d byte stack budget`, len(x.scratch)))
	}
	c.save(x.scratch[:n])
	c.status = Suspended
	x.running = None
	if x.metrics != nil {
		x.metrics.yields.Add(1)
		x.metrics.recordCapture(n)
	}
	x.debug().Int(`id`, id).Int(`captured`, n).Log(`coroutine suspended`)
	x.park <- struct{}{}
	<-c.wake
	if c.killed {
		panic(killSentinel{})
	}
}

// trampoline is the entry point of a coroutine's goroutine. It invokes the
// task function, and on return performs the death sequence: release the
// stack capture, null the slot, decrement the live count, clear the running
// id, and hand control back to the host. Used in a go statement, by Resume.
func (x *Scheduler) trampoline(c *coroutine, id int) {
	defer x.wg.Done()
	defer func() {
		r := recover()
		if _, ok := r.(killSentinel); ok || x.closed {
			// Unwound by Close, which owns the scheduler state and discards
			// it wholesale; the goroutine only needs to exit. The closed
			// check catches a task function that recovered the unwind.
			return
		}
		c.release()
		c.status = Dead
		x.slots[id] = nil
		x.count--
		x.running = None
		if x.metrics != nil {
			x.metrics.completed.Add(1)
			x.metrics.live.Add(-1)
		}
		x.debug().Int(`id`, id).Int(`live`, x.count).Log(`coroutine returned`)
		if r != nil {
			x.trap = r
		}
		x.park <- struct{}{}
	}()
	c.fn(x, c.data)
}

// Status reports the lifecycle state of the given id. Dead is reported for
// any in-range id whose slot is free. An out-of-range id is fatal.
func (x *Scheduler) Status(id int) Status {
	if id < 0 || id >= len(x.slots) {
		panic(fmt.Sprintf(`coroutine: status of out of range id %d`, id))
	}
	if c := x.slots[id]; c != nil {
		return c.status
	}
	return Dead
}

// Running returns the id of the currently running coroutine, or [None].
func (x *Scheduler) Running() int {
	return x.running
}

// Len returns the number of live coroutines.
func (x *Scheduler) Len() int {
	return x.count
}

// Cap returns the current capacity of the slot table.
func (x *Scheduler) Cap() int {
	return len(x.slots)
}

// Stack returns a copy of the live stack capture of a suspended coroutine,
// taken at its yield point, in the format produced by [runtime.Stack]. It
// returns nil unless the coroutine is Suspended. An out-of-range id is
// fatal.
func (x *Scheduler) Stack(id int) []byte {
	if id < 0 || id >= len(x.slots) {
		panic(fmt.Sprintf(`coroutine: stack of out of range id %d`, id))
	}
	c := x.slots[id]
	if c == nil || c.status != Suspended {
		return nil
	}
	out := make([]byte, c.size)
	copy(out, c.stack[:c.size])
	return out
}
