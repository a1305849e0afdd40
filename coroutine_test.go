package coroutine

import (
	"bytes"
	"strings"
	"testing"
)

func TestCoroutine_stackPreservedAcrossYield(t *testing.T) {
	t.Parallel()

	s, err := Open()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var mismatches int
	id, _ := s.New(func(s *Scheduler, data any) {
		var local [1024]byte
		for i := range local {
			local[i] = byte(i*31 + 7)
		}
		s.Yield()
		for i := range local {
			if local[i] != byte(i*31+7) {
				mismatches++
			}
		}
	}, nil)

	s.Resume(id)
	s.Resume(id)
	if got := s.Status(id); got != Dead {
		t.Fatalf(`status is %v, want Dead`, got)
	}
	if mismatches != 0 {
		t.Fatalf(`%d bytes differed after yield`, mismatches)
	}
}

func TestCoroutine_stackCapture(t *testing.T) {
	t.Parallel()

	s, err := Open()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	id, _ := s.New(func(s *Scheduler, data any) {
		s.Yield() // shallow
		var rec func(n int)
		rec = func(n int) {
			if n == 0 {
				s.Yield() // deep
				return
			}
			rec(n - 1)
		}
		rec(64)
		s.Yield() // shallow again
	}, nil)

	if got := s.Stack(id); got != nil {
		t.Fatalf(`Ready coroutine has a stack capture of %d bytes`, len(got))
	}

	s.Resume(id)
	shallow := s.Stack(id)
	if len(shallow) == 0 {
		t.Fatal(`no capture after a shallow yield`)
	}
	if !bytes.HasPrefix(shallow, []byte(`goroutine `)) {
		t.Fatalf(`capture does not look like a stack trace: %q`, shallow[:min(len(shallow), 40)])
	}

	s.Resume(id)
	deep := s.Stack(id)
	if len(deep) <= len(shallow) {
		t.Fatalf(`deep capture is %d bytes, shallow was %d`, len(deep), len(shallow))
	}
	highWater := cap(s.slots[id].stack)
	if highWater < len(deep) {
		t.Fatalf(`capture buffer capacity %d is below the capture size %d`, highWater, len(deep))
	}

	s.Resume(id)
	again := s.Stack(id)
	if len(again) >= len(deep) {
		t.Fatalf(`shallow capture is %d bytes, deep was %d`, len(again), len(deep))
	}
	if got := cap(s.slots[id].stack); got != highWater {
		t.Fatalf(`capture buffer capacity changed from %d to %d: expected a high-water mark`, highWater, got)
	}

	s.Resume(id)
	if got := s.Stack(id); got != nil {
		t.Fatalf(`Dead coroutine has a stack capture of %d bytes`, len(got))
	}
}

func TestCoroutine_stackBudgetExceeded(t *testing.T) {
	t.Parallel()

	s, err := Open(WithStackBudget(64))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	id, _ := s.New(func(s *Scheduler, data any) {
		s.Yield() // any capture blows a 64 byte budget
	}, nil)

	defer func() {
		r := recover()
		pe, ok := r.(*PanicError)
		if !ok {
			t.Fatalf(`expected *PanicError, got %T: %v`, r, r)
		}
		if msg, ok := pe.Value.(string); !ok || !strings.Contains(msg, `stack budget`) {
			t.Fatalf(`unexpected panic value: %v`, pe.Value)
		}
		if got := s.Status(id); got != Dead {
			t.Fatalf(`status after fatal yield is %v, want Dead`, got)
		}
	}()
	s.Resume(id)
}
