package synth

import (
	"errors"
	"testing"
)

func TestRingFIFO(t *testing.T) {
	r := NewRing[int](8)
	for n := 0; n < 7; n++ {
		if err := r.Push(n); err != nil {
			t.Fatalf("push %d: %v", n, err)
		}
	}
	for n := 0; n < 7; n++ {
		got, ok := r.Pop()
		if !ok {
			t.Fatalf("pop %d: queue empty", n)
		}
		if got != n {
			t.Errorf("wrong pop order: want %v, got %v", n, got)
		}
	}
	if _, ok := r.Pop(); ok {
		t.Error("expected empty queue")
	}
}

func TestRingCapacity(t *testing.T) {
	r := NewRing[int](8)
	for n := 0; n < 7; n++ {
		if err := r.Push(n); err != nil {
			t.Fatalf("push %d: %v", n, err)
		}
	}
	if err := r.Push(7); !errors.Is(err, ErrQueueFull) {
		t.Errorf("want ErrQueueFull, got %v", err)
	}
	// one pop frees exactly one slot
	if _, ok := r.Pop(); !ok {
		t.Fatal("pop failed")
	}
	if err := r.Push(7); err != nil {
		t.Errorf("push after pop: %v", err)
	}
}

func TestRingPushAll(t *testing.T) {
	r := NewRing[int](8)

	if err := r.PushAll([]int{0, 1, 2, 3, 4, 5, 6, 7}); !errors.Is(err, ErrBufferTooBig) {
		t.Errorf("want ErrBufferTooBig, got %v", err)
	}

	if err := r.PushAll([]int{0, 1, 2, 3, 4}); err != nil {
		t.Fatalf("push batch: %v", err)
	}

	// only two slots left: the batch must be rejected whole
	if err := r.PushAll([]int{5, 6, 7}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("want ErrQueueFull, got %v", err)
	}
	if want, got := 5, r.Len(); want != got {
		t.Errorf("partial admission: want len %v, got %v", want, got)
	}

	if err := r.PushAll([]int{5, 6}); err != nil {
		t.Fatalf("push batch: %v", err)
	}
	for n := 0; n < 7; n++ {
		got, ok := r.Pop()
		if !ok || got != n {
			t.Errorf("pop %d: got %v, %v", n, got, ok)
		}
	}
}

func TestRingPopAll(t *testing.T) {
	r := NewRing[int](16)
	for n := 0; n < 10; n++ {
		if err := r.Push(n); err != nil {
			t.Fatal(err)
		}
	}
	out := make([]int, 4)
	got := r.PopAll(out)
	if want := []int{0, 1, 2, 3}; len(got) != len(want) {
		t.Fatalf("want %v items, got %v", len(want), len(got))
	}
	for i, v := range got {
		if v != i {
			t.Errorf("wrong item at %d: got %v", i, v)
		}
	}
	got = r.PopAll(make([]int, 16))
	if want, gotLen := 6, len(got); want != gotLen {
		t.Errorf("want %v remaining, got %v", want, gotLen)
	}
}

// TestRingConcurrent drives a producer and consumer goroutine hard across all
// head/tail combinations and checks nothing is lost, duplicated, or
// reordered.
func TestRingConcurrent(t *testing.T) {
	r := NewRing[int](64)
	const numItems = 1_000_000

	done := make(chan []int)
	go func() {
		var got []int
		buf := make([]int, 64)
		for len(got) < numItems {
			got = append(got, r.PopAll(buf)...)
		}
		done <- got
	}()

	for n := 0; n < numItems; {
		if err := r.Push(n); err == nil {
			n++
		}
	}

	got := <-done
	if want := numItems; want != len(got) {
		t.Fatalf("wrong number of items: want %v, got %v", want, len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("discontinuous item at %d: got %v", i, v)
		}
	}
}
