package comm

import (
	"context"
	"testing"
	"time"
)

func TestLineQueueFIFO(t *testing.T) {
	q := NewLineQueue()
	q.Push("a")
	q.Push("b")
	q.Push("c")
	if got := q.Len(); got != 3 {
		t.Fatalf("expected length 3, got %d", got)
	}
	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.TryPop()
		if !ok {
			t.Fatalf("expected %q, queue was empty", want)
		}
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Fatalf("expected empty queue after draining")
	}
}

func TestLineQueuePopBlocksUntilPush(t *testing.T) {
	q := NewLineQueue()
	done := make(chan string, 1)
	go func() {
		line, ok := q.Pop(context.Background())
		if !ok {
			done <- "<closed>"
			return
		}
		done <- line
	}()
	time.Sleep(10 * time.Millisecond)
	q.Push("late")
	select {
	case got := <-done:
		if got != "late" {
			t.Fatalf("expected %q, got %q", "late", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("Pop did not wake after Push")
	}
}

func TestLineQueuePopHonorsContext(t *testing.T) {
	q := NewLineQueue()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		_, ok := q.Pop(ctx)
		done <- ok
	}()
	cancel()
	select {
	case ok := <-done:
		if ok {
			t.Fatalf("expected Pop to report no line after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatalf("Pop did not return after context cancellation")
	}
}

func TestLineQueueCloseDrainsRemainder(t *testing.T) {
	q := NewLineQueue()
	q.Push("first")
	q.Close()
	q.Push("dropped")

	line, ok := q.Pop(context.Background())
	if !ok || line != "first" {
		t.Fatalf("expected queued line to survive Close, got %q ok=%t", line, ok)
	}
	if _, ok := q.Pop(context.Background()); ok {
		t.Fatalf("expected closed queue to report no more lines")
	}
}

func TestLineQueueClear(t *testing.T) {
	q := NewLineQueue()
	q.Push("a")
	q.Push("b")
	q.Clear()
	if got := q.Len(); got != 0 {
		t.Fatalf("expected empty queue after Clear, got %d", got)
	}
}
