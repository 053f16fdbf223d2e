package browser

import (
	"errors"
	"testing"
)

type failingWriter struct{ calls int }

func (w *failingWriter) Write([]byte) (int, error) {
	w.calls++
	return 0, errors.New("disk full")
}

func TestOutputTapDropsEarlyOutput(t *testing.T) {
	tap := &outputTap{}

	n, err := tap.Write([]byte("DevTools listening on ws://x\n"))
	if err != nil || n != 29 {
		t.Fatalf("Write() = %d, %v", n, err)
	}

	sink := &syncBuffer{}
	tap.Attach(sink)
	_, _ = tap.Write([]byte("late line\n"))

	if got := sink.String(); got != "late line\n" {
		t.Errorf("sink got %q, want only output written after Attach", got)
	}

	tap.Detach()
	_, _ = tap.Write([]byte("after detach\n"))
	if got := sink.String(); got != "late line\n" {
		t.Errorf("sink got %q after Detach", got)
	}
}

func TestOutputTapNeverFails(t *testing.T) {
	tap := &outputTap{}
	w := &failingWriter{}
	tap.Attach(w)

	for range 3 {
		if _, err := tap.Write([]byte("x")); err != nil {
			t.Fatalf("tap returned error: %v", err)
		}
	}
	if w.calls != 1 {
		t.Errorf("broken sink should be dropped after first failure, got %d calls", w.calls)
	}
}
