package browser

import (
	"io"
	"sync"
)

// outputTap receives the browser process output from the moment it starts.
// Everything written before a sink is attached is dropped. Write never fails,
// so a broken sink cannot stop the browser from starting.
type outputTap struct {
	mu   sync.Mutex
	sink io.Writer
}

func (t *outputTap) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sink != nil {
		if _, err := t.sink.Write(p); err != nil {
			t.sink = nil
		}
	}
	return len(p), nil
}

// Attach routes subsequent output to w.
func (t *outputTap) Attach(w io.Writer) {
	t.mu.Lock()
	t.sink = w
	t.mu.Unlock()
}

// Detach stops forwarding output.
func (t *outputTap) Detach() {
	t.Attach(nil)
}
