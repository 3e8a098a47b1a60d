// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/tamzrod/mvswitch/internal/status"
)

type fakeClient struct {
	regs     map[uint8]uint16
	failPort int
	calls    int
}

func (f *fakeClient) PortStatus(port uint8) (status.Snapshot, error) {
	f.calls++
	if f.failPort == int(port) {
		return status.Snapshot{}, errors.New("smi: timeout")
	}
	return status.Decode(port, f.regs[port]), nil
}

func TestPollOnce_Success(t *testing.T) {
	fc := &fakeClient{regs: map[uint8]uint16{0: 0x0E00}, failPort: -1}
	p, err := New(Config{Interval: time.Second, Ports: []uint8{0, 1, 2}}, fc)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if len(res.Ports) != 3 {
		t.Fatalf("expected 3 ports, got %d", len(res.Ports))
	}
	if !res.Ports[0].Link || res.Ports[1].Link {
		t.Fatalf("unexpected link states %+v", res.Ports)
	}
}

func TestPollOnce_Failure(t *testing.T) {
	fc := &fakeClient{failPort: 1}
	p, err := New(Config{Interval: time.Second, Ports: []uint8{0, 1, 2}}, fc)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err == nil {
		t.Fatalf("expected error, got nil")
	}
	if res.Ports != nil {
		t.Fatalf("expected no partial result, got %+v", res.Ports)
	}
	if fc.calls != 2 {
		t.Fatalf("expected abort after failing port, got %d calls", fc.calls)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Interval: 0, Ports: []uint8{0}}, &fakeClient{}); err == nil {
		t.Fatalf("expected interval error")
	}
	if _, err := New(Config{Interval: time.Second}, &fakeClient{}); err == nil {
		t.Fatalf("expected ports error")
	}
	if _, err := New(Config{Interval: time.Second, Ports: []uint8{0}}, nil); err == nil {
		t.Fatalf("expected client error")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	fc := &fakeClient{failPort: -1}
	p, _ := New(Config{Interval: time.Millisecond, Ports: []uint8{0}}, fc)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	<-out
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestWatcher_ReportsChangesOnly(t *testing.T) {
	w := NewWatcher(logr.Discard())

	first := PollResult{Ports: []status.Snapshot{status.Decode(0, 0), status.Decode(1, 0x0800)}}
	if got := w.Observe(first); len(got) != 2 {
		t.Fatalf("first observation: expected 2 changes, got %d", len(got))
	}
	if got := w.Observe(first); len(got) != 0 {
		t.Fatalf("repeat: expected no changes, got %+v", got)
	}

	next := PollResult{Ports: []status.Snapshot{status.Decode(0, 0x0800), status.Decode(1, 0x0800)}}
	got := w.Observe(next)
	if len(got) != 1 || got[0].Port != 0 || !got[0].Link {
		t.Fatalf("expected port 0 up, got %+v", got)
	}

	if got := w.Observe(PollResult{Err: errors.New("boom")}); got != nil {
		t.Fatalf("failed cycle must not report changes, got %+v", got)
	}
}
