package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ArulKumar8270/corpculture-invoicing/internal/domain/event"
)

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

func testEvent(t event.Type) *event.Event {
	return event.NewEvent(t, "draft-1", map[string]interface{}{"key": "value"})
}

func TestDispatch_RunsHandlersInRegistrationOrder(t *testing.T) {
	d := NewDispatcher()

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		d.SubscribeNamed(event.TypeDraftCreated, name, func(ctx context.Context, evt *event.Event) error {
			order = append(order, name)
			return nil
		})
	}

	if err := d.Dispatch(context.Background(), testEvent(event.TypeDraftCreated)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("handlers run = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("handler[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestDispatch_OnlyMatchingType(t *testing.T) {
	d := NewDispatcher()

	var called int
	d.Subscribe(event.TypeSubmissionSucceeded, func(ctx context.Context, evt *event.Event) error {
		called++
		return nil
	})

	if err := d.Dispatch(context.Background(), testEvent(event.TypeDraftCreated)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if called != 0 {
		t.Errorf("handler called %d times for a non-matching type", called)
	}
}

func TestDispatch_StopsAtFirstError(t *testing.T) {
	d := NewDispatcher()
	wantErr := errors.New("handler broke")

	var ranAfter bool
	d.SubscribeNamed(event.TypeDraftCreated, "failing", func(ctx context.Context, evt *event.Event) error {
		return wantErr
	})
	d.SubscribeNamed(event.TypeDraftCreated, "later", func(ctx context.Context, evt *event.Event) error {
		ranAfter = true
		return nil
	})

	err := d.Dispatch(context.Background(), testEvent(event.TypeDraftCreated))
	if err == nil {
		t.Fatal("expected error from failing handler")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped %v", err, wantErr)
	}
	if ranAfter {
		t.Error("handler after the failing one still ran")
	}
}

func TestDispatch_RecoversHandlerPanic(t *testing.T) {
	d := NewDispatcher()
	d.SubscribeNamed(event.TypeDraftCreated, "panicky", func(ctx context.Context, evt *event.Event) error {
		panic("boom")
	})

	err := d.Dispatch(context.Background(), testEvent(event.TypeDraftCreated))
	if err == nil {
		t.Fatal("expected panic to surface as an error")
	}
}

func TestDispatchAsync_AllHandlersRunBeforeClose(t *testing.T) {
	d := NewDispatcher()

	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		d.Subscribe(event.TypeSubmissionSucceeded, func(ctx context.Context, evt *event.Event) error {
			time.Sleep(10 * time.Millisecond)
			calls.Add(1)
			return nil
		})
	}

	d.DispatchAsync(context.Background(), testEvent(event.TypeSubmissionSucceeded))

	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("handlers run = %d, want 3", got)
	}
}

func TestDispatchAsync_HandlerErrorIsLoggedNotReturned(t *testing.T) {
	logger := &recordingLogger{}
	d := NewDispatcher(WithLogger(logger))

	d.Subscribe(event.TypeSubmissionWarning, func(ctx context.Context, evt *event.Event) error {
		return errors.New("subscriber failed")
	})

	d.DispatchAsync(context.Background(), testEvent(event.TypeSubmissionWarning))
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if logger.errorCount() == 0 {
		t.Error("async handler error was not logged")
	}
}

func TestDispatch_AfterCloseFails(t *testing.T) {
	d := NewDispatcher()
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := d.Dispatch(context.Background(), testEvent(event.TypeDraftCreated)); err == nil {
		t.Error("Dispatch after Close should fail")
	}
	if err := d.Close(); err == nil {
		t.Error("second Close should fail")
	}
}

func TestDispatchAsync_AfterCloseDropsEvent(t *testing.T) {
	logger := &recordingLogger{}
	d := NewDispatcher(WithLogger(logger))

	var called atomic.Int32
	d.Subscribe(event.TypeDraftCreated, func(ctx context.Context, evt *event.Event) error {
		called.Add(1)
		return nil
	})

	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	d.DispatchAsync(context.Background(), testEvent(event.TypeDraftCreated))
	if called.Load() != 0 {
		t.Error("handler ran after Close")
	}
	if logger.errorCount() == 0 {
		t.Error("dropped event was not logged")
	}
}

func TestConcurrentSubscribeAndDispatch(t *testing.T) {
	d := NewDispatcher()

	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			d.SubscribeNamed(event.TypeLineItemAdded, fmt.Sprintf("sub-%d", n), func(ctx context.Context, evt *event.Event) error {
				calls.Add(1)
				return nil
			})
		}(i)
		go func() {
			defer wg.Done()
			_ = d.Dispatch(context.Background(), testEvent(event.TypeLineItemAdded))
		}()
	}
	wg.Wait()

	// All ten handlers must be registered once the races settle.
	calls.Store(0)
	if err := d.Dispatch(context.Background(), testEvent(event.TypeLineItemAdded)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := calls.Load(); got != 10 {
		t.Errorf("handlers run = %d, want 10", got)
	}
}
