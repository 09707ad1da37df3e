package authflow

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8}, sink)

	ctx := context.Background()
	d.Emit(ctx, AuditEvent{EventType: "first"})
	d.Emit(ctx, AuditEvent{EventType: "second"})
	d.Close()

	first := <-sink.Events()
	second := <-sink.Events()
	if first.EventType != "first" || second.EventType != "second" {
		t.Fatalf("expected ordered delivery, got %q then %q", first.EventType, second.EventType)
	}
}

func TestDispatcherDisabled(t *testing.T) {
	if d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{}); d != nil {
		t.Fatal("expected nil dispatcher when audit is disabled")
	}

	// A nil dispatcher must be safe to use.
	var d *auditDispatcher
	d.Emit(context.Background(), AuditEvent{EventType: "ignored"})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops from nil dispatcher")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// An unread sink wedges the worker on the first event; every buffered
	// slot after that fills and the rest must drop.
	blocker := make(chan AuditEvent)
	blocking := blockingSink{ch: blocker}

	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, blocking)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		d.Emit(ctx, AuditEvent{EventType: "evt"})
	}

	deadline := time.After(2 * time.Second)
	for d.Dropped() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected drops under backpressure")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// Unblock the worker so Close can drain.
	go func() {
		for range blocker {
		}
	}()
	d.Close()
}

type blockingSink struct {
	ch chan AuditEvent
}

func (s blockingSink) Emit(_ context.Context, event AuditEvent) {
	s.ch <- event
}

func TestDispatcherCloseDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16}, sink)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		d.Emit(ctx, AuditEvent{EventType: "evt"})
	}
	d.Close()

	for i := 0; i < 5; i++ {
		select {
		case <-sink.Events():
		default:
			t.Fatalf("expected 5 drained events, got %d", i)
		}
	}

	// Post-close emissions are discarded, not delivered.
	d.Emit(ctx, AuditEvent{EventType: "late"})
	select {
	case evt := <-sink.Events():
		t.Fatalf("unexpected event after close: %q", evt.EventType)
	default:
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		EventType: "password_login_success",
		UserID:    "member-1",
		Success:   true,
	})

	line := strings.TrimSpace(buf.String())
	var decoded AuditEvent
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", line, err)
	}
	if decoded.EventType != "password_login_success" || decoded.UserID != "member-1" || !decoded.Success {
		t.Fatalf("unexpected decoded event: %+v", decoded)
	}
}
