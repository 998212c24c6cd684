package goCognito

import (
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"
)

func TestDispatcherDeliversToSink(t *testing.T) {
	sink := NewChannelSink(4)
	d := newAuditDispatcher(AuditConfig{Enabled: true, QueueSize: 4}, sink)
	defer d.Close()

	d.Emit(AuditEvent{EventType: auditEventInitiateAuth, Username: "alice", Success: true})

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventInitiateAuth || event.Username != "alice" || !event.Success {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event arrived at the sink")
	}
}

func TestDispatcherDropsUnderBackpressure(t *testing.T) {
	release := make(chan struct{})
	blocking := SenderBlockedSink{release: release}

	d := newAuditDispatcher(AuditConfig{Enabled: true, QueueSize: 1}, &blocking)
	defer d.Close()

	// First event occupies the worker, second fills the queue.
	d.Emit(AuditEvent{EventType: "e1"})
	blocking.awaitStarted(t)
	d.Emit(AuditEvent{EventType: "e2"})

	// With the worker blocked and the queue full, further events drop.
	deadline := time.Now().Add(2 * time.Second)
	for d.Dropped() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no events were dropped under backpressure")
		}
		d.Emit(AuditEvent{EventType: "overflow"})
	}

	close(release)
}

// SenderBlockedSink blocks on the first Emit until released, so tests can
// hold the dispatcher worker in place.
type SenderBlockedSink struct {
	release <-chan struct{}
	started atomic.Bool
}

func (s *SenderBlockedSink) Emit(_ context.Context, _ AuditEvent) {
	if s.started.CompareAndSwap(false, true) {
		<-s.release
	}
}

func (s *SenderBlockedSink) awaitStarted(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !s.started.Load() {
		if time.Now().After(deadline) {
			t.Fatal("worker never picked up the first event")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDispatcherCloseDrains(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, QueueSize: 8}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(AuditEvent{EventType: auditEventListUsers})
	}
	d.Close()

	received := 0
	for {
		select {
		case <-sink.Events():
			received++
		default:
			if received != 5 {
				t.Fatalf("received %d events after Close, want 5", received)
			}
			return
		}
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		EventType: auditEventAdminCreateUser,
		Username:  "alice",
		Success:   true,
	})

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not one JSON object per line: %v", err)
	}
	if decoded.EventType != auditEventAdminCreateUser || decoded.Username != "alice" {
		t.Fatalf("unexpected event %+v", decoded)
	}
}

func TestEngineEmitsAuditEvents(t *testing.T) {
	sink := NewChannelSink(16)
	e := newTestEngine(t, func(cfg *Config, b *Builder) {
		cfg.Audit.Enabled = true
		cfg.Audit.QueueSize = 16
		b.WithAuditSink(sink)
	})
	seedPool(t, e, "OFF")

	_, err := e.AdminCreateUser(context.Background(), AdminCreateUserRequest{
		UserPoolID:    testPoolID,
		Username:      "alice",
		MessageAction: MessageActionSuppress,
	})
	if err != nil {
		t.Fatalf("AdminCreateUser: %v", err)
	}

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventAdminCreateUser || event.Username != "alice" || !event.Success {
			t.Fatalf("unexpected event %+v", event)
		}
		if !event.Timestamp.Equal(e.clock.Now()) {
			t.Fatalf("timestamp = %v, want the engine clock's %v", event.Timestamp, e.clock.Now())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no audit event arrived")
	}
}
