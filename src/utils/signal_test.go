package utils

import (
	"testing"
	"time"
)

func receive[T any](t *testing.T, sub *Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.C():
		if !ok {
			t.Fatalf("Subscription closed unexpectedly")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for value")
	}
	var zero T
	return zero
}

func TestSignal_LastValueOnSubscribe(t *testing.T) {
	s := NewSignal(1)
	s.Set(2)
	s.Set(3)

	sub := s.Subscribe()
	defer sub.Close()

	if v := receive(t, sub); v != 3 {
		t.Errorf("Expected current value 3 on subscribe, got %d", v)
	}
}

func TestSignal_UpdatesInIssueOrder(t *testing.T) {
	s := NewSignal(0)
	sub := s.Subscribe()
	defer sub.Close()

	// Nobody reads while publishing; Set must not block.
	for i := 1; i <= 100; i++ {
		s.Set(i)
	}

	for expected := 0; expected <= 100; expected++ {
		if v := receive(t, sub); v != expected {
			t.Fatalf("Expected %d, got %d", expected, v)
		}
	}
}

func TestSignal_Update(t *testing.T) {
	s := NewSignal(10)
	got := s.Update(func(v int) int { return v + 5 })
	if got != 15 || s.Get() != 15 {
		t.Errorf("Expected 15, got %d / %d", got, s.Get())
	}
}

func TestSignal_CloseEndsSubscriptions(t *testing.T) {
	s := NewSignal("a")
	sub := s.Subscribe()
	receive(t, sub)

	s.Close()

	select {
	case _, ok := <-sub.C():
		if ok {
			t.Errorf("Expected closed channel after Signal.Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for close")
	}
	if s.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", s.SubscriberCount())
	}
}

func TestSubscription_CloseUnregisters(t *testing.T) {
	s := NewSignal(0)
	sub := s.Subscribe()
	if s.SubscriberCount() != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", s.SubscriberCount())
	}
	sub.Close()
	sub.Close()
	if s.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers after close, got %d", s.SubscriberCount())
	}
	s.Set(1)
}
