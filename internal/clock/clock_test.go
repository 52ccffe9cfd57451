package clock

import (
	"testing"
	"time"
)

func TestFakeAdvanceFiresInDeadlineOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	var order []string
	f.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	f.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	f.AfterFunc(5*time.Second, func() { order = append(order, "c") })

	f.Advance(3 * time.Second)

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("Expected [a b], got %v", order)
	}
	if f.Pending() != 1 {
		t.Errorf("Expected 1 pending timer, got %d", f.Pending())
	}
	if !f.Now().Equal(start.Add(3 * time.Second)) {
		t.Errorf("Unexpected now: %v", f.Now())
	}
}

func TestFakeStop(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	fired := false
	timer := f.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("First Stop should report true")
	}
	if timer.Stop() {
		t.Error("Second Stop should report false")
	}

	f.Advance(time.Minute)
	if fired {
		t.Error("Stopped timer fired")
	}
	if f.Pending() != 0 {
		t.Errorf("Expected no pending timers, got %d", f.Pending())
	}
}

func TestFakeStopAfterFire(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	timer := f.AfterFunc(time.Second, func() {})
	f.Advance(time.Second)

	if timer.Stop() {
		t.Error("Stop after fire should report false")
	}
}

func TestFakeCallbackMayArmTimers(t *testing.T) {
	f := NewFake(time.Unix(0, 0))

	second := false
	f.AfterFunc(time.Second, func() {
		f.AfterFunc(time.Second, func() { second = true })
	})

	f.Advance(time.Second)
	if second {
		t.Fatal("Nested timer fired too early")
	}
	f.Advance(time.Second)
	if !second {
		t.Error("Nested timer did not fire")
	}
}

func TestFakeSetBackwards(t *testing.T) {
	start := time.Unix(100, 0)
	f := NewFake(start)
	fired := false
	f.AfterFunc(time.Second, func() { fired = true })

	f.Set(time.Unix(50, 0))
	if fired {
		t.Error("Moving backwards must not fire timers")
	}
	if !f.Now().Equal(time.Unix(50, 0)) {
		t.Errorf("Unexpected now: %v", f.Now())
	}
}
