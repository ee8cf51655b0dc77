package signal

import (
	"testing"
	"time"
)

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Unix(1_000, 0)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two events must pass")
	}
	if rl.Allow("a") {
		t.Fatal("third event inside the window must be rejected")
	}
	if !rl.Allow("b") {
		t.Fatal("limits are per connection")
	}

	now = now.Add(1100 * time.Millisecond)
	if !rl.Allow("a") {
		t.Fatal("window should have slid")
	}
}

func TestRateLimiter_Forget(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	if !rl.Allow("a") {
		t.Fatal("first event must pass")
	}
	rl.Forget("a")
	if !rl.Allow("a") {
		t.Fatal("forgotten connection starts fresh")
	}
}
