package memory

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter()

	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "a", 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("attempt %d denied inside the budget", i+1)
		}
	}

	if ok, _ := rl.Allow(ctx, "a", 3, time.Minute); ok {
		t.Fatal("fourth attempt allowed inside the window")
	}

	// A different key has its own budget.
	if ok, _ := rl.Allow(ctx, "b", 3, time.Minute); !ok {
		t.Fatal("fresh key denied")
	}

	// Past the window the old attempts age out.
	now = now.Add(time.Minute + time.Second)
	if ok, _ := rl.Allow(ctx, "a", 3, time.Minute); !ok {
		t.Fatal("attempt denied after the window elapsed")
	}
}
