package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mintbay/marketgate/internal/domain"
)

func TestGetSetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewMetadataCache(time.Minute)

	if _, err := c.Get(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("empty cache: err = %v, want ErrNotFound", err)
	}

	md := domain.Metadata{Name: "Sunrise"}
	if err := c.Set(ctx, 1, md); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Sunrise" {
		t.Errorf("name = %q", got.Name)
	}

	if err := c.Invalidate(ctx, 1); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := c.Get(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("after invalidate: err = %v, want ErrNotFound", err)
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMetadataCache(10 * time.Minute)

	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, 7, domain.Metadata{Name: "Fleeting"}); err != nil {
		t.Fatal(err)
	}

	now = now.Add(9 * time.Minute)
	if _, err := c.Get(ctx, 7); err != nil {
		t.Fatalf("entry expired early: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := c.Get(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expired entry: err = %v, want ErrNotFound", err)
	}
}
