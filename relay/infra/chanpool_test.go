package infra

import (
	"context"
	"testing"
	"time"
)

func TestChanPool_BlocksWhenFullAndReleases(t *testing.T) {
	p := NewChanPool(1)

	release, ok := p.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, ok := p.Acquire(ctx); ok {
		t.Fatalf("expected second acquire to time out")
	}

	release()
	release2, ok := p.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected acquire after release to succeed")
	}
	release2()
}

func TestChanPool_ReleaseIsIdempotent(t *testing.T) {
	p := NewChanPool(2)

	release, ok := p.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected acquire to succeed")
	}
	if p.InFlight() != 1 {
		t.Fatalf("expected 1 in flight, got %d", p.InFlight())
	}

	release()
	release()
	if p.InFlight() != 0 {
		t.Fatalf("expected 0 in flight after double release, got %d", p.InFlight())
	}
	if p.Cap() != 2 {
		t.Fatalf("expected cap 2, got %d", p.Cap())
	}
}

func TestChanPool_CanceledContextNeverAcquires(t *testing.T) {
	p := NewChanPool(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := p.Acquire(ctx); ok {
		t.Fatalf("expected canceled ctx to fail even with free slots")
	}
}
