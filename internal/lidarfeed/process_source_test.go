package lidarfeed

import (
	"context"
	"testing"
	"time"
)

func TestProcessLineSourceStreamsLines(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := NewProcessLineSource(ctx, "/bin/sh", "-c", "printf 'theta: 1.00 Dist: 10\\ntheta: 2.00 Dist: 20\\n'")
	if err != nil {
		t.Fatalf("NewProcessLineSource: %v", err)
	}
	defer src.Close()

	var got []string
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case line, ok := <-src.Lines():
			if !ok {
				t.Fatalf("Lines channel closed early after %d lines, err=%v", len(got), src.Err())
			}
			got = append(got, line)
		case <-timeout:
			t.Fatal("timed out waiting for subprocess lines")
		}
	}

	want := []string{"theta: 1.00 Dist: 10", "theta: 2.00 Dist: 20"}
	for i, line := range want {
		if got[i] != line {
			t.Errorf("line %d: got %q, want %q", i, got[i], line)
		}
	}
}

func TestProcessLineSourceCloseKillsLongRunningProcess(t *testing.T) {
	ctx := context.Background()
	src, err := NewProcessLineSource(ctx, "/bin/sh", "-c", "sleep 60")
	if err != nil {
		t.Fatalf("NewProcessLineSource: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- src.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	case <-time.After(7 * time.Second):
		t.Fatal("Close did not return within the graceful-stop window plus margin")
	}
}
