package cli

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSimpleProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := start
	p.now = func() time.Time { return clock }

	p.Start(4)
	clock = start.Add(2 * time.Second)
	p.Increment(false)
	p.Increment(true)

	out := buf.String()
	if !strings.Contains(out, "50.0% (2/4, 1 failed) 1.0 docs/s") {
		t.Errorf("output = %q", out)
	}

	done, failed := p.Counts()
	if done != 2 || failed != 1 {
		t.Errorf("Counts() = %d, %d; want 2, 1", done, failed)
	}

	p.Finish()
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Finish should end the line")
	}

	p.Error(errors.New("disk full"))
	if !strings.Contains(buf.String(), "Error: disk full") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSimpleProgress_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)
	p.Start(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Increment(i%10 == 0)
		}()
	}
	wg.Wait()

	done, failed := p.Counts()
	if done != 100 || failed != 10 {
		t.Errorf("Counts() = %d, %d; want 100, 10", done, failed)
	}
}

func TestSimpleProgress_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressReporter(&buf)
	p.Start(0)
	p.Increment(false)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
